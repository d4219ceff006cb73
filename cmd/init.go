package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/spf13/cobra"
)

const configHeader = `# agrochat configuration
#
# recommend_url      JSON endpoint answering {"user_input", "imageUrl"} with {"recommendation"}
# upload_url         multipart endpoint taking the "file" field and answering {"imgUrl"}
# timeout            request timeout as a Go duration; "0s" waits forever
# forward_image_url  send the uploaded image URL along with the next chat message
# log_file           append logs here; empty logs to stderr (and nowhere while chatting)
# preview_width      upload thumbnail width in terminal cells; 0 hides it
#
# Every key can be overridden with an AGROCHAT_ environment variable,
# e.g. AGROCHAT_RECOMMEND_URL. Values starting with $ are expanded.

`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/agrochat/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %v", err)
		}

		configFile := filepath.Join(home, ".config", "agrochat", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %v", err)
		}

		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %v", err)
		}
		defer f.Close()

		if _, err := f.WriteString(configHeader); err != nil {
			return fmt.Errorf("failed to write config header: %v", err)
		}

		encoder := toml.NewEncoder(f)
		if err := encoder.Encode(config.NewDefaultConfig()); err != nil {
			return fmt.Errorf("failed to encode config: %v", err)
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
