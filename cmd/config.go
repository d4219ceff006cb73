package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, recommend_url, upload_url, timeout, forward_image_url, log_file, preview_width"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  agrochat config                  # Show all configuration
  agrochat config recommend_url    # Show only the recommendation endpoint
  agrochat config upload_url       # Show only the upload endpoint
  agrochat config timeout          # Show only the request timeout`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "recommend_url", "recommendurl":
				fmt.Println(cfg.RecommendURL)
			case "upload_url", "uploadurl":
				fmt.Println(cfg.UploadURL)
			case "timeout":
				fmt.Println(cfg.Timeout)
			case "forward_image_url", "forwardimageurl":
				fmt.Println(cfg.ForwardImageURL)
			case "log_file", "logfile":
				fmt.Println(cfg.LogFile)
			case "preview_width", "previewwidth":
				fmt.Println(cfg.PreviewWidth)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("RecommendURL: %s\n", cfg.RecommendURL)
		fmt.Printf("UploadURL: %s\n", cfg.UploadURL)
		fmt.Printf("Timeout: %s\n", cfg.Timeout)
		fmt.Printf("ForwardImageURL: %v\n", cfg.ForwardImageURL)
		fmt.Printf("LogFile: %s\n", cfg.LogFile)
		fmt.Printf("PreviewWidth: %d\n", cfg.PreviewWidth)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
