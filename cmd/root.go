/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/longkey1/agrochat/internal/httpclient"
	"github.com/longkey1/agrochat/internal/logging"
	"github.com/longkey1/agrochat/internal/recommend"
	"github.com/longkey1/agrochat/internal/upload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agrochat",
	Short: "Chat with farming assistants from the terminal",
	Long: `agrochat is a terminal client for an agricultural assistant service.
Pick one of three agents (LLM Assistant, Crop Advisor, Plant Doctor), chat with it,
and upload leaf images for the Plant Doctor.

Running agrochat without a subcommand opens the interactive chat.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chatCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/agrochat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("AGROCHAT")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "agrochat")

	defaultConfig := config.NewDefaultConfig()
	viper.SetDefault("recommend_url", defaultConfig.RecommendURL)
	viper.SetDefault("upload_url", defaultConfig.UploadURL)
	viper.SetDefault("timeout", defaultConfig.Timeout)
	viper.SetDefault("forward_image_url", defaultConfig.ForwardImageURL)
	viper.SetDefault("log_file", defaultConfig.LogFile)
	viper.SetDefault("preview_width", defaultConfig.PreviewWidth)

	viper.BindEnv("recommend_url", "AGROCHAT_RECOMMEND_URL")
	viper.BindEnv("upload_url", "AGROCHAT_UPLOAD_URL")
	viper.BindEnv("timeout", "AGROCHAT_TIMEOUT")
	viper.BindEnv("forward_image_url", "AGROCHAT_FORWARD_IMAGE_URL")
	viper.BindEnv("log_file", "AGROCHAT_LOG_FILE")
	viper.BindEnv("preview_width", "AGROCHAT_PREVIEW_WIDTH")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// System-wide config first (lower priority)
		for _, path := range []string{"/etc/agrochat", "/usr/local/etc/agrochat"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// User config merged on top
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			} else if verbose {
				fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
			}
		} else if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  AGROCHAT_RECOMMEND_URL:", viper.GetString("recommend_url"))
		fmt.Fprintln(os.Stderr, "  AGROCHAT_UPLOAD_URL:", viper.GetString("upload_url"))
		fmt.Fprintln(os.Stderr, "  AGROCHAT_TIMEOUT:", viper.GetString("timeout"))
	}
}

// setupLogging routes slog output for a command. Interactive commands pass
// interactive so that nothing is written over the screen.
func setupLogging(cfg *config.Config, interactive bool) (io.Closer, error) {
	if interactive && cfg.LogFile == "" {
		return logging.Discard(), nil
	}
	return logging.Setup(cfg.LogFile, verbose)
}

func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, err
	}
	return httpclient.New(timeout), nil
}

func newRecommendClient(cfg *config.Config, hc *http.Client) (*recommend.Client, error) {
	url, err := cfg.GetRecommendURL()
	if err != nil {
		return nil, err
	}
	return recommend.NewClient(url, hc), nil
}

func newUploadClient(cfg *config.Config, hc *http.Client) (*upload.Client, error) {
	url, err := cfg.GetUploadURL()
	if err != nil {
		return nil, err
	}
	return upload.NewClient(url, hc), nil
}
