package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	DefaultRecommendURL = "http://127.0.0.1:3000/recommend-crop"
	DefaultUploadURL    = "http://127.0.0.1:3001/agent"
)

// Config holds the configuration for the chat client
type Config struct {
	RecommendURL    string `toml:"recommend_url" mapstructure:"recommend_url"`         // Recommendation endpoint (JSON POST)
	UploadURL       string `toml:"upload_url" mapstructure:"upload_url"`               // Upload endpoint (multipart POST)
	Timeout         string `toml:"timeout" mapstructure:"timeout"`                     // Go duration; "0s" = no timeout
	ForwardImageURL bool   `toml:"forward_image_url" mapstructure:"forward_image_url"` // Send the uploaded image URL with chat messages
	LogFile         string `toml:"log_file" mapstructure:"log_file"`                   // Empty = stderr (discarded while the TUI runs)
	PreviewWidth    int    `toml:"preview_width" mapstructure:"preview_width"`         // Thumbnail width in cells (0 = no thumbnail)
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		RecommendURL:    DefaultRecommendURL,
		UploadURL:       DefaultUploadURL,
		Timeout:         "0s",
		ForwardImageURL: false,
		LogFile:         "",
		PreviewWidth:    24,
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.RecommendURL = expandEnvVar(config.RecommendURL)
	config.UploadURL = expandEnvVar(config.UploadURL)

	if config.LogFile != "" {
		absPath, err := ResolvePath(expandEnvVar(config.LogFile))
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %w", config.LogFile, err)
		}
		config.LogFile = absPath
	}

	if config.PreviewWidth < 0 {
		return nil, fmt.Errorf("preview_width must not be negative (got %d)", config.PreviewWidth)
	}

	return config, nil
}
