package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference in the given value
// Supports both $VAR and ${VAR} syntax
// If the environment variable is not set, returns empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// GetRecommendURL returns the validated recommendation endpoint
func (c *Config) GetRecommendURL() (string, error) {
	return validateEndpoint("recommend_url", c.RecommendURL)
}

// GetUploadURL returns the validated upload endpoint
func (c *Config) GetUploadURL() (string, error) {
	return validateEndpoint("upload_url", c.UploadURL)
}

// GetTimeout parses the request timeout. Zero means requests never time out.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative (got %s)", d)
	}
	return d, nil
}

func validateEndpoint(key, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%s is not configured. Set it in config file (%s) or environment variable (AGROCHAT_%s)", key, key, strings.ToUpper(key))
	}

	u, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid %s %q: expected an absolute http(s) URL", key, value)
	}

	return value, nil
}

// ResolvePath converts a relative path to absolute path if needed
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	// Get config file directory as base directory
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		// If no config file is used, fall back to current working directory
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir := filepath.Dir(configFile)
	if !filepath.IsAbs(configDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		configDir = filepath.Join(cwd, configDir)
	}

	return filepath.Join(configDir, path), nil
}
