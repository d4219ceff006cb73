package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDefaults(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	def := NewDefaultConfig()
	viper.SetDefault("recommend_url", def.RecommendURL)
	viper.SetDefault("upload_url", def.UploadURL)
	viper.SetDefault("timeout", def.Timeout)
	viper.SetDefault("forward_image_url", def.ForwardImageURL)
	viper.SetDefault("log_file", def.LogFile)
	viper.SetDefault("preview_width", def.PreviewWidth)
}

func TestLoadConfigDefaults(t *testing.T) {
	setDefaults(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultRecommendURL, cfg.RecommendURL)
	assert.Equal(t, DefaultUploadURL, cfg.UploadURL)
	assert.False(t, cfg.ForwardImageURL)
	assert.Equal(t, 24, cfg.PreviewWidth)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadConfigExpandsEnvironment(t *testing.T) {
	setDefaults(t)
	t.Setenv("FARM_RECOMMEND", "http://farm.local:3000/recommend-crop")
	t.Setenv("FARM_UPLOAD", "http://farm.local:3001/agent")
	viper.Set("recommend_url", "$FARM_RECOMMEND")
	viper.Set("upload_url", "${FARM_UPLOAD}")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://farm.local:3000/recommend-crop", cfg.RecommendURL)
	assert.Equal(t, "http://farm.local:3001/agent", cfg.UploadURL)
}

func TestLoadConfigResolvesLogFileAgainstConfigDir(t *testing.T) {
	setDefaults(t)
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("log_file = \"logs/agrochat.log\"\n"), 0o644))

	viper.SetConfigFile(configFile)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logs", "agrochat.log"), cfg.LogFile)
}

func TestLoadConfigRejectsNegativePreviewWidth(t *testing.T) {
	setDefaults(t)
	viper.Set("preview_width", -1)

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestGetEndpoints(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "default recommend url", value: DefaultRecommendURL},
		{name: "https url", value: "https://example.com/recommend-crop"},
		{name: "empty", value: "", wantErr: true},
		{name: "relative", value: "/recommend-crop", wantErr: true},
		{name: "unsupported scheme", value: "ftp://example.com/agent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RecommendURL: tt.value, UploadURL: tt.value}

			got, err := cfg.GetRecommendURL()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.value, got)
			}

			_, err = cfg.GetUploadURL()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestGetTimeout(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{value: "", want: 0},
		{value: "0s", want: 0},
		{value: "15s", want: 15 * time.Second},
		{value: "1m30s", want: 90 * time.Second},
		{value: "soon", wantErr: true},
		{value: "-1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := (&Config{Timeout: tt.value}).GetTimeout()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("AGROCHAT_TEST_VALUE", "expanded")

	assert.Equal(t, "plain", expandEnvVar("plain"))
	assert.Equal(t, "expanded", expandEnvVar("$AGROCHAT_TEST_VALUE"))
	assert.Equal(t, "expanded", expandEnvVar("${AGROCHAT_TEST_VALUE}"))
	assert.Equal(t, "", expandEnvVar("$AGROCHAT_TEST_UNSET"))
}
