package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/longkey1/agrochat/internal/upload"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		want   string
	}{
		{name: "plain", format: "plain", input: "Grow **maize**\nnow", want: "Grow maize\nnow"},
		{name: "html", format: "HTML", input: "Grow **maize**\nnow", want: "Grow <strong>maize</strong><br />now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			render, err := formatter(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(tt.input))
		})
	}

	t.Run("terminal keeps the text", func(t *testing.T) {
		render, err := formatter("")
		require.NoError(t, err)
		assert.Contains(t, render("Grow **maize**"), "maize")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := formatter("pdf")
		assert.Error(t, err)
	})
}

func TestAgentsCommand(t *testing.T) {
	var out bytes.Buffer
	agentsCmd.SetOut(&out)
	t.Cleanup(func() { agentsCmd.SetOut(nil) })

	require.NoError(t, agentsCmd.RunE(agentsCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "llm"))
	assert.True(t, strings.HasPrefix(lines[3], "disease"))
	assert.Contains(t, lines[3], "yes")
}

func failingUploadServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"disk full"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaf.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o644))
	return path
}

func TestUploadImageHidesCause(t *testing.T) {
	srv := failingUploadServer(t)

	_, err := uploadImage(context.Background(), upload.NewClient(srv.URL, srv.Client()), writeImage(t))
	require.Error(t, err)
	assert.Equal(t, upload.FailedText, err.Error())
}

func TestAskWithFailingImageUpload(t *testing.T) {
	prevLogger := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prevLogger)
		viper.Reset()
		askImagePath = ""
	})

	var recommendCalls int
	rec := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recommendCalls++
		_, _ = w.Write([]byte(`{"recommendation":"ok"}`))
	}))
	t.Cleanup(rec.Close)
	up := failingUploadServer(t)

	viper.Reset()
	viper.Set("recommend_url", rec.URL)
	viper.Set("upload_url", up.URL)
	viper.Set("timeout", "5s")
	askImagePath = writeImage(t)

	var out bytes.Buffer
	askCmd.SetOut(&out)
	t.Cleanup(func() { askCmd.SetOut(nil) })
	askCmd.SetContext(context.Background())

	err := askCmd.RunE(askCmd, []string{"is", "this", "blight?"})
	require.Error(t, err)
	assert.Equal(t, upload.FailedText, err.Error())
	assert.NotContains(t, err.Error(), "500")
	assert.Zero(t, recommendCalls)
	assert.Empty(t, out.String())
}

func TestInitWritesCommentedDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrochat", "config.toml")
	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })

	require.NoError(t, initCmd.RunE(initCmd, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# agrochat configuration"))

	var got config.Config
	_, err = toml.Decode(string(data), &got)
	require.NoError(t, err)
	assert.Equal(t, *config.NewDefaultConfig(), got)

	assert.Error(t, initCmd.RunE(initCmd, nil), "existing file is not overwritten")
}
