// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the default slog logger. With an empty path logs go to stderr,
// otherwise they are appended to the file at path. The returned closer releases the file.
func Setup(path string, verbose bool) (io.Closer, error) {
	if path == "" {
		slog.SetDefault(slog.New(newHandler(os.Stderr, verbose)))
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(newHandler(f, verbose)))
	return f, nil
}

// Discard silences the default logger. Used while the terminal UI owns the screen
// and no log file was configured.
func Discard() io.Closer {
	slog.SetDefault(slog.New(slog.DiscardHandler))
	return nopCloser{}
}

func newHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}
