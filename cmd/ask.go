/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/longkey1/agrochat/internal/markup"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	askImageURL  string
	askImagePath string
	askFormat    string
	useEditor    bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the reply",
	Long: `Send a single message to the recommendation endpoint and print the reply.

If no message is provided as an argument, it is read from stdin. When stdin is a
terminal, a small form is shown to compose the message instead.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

Use --image to upload a leaf image first and send its URL with the message.
Failures print the same generic error text the chat shows; run with --verbose for the cause.

Output formats:
  terminal  bold spans rendered with terminal styles (default)
  plain     markup removed
  html      <strong> and <br /> markup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		closer, err := setupLogging(cfg, false)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer closer.Close()

		render, err := formatter(askFormat)
		if err != nil {
			return err
		}

		var message string
		switch {
		case useEditor:
			message, err = getMessageFromEditor()
			if err != nil {
				return fmt.Errorf("getting message from editor: %w", err)
			}
		case len(args) > 0:
			message = strings.Join(args, " ")
		case isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()):
			message, err = composeMessage()
			if err != nil {
				return err
			}
		default:
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = strings.TrimSpace(string(input))
		}

		if strings.TrimSpace(message) == "" {
			return errors.New("message is empty")
		}

		hc, err := newHTTPClient(cfg)
		if err != nil {
			return err
		}
		client, err := newRecommendClient(cfg, hc)
		if err != nil {
			return err
		}

		imageURL := askImageURL
		if askImagePath != "" {
			uploader, err := newUploadClient(cfg, hc)
			if err != nil {
				return err
			}
			imageURL, err = uploadImage(cmd.Context(), uploader, askImagePath)
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintln(os.Stderr, "Uploaded image:", imageURL)
			}
		}

		reply := client.Reply(cmd.Context(), message, imageURL)
		fmt.Fprintln(cmd.OutOrStdout(), render(reply))
		return nil
	},
}

// formatter returns the renderer for an output format name.
func formatter(name string) (func(string) string, error) {
	switch strings.ToLower(name) {
	case "", "terminal":
		bold := lipgloss.NewStyle().Bold(true)
		return func(s string) string { return markup.Terminal(s, bold) }, nil
	case "plain":
		return markup.Plain, nil
	case "html":
		return markup.HTML, nil
	default:
		return nil, fmt.Errorf("unknown format %q (available: terminal, plain, html)", name)
	}
}

// composeMessage asks for the message with an interactive form.
func composeMessage() (string, error) {
	var message string
	err := huh.NewText().
		Title("Your message").
		Placeholder("e.g. Which crop suits sandy soil at 25°C?").
		CharLimit(2000).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("message cannot be empty")
			}
			return nil
		}).
		Value(&message).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.New("aborted")
		}
		return "", fmt.Errorf("composing message: %w", err)
	}
	return strings.TrimSpace(message), nil
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	tmpFile, err := os.CreateTemp("", "agrochat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %v", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %v", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askImageURL, "image-url", "", "Image URL to send with the message")
	askCmd.Flags().StringVarP(&askImagePath, "image", "i", "", "Upload this image first and send its URL with the message")
	askCmd.Flags().StringVarP(&askFormat, "format", "f", "terminal", "Output format (terminal, plain, html)")
	askCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	askCmd.MarkFlagsMutuallyExclusive("image-url", "image")
}
