/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/longkey1/agrochat/internal/upload"
	"github.com/spf13/cobra"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <image>",
	Short: "Upload an image and print its URL",
	Long: `Upload an image file to the upload endpoint as multipart form data
(field "file") and print the URL the server stored it under.
On failure the cause is logged and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
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

		hc, err := newHTTPClient(cfg)
		if err != nil {
			return err
		}
		client, err := newUploadClient(cfg, hc)
		if err != nil {
			return err
		}

		imageURL, err := uploadImage(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), imageURL)
		return nil
	},
}

// uploadImage uploads the file at path. Failures are logged with their cause
// and reported with the fixed upload failure text only.
func uploadImage(ctx context.Context, client *upload.Client, path string) (string, error) {
	imageURL, err := client.UploadFile(ctx, path)
	if err != nil {
		slog.Error("Upload failed", "path", path, "error", err)
		return "", errors.New(upload.FailedText)
	}
	return imageURL, nil
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
