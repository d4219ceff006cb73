/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/longkey1/agrochat/internal/mockbackend"
	"github.com/spf13/cobra"
)

var (
	recommendAddr string
	uploadAddr    string
)

// mockBackendCmd represents the mock-backend command
var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve canned recommendation and upload endpoints locally",
	Long: `Serve local stand-ins for both endpoints so the client can be tried offline.

  POST /recommend-crop   canned {"recommendation": ...} (400 on empty input)
  POST /agent            stores the "file" field in memory, returns {"imgUrl": ...}
  GET  /uploads/{name}   serves a stored file

Both listeners serve every route. Uploaded files are lost on exit.`,
	Args: cobra.NoArgs,
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "Recommendation endpoint: http://%s/recommend-crop\n", recommendAddr)
		fmt.Fprintf(os.Stderr, "Upload endpoint: http://%s/agent\n", uploadAddr)
		fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

		return mockbackend.New().ListenAndServe(ctx, recommendAddr, uploadAddr)
	},
}

func init() {
	rootCmd.AddCommand(mockBackendCmd)

	mockBackendCmd.Flags().StringVar(&recommendAddr, "recommend-addr", "127.0.0.1:3000", "Address for the recommendation endpoint")
	mockBackendCmd.Flags().StringVar(&uploadAddr, "upload-addr", "127.0.0.1:3001", "Address for the upload endpoint")
}
