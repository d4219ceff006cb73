/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/longkey1/agrochat/internal/agrochat/config"
	"github.com/longkey1/agrochat/internal/tui"
	"github.com/spf13/cobra"
)

var (
	chatAgent        string
	chatForwardImage bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [agent]",
	Short: "Open the interactive chat",
	Long: `Open the interactive chat in the terminal.

Pick an agent with the arrow keys (or 1-3) and press enter, or pass its id
(llm, crop, disease) to open that chat directly. Inside a chat:
  enter           send the message
  esc, /back      back to the agent list (the conversation is discarded)
  /upload <path>  attach a leaf image (Plant Doctor only)
  /remove         remove the attached image
  /help           show the available commands
  ctrl+c, /quit   exit

Logs are written to log_file when configured and discarded otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		closer, err := setupLogging(cfg, true)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer closer.Close()

		hc, err := newHTTPClient(cfg)
		if err != nil {
			return err
		}
		recommender, err := newRecommendClient(cfg, hc)
		if err != nil {
			return err
		}
		uploader, err := newUploadClient(cfg, hc)
		if err != nil {
			return err
		}

		agentID := chatAgent
		if len(args) > 0 {
			agentID = args[0]
		}

		forward := cfg.ForwardImageURL
		if cmd.Flags().Changed("forward-image-url") {
			forward = chatForwardImage
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		return tui.Run(ctx, tui.Options{
			Recommender:     recommender,
			Uploader:        uploader,
			AgentID:         agentID,
			ForwardImageURL: forward,
			PreviewWidth:    cfg.PreviewWidth,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatAgent, "agent", "a", "", "Open the chat with this agent directly (llm, crop, disease)")
	chatCmd.Flags().BoolVar(&chatForwardImage, "forward-image-url", false, "Send the uploaded image URL along with the next message")
}
