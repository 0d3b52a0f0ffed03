package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/wootbridge/internal/bot"
	"github.com/user/wootbridge/internal/delivery"
	"github.com/user/wootbridge/internal/webhook"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := setupLogging(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks, err := openTaskStore(ctx, cfg)
	if err != nil {
		return err
	}

	client := chatwootClient(cfg)
	if !client.HasToken() {
		logger.Warn("CHATWOOT_API_TOKEN not set, commands will be answered with 400")
	}

	dispatcher := bot.New(bot.Options{
		InboxID:  cfg.Chatwoot.InboxID,
		HasToken: client.HasToken(),
		Sender:   delivery.NewSender(client),
		Tasks:    tasks,
	})
	srv := webhook.NewServer(dispatcher, logger)

	logger.Info("wootbridge started",
		"listen", cfg.HTTP.Listen,
		"chatwoot_base_url", cfg.Chatwoot.BaseURL,
		"inbox_id", cfg.Chatwoot.InboxID,
		"store_driver", cfg.Store.Driver,
		"log_level", cfg.LogLevel,
	)

	if err := srv.ListenAndServe(ctx, cfg.HTTP.Listen); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
