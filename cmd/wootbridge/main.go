package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/wootbridge/internal/config"
	"github.com/user/wootbridge/internal/logging"
	"github.com/user/wootbridge/internal/store"
	"github.com/user/wootbridge/internal/store/mongo"
	"github.com/user/wootbridge/internal/store/sqlite"
	"github.com/user/wootbridge/internal/types"
	"github.com/user/wootbridge/pkg/chatwoot"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "wootbridge",
	Short:        "Chatwoot webhook bot for analysis task lookups",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (YAML or JSON, optional)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return logger
}

func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		Collection: cfg.Store.Collection,
		EmailField: cfg.Store.EmailField,
		Limit:      cfg.Store.Limit,
	}
}

// openTaskStore builds the record store selected by store.driver.
func openTaskStore(ctx context.Context, cfg *config.Config) (types.TaskStore, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, cfg.SQLite.Path, storeOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	default:
		s, err := mongo.New(mongo.Config{
			URI:        cfg.Mongo.URI,
			Host:       cfg.Mongo.Host,
			Port:       cfg.Mongo.Port,
			User:       cfg.Mongo.User,
			Password:   cfg.Mongo.Password,
			AuthSource: cfg.Mongo.AuthSource,
			Database:   cfg.Mongo.Database,
		}, storeOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return s, nil
	}
}

func chatwootClient(cfg *config.Config) *chatwoot.Client {
	return chatwoot.New(chatwoot.Config{
		BaseURL:  cfg.Chatwoot.BaseURL,
		APIToken: cfg.Chatwoot.APIToken,
		Timeout:  cfg.Chatwoot.Timeout,
	})
}
