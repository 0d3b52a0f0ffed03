package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/wootbridge/internal/config"
	"github.com/user/wootbridge/internal/store/sqlite"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksImportCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the local task database",
}

var tasksImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load task documents from a JSON or YAML list into the SQLite store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		if cfg.Store.Driver != config.DriverSQLite {
			return fmt.Errorf("tasks import needs store.driver=%s, got %s", config.DriverSQLite, cfg.Store.Driver)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		// YAML is a superset of JSON, so one decoder covers both.
		var docs []map[string]any
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		s, err := sqlite.New(cmd.Context(), cfg.SQLite.Path, storeOptions(cfg))
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		if err := s.Insert(cmd.Context(), docs...); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Imported %d tasks into %s.\n", len(docs), cfg.SQLite.Path)
		return nil
	},
}
