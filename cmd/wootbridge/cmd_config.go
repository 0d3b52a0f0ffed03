package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/wootbridge/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd, configGetCmd)

	configListCmd.Flags().String("format", "text", "output format: text or yaml")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		cfg := loadConfig()
		values, err := config.ListValues(cfg, true)
		if err != nil {
			return fmt.Errorf("list config: %w", err)
		}

		switch format {
		case "yaml":
			out, err := yaml.Marshal(config.Unflatten(values))
			if err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		case "text":
		default:
			return fmt.Errorf("unknown format %q (want text or yaml)", format)
		}

		// Sort keys for stable output
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(os.Stdout, "%s = %v\n", k, values[k])
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		values, err := config.ListValues(cfg, config.IsSecretKey(args[0]))
		if err != nil {
			return fmt.Errorf("list config: %w", err)
		}
		val, ok := values[args[0]]
		if !ok {
			return fmt.Errorf("unknown config key: %s", args[0])
		}
		fmt.Fprintln(os.Stdout, val)
		return nil
	},
}
