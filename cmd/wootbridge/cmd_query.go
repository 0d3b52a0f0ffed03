package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/wootbridge/internal/bot"
	"github.com/user/wootbridge/internal/command"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <email> [email...]",
	Short: "Print the task report a /query would reply with",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		ctx := cmd.Context()

		tasks, err := openTaskStore(ctx, cfg)
		if err != nil {
			return err
		}
		dispatcher := bot.New(bot.Options{Tasks: tasks})

		// Each lookup opens its own connection, so they can run side by side.
		replies := make([]string, len(args))
		g, gctx := errgroup.WithContext(ctx)
		for i, email := range args {
			g.Go(func() error {
				replies[i] = dispatcher.Reply(gctx, command.Parse("/query "+email))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, reply := range replies {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintln(os.Stdout, reply)
		}
		return nil
	},
}
