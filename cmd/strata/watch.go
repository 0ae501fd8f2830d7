// FILE: stratacfg/strata/cmd/strata/watch.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratacfg/strata"
)

// newWatchCommand creates the watch subcommand
func newWatchCommand(flags *sourceFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <key> [key...]",
		Short: "Watch file sources and print keys as they change",
		Long: `Watch builds the layered configuration, then refreshes it whenever a file
source changes, printing the named keys after each published generation.
Stops on SIGINT or SIGTERM.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := flags.build()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKeys := func(gen uint64) {
				fmt.Fprintf(out, "generation %d:\n", gen)
				for _, key := range args {
					v, err := cfg.Get(key)
					if err != nil {
						fmt.Fprintf(out, "  %s: error: %v\n", key, err)
						continue
					}
					fmt.Fprintf(out, "  %s = %v\n", key, v)
				}
			}
			printKeys(cfg.Snapshot().Generation())

			cancel := cfg.OnRefresh(func(snap *strata.Snapshot) {
				printKeys(snap.Generation())
			})
			defer cancel()

			opts := strata.DefaultWatchOptions()
			if debounce > 0 {
				opts.Debounce = debounce
			}
			if err := cfg.WatchWithOptions(ctx, opts); err != nil {
				return err
			}
			defer cfg.StopWatch()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "coalesce file events for this long before refreshing")
	return cmd
}
