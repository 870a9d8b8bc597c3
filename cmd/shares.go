package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/case-map-console/internal/bus"
)

var (
	sharesFollow   bool
	sharesGroup    string
	sharesConsumer string
	sharesTrim     int64
)

// sharesCmd represents the shares command
var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "Inspect the share and query streams",
	Long: `Inspect the Redis streams the browser publishes share actions and
filter queries to. Requires --redis or redis.url in the config file.

Examples:
  # Stream statistics
  case-map shares --redis redis://localhost:6379

  # Print share actions as they happen
  case-map shares --follow

  # Trim both streams to the newest 1000 entries
  case-map shares --trim 1000`,
	RunE: runShares,
}

func init() {
	rootCmd.AddCommand(sharesCmd)

	sharesCmd.Flags().BoolVarP(&sharesFollow, "follow", "f", false, "Print share actions as they are published")
	sharesCmd.Flags().StringVar(&sharesGroup, "group", "case-map-cli", "Consumer group used with --follow")
	sharesCmd.Flags().StringVar(&sharesConsumer, "consumer", "", "Consumer name used with --follow (default: hostname)")
	sharesCmd.Flags().Int64Var(&sharesTrim, "trim", 0, "Trim both streams to this many entries")
}

func runShares(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	if config.Redis.URL == "" {
		return fmt.Errorf("no Redis URL configured (use --redis)")
	}

	logger := log.New(os.Stderr, "[shares] ", log.LstdFlags)
	rb, err := bus.NewRedisBus(config.Redis.URL, logger)
	if err != nil {
		return err
	}
	defer rb.Close()

	if sharesTrim > 0 {
		for _, stream := range []string{bus.StreamShares, bus.StreamQueries} {
			if err := rb.CleanupOldMessages(ctx, stream, sharesTrim); err != nil {
				return err
			}
		}
	}

	if sharesFollow {
		consumer := sharesConsumer
		if consumer == "" {
			consumer, _ = os.Hostname()
		}
		out := cmd.OutOrStdout()
		err := rb.ReadSharesStream(ctx, sharesGroup, consumer, func(ctx context.Context, msg bus.ShareMessage) error {
			fmt.Fprintf(out, "%s  %-8s %-12s %s\n",
				time.Unix(msg.Timestamp, 0).Format("2006-01-02 15:04:05"), msg.Target, msg.CaseID, msg.URL)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to read shares: %w", err)
		}
		return nil
	}

	stats, err := rb.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stream stats: %w", err)
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, stats[k])
	}
	return nil
}
