package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"code2pitch.app/relay/common/id"
	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/core/config"
	"code2pitch.app/relay/internal/app"
	"code2pitch.app/relay/internal/queue"
	"github.com/spf13/cobra"
)

var (
	flatOutput  bool
	eventsCount int64
)

func init() {
	generateCmd := &cobra.Command{
		Use:   "generate URL",
		Short: "Generate a pitch for a repository and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().BoolVar(&flatOutput, "flat", false, "print only the four sections")
	rootCmd.AddCommand(generateCmd)

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent pitch events from the Redis stream",
		RunE:  runEvents,
	}
	eventsCmd.Flags().Int64Var(&eventsCount, "count", 20, "number of events to show")
	rootCmd.AddCommand(eventsCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger.SetupWithWriter(cfg, os.Stderr)
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := id.Init(2); err != nil {
		return fmt.Errorf("initializing id generator: %w", err)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx = logger.WithLogFields(ctx, logger.LogFields{RequestID: logger.Ptr(id.NewRequestID())})
	resp, err := application.Services.Pitches().Generate(ctx, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if flatOutput {
		return enc.Encode(resp.Data)
	}
	return enc.Encode(resp)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Events.Enabled() {
		return errors.New("REDIS_URL is not set; pitch events are disabled")
	}

	ctx := context.Background()
	client, err := app.NewRedis(ctx, cfg.Events)
	if err != nil {
		return err
	}
	defer client.Close()

	events, err := queue.NewReader(client, cfg.Events.RedisStream).Recent(ctx, eventsCount)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STREAM ID\tREQUEST\tREPO\tSTATUS\tATTEMPTS\tDURATION\tDETAIL")
	for _, e := range events {
		detail := e.ErrorType
		if len(e.InvalidSections) > 0 {
			detail = strings.Join(e.InvalidSections, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.StreamID, e.RequestID, e.Repo, e.Status, e.Attempts, e.Duration, detail)
	}
	return w.Flush()
}
