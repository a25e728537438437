package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brk3/wellnest/internal/analytics"
	"github.com/brk3/wellnest/internal/apiclient"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/internal/nudge"
	"github.com/brk3/wellnest/internal/nudge/resend"
	"github.com/brk3/wellnest/internal/server"
	"github.com/brk3/wellnest/internal/storage/bolt"
	"github.com/brk3/wellnest/internal/tracker"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return startServer(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func startServer(ctx context.Context) error {
	store, err := bolt.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close db", "error", err)
		}
	}()

	svc := analytics.NewService(store, store, analytics.Options{
		DefaultTimezone:    cfg.DefaultTimezone,
		DefaultCalorieGoal: cfg.DefaultCalorieGoal,
	})
	srv := server.New(cfg, store, svc, tracker.New(store, svc), nil)

	if cfg.Nudge.Enabled {
		sched := nudge.NewScheduler(apiclient.New(cfg.APIBaseURL, cfg.APIKey), newNotifier())
		if err := sched.Start(cfg.Nudge.Schedule); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	return srv.ListenAndServe(ctx)
}

func newNotifier() *resend.ResendNotifier {
	return &resend.ResendNotifier{
		ApiKey: cfg.Nudge.ResendAPIKey,
		From:   cfg.Nudge.From,
		Email:  cfg.Nudge.To,
	}
}
