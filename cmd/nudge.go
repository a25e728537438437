package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brk3/wellnest/internal/apiclient"
	"github.com/brk3/wellnest/internal/nudge"
)

var nudgeDaemon bool

var nudgeCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Email a reminder when today's streak is about to break",
	Long: `The "nudge" command checks today's stats on the server and sends an email when
nothing has been completed yet today but the days before form a streak. With --daemon
it keeps running and checks on the configured nudge.schedule.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Nudge.ResendAPIKey == "" {
			return fmt.Errorf("nudge.resend_api_key or WELLNESS_RESEND_API_KEY must be set")
		}
		if cfg.Nudge.To == "" {
			return fmt.Errorf("nudge.to must be set")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(cfg.APIBaseURL, cfg.APIKey)
		if !nudgeDaemon {
			sent, err := nudge.Run(cmd.Context(), client, newNotifier())
			if err != nil {
				return err
			}
			if sent {
				cmd.Println("Nudge sent to", cfg.Nudge.To)
			} else {
				cmd.Println("Streak not at risk, no nudge sent")
			}
			return nil
		}

		sched := nudge.NewScheduler(client, newNotifier())
		if err := sched.Start(cfg.Nudge.Schedule); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		sched.Stop(cmd.Context())
		return nil
	},
}

func init() {
	nudgeCmd.Flags().BoolVar(&nudgeDaemon, "daemon", false, "keep running and check on nudge.schedule")
	rootCmd.AddCommand(nudgeCmd)
}
