package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/brk3/wellnest/internal/config"
	"github.com/brk3/wellnest/internal/logger"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "wellnest",
	Short: "Track habits, food and mood, and see how your days add up",
	Long: `
	Wellnest is a personal wellness tracker. It serves an HTTP API for habits, food logs,
	journal entries and goals, computes timezone-aware streaks and period analytics, and
	can email a nudge when a streak is about to break.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func loadConfig() error {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	c, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	cfg = c
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	return nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $WELLNESS_CONFIG or config.yaml)")
}
