package nudge

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/brk3/wellnest/internal/logger"
)

var nudgesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wellnest_nudges_total",
		Help: "Streak nudge runs by result",
	},
	[]string{"result"},
)

type Notifier interface {
	// SendNudge reminds the user that a streak of the given length, last
	// extended yesterday, ends unless something is done on day.
	SendNudge(ctx context.Context, streak int, day string) error
}

// Run checks today's stats and sends a nudge when the streak is at risk:
// nothing completed yet today while yesterday ended a run. It reports whether
// a nudge went out.
func Run(ctx context.Context, q Querier, n Notifier) (bool, error) {
	stats, err := q.QuickStats(ctx)
	if err != nil {
		nudgesTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("fetch stats: %w", err)
	}
	if !stats.StreakAtRisk() {
		logger.Debug("Streak not at risk, skipping nudge", "streak", stats.Streak, "yesterday_streak", stats.YesterdayStreak)
		nudgesTotal.WithLabelValues("skipped").Inc()
		return false, nil
	}

	logger.Info("Streak at risk, sending nudge", "yesterday_streak", stats.YesterdayStreak, "today", stats.Today)
	if err := n.SendNudge(ctx, stats.YesterdayStreak, stats.Today); err != nil {
		nudgesTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("send nudge: %w", err)
	}
	nudgesTotal.WithLabelValues("sent").Inc()
	return true, nil
}
