package nudge

import (
	"context"

	"github.com/brk3/wellnest/pkg/wellness"
)

type Querier interface {
	QuickStats(ctx context.Context) (*wellness.QuickStats, error)
}
