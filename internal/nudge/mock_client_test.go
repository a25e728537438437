package nudge

import (
	"context"

	"github.com/brk3/wellnest/pkg/wellness"
)

type mockClient struct {
	stats *wellness.QuickStats
	err   error
	calls int
}

func (f *mockClient) QuickStats(ctx context.Context) (*wellness.QuickStats, error) {
	f.calls++
	return f.stats, f.err
}
