// Package tracker holds the write paths: creating and toggling habits,
// logging food, journaling, goals and profile updates. Analytics are never
// computed here; callers read them back through analytics.Service.
package tracker

import (
	"fmt"
	"time"

	"github.com/brk3/wellnest/internal/analytics"
	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/internal/storage"
)

type Tracker struct {
	store storage.Store
	svc   *analytics.Service
}

func New(store storage.Store, svc *analytics.Service) *Tracker {
	return &Tracker{store: store, svc: svc}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", analytics.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", analytics.ErrUpstreamUnavailable, op, err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", analytics.ErrNotFound, kind, id)
}

// canonicalDay validates day and returns it in canonical form. It accepts a
// strict YYYY-MM-DD day, or an RFC3339 instant which is placed on the user's
// calendar. An empty day resolves to the user's today.
func (t *Tracker) canonicalDay(userID, day string) (string, error) {
	if day == "" {
		return t.svc.Today(userID)
	}
	if d, err := clock.ParseDay(day); err == nil {
		return d.Format(clock.DateFormat), nil
	}
	at, err := time.Parse(time.RFC3339Nano, day)
	if err != nil {
		return "", invalidf("date must be YYYY-MM-DD or an RFC3339 timestamp, got %q", day)
	}
	tz, err := t.svc.Timezone(userID)
	if err != nil {
		return "", err
	}
	return clock.DayString(at, tz), nil
}

func (t *Tracker) now() time.Time {
	return t.svc.Now().UTC()
}
