package nudge

import "context"

type mockNotifier struct {
	called bool
	streak int
	day    string
	err    error
}

func (m *mockNotifier) SendNudge(ctx context.Context, streak int, day string) error {
	m.called = true
	m.streak = streak
	m.day = day
	return m.err
}
