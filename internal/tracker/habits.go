package tracker

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/brk3/wellnest/internal/analytics"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/pkg/wellness"
)

const maxHabitNameLength = 100

type HabitInput struct {
	Name           string `json:"name"`
	Emoji          string `json:"emoji"`
	Frequency      string `json:"frequency"`
	Times          *int   `json:"times"`
	Unit           string `json:"unit"`
	ReminderTime   string `json:"reminder_time"`
	EnableReminder bool   `json:"enable_reminder"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

func (t *Tracker) ListHabits(userID string) ([]wellness.Habit, error) {
	habits, err := t.store.FindHabitsByUser(userID)
	if err != nil {
		return nil, upstream("find habits", err)
	}
	if habits == nil {
		habits = []wellness.Habit{}
	}
	return habits, nil
}

func (t *Tracker) CreateHabit(userID string, in HabitInput) (wellness.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return wellness.Habit{}, invalidf("name is required")
	}
	if utf8.RuneCountInString(name) > maxHabitNameLength {
		return wellness.Habit{}, invalidf("name must be at most %d characters", maxHabitNameLength)
	}
	times := 1
	if in.Times != nil {
		times = *in.Times
	}
	if times < 1 {
		return wellness.Habit{}, invalidf("times must be at least 1")
	}

	start, err := t.canonicalDay(userID, in.StartDate)
	if err != nil {
		return wellness.Habit{}, err
	}
	var end string
	if in.EndDate != "" {
		if end, err = t.canonicalDay(userID, in.EndDate); err != nil {
			return wellness.Habit{}, err
		}
		if end < start {
			return wellness.Habit{}, invalidf("end_date %s is before start_date %s", end, start)
		}
	}

	now := t.now()
	h := wellness.Habit{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		Emoji:          orDefault(in.Emoji, wellness.DefaultEmoji),
		Frequency:      orDefault(in.Frequency, wellness.DefaultFrequency),
		Times:          times,
		Unit:           orDefault(in.Unit, wellness.DefaultUnit),
		ReminderTime:   in.ReminderTime,
		EnableReminder: in.EnableReminder,
		StartDate:      start,
		EndDate:        end,
		CompletedDates: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := t.store.PutHabit(userID, h); err != nil {
		return wellness.Habit{}, upstream("put habit", err)
	}
	logger.Info("Habit created", "user_id", userID, "habit_id", h.ID, "name", h.Name, "start_date", h.StartDate)
	return h, nil
}

// ToggleHabit flips completion of habitID on day. Future days are rejected
// before the habit is loaded.
func (t *Tracker) ToggleHabit(userID, habitID, day string) (wellness.Habit, error) {
	if day == "" {
		return wellness.Habit{}, invalidf("date is required")
	}
	day, err := t.canonicalDay(userID, day)
	if err != nil {
		return wellness.Habit{}, err
	}
	if err := t.svc.AssertNotFutureDate(userID, day); err != nil {
		return wellness.Habit{}, err
	}

	h, ok, err := t.store.GetHabit(userID, habitID)
	if err != nil {
		return wellness.Habit{}, upstream("get habit", err)
	}
	if !ok {
		return wellness.Habit{}, notFound("habit", habitID)
	}

	toggled := analytics.ToggleHabitCompletion(h, day)
	toggled.UpdatedAt = t.now()
	if err := t.store.PutHabit(userID, toggled); err != nil {
		return wellness.Habit{}, upstream("put habit", err)
	}
	logger.Debug("Habit completion toggled", "user_id", userID, "habit_id", habitID, "date", day,
		"completed", slices.Contains(toggled.CompletedDates, day))
	return toggled, nil
}

func (t *Tracker) DeleteHabit(userID, habitID string) error {
	ok, err := t.store.DeleteHabit(userID, habitID)
	if err != nil {
		return upstream("delete habit", err)
	}
	if !ok {
		return notFound("habit", habitID)
	}
	logger.Info("Habit deleted", "user_id", userID, "habit_id", habitID)
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
