package tracker

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brk3/wellnest/internal/analytics"
	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/internal/storage/bolt"
	"github.com/brk3/wellnest/pkg/wellness"
)

func newTestTracker(t *testing.T, now time.Time, tz string) (*Tracker, *bolt.Store) {
	t.Helper()
	st, err := bolt.Open(filepath.Join(t.TempDir(), "wellnest.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if tz != "" {
		if err := st.PutUser(wellness.User{ID: "u1", Timezone: tz}); err != nil {
			t.Fatal(err)
		}
	}
	svc := analytics.NewService(st, st, analytics.Options{Clock: clock.Fixed(now)})
	return New(st, svc), st
}

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

func TestCreateHabit_Defaults(t *testing.T) {
	now := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
	tr, _ := newTestTracker(t, now, "Asia/Tokyo")

	h, err := tr.CreateHabit("u1", HabitInput{Name: "Meditation"})
	if err != nil {
		t.Fatal(err)
	}
	if h.ID == "" || h.Times != 1 || h.Emoji != wellness.DefaultEmoji || h.Unit != wellness.DefaultUnit || h.Frequency != wellness.DefaultFrequency {
		t.Fatalf("defaults not applied: %+v", h)
	}
	// 23:30 UTC is already the 11th in Tokyo.
	if h.StartDate != "2024-01-11" {
		t.Fatalf("start date = %s, want 2024-01-11", h.StartDate)
	}
	if h.CompletedDates == nil {
		t.Fatal("completed dates should be an empty list")
	}
}

func TestCreateHabit_Invalid(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "")

	tests := []struct {
		name string
		in   HabitInput
	}{
		{"missing name", HabitInput{}},
		{"blank name", HabitInput{Name: "   "}},
		{"zero times", HabitInput{Name: "Walk", Times: intp(0)}},
		{"bad start", HabitInput{Name: "Walk", StartDate: "10/01/2024"}},
		{"end before start", HabitInput{Name: "Walk", StartDate: "2024-01-10", EndDate: "2024-01-09"}},
		{"start with trailing junk", HabitInput{Name: "Walk", StartDate: "2024-01-05garbage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.CreateHabit("u1", tt.in); !errors.Is(err, analytics.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestToggleHabit(t *testing.T) {
	tr, st := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")
	h, err := tr.CreateHabit("u1", HabitInput{Name: "Walk", StartDate: "2024-01-01"})
	if err != nil {
		t.Fatal(err)
	}

	on, err := tr.ToggleHabit("u1", h.ID, "2024-01-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(on.CompletedDates) != 1 || on.CompletedDates[0] != "2024-01-09" {
		t.Fatalf("completed = %v", on.CompletedDates)
	}
	stored, _, _ := st.GetHabit("u1", h.ID)
	if len(stored.CompletedDates) != 1 {
		t.Fatalf("toggle not persisted: %v", stored.CompletedDates)
	}

	off, err := tr.ToggleHabit("u1", h.ID, "2024-01-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(off.CompletedDates) != 0 {
		t.Fatalf("round trip left %v", off.CompletedDates)
	}
}

func TestCreateHabit_NameTooLong(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "")

	_, err := tr.CreateHabit("u1", HabitInput{Name: strings.Repeat("a", maxHabitNameLength+1)})
	if !errors.Is(err, analytics.ErrInvalidInput) || !strings.Contains(err.Error(), "at most 100 characters") {
		t.Fatalf("got %v", err)
	}
	// Length counts characters, not bytes.
	if _, err := tr.CreateHabit("u1", HabitInput{Name: strings.Repeat("é", maxHabitNameLength)}); err != nil {
		t.Fatalf("100 two-byte characters rejected: %v", err)
	}
}

func TestToggleHabit_DateForms(t *testing.T) {
	// 12:00 UTC on the 10th is 21:00 in Tokyo.
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "Asia/Tokyo")
	h, err := tr.CreateHabit("u1", HabitInput{Name: "Walk", StartDate: "2024-01-01"})
	if err != nil {
		t.Fatal(err)
	}

	for _, day := range []string{"2024-01-05garbage", "2024-01-05T", "2024-1-5", "2024-01-05 10:00"} {
		if _, err := tr.ToggleHabit("u1", h.ID, day); !errors.Is(err, analytics.ErrInvalidInput) {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", day, err)
		}
	}

	// 23:00 at -05:00 is 13:00 on the 10th in Tokyo.
	on, err := tr.ToggleHabit("u1", h.ID, "2024-01-09T23:00:00-05:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(on.CompletedDates) != 1 || on.CompletedDates[0] != "2024-01-10" {
		t.Fatalf("completed = %v, want [2024-01-10]", on.CompletedDates)
	}
}

func TestToggleHabit_Errors(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")
	h, _ := tr.CreateHabit("u1", HabitInput{Name: "Walk"})

	if _, err := tr.ToggleHabit("u1", h.ID, "2024-01-11"); !errors.Is(err, analytics.ErrFutureDateNotAllowed) {
		t.Fatalf("future toggle: %v", err)
	}
	if _, err := tr.ToggleHabit("u1", h.ID, ""); !errors.Is(err, analytics.ErrInvalidInput) {
		t.Fatalf("empty date: %v", err)
	}
	if _, err := tr.ToggleHabit("u1", "missing", "2024-01-10"); !errors.Is(err, analytics.ErrNotFound) {
		t.Fatalf("missing habit: %v", err)
	}
	if _, err := tr.ToggleHabit("u2", h.ID, "2024-01-10"); !errors.Is(err, analytics.ErrNotFound) {
		t.Fatalf("other user's habit: %v", err)
	}
}

func TestDeleteHabit(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")
	h, _ := tr.CreateHabit("u1", HabitInput{Name: "Walk"})

	if err := tr.DeleteHabit("u1", h.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteHabit("u1", h.ID); !errors.Is(err, analytics.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	habits, _ := tr.ListHabits("u1")
	if len(habits) != 0 {
		t.Fatalf("habits left: %v", habits)
	}
}

func TestCreateFood_NormalizesToStartOfDay(t *testing.T) {
	tz := "America/New_York"
	tr, _ := newTestTracker(t, time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC), tz)

	f, err := tr.CreateFood("u1", FoodInput{Name: "Oats", Calories: 350, Date: "2024-03-10"})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := clock.StartOfDay("2024-03-10", tz)
	if !f.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", f.Date, want)
	}
	if f.MealType != wellness.DefaultMealType {
		t.Fatalf("meal type = %q", f.MealType)
	}
}

func TestCreateFood_MealTypeCase(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")

	f, err := tr.CreateFood("u1", FoodInput{Name: "Oats", Calories: 300, MealType: "breakfast", Date: "2024-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if f.MealType != "Breakfast" {
		t.Fatalf("meal type = %q, want Breakfast", f.MealType)
	}
}

func TestCreateFood_Invalid(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")

	if _, err := tr.CreateFood("u1", FoodInput{Calories: 10}); !errors.Is(err, analytics.ErrInvalidInput) {
		t.Fatalf("missing name: %v", err)
	}
	if _, err := tr.CreateFood("u1", FoodInput{Name: "Oats", Fats: -1}); !errors.Is(err, analytics.ErrInvalidInput) {
		t.Fatalf("negative fats: %v", err)
	}
	if _, err := tr.CreateFood("u1", FoodInput{Name: "Oats", Date: "2024-01-11"}); !errors.Is(err, analytics.ErrFutureDateNotAllowed) {
		t.Fatalf("future date: %v", err)
	}
}

func TestListFood_NewestFirst(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")
	for _, in := range []FoodInput{
		{Name: "a", Date: "2024-01-08"},
		{Name: "b", Date: "2024-01-10"},
		{Name: "c", Date: "2024-01-10"},
		{Name: "d", Date: "2024-01-09"},
	} {
		if _, err := tr.CreateFood("u1", in); err != nil {
			t.Fatal(err)
		}
	}
	logs, err := tr.ListFood("u1")
	if err != nil {
		t.Fatal(err)
	}
	var got string
	for _, f := range logs {
		got += f.Name
	}
	if got != "bcda" {
		t.Fatalf("order = %s, want bcda", got)
	}
}

func TestDeleteFood(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")
	f, _ := tr.CreateFood("u1", FoodInput{Name: "Oats"})

	if err := tr.DeleteFood("u2", f.ID); !errors.Is(err, analytics.ErrNotFound) {
		t.Fatalf("other user delete: %v", err)
	}
	if err := tr.DeleteFood("u1", f.ID); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertJournal(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tr, _ := newTestTracker(t, now, "UTC")

	first, created, err := tr.UpsertJournal("u1", JournalInput{Date: "2024-01-10", Entry: "tired"})
	if err != nil {
		t.Fatal(err)
	}
	if !created || first.MoodRating != wellness.DefaultMoodRating {
		t.Fatalf("created=%v mood=%d", created, first.MoodRating)
	}

	second, created, err := tr.UpsertJournal("u1", JournalInput{Date: "2024-01-10", Entry: "better", MoodRating: 4})
	if err != nil {
		t.Fatal(err)
	}
	if created || second.ID != first.ID || second.Entry != "better" || second.MoodRating != 4 {
		t.Fatalf("update did not replace entry: created=%v %+v", created, second)
	}

	got, err := tr.Journal("u1", "2024-01-10")
	if err != nil || got.Entry != "better" {
		t.Fatalf("Journal = %+v, %v", got, err)
	}
	if _, err := tr.Journal("u1", "2024-01-09"); !errors.Is(err, analytics.ErrNotFound) {
		t.Fatalf("missing day: %v", err)
	}
}

func TestUpsertJournal_Invalid(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")

	if _, _, err := tr.UpsertJournal("u1", JournalInput{Date: "2024-01-11"}); !errors.Is(err, analytics.ErrFutureDateNotAllowed) {
		t.Fatalf("future: %v", err)
	}
	if _, _, err := tr.UpsertJournal("u1", JournalInput{Date: "2024-01-10", MoodRating: 6}); !errors.Is(err, analytics.ErrInvalidInput) {
		t.Fatalf("mood: %v", err)
	}
}

func TestListJournal_NewestFirst(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")
	for _, d := range []string{"2024-01-02", "2024-01-09", "2024-01-05"} {
		if _, _, err := tr.UpsertJournal("u1", JournalInput{Date: d}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := tr.ListJournal("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Date != "2024-01-09" || entries[2].Date != "2024-01-02" {
		t.Fatalf("order: %+v", entries)
	}
}

func TestGoals(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "UTC")

	g, set, err := tr.Goals("u1")
	if err != nil || set {
		t.Fatalf("Goals = %+v, %v, %v", g, set, err)
	}
	if g.PreferredUnits.Weight != "kg" || g.PreferredUnits.Distance != "km" {
		t.Fatalf("default units %+v", g.PreferredUnits)
	}

	g.DailyCalories = 1800
	if _, err := tr.PutGoals("u1", g); err != nil {
		t.Fatal(err)
	}
	got, set, _ := tr.Goals("u1")
	if !set || got.DailyCalories != 1800 {
		t.Fatalf("stored goals %+v set=%v", got, set)
	}

	if err := tr.ResetGoals("u1"); err != nil {
		t.Fatal(err)
	}
	if _, set, _ := tr.Goals("u1"); set {
		t.Fatal("goals still set after reset")
	}
}

func TestValidateGoals(t *testing.T) {
	base := defaultGoals("u1")
	tests := []struct {
		name   string
		modify func(*wellness.UserGoals)
	}{
		{"steps", func(g *wellness.UserGoals) { g.DailySteps = 50001 }},
		{"calories", func(g *wellness.UserGoals) { g.DailyCalories = -1 }},
		{"workouts", func(g *wellness.UserGoals) { g.WeeklyWorkouts = 15 }},
		{"weight", func(g *wellness.UserGoals) { g.WeightGoal = 301 }},
		{"sleep", func(g *wellness.UserGoals) { g.SleepGoal = 25 }},
		{"hydration", func(g *wellness.UserGoals) { g.HydrationGoal = 11 }},
		{"weight unit", func(g *wellness.UserGoals) { g.PreferredUnits.Weight = "stone" }},
		{"distance unit", func(g *wellness.UserGoals) { g.PreferredUnits.Distance = "league" }},
		{"custom", func(g *wellness.UserGoals) {
			b := make([]byte, maxCustomGoalsLength+1)
			for i := range b {
				b[i] = 'x'
			}
			g.CustomGoals = string(b)
		}},
	}
	if err := ValidateGoals(base); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base
			tt.modify(&g)
			if err := ValidateGoals(g); !errors.Is(err, analytics.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	tr, _ := newTestTracker(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "")

	u, err := tr.Profile("u1")
	if err != nil || u.Timezone != "UTC" {
		t.Fatalf("Profile = %+v, %v", u, err)
	}

	if _, err := tr.UpdateProfile("u1", ProfileInput{Timezone: strp("Mars/Olympus")}); !errors.Is(err, analytics.ErrInvalidInput) {
		t.Fatalf("bad timezone: %v", err)
	}
	if _, err := tr.UpdateProfile("u1", ProfileInput{Email: strp("not an email")}); !errors.Is(err, analytics.ErrInvalidInput) {
		t.Fatalf("bad email: %v", err)
	}

	u, err = tr.UpdateProfile("u1", ProfileInput{Timezone: strp("Europe/Dublin"), Email: strp("me@example.com")})
	if err != nil {
		t.Fatal(err)
	}
	if u.Timezone != "Europe/Dublin" || u.Email != "me@example.com" {
		t.Fatalf("profile %+v", u)
	}
	got, _ := tr.Profile("u1")
	if got.Timezone != "Europe/Dublin" {
		t.Fatalf("timezone not persisted: %+v", got)
	}
}
