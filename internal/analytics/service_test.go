package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/pkg/wellness"
)

type fakeRepo struct {
	tz       string
	habits   []wellness.Habit
	logs     []wellness.FoodLogEntry
	journals map[string]wellness.JournalEntry
	legacy   []wellness.JournalEntry
	goals    *wellness.UserGoals
	err      error
	tzErr    error
}

func (f *fakeRepo) Timezone(string) (string, error) { return f.tz, f.tzErr }

func (f *fakeRepo) FindHabitsByUser(string) ([]wellness.Habit, error) {
	return f.habits, f.err
}

func (f *fakeRepo) FindFoodLogsByUser(string) ([]wellness.FoodLogEntry, error) {
	return f.logs, f.err
}

func (f *fakeRepo) FindFoodLogsByUserAndRange(_ string, start, end time.Time) ([]wellness.FoodLogEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []wellness.FoodLogEntry
	for _, l := range f.logs {
		if !l.Date.Before(start) && !l.Date.After(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindJournalByUserAndDate(_ string, day string) (*wellness.JournalEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if j, ok := f.journals[day]; ok {
		return &j, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindJournalByUserAndRange(_ string, start, end time.Time) (*wellness.JournalEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, j := range f.legacy {
		ts, err := time.Parse(time.RFC3339Nano, j.Date)
		if err != nil {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			return &j, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindGoalsByUser(string) (*wellness.UserGoals, error) {
	return f.goals, f.err
}

func newTestService(t *testing.T, repo *fakeRepo, now string) *Service {
	t.Helper()
	tz := repo.tz
	if tz == "" {
		tz = "UTC"
	}
	return NewService(repo, repo, Options{Clock: clock.Fixed(at(t, now, tz))})
}

func TestService_TimezoneDefault(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeRepo{}, Options{DefaultTimezone: "Europe/Dublin"})
	tz, err := svc.Timezone("u1")
	if err != nil || tz != "Europe/Dublin" {
		t.Fatalf("Timezone = %q, %v", tz, err)
	}
}

func TestService_AssertNotFutureDate(t *testing.T) {
	repo := &fakeRepo{tz: "Pacific/Auckland"}
	svc := newTestService(t, repo, "2024-01-10 08:00")

	if err := svc.AssertNotFutureDate("u1", "2024-01-10"); err != nil {
		t.Fatalf("today rejected: %v", err)
	}
	if err := svc.AssertNotFutureDate("u1", "2023-12-31"); err != nil {
		t.Fatalf("past rejected: %v", err)
	}
	if err := svc.AssertNotFutureDate("u1", "2024-01-11"); !errors.Is(err, ErrFutureDateNotAllowed) {
		t.Fatalf("expected ErrFutureDateNotAllowed, got %v", err)
	}
	if err := svc.AssertNotFutureDate("u1", "2024-1-9"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_PeriodAnalytics(t *testing.T) {
	start, _ := clock.StartOfDay("2024-01-01", "UTC")
	repo := &fakeRepo{
		habits: []wellness.Habit{{StartDate: "2024-01-01", CompletedDates: []string{"2024-01-01"}}},
		logs: []wellness.FoodLogEntry{
			{Calories: 300, Date: start},
			{Calories: 450, Date: start.Add(5 * time.Hour)},
			{Calories: 100, Date: start.Add(30 * time.Hour)},
		},
	}
	svc := newTestService(t, repo, "2024-01-03 10:00")

	got, err := svc.PeriodAnalytics("u1", WindowDaily)
	if err != nil {
		t.Fatal(err)
	}
	if got.Window != "daily" || got.Timezone != "UTC" {
		t.Fatalf("window %q tz %q", got.Window, got.Timezone)
	}
	if got.Buckets[0].Calories != 750 || got.Buckets[1].Calories != 100 || got.TotalCalories != 850 {
		t.Fatalf("calories %v %v total %v", got.Buckets[0].Calories, got.Buckets[1].Calories, got.TotalCalories)
	}
	if got.Buckets[0].HabitsPercent != 100 || got.Buckets[1].HabitsPercent != 0 {
		t.Fatalf("percent %v %v", got.Buckets[0].HabitsPercent, got.Buckets[1].HabitsPercent)
	}
}

func TestService_UpstreamFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestService(t, &fakeRepo{err: boom}, "2024-01-03 10:00")

	_, err := svc.PeriodAnalytics("u1", WindowMonthly)
	if !errors.Is(err, ErrUpstreamUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
	if _, err := svc.QuickStats("u1"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("QuickStats: %v", err)
	}
	if _, err := svc.DailySummary("u1", "2024-01-01"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("DailySummary: %v", err)
	}

	tzFail := &fakeRepo{tzErr: boom}
	svc = NewService(tzFail, tzFail, Options{})
	if _, err := svc.Today("u1"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("Today: %v", err)
	}
}

func TestService_DailySummary(t *testing.T) {
	tz := "America/New_York"
	start, end, _ := clock.RangeOfDay("2024-01-05", tz)
	repo := &fakeRepo{
		tz: tz,
		habits: []wellness.Habit{
			{ID: "h1", Name: "Meditation", Emoji: "🧘", StartDate: "2024-01-01", CompletedDates: []string{"2024-01-05"}},
			{ID: "h2", Name: "Walk", StartDate: "2024-01-01"},
			{ID: "h3", Name: "Later", StartDate: "2024-02-01"},
		},
		logs: []wellness.FoodLogEntry{
			{Name: "Eggs", Calories: 200, Protein: 12, MealType: "Breakfast", Date: start},
			{Name: "Soup", Calories: 300, MealType: "Lunch", Date: start.Add(4 * time.Hour)},
			{Name: "Toast", Calories: 100, MealType: "Breakfast", Date: start.Add(time.Hour)},
			{Name: "Pie", Calories: 900, MealType: "Dinner", Date: end.Add(time.Nanosecond)},
		},
		journals: map[string]wellness.JournalEntry{
			"2024-01-05": {Date: "2024-01-05", Entry: "calm", MoodRating: 4},
		},
		goals: &wellness.UserGoals{DailyCalories: 1800},
	}
	svc := newTestService(t, repo, "2024-01-05 20:00")

	got, err := svc.DailySummary("u1", "2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Habits) != 2 || !got.Habits[0].IsCompleted || got.Habits[1].IsCompleted {
		t.Fatalf("habits %+v", got.Habits)
	}
	if len(got.FoodList) != 3 || got.CaloriesConsumed != 600 || got.Macros.Protein != 12 {
		t.Fatalf("food %d consumed %v macros %+v", len(got.FoodList), got.CaloriesConsumed, got.Macros)
	}
	if got.CaloriesGoal != 1800 {
		t.Fatalf("goal = %v", got.CaloriesGoal)
	}
	if len(got.MealOrder) != 2 || got.MealOrder[0] != "Breakfast" || got.MealOrder[1] != "Lunch" {
		t.Fatalf("meal order %v", got.MealOrder)
	}
	if len(got.FoodByMealType["Breakfast"]) != 2 {
		t.Fatalf("breakfast %v", got.FoodByMealType["Breakfast"])
	}
	if got.Journal == nil || got.Journal.MoodRating != 4 {
		t.Fatalf("journal %+v", got.Journal)
	}
}

func TestService_DailySummaryJournalFallback(t *testing.T) {
	repo := &fakeRepo{
		tz:     "UTC",
		legacy: []wellness.JournalEntry{{Date: "2024-01-05T13:00:00Z", Entry: "old format"}},
	}
	svc := newTestService(t, repo, "2024-01-06 10:00")

	got, err := svc.DailySummary("u1", "2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if got.Journal == nil || got.Journal.Entry != "old format" {
		t.Fatalf("journal %+v", got.Journal)
	}
	if got.CaloriesGoal != DefaultCalorieGoal {
		t.Fatalf("goal = %v", got.CaloriesGoal)
	}
}

func TestService_DailySummaryValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, "2024-01-05 10:00")

	for _, day := range []string{"", "2024-13-01", "yesterday", "2024-1-5"} {
		if _, err := svc.DailySummary("u1", day); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("DailySummary(%q) = %v, want ErrInvalidInput", day, err)
		}
	}

	future, err := svc.DailySummary("u1", "2030-01-01")
	if err != nil {
		t.Fatalf("future day: %v", err)
	}
	if len(future.FoodList) != 0 || len(future.Habits) != 0 || future.Journal != nil {
		t.Fatalf("future summary not empty: %+v", future)
	}
}

func TestService_QuickStats(t *testing.T) {
	start, _ := clock.StartOfDay("2024-01-04", "UTC")
	repo := &fakeRepo{
		habits: []wellness.Habit{
			{Name: "Meditation", StartDate: "2024-01-01", CompletedDates: []string{"2024-01-01", "2024-01-02", "2024-01-04"}},
			{Name: "Walk", StartDate: "2024-01-01"},
		},
		logs: []wellness.FoodLogEntry{
			{Calories: 1500, Date: start.Add(8 * time.Hour)},
			{Calories: 900, Date: start.Add(-time.Hour)},
		},
	}
	svc := newTestService(t, repo, "2024-01-04 18:00")

	got, err := svc.QuickStats("u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Streak != 1 || got.YesterdayStreak != 0 || got.LongestStreak != 2 {
		t.Fatalf("streaks %d/%d/%d", got.Streak, got.YesterdayStreak, got.LongestStreak)
	}
	if got.CaloriesToday != 1500 || got.CaloriesPercent != 75 {
		t.Fatalf("calories %v (%d%%)", got.CaloriesToday, got.CaloriesPercent)
	}
	if got.HabitsPercent != 50 || got.HabitsHit != "1 / 2" {
		t.Fatalf("habits %d%% %q", got.HabitsPercent, got.HabitsHit)
	}
	if got.TodayGoalPercent != 63 {
		t.Fatalf("today goal = %d, want 63", got.TodayGoalPercent)
	}
	if got.StreakAtRisk() {
		t.Fatal("streak should not be at risk")
	}
}

func TestService_QuickStatsCapsCalories(t *testing.T) {
	start, _ := clock.StartOfDay("2024-01-04", "UTC")
	repo := &fakeRepo{
		habits: []wellness.Habit{{StartDate: "2024-01-01", CompletedDates: []string{"2024-01-02", "2024-01-03"}}},
		logs:   []wellness.FoodLogEntry{{Calories: 5000, Date: start}},
	}
	svc := newTestService(t, repo, "2024-01-04 07:00")

	got, err := svc.QuickStats("u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CaloriesPercent != 100 {
		t.Fatalf("calories percent = %d, want 100", got.CaloriesPercent)
	}
	if got.Streak != 0 || got.YesterdayStreak != 2 || !got.StreakAtRisk() {
		t.Fatalf("expected streak at risk: %+v", got)
	}
}

func TestService_ChatContext(t *testing.T) {
	start, _ := clock.StartOfDay("2024-03-04", "UTC")
	repo := &fakeRepo{
		habits: []wellness.Habit{{StartDate: "2024-01-01", CompletedDates: []string{"2024-03-03", "2024-03-04"}}},
		logs: []wellness.FoodLogEntry{
			{Calories: 400, Protein: 20, Date: start},
			{Calories: 100, Date: start.Add(-24 * time.Hour)},
			{Calories: 50, Date: start.Add(-5 * 24 * time.Hour)},
			{Calories: 10, Date: start.Add(-70 * 24 * time.Hour)},
		},
		journals: map[string]wellness.JournalEntry{"2024-03-04": {Entry: "good day", MoodRating: 5}},
		goals:    &wellness.UserGoals{DailySteps: 8000, CustomGoals: "read more"},
	}
	svc := newTestService(t, repo, "2024-03-04 12:00")

	got, err := svc.ChatContext("u1")
	if err != nil {
		t.Fatal(err)
	}
	// 2024-03-04 is a Monday.
	if got.WeeklyCalories != 400 {
		t.Fatalf("weekly = %v", got.WeeklyCalories)
	}
	if got.MonthlyCalories != 500 {
		t.Fatalf("monthly = %v", got.MonthlyCalories)
	}
	if got.YearlyCalories != 550 {
		t.Fatalf("yearly = %v", got.YearlyCalories)
	}
	if got.Streak != 2 || got.HabitCompletion != 100 || got.Mood != 5 || got.JournalEntry != "good day" {
		t.Fatalf("context %+v", got)
	}
	if got.GoalsText != "Steps:8000, read more" {
		t.Fatalf("goals text %q", got.GoalsText)
	}
}

func TestGoalsText_NotSet(t *testing.T) {
	if got := goalsText(nil); got != "Not set" {
		t.Fatalf("nil goals = %q", got)
	}
	if got := goalsText(&wellness.UserGoals{}); got != "Not set" {
		t.Fatalf("empty goals = %q", got)
	}
}
