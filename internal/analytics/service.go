package analytics

import (
	"math"
	"time"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/internal/storage"
	"github.com/brk3/wellnest/pkg/wellness"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultCalorieGoal = 2000

var computeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "wellnest_analytics_compute_duration_seconds",
		Help:    "Duration of analytics computations by operation",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

type Options struct {
	Clock              clock.Clock
	DefaultTimezone    string
	DefaultCalorieGoal float64
}

// Service answers analytics queries for one user at a time. It holds no
// per-request state; every call reads its inputs from the repository.
type Service struct {
	repo  storage.Repository
	users storage.UserProvider
	clock clock.Clock

	defaultTZ   string
	calorieGoal float64
}

func NewService(repo storage.Repository, users storage.UserProvider, opts Options) *Service {
	s := &Service{
		repo:        repo,
		users:       users,
		clock:       opts.Clock,
		defaultTZ:   opts.DefaultTimezone,
		calorieGoal: opts.DefaultCalorieGoal,
	}
	if s.clock == nil {
		s.clock = clock.System
	}
	if s.defaultTZ == "" {
		s.defaultTZ = "UTC"
	}
	if s.calorieGoal <= 0 {
		s.calorieGoal = DefaultCalorieGoal
	}
	return s
}

func observe(op string, start time.Time) {
	computeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Timezone resolves the user's timezone, falling back to the configured
// default when none is set.
func (s *Service) Timezone(userID string) (string, error) {
	tz, err := s.users.Timezone(userID)
	if err != nil {
		return "", upstream("load timezone", err)
	}
	if tz == "" {
		tz = s.defaultTZ
	}
	return tz, nil
}

// Today is the current calendar day for the user.
func (s *Service) Today(userID string) (string, error) {
	tz, err := s.Timezone(userID)
	if err != nil {
		return "", err
	}
	return clock.Today(s.clock, tz), nil
}

// Now exposes the service clock to write paths.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// AssertNotFutureDate rejects days after the user's today. The comparison is
// between calendar days, not instants.
func (s *Service) AssertNotFutureDate(userID, day string) error {
	if _, err := clock.ParseDay(day); err != nil {
		return invalidf("date: %v", err)
	}
	today, err := s.Today(userID)
	if err != nil {
		return err
	}
	if day > today {
		logger.Debug("Rejecting future date", "user_id", userID, "date", day, "today", today)
		return ErrFutureDateNotAllowed
	}
	return nil
}

func (s *Service) PeriodAnalytics(userID string, w Window) (wellness.PeriodAnalytics, error) {
	defer observe(string(w), time.Now())

	tz, err := s.Timezone(userID)
	if err != nil {
		return wellness.PeriodAnalytics{}, err
	}
	habits, err := s.repo.FindHabitsByUser(userID)
	if err != nil {
		return wellness.PeriodAnalytics{}, upstream("find habits", err)
	}
	logs, err := s.repo.FindFoodLogsByUser(userID)
	if err != nil {
		return wellness.PeriodAnalytics{}, upstream("find food logs", err)
	}

	today := clock.Today(s.clock, tz)
	out, err := Aggregate(w, habits, logs, tz, today)
	if err != nil {
		return wellness.PeriodAnalytics{}, err
	}
	logger.Debug("Computed period analytics", "user_id", userID, "window", w, "timezone", tz, "buckets", len(out.Buckets))
	return out, nil
}

func (s *Service) calorieGoalFor(userID string) (float64, *wellness.UserGoals, error) {
	goals, err := s.repo.FindGoalsByUser(userID)
	if err != nil {
		return 0, nil, upstream("find goals", err)
	}
	if goals != nil && goals.DailyCalories > 0 {
		return goals.DailyCalories, goals, nil
	}
	return s.calorieGoal, goals, nil
}

// DailySummary is the drill-down view for one calendar day. Future days are
// allowed and come back empty.
func (s *Service) DailySummary(userID, day string) (wellness.DailySummary, error) {
	defer observe("summary", time.Now())

	if day == "" {
		return wellness.DailySummary{}, invalidf("missing date")
	}
	if _, err := clock.ParseDay(day); err != nil {
		return wellness.DailySummary{}, invalidf("date: %v", err)
	}

	tz, err := s.Timezone(userID)
	if err != nil {
		return wellness.DailySummary{}, err
	}
	start, end, err := clock.RangeOfDay(day, tz)
	if err != nil {
		return wellness.DailySummary{}, invalidf("date: %v", err)
	}

	habits, err := s.repo.FindHabitsByUser(userID)
	if err != nil {
		return wellness.DailySummary{}, upstream("find habits", err)
	}
	logs, err := s.repo.FindFoodLogsByUserAndRange(userID, start, end)
	if err != nil {
		return wellness.DailySummary{}, upstream("find food logs", err)
	}
	journal, err := s.journalFor(userID, day, start, end)
	if err != nil {
		return wellness.DailySummary{}, err
	}
	goal, _, err := s.calorieGoalFor(userID)
	if err != nil {
		return wellness.DailySummary{}, err
	}

	out := wellness.DailySummary{
		Date:           day,
		Habits:         []wellness.HabitCheck{},
		FoodList:       logs,
		FoodByMealType: map[string][]wellness.FoodLogEntry{},
		MealOrder:      []string{},
		CaloriesGoal:   goal,
		Journal:        journal,
	}
	for _, h := range habits {
		if !IsHabitActiveOn(h, day) {
			continue
		}
		out.Habits = append(out.Habits, wellness.HabitCheck{
			ID:          h.ID,
			Name:        h.Name,
			Emoji:       h.Emoji,
			IsCompleted: IsHabitCompletedOn(h, day),
		})
	}
	for _, f := range logs {
		if _, ok := out.FoodByMealType[f.MealType]; !ok {
			out.MealOrder = append(out.MealOrder, f.MealType)
		}
		out.FoodByMealType[f.MealType] = append(out.FoodByMealType[f.MealType], f)
	}
	out.Macros = DayTotals(logs, start, end)
	out.CaloriesConsumed = out.Macros.Calories
	return out, nil
}

// journalFor looks the day up by its label first, then by instant range for
// entries stored with a timestamp date.
func (s *Service) journalFor(userID, day string, start, end time.Time) (*wellness.JournalEntry, error) {
	j, err := s.repo.FindJournalByUserAndDate(userID, day)
	if err != nil {
		return nil, upstream("find journal", err)
	}
	if j != nil {
		return j, nil
	}
	j, err = s.repo.FindJournalByUserAndRange(userID, start, end)
	if err != nil {
		return nil, upstream("find journal by range", err)
	}
	return j, nil
}

// QuickStats are today's headline numbers plus the global streak.
func (s *Service) QuickStats(userID string) (wellness.QuickStats, error) {
	defer observe("stats", time.Now())

	tz, err := s.Timezone(userID)
	if err != nil {
		return wellness.QuickStats{}, err
	}
	now := s.clock.Now()
	today := clock.DayString(now, tz)
	start, end := clock.DayRange(now, tz)

	habits, err := s.repo.FindHabitsByUser(userID)
	if err != nil {
		return wellness.QuickStats{}, upstream("find habits", err)
	}
	logs, err := s.repo.FindFoodLogsByUserAndRange(userID, start, end)
	if err != nil {
		return wellness.QuickStats{}, upstream("find food logs", err)
	}
	goal, _, err := s.calorieGoalFor(userID)
	if err != nil {
		return wellness.QuickStats{}, err
	}

	c := countHabits(habits, today)
	calories := DayTotals(logs, start, end).Calories
	habitsPct := int(math.Round(percent(c.completed, c.active)))
	caloriesPct := int(math.Round(math.Min(calories, goal) / goal * 100))

	union := completedUnion(habits)
	return wellness.QuickStats{
		Today:            today,
		Streak:           StreakFrom(union, now, tz),
		LongestStreak:    LongestStreak(habits),
		YesterdayStreak:  StreakFrom(union, start.Add(-time.Nanosecond), tz),
		CaloriesToday:    calories,
		CaloriesGoal:     goal,
		CaloriesPercent:  caloriesPct,
		HabitsPercent:    habitsPct,
		TodayGoalPercent: int(math.Round(float64(habitsPct+caloriesPct) / 2)),
		CompletedHabits:  c.completed,
		TotalHabits:      c.active,
		HabitsHit:        formatHit(c.completed, c.active),
	}, nil
}
