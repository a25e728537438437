package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/pkg/wellness"
)

// ChatContext is everything the chat responder is allowed to know about the
// user's day. It is computed up front; the responder never queries storage.
type ChatContext struct {
	Today           string  `json:"today"`
	Timezone        string  `json:"timezone"`
	HabitCompletion int     `json:"habit_completion"`
	CompletedHabits int     `json:"completed_habits"`
	TotalHabits     int     `json:"total_habits"`
	CaloriesToday   float64 `json:"calories_today"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fats            float64 `json:"fats"`
	// Mood is 0 when no journal entry exists for today.
	Mood            int     `json:"mood,omitempty"`
	JournalEntry    string  `json:"journal_entry,omitempty"`
	WeeklyCalories  float64 `json:"weekly_calories"`
	MonthlyCalories float64 `json:"monthly_calories"`
	YearlyCalories  float64 `json:"yearly_calories"`
	Streak          int     `json:"streak"`
	GoalsText       string  `json:"goals_text"`
}

func formatHit(completed, total int) string {
	return fmt.Sprintf("%d / %d", completed, total)
}

// caloriesSince sums calories of every indexed day from from through to.
func caloriesSince(idx foodIndex, from, to string) float64 {
	var total float64
	for day := range clock.Days(from, to) {
		total += idx[day].Calories
	}
	return total
}

func goalsText(g *wellness.UserGoals) string {
	if g == nil {
		return "Not set"
	}
	var parts []string
	if g.DailySteps > 0 {
		parts = append(parts, fmt.Sprintf("Steps:%d", g.DailySteps))
	}
	if g.DailyCalories > 0 {
		parts = append(parts, fmt.Sprintf("Cal:%g", g.DailyCalories))
	}
	if g.WeeklyWorkouts > 0 {
		parts = append(parts, fmt.Sprintf("Workouts/wk:%d", g.WeeklyWorkouts))
	}
	if g.HydrationGoal > 0 {
		parts = append(parts, fmt.Sprintf("Hydration:%g", g.HydrationGoal))
	}
	if g.SleepGoal > 0 {
		parts = append(parts, fmt.Sprintf("Sleep:%g", g.SleepGoal))
	}
	if g.WeightGoal > 0 {
		parts = append(parts, fmt.Sprintf("Weight:%g", g.WeightGoal))
	}
	if g.CustomGoals != "" {
		parts = append(parts, g.CustomGoals)
	}
	if len(parts) == 0 {
		return "Not set"
	}
	return strings.Join(parts, ", ")
}

func (s *Service) ChatContext(userID string) (ChatContext, error) {
	defer observe("chat_context", time.Now())

	tz, err := s.Timezone(userID)
	if err != nil {
		return ChatContext{}, err
	}
	now := s.clock.Now()
	today := clock.DayString(now, tz)

	habits, err := s.repo.FindHabitsByUser(userID)
	if err != nil {
		return ChatContext{}, upstream("find habits", err)
	}
	logs, err := s.repo.FindFoodLogsByUser(userID)
	if err != nil {
		return ChatContext{}, upstream("find food logs", err)
	}
	journal, err := s.repo.FindJournalByUserAndDate(userID, today)
	if err != nil {
		return ChatContext{}, upstream("find journal", err)
	}
	goals, err := s.repo.FindGoalsByUser(userID)
	if err != nil {
		return ChatContext{}, upstream("find goals", err)
	}

	idx := indexFood(logs, tz)
	c := countHabits(habits, today)
	m := idx[today]

	out := ChatContext{
		Today:           today,
		Timezone:        tz,
		HabitCompletion: int(math.Round(percent(c.completed, c.active))),
		CompletedHabits: c.completed,
		TotalHabits:     c.active,
		CaloriesToday:   m.Calories,
		Protein:         m.Protein,
		Carbs:           m.Carbs,
		Fats:            m.Fats,
		Streak:          StreakFrom(completedUnion(habits), now, tz),
		GoalsText:       goalsText(goals),
	}
	if journal != nil {
		out.Mood = journal.MoodRating
		out.JournalEntry = journal.Entry
	}
	for _, w := range []Window{WindowWeekly, WindowMonthly, WindowYearly} {
		from, _, err := w.Bounds(today)
		if err != nil {
			return ChatContext{}, err
		}
		total := caloriesSince(idx, from, today)
		switch w {
		case WindowWeekly:
			out.WeeklyCalories = total
		case WindowMonthly:
			out.MonthlyCalories = total
		case WindowYearly:
			out.YearlyCalories = total
		}
	}
	return out, nil
}
