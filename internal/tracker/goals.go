package tracker

import (
	"unicode/utf8"

	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/pkg/wellness"
)

const maxCustomGoalsLength = 500

func defaultGoals(userID string) wellness.UserGoals {
	return wellness.UserGoals{
		UserID:         userID,
		PreferredUnits: wellness.PreferredUnits{Weight: "kg", Distance: "km"},
	}
}

// Goals returns the stored goals, or the defaults with set=false when the
// user never set any.
func (t *Tracker) Goals(userID string) (goals wellness.UserGoals, set bool, err error) {
	g, err := t.store.FindGoalsByUser(userID)
	if err != nil {
		return wellness.UserGoals{}, false, upstream("find goals", err)
	}
	if g == nil {
		return defaultGoals(userID), false, nil
	}
	return *g, true, nil
}

func ValidateGoals(g wellness.UserGoals) error {
	switch {
	case g.DailySteps < 0 || g.DailySteps > 50000:
		return invalidf("daily_steps must be between 0 and 50000")
	case g.DailyCalories < 0 || g.DailyCalories > 10000:
		return invalidf("daily_calories must be between 0 and 10000")
	case g.WeeklyWorkouts < 0 || g.WeeklyWorkouts > 14:
		return invalidf("weekly_workouts must be between 0 and 14")
	case g.WeightGoal < 0 || g.WeightGoal > 300:
		return invalidf("weight_goal must be between 0 and 300")
	case g.SleepGoal < 0 || g.SleepGoal > 24:
		return invalidf("sleep_goal must be between 0 and 24")
	case g.HydrationGoal < 0 || g.HydrationGoal > 10:
		return invalidf("hydration_goal must be between 0 and 10")
	case utf8.RuneCountInString(g.CustomGoals) > maxCustomGoalsLength:
		return invalidf("custom_goals must be at most %d characters", maxCustomGoalsLength)
	}
	switch g.PreferredUnits.Weight {
	case "kg", "lbs":
	default:
		return invalidf("preferred_units.weight must be kg or lbs")
	}
	switch g.PreferredUnits.Distance {
	case "km", "mi":
	default:
		return invalidf("preferred_units.distance must be km or mi")
	}
	return nil
}

// PutGoals replaces the user's goals. Callers wanting merge semantics decode
// the request over the result of Goals first.
func (t *Tracker) PutGoals(userID string, g wellness.UserGoals) (wellness.UserGoals, error) {
	if g.PreferredUnits.Weight == "" {
		g.PreferredUnits.Weight = "kg"
	}
	if g.PreferredUnits.Distance == "" {
		g.PreferredUnits.Distance = "km"
	}
	if err := ValidateGoals(g); err != nil {
		return wellness.UserGoals{}, err
	}
	g.UserID = userID
	g.UpdatedAt = t.now()
	if err := t.store.PutGoals(userID, g); err != nil {
		return wellness.UserGoals{}, upstream("put goals", err)
	}
	logger.Info("Goals updated", "user_id", userID, "daily_calories", g.DailyCalories)
	return g, nil
}

func (t *Tracker) ResetGoals(userID string) error {
	if err := t.store.DeleteGoals(userID); err != nil {
		return upstream("delete goals", err)
	}
	logger.Info("Goals reset", "user_id", userID)
	return nil
}
