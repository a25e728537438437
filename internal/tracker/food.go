package tracker

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/pkg/wellness"
)

type FoodInput struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	MealType string  `json:"meal_type"`
	Date     string  `json:"date"`
}

// ListFood returns every entry for the user, newest day first. Entries on the
// same day keep insertion order.
func (t *Tracker) ListFood(userID string) ([]wellness.FoodLogEntry, error) {
	logs, err := t.store.FindFoodLogsByUser(userID)
	if err != nil {
		return nil, upstream("find food logs", err)
	}
	if logs == nil {
		return []wellness.FoodLogEntry{}, nil
	}
	slices.SortStableFunc(logs, func(a, b wellness.FoodLogEntry) int {
		return b.Date.Compare(a.Date)
	})
	return logs, nil
}

// CreateFood stores an entry dated at the start of its calendar day in the
// user's timezone.
func (t *Tracker) CreateFood(userID string, in FoodInput) (wellness.FoodLogEntry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Calories < 0 || in.Protein < 0 || in.Carbs < 0 || in.Fats < 0 {
		return wellness.FoodLogEntry{}, invalidf("name is required, and numbers cannot be negative")
	}
	day, err := t.canonicalDay(userID, in.Date)
	if err != nil {
		return wellness.FoodLogEntry{}, err
	}
	if err := t.svc.AssertNotFutureDate(userID, day); err != nil {
		return wellness.FoodLogEntry{}, err
	}
	tz, err := t.svc.Timezone(userID)
	if err != nil {
		return wellness.FoodLogEntry{}, err
	}
	start, err := clock.StartOfDay(day, tz)
	if err != nil {
		return wellness.FoodLogEntry{}, invalidf("date: %v", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return wellness.FoodLogEntry{}, err
	}
	f := wellness.FoodLogEntry{
		ID:        id.String(),
		UserID:    userID,
		Name:      name,
		Calories:  in.Calories,
		Protein:   in.Protein,
		Carbs:     in.Carbs,
		Fats:      in.Fats,
		MealType:  wellness.CanonicalMealType(in.MealType),
		Date:      start,
		CreatedAt: t.now(),
	}
	if err := t.store.PutFoodLog(userID, f); err != nil {
		return wellness.FoodLogEntry{}, upstream("put food log", err)
	}
	logger.Info("Food logged", "user_id", userID, "food_id", f.ID, "date", day, "calories", f.Calories)
	return f, nil
}

func (t *Tracker) DeleteFood(userID, foodID string) error {
	ok, err := t.store.DeleteFoodLog(userID, foodID)
	if err != nil {
		return upstream("delete food log", err)
	}
	if !ok {
		return notFound("food log", foodID)
	}
	logger.Info("Food log deleted", "user_id", userID, "food_id", foodID)
	return nil
}
