package wellness

// Bucket is one unit of an aggregation window: a calendar day, or a month in
// the yearly window.
type Bucket struct {
	// Key is the calendar day (YYYY-MM-DD) or month (YYYY-MM).
	Key   string `json:"key"`
	Index int    `json:"index"`
	Label string `json:"label"`

	TotalHabitsActive int     `json:"total_habits_active"`
	CompletedHabits   int     `json:"completed_habits"`
	HabitsPercent     float64 `json:"habits_percent"`
	Calories          float64 `json:"calories"`
	Protein           float64 `json:"protein"`
	Carbs             float64 `json:"carbs"`
	Fats              float64 `json:"fats"`
	Active            bool    `json:"active"`
	ActiveDays        int     `json:"active_days"`
}

func (b Bucket) Macros() Macros {
	return Macros{Calories: b.Calories, Protein: b.Protein, Carbs: b.Carbs, Fats: b.Fats}
}

type PeriodAnalytics struct {
	Window             string   `json:"window"`
	Timezone           string   `json:"timezone"`
	From               string   `json:"from"`
	To                 string   `json:"to"`
	Buckets            []Bucket `json:"buckets"`
	ActiveDays         int      `json:"active_days"`
	ActiveCalendarDays int      `json:"active_calendar_days"`
	TotalCalories      float64  `json:"total_calories"`
	AvgCompletion      int      `json:"avg_completion"`
	Macros             Macros   `json:"macros"`
}

type HabitCheck struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	IsCompleted bool   `json:"is_completed"`
}

type DailySummary struct {
	Date             string                    `json:"date"`
	Habits           []HabitCheck              `json:"habits"`
	FoodList         []FoodLogEntry            `json:"food_list"`
	FoodByMealType   map[string][]FoodLogEntry `json:"food_by_meal_type"`
	MealOrder        []string                  `json:"meal_order"`
	CaloriesConsumed float64                   `json:"calories_consumed"`
	CaloriesGoal     float64                   `json:"calories_goal"`
	Macros           Macros                    `json:"macros"`
	Journal          *JournalEntry             `json:"journal_entry"`
}

type QuickStats struct {
	Today            string  `json:"today"`
	Streak           int     `json:"streak"`
	LongestStreak    int     `json:"longest_streak"`
	YesterdayStreak  int     `json:"yesterday_streak"`
	CaloriesToday    float64 `json:"calories_today"`
	CaloriesGoal     float64 `json:"calories_goal"`
	CaloriesPercent  int     `json:"calories_percent"`
	HabitsPercent    int     `json:"habits_percent"`
	TodayGoalPercent int     `json:"today_goal_percent"`
	CompletedHabits  int     `json:"completed_habits"`
	TotalHabits      int     `json:"total_habits"`
	HabitsHit        string  `json:"habits_hit"`
}

// StreakAtRisk is true when nothing has been completed today but the days
// leading up to today form a streak.
func (q QuickStats) StreakAtRisk() bool {
	return q.Streak == 0 && q.YesterdayStreak > 0
}
