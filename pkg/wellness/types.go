package wellness

import (
	"strings"
	"time"
)

const (
	DefaultEmoji      = "🧘"
	DefaultFrequency  = "daily"
	DefaultUnit       = "minutes"
	DefaultMealType   = "Meal"
	DefaultMoodRating = 3
)

var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// CanonicalMealType matches s against MealTypes ignoring case and surrounding
// space. Free-form values are kept as given; empty falls back to
// DefaultMealType.
func CanonicalMealType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMealType
	}
	for _, m := range MealTypes {
		if strings.EqualFold(s, m) {
			return m
		}
	}
	return s
}

type Habit struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Emoji          string    `json:"emoji"`
	Frequency      string    `json:"frequency"`
	Times          int       `json:"times"`
	Unit           string    `json:"unit"`
	ReminderTime   string    `json:"reminder_time,omitempty"`
	EnableReminder bool      `json:"enable_reminder"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date,omitempty"`
	CompletedDates []string  `json:"completed_dates"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type FoodLogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	MealType  string    `json:"meal_type"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type JournalEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	Entry      string    `json:"entry"`
	MoodRating int       `json:"mood_rating"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}

type PreferredUnits struct {
	Weight   string `json:"weight" yaml:"weight"`
	Distance string `json:"distance" yaml:"distance"`
}

type UserGoals struct {
	UserID         string         `json:"user_id"`
	DailySteps     int            `json:"daily_steps"`
	DailyCalories  float64        `json:"daily_calories"`
	WeeklyWorkouts int            `json:"weekly_workouts"`
	WeightGoal     float64        `json:"weight_goal"`
	SleepGoal      float64        `json:"sleep_goal"`
	HydrationGoal  float64        `json:"hydration_goal"`
	CustomGoals    string         `json:"custom_goals"`
	PreferredUnits PreferredUnits `json:"preferred_units"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type User struct {
	ID        string    `json:"id"`
	Timezone  string    `json:"timezone"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Macros are summed nutrition values.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

func (m *Macros) Add(f FoodLogEntry) {
	m.Calories += f.Calories
	m.Protein += f.Protein
	m.Carbs += f.Carbs
	m.Fats += f.Fats
}

func (m *Macros) Merge(o Macros) {
	m.Calories += o.Calories
	m.Protein += o.Protein
	m.Carbs += o.Carbs
	m.Fats += o.Fats
}
