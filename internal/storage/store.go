package storage

import (
	"time"

	"github.com/brk3/wellnest/pkg/wellness"
)

// Repository is the read side used by the analytics engine. Every method is
// scoped to one user; nothing crosses a user boundary.
type Repository interface {
	FindHabitsByUser(userID string) ([]wellness.Habit, error)
	FindFoodLogsByUser(userID string) ([]wellness.FoodLogEntry, error)
	// FindFoodLogsByUserAndRange returns entries with start <= date <= end.
	FindFoodLogsByUserAndRange(userID string, start, end time.Time) ([]wellness.FoodLogEntry, error)
	// FindJournalByUserAndDate returns nil when there is no entry for day.
	FindJournalByUserAndDate(userID, day string) (*wellness.JournalEntry, error)
	// FindJournalByUserAndRange matches legacy entries whose date is an
	// instant inside [start, end].
	FindJournalByUserAndRange(userID string, start, end time.Time) (*wellness.JournalEntry, error)
	// FindGoalsByUser returns nil when goals were never set.
	FindGoalsByUser(userID string) (*wellness.UserGoals, error)
}

type UserProvider interface {
	// Timezone returns the IANA timezone configured for the user, or "" when
	// none is set.
	Timezone(userID string) (string, error)
}

type Store interface {
	Repository
	UserProvider

	GetUser(userID string) (wellness.User, bool, error)
	PutUser(u wellness.User) error
	ListUserIDs() ([]string, error)

	GetHabit(userID, habitID string) (wellness.Habit, bool, error)
	PutHabit(userID string, h wellness.Habit) error
	DeleteHabit(userID, habitID string) (bool, error)

	PutFoodLog(userID string, f wellness.FoodLogEntry) error
	DeleteFoodLog(userID, foodID string) (bool, error)

	PutJournal(userID string, j wellness.JournalEntry) error
	ListJournals(userID string) ([]wellness.JournalEntry, error)

	PutGoals(userID string, g wellness.UserGoals) error
	DeleteGoals(userID string) error

	PutAPIKey(keyHash, userID string) error
	GetAPIKey(keyHash string) (string, bool, error)
	DeleteAPIKey(keyHash string) error
	ListAPIKeyHashes(userID string) ([]string, error)

	Close() error
}
