package tracker

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/pkg/wellness"
)

type JournalInput struct {
	Date       string `json:"date"`
	Entry      string `json:"entry"`
	MoodRating int    `json:"mood_rating"`
}

// UpsertJournal writes the entry for a day, replacing text and mood when one
// already exists. created reports whether a new entry was made.
func (t *Tracker) UpsertJournal(userID string, in JournalInput) (entry wellness.JournalEntry, created bool, err error) {
	day, err := t.canonicalDay(userID, in.Date)
	if err != nil {
		return wellness.JournalEntry{}, false, err
	}
	if err := t.svc.AssertNotFutureDate(userID, day); err != nil {
		return wellness.JournalEntry{}, false, err
	}
	mood := in.MoodRating
	if mood == 0 {
		mood = wellness.DefaultMoodRating
	}
	if mood < 1 || mood > 5 {
		return wellness.JournalEntry{}, false, invalidf("mood_rating must be between 1 and 5")
	}

	existing, err := t.store.FindJournalByUserAndDate(userID, day)
	if err != nil {
		return wellness.JournalEntry{}, false, upstream("find journal", err)
	}

	now := t.now()
	j := wellness.JournalEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Date:       day,
		Entry:      in.Entry,
		MoodRating: mood,
		Timestamp:  now,
		CreatedAt:  now,
	}
	if existing != nil {
		j.ID = existing.ID
		j.CreatedAt = existing.CreatedAt
	}
	if err := t.store.PutJournal(userID, j); err != nil {
		return wellness.JournalEntry{}, false, upstream("put journal", err)
	}
	logger.Info("Journal saved", "user_id", userID, "date", day, "mood", mood, "created", existing == nil)
	return j, existing == nil, nil
}

// ListJournal returns entries newest first.
func (t *Tracker) ListJournal(userID string) ([]wellness.JournalEntry, error) {
	entries, err := t.store.ListJournals(userID)
	if err != nil {
		return nil, upstream("list journals", err)
	}
	if entries == nil {
		return []wellness.JournalEntry{}, nil
	}
	slices.SortFunc(entries, func(a, b wellness.JournalEntry) int {
		return strings.Compare(b.Date, a.Date)
	})
	return entries, nil
}

func (t *Tracker) Journal(userID, day string) (wellness.JournalEntry, error) {
	day, err := t.canonicalDay(userID, day)
	if err != nil {
		return wellness.JournalEntry{}, err
	}
	j, err := t.store.FindJournalByUserAndDate(userID, day)
	if err != nil {
		return wellness.JournalEntry{}, upstream("find journal", err)
	}
	if j == nil {
		return wellness.JournalEntry{}, notFound("journal entry for", day)
	}
	return *j, nil
}
