package analytics

import (
	"slices"
	"time"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/pkg/wellness"
)

// completedUnion is the set of every day on which at least one habit was
// completed.
func completedUnion(habits []wellness.Habit) map[string]struct{} {
	uniq := make(map[string]struct{})
	for _, h := range habits {
		for _, d := range h.CompletedDates {
			uniq[d] = struct{}{}
		}
	}
	return uniq
}

// Streak is the global "did something" streak: the number of consecutive
// days, walking back from today in tz, on which any habit was completed. It
// is 0 when nothing was completed today. This is not a per-habit streak.
func Streak(habits []wellness.Habit, now time.Time, tz string) int {
	return StreakFrom(completedUnion(habits), now, tz)
}

// StreakFrom walks backwards from the day containing from. Each step moves to
// the start of the previous day in tz and re-derives its label, so 23 and 25
// hour days and month boundaries are handled by the location.
func StreakFrom(days map[string]struct{}, from time.Time, tz string) int {
	streak := 0
	cursor, _ := clock.DayRange(from, tz)
	for {
		if _, ok := days[clock.DayString(cursor, tz)]; !ok {
			return streak
		}
		streak++
		cursor, _ = clock.DayRange(cursor.Add(-time.Nanosecond), tz)
	}
}

// LongestStreak is the longest run of consecutive calendar days in the
// completion union.
func LongestStreak(habits []wellness.Habit) int {
	uniq := completedUnion(habits)
	days := make([]time.Time, 0, len(uniq))
	for d := range uniq {
		t, err := clock.ParseDay(d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

// ToggleHabitCompletion adds day to the habit's completed dates, or removes it
// when already present. The input habit is not modified.
func ToggleHabitCompletion(h wellness.Habit, day string) wellness.Habit {
	out := h
	if i := slices.Index(h.CompletedDates, day); i >= 0 {
		out.CompletedDates = slices.Delete(slices.Clone(h.CompletedDates), i, i+1)
		return out
	}
	out.CompletedDates = append(slices.Clone(h.CompletedDates), day)
	return out
}
