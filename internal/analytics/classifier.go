package analytics

import (
	"slices"
	"time"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/pkg/wellness"
)

// IsHabitActiveOn reports whether day falls inside the habit's lifespan.
// Bounds are compared as calendar days, ignoring any stored time component.
func IsHabitActiveOn(h wellness.Habit, day string) bool {
	if day < clock.DatePart(h.StartDate) {
		return false
	}
	return h.EndDate == "" || day <= clock.DatePart(h.EndDate)
}

// IsHabitCompletedOn is exact string membership in CompletedDates.
func IsHabitCompletedOn(h wellness.Habit, day string) bool {
	return slices.Contains(h.CompletedDates, day)
}

// DayTotals sums every entry dated within [start, end].
func DayTotals(logs []wellness.FoodLogEntry, start, end time.Time) wellness.Macros {
	var m wellness.Macros
	for _, f := range logs {
		if f.Date.Before(start) || f.Date.After(end) {
			continue
		}
		m.Add(f)
	}
	return m
}

// DayActive is true when any habit was completed on day or the day's logged
// calories are positive.
func DayActive(habits []wellness.Habit, logs []wellness.FoodLogEntry, day, tz string) bool {
	for _, h := range habits {
		if IsHabitCompletedOn(h, day) {
			return true
		}
	}
	start, end, err := clock.RangeOfDay(day, tz)
	if err != nil {
		return false
	}
	return DayTotals(logs, start, end).Calories > 0
}

type dayCounts struct {
	active    int
	completed int
	anyDone   bool
}

func countHabits(habits []wellness.Habit, day string) dayCounts {
	var c dayCounts
	for _, h := range habits {
		done := IsHabitCompletedOn(h, day)
		if done {
			c.anyDone = true
		}
		if !IsHabitActiveOn(h, day) {
			continue
		}
		c.active++
		if done {
			c.completed++
		}
	}
	return c
}

// foodIndex buckets entries by the day whose range contains their instant.
// Looking a day up here is equivalent to DayTotals over RangeOfDay.
type foodIndex map[string]wellness.Macros

func indexFood(logs []wellness.FoodLogEntry, tz string) foodIndex {
	idx := make(foodIndex)
	for _, f := range logs {
		day := clock.DayString(f.Date, tz)
		m := idx[day]
		m.Add(f)
		idx[day] = m
	}
	return idx
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
