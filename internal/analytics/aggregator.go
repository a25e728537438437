package analytics

import (
	"iter"
	"math"
	"time"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/pkg/wellness"
)

type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowYearly  Window = "yearly"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ParseWindow accepts daily, weekly (same as daily), monthly and yearly.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowDaily, WindowWeekly:
		return WindowDaily, nil
	case WindowMonthly, WindowYearly:
		return w, nil
	}
	return "", invalidf("unknown window %q", s)
}

// Bounds returns the first and last calendar day covered by w for the given
// today. The daily window is the Monday-start week containing today.
func (w Window) Bounds(today string) (from, to string, err error) {
	t, err := clock.ParseDay(today)
	if err != nil {
		return "", "", invalidf("today: %v", err)
	}
	switch w {
	case WindowDaily, WindowWeekly:
		from, err = clock.WeekStart(today)
		if err != nil {
			return "", "", err
		}
		to, err = clock.AddDays(from, 6)
		return from, to, err
	case WindowMonthly:
		from, to = clock.MonthBounds(t.Year(), t.Month())
		return from, to, nil
	case WindowYearly:
		from, _ = clock.MonthBounds(t.Year(), time.January)
		_, to = clock.MonthBounds(t.Year(), time.December)
		return from, to, nil
	}
	return "", "", invalidf("unknown window %q", w)
}

// DayBuckets builds one bucket per calendar day in days.
func DayBuckets(habits []wellness.Habit, logs []wellness.FoodLogEntry, tz string, days iter.Seq[string]) []wellness.Bucket {
	food := indexFood(logs, tz)
	buckets := []wellness.Bucket{}
	i := 0
	for day := range days {
		c := countHabits(habits, day)
		m := food[day]
		b := wellness.Bucket{
			Key:               day,
			Index:             i,
			Label:             day[5:],
			TotalHabitsActive: c.active,
			CompletedHabits:   c.completed,
			HabitsPercent:     percent(c.completed, c.active),
			Calories:          m.Calories,
			Protein:           m.Protein,
			Carbs:             m.Carbs,
			Fats:              m.Fats,
			Active:            c.anyDone || m.Calories > 0,
		}
		if b.Active {
			b.ActiveDays = 1
		}
		buckets = append(buckets, b)
		i++
	}
	return buckets
}

// MonthBuckets builds the twelve month buckets of year. Habit counts are
// summed over every day of the month before the percentage is taken.
func MonthBuckets(habits []wellness.Habit, logs []wellness.FoodLogEntry, tz string, year int) []wellness.Bucket {
	food := indexFood(logs, tz)
	buckets := make([]wellness.Bucket, 0, len(monthLabels))
	for i, label := range monthLabels {
		first, last := clock.MonthBounds(year, time.Month(i+1))
		b := wellness.Bucket{
			Key:   first[:7],
			Index: i,
			Label: label,
		}
		var month wellness.Macros
		for day := range clock.Days(first, last) {
			c := countHabits(habits, day)
			m := food[day]
			b.TotalHabitsActive += c.active
			b.CompletedHabits += c.completed
			month.Merge(m)
			if c.anyDone || m.Calories > 0 {
				b.ActiveDays++
			}
		}
		b.Calories, b.Protein, b.Carbs, b.Fats = month.Calories, month.Protein, month.Carbs, month.Fats
		b.HabitsPercent = percent(b.CompletedHabits, b.TotalHabitsActive)
		b.Active = b.ActiveDays > 0
		buckets = append(buckets, b)
	}
	return buckets
}

// Summarize folds buckets into window totals. TotalCalories is the sum of
// bucket calories, and AvgCompletion averages over every bucket, including
// those with no active habits.
func Summarize(buckets []wellness.Bucket) wellness.PeriodAnalytics {
	var out wellness.PeriodAnalytics
	var pct float64
	for _, b := range buckets {
		if b.Active {
			out.ActiveDays++
		}
		out.ActiveCalendarDays += b.ActiveDays
		out.TotalCalories += b.Calories
		out.Macros.Merge(b.Macros())
		pct += b.HabitsPercent
	}
	if len(buckets) > 0 {
		out.AvgCompletion = int(math.Round(pct / float64(len(buckets))))
	}
	out.Buckets = buckets
	return out
}

// Aggregate computes the analytics for window w relative to today in tz.
func Aggregate(w Window, habits []wellness.Habit, logs []wellness.FoodLogEntry, tz, today string) (wellness.PeriodAnalytics, error) {
	from, to, err := w.Bounds(today)
	if err != nil {
		return wellness.PeriodAnalytics{}, err
	}

	var buckets []wellness.Bucket
	switch w {
	case WindowYearly:
		year, _ := clock.ParseDay(today)
		buckets = MonthBuckets(habits, logs, tz, year.Year())
	case WindowDaily, WindowWeekly, WindowMonthly:
		buckets = DayBuckets(habits, logs, tz, clock.Days(from, to))
	default:
		return wellness.PeriodAnalytics{}, invalidf("unknown window %q", w)
	}

	out := Summarize(buckets)
	out.Window = string(w)
	out.Timezone = tz
	out.From = from
	out.To = to
	return out, nil
}
