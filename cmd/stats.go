package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brk3/wellnest/internal/apiclient"
	"github.com/brk3/wellnest/pkg/wellness"
)

var summaryDate string

var statsCmd = &cobra.Command{
	Use:   "stats [daily|weekly|monthly|yearly]",
	Short: "Show today's stats, or analytics for a window",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiclient.New(cfg.APIBaseURL, cfg.APIKey)
		switch {
		case summaryDate != "":
			sum, err := client.DailySummary(cmd.Context(), summaryDate)
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
		case len(args) == 1:
			pa, err := client.PeriodAnalytics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPeriod(cmd, pa)
		default:
			qs, err := client.QuickStats(cmd.Context())
			if err != nil {
				return err
			}
			printQuickStats(cmd, qs)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&summaryDate, "date", "", "show the summary for one day (YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}

func printQuickStats(cmd *cobra.Command, qs *wellness.QuickStats) {
	cmd.Printf("Today:    %s\n", qs.Today)
	cmd.Printf("Streak:   %d days (longest %d)\n", qs.Streak, qs.LongestStreak)
	cmd.Printf("Habits:   %s (%d%%)\n", qs.HabitsHit, qs.HabitsPercent)
	cmd.Printf("Calories: %.0f / %.0f (%d%%)\n", qs.CaloriesToday, qs.CaloriesGoal, qs.CaloriesPercent)
	cmd.Printf("Goal:     %d%%\n", qs.TodayGoalPercent)
	if qs.StreakAtRisk() {
		cmd.Printf("Your %d day streak ends today unless you check in.\n", qs.YesterdayStreak)
	}
}

func printPeriod(cmd *cobra.Command, pa *wellness.PeriodAnalytics) {
	cmd.Printf("%s %s..%s (%s)\n", pa.Window, pa.From, pa.To, pa.Timezone)
	for _, b := range pa.Buckets {
		marker := " "
		if b.Active {
			marker = "*"
		}
		cmd.Printf("%s %-10s %3.0f%% habits %6.0f kcal\n", marker, b.Label, b.HabitsPercent, b.Calories)
	}
	cmd.Printf("Active days: %d, calories: %.0f, avg completion: %d%%\n",
		pa.ActiveCalendarDays, pa.TotalCalories, pa.AvgCompletion)
	cmd.Printf("Macros: P %.1fg / C %.1fg / F %.1fg\n", pa.Macros.Protein, pa.Macros.Carbs, pa.Macros.Fats)
}

func printSummary(cmd *cobra.Command, sum *wellness.DailySummary) {
	cmd.Printf("%s: %.0f / %.0f kcal\n", sum.Date, sum.CaloriesConsumed, sum.CaloriesGoal)
	for _, h := range sum.Habits {
		check := "[ ]"
		if h.IsCompleted {
			check = "[x]"
		}
		cmd.Printf("  %s %s %s\n", check, h.Emoji, h.Name)
	}
	for _, meal := range sum.MealOrder {
		for _, f := range sum.FoodByMealType[meal] {
			cmd.Printf("  %-9s %s (%.0f kcal)\n", meal, f.Name, f.Calories)
		}
	}
	if sum.Journal != nil {
		cmd.Printf("  Mood %d/5: %s\n", sum.Journal.MoodRating, sum.Journal.Entry)
	}
}
