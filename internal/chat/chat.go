// Package chat turns a precomputed analytics.ChatContext into a short reply.
// Responders never touch storage.
package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/brk3/wellnest/internal/analytics"
)

const MaxMessageLength = 1000

var ErrEmptyMessage = errors.New("message is required")

type Responder interface {
	Respond(ctx context.Context, c analytics.ChatContext, message string) (string, error)
}

const templates = `
{{define "overview"}}Buddy, today you're at {{.HabitCompletion}}% on habits ({{.CompletedHabits}}/{{.TotalHabits}}) and {{cal .CaloriesToday}} kcal in.
{{- if gt .Streak 0}} {{.Streak}} day streak, keep it rolling.{{else}} No streak yet today, one habit gets it going.{{end}}{{end}}

{{define "nutrition"}}{{cal .CaloriesToday}} kcal today. Macros: P {{cal .Protein}}g / C {{cal .Carbs}}g / F {{cal .Fats}}g.
This week {{cal .WeeklyCalories}}, this month {{cal .MonthlyCalories}}, this year {{cal .YearlyCalories}} kcal.{{end}}

{{define "habits"}}{{.CompletedHabits}} of {{.TotalHabits}} habits done ({{.HabitCompletion}}%).
{{- if gt .Streak 0}} Streak: {{.Streak}} days.{{else}} Streak is at 0, time to fix that.{{end}} Goals: {{.GoalsText}}.{{end}}

{{define "mood"}}{{if .Mood}}Mood today: {{.Mood}}/5.{{else}}No mood recorded today.{{end}}
{{- if .JournalEntry}} Journal: "{{.JournalEntry}}"{{else}} No journal today.{{end}}{{end}}
`

var topics = []struct {
	name     string
	keywords []string
}{
	{"nutrition", []string{"calorie", "kcal", "food", "eat", "macro", "protein", "carb", "fat", "diet"}},
	{"habits", []string{"habit", "streak", "goal", "progress"}},
	{"mood", []string{"mood", "journal", "feel", "feeling"}},
}

// TemplateResponder picks a reply template from keywords in the message and
// renders it against the context.
type TemplateResponder struct {
	tmpl *template.Template
}

func NewTemplateResponder() *TemplateResponder {
	funcs := template.FuncMap{
		"cal": func(v float64) string { return formatNumber(v) },
	}
	return &TemplateResponder{
		tmpl: template.Must(template.New("chat").Funcs(funcs).Parse(templates)),
	}
}

func Topic(message string) string {
	m := strings.ToLower(message)
	for _, t := range topics {
		for _, k := range t.keywords {
			if strings.Contains(m, k) {
				return t.name
			}
		}
	}
	return "overview"
}

func (r *TemplateResponder) Respond(ctx context.Context, c analytics.ChatContext, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	message = truncate(message, MaxMessageLength)

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, Topic(message), c); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var _ Responder = (*TemplateResponder)(nil)
