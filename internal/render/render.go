// Package render formats insights for a terminal.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/roster"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(config.RenderLabelWidth)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	reachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// printer groups digits the en-US way (12,345).
var printer = message.NewPrinter(language.AmericanEnglish)

// Insights renders one person's insights as a multi-line block.
func Insights(name string, ins engine.AgeInsights) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(config.RenderTitle, name)))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf(config.RenderReference, ins.Reference.Format(config.DateFormatDisplay))))
	b.WriteString("\n\n")

	age := ins.Age
	row(&b, config.RenderAge, printer.Sprintf(config.RenderAgeValue, age.Years, age.Months, age.Days)+
		mutedStyle.Render(config.RenderSeparator+printer.Sprintf(config.RenderWeeksValue, age.Weeks)))

	b.WriteString("\n" + sectionStyle.Render(config.RenderTotals) + "\n")
	t := ins.Totals
	row(&b, config.RenderMonths, Number(t.TotalMonths))
	row(&b, config.RenderDays, Number(t.TotalDays))
	row(&b, config.RenderHours, Number(t.TotalHours))
	row(&b, config.RenderMinutes, Number(t.TotalMinutes))
	row(&b, config.RenderSeconds, Number(t.TotalSeconds))

	b.WriteString("\n")
	row(&b, config.RenderNextBirthday, Birthday(ins.NextBirthday))

	p := ins.LifeProgress
	row(&b, config.RenderLifeProgress, Bar(p.Percentage)+" "+Percentage(p.Percentage, p.ExpectancyYears))
	row(&b, "", mutedStyle.Render(p.Summary))

	if len(ins.Milestones) > 0 {
		b.WriteString("\n" + sectionStyle.Render(config.RenderMilestones) + "\n")
		for _, m := range ins.Milestones {
			b.WriteString(Milestone(m))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Roster renders one line per entry, in the order given.
func Roster(entries []roster.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render(config.RenderRosterEmpty) + "\n"
	}

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Name))
	}
	nameStyle := lipgloss.NewStyle().Bold(true).Width(width + 2)

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(nameStyle.Render(e.Name))
		b.WriteString(Birthday(e.Insights.NextBirthday))
		b.WriteString("\n")
	}
	return b.String()
}

// Birthday renders "Sunday, June 15, 2025 · turns 35 · in 3 days".
func Birthday(a engine.Anniversary) string {
	parts := []string{
		a.Weekday + ", " + a.Date.Format(config.DateFormatDisplay),
		printer.Sprintf(config.RenderTurns, a.TurnsAge),
		countdownStyle(a.DaysUntil).Render(a.Countdown),
	}
	return strings.Join(parts, config.RenderSeparator)
}

// Milestone renders one catalog line with its reached mark.
func Milestone(m engine.Milestone) string {
	mark := pendingStyle.Render(config.RenderMarkPending)
	status := countdownStyle(m.DaysUntil).Render(m.Countdown)
	if m.Reached {
		mark = reachedStyle.Render(config.RenderMarkReached)
		status = reachedStyle.Render(m.Countdown)
	}
	label := lipgloss.NewStyle().Width(config.RenderMilestoneWidth).Render(m.Label)
	date := mutedStyle.Render(m.TargetDate.Format(config.DateFormatShort))
	return "  " + mark + " " + label + date + config.RenderSeparator + status
}

// Number formats n with thousands separators.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percentage renders a life-progress share to one decimal.
func Percentage(pct float64, expectancy int) string {
	return printer.Sprintf(config.RenderProgressValue, pct, expectancy)
}

// Bar draws pct (0-100) as a fixed-width gauge.
func Bar(pct float64) string {
	filled := int(math.Round(pct / 100 * config.RenderProgressBar))
	filled = min(max(filled, 0), config.RenderProgressBar)
	return barStyle.Render(strings.Repeat(config.RenderBarFull, filled)) +
		mutedStyle.Render(strings.Repeat(config.RenderBarEmpty, config.RenderProgressBar-filled))
}

func countdownStyle(daysUntil int) lipgloss.Style {
	if daysUntil == 0 {
		return todayStyle
	}
	return pendingStyle
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}
