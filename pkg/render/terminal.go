package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/cleansarif/pkg/pattern"
)

// maxNameWidth caps the name column of leaderboards and rule tables.
const maxNameWidth = 60

// Terminal renders patterns as styled terminal output using the theme's lipgloss styles.
type Terminal struct {
	theme Theme
	width int
	title cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, title: cases.Title(language.English)}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.RuleTable:
		return t.renderRuleTable(v)
	case *pattern.FileList:
		return t.renderFileList(v)
	case *pattern.Comparison:
		return t.renderComparison(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	labelWidth := 0
	for _, m := range s.Metrics {
		labelWidth = max(labelWidth, runewidth.StringWidth(m.Label))
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.theme.ForKind(m.Kind)
		sb.WriteString(style.Render(icon + " " + padRight(m.Label+":", labelWidth+1) + " " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, runewidth.StringWidth(item.Name))
		maxMetric = max(maxMetric, len(strconv.Itoa(item.Count)))
	}
	maxName = min(maxName, t.nameWidth())

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		sb.WriteString(t.theme.Primary.Render(padRight(truncate(item.Name, maxName), maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(strconv.Itoa(item.Count), maxMetric)))
		if l.MetricName != "" {
			sb.WriteString(t.theme.Muted.Render(" " + l.MetricName))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderRuleTable(rt *pattern.RuleTable) string {
	if len(rt.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	if rt.Label != "" {
		sb.WriteString(t.theme.Bold.Render(t.title.String(rt.Label)))
		sb.WriteString("\n")
	}

	maxID, maxCount := 0, 0
	for _, r := range rt.Rows {
		maxID = max(maxID, runewidth.StringWidth(r.ID))
		maxCount = max(maxCount, len(strconv.Itoa(r.Count)))
	}
	maxID = min(maxID, t.nameWidth())

	for _, r := range rt.Rows {
		sb.WriteString("  ")
		icon, style := t.theme.ForRule(r.Suppressed)
		sb.WriteString(style.Render(icon + " " + padRight(truncate(r.ID, maxID), maxID)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(strconv.Itoa(r.Count), maxCount)))
		if r.Help != "" {
			// Icon, spaces and both columns precede the help text.
			used := 2 + runewidth.StringWidth(icon) + 1 + maxID + 2 + maxCount + 2
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(truncate(r.Help, t.width-used)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderFileList(fl *pattern.FileList) string {
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(fl.Label))
	sb.WriteString("\n")
	if fl.Base != "" {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render("base " + fl.Base))
		sb.WriteString("\n")
	}
	for _, f := range fl.Files {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(t.theme.Icons.Bullet))
		sb.WriteString(" ")
		sb.WriteString(t.theme.Primary.Render(truncate(f, t.width-4)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderComparison(c *pattern.Comparison) string {
	if len(c.Changes) == 0 {
		return ""
	}
	var sb strings.Builder
	if c.Label != "" {
		sb.WriteString(t.theme.Bold.Render(c.Label))
		sb.WriteString("\n")
	}
	for _, item := range c.Changes {
		sb.WriteString("  ")
		sb.WriteString(item.Label + ": ")
		sb.WriteString(t.theme.Muted.Render(item.Before + " → " + item.After))
		sb.WriteString(" ")

		arrow, style := t.theme.ForChange(item.Change)
		abs := item.Change
		if abs < 0 {
			abs = -abs
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s %d", arrow, abs)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) nameWidth() int {
	return min(maxNameWidth, max(10, t.width/2))
}

// truncate shortens s to width display cells, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
