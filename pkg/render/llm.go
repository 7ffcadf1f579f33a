package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/cleansarif/pkg/pattern"
)

// LLM renders patterns as terse plain text for piping and AI consumption:
// no ANSI codes, a SCOPE line first, stable ordering.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for i, p := range patterns {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch v := p.(type) {
		case *pattern.Summary:
			l.renderSummary(&sb, v)
		case *pattern.Leaderboard:
			l.renderLeaderboard(&sb, v)
		case *pattern.RuleTable:
			l.renderRuleTable(&sb, v)
		case *pattern.FileList:
			l.renderFileList(&sb, v)
		case *pattern.Comparison:
			l.renderComparison(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	parts := make([]string, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		parts = append(parts, strings.ToLower(m.Label)+"="+m.Value)
	}
	sb.WriteString("SCOPE: " + s.Label + "\n")
	if len(parts) > 0 {
		sb.WriteString(strings.Join(parts, " ") + "\n")
	}
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	header := lb.Label
	if lb.TotalCount > len(lb.Items) {
		header += fmt.Sprintf(" (top %d of %d)", len(lb.Items), lb.TotalCount)
	}
	sb.WriteString("## " + header + "\n")
	for _, item := range lb.Items {
		fmt.Fprintf(sb, "  %d %s\n", item.Count, item.Name)
	}
}

func (l *LLM) renderRuleTable(sb *strings.Builder, rt *pattern.RuleTable) {
	sb.WriteString("## " + rt.Label + "\n")
	for _, r := range rt.Rows {
		mark := ""
		if r.Suppressed {
			mark = " SUPPRESSED"
		}
		fmt.Fprintf(sb, "  %s %d%s", r.ID, r.Count, mark)
		if r.Help != "" {
			// Help text is a single line in this format.
			sb.WriteString(" " + strings.Join(strings.Fields(r.Help), " "))
		}
		sb.WriteString("\n")
	}
}

func (l *LLM) renderFileList(sb *strings.Builder, fl *pattern.FileList) {
	sb.WriteString("## " + fl.Label + "\n")
	for _, f := range fl.Files {
		sb.WriteString("  " + f + "\n")
	}
}

func (l *LLM) renderComparison(sb *strings.Builder, c *pattern.Comparison) {
	sb.WriteString("## " + c.Label + "\n")
	for _, item := range c.Changes {
		fmt.Fprintf(sb, "  %s: %s -> %s (%+d)\n", item.Label, item.Before, item.After, item.Change)
	}
}
