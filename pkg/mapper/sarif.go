// Package mapper converts SARIF documents and clean outcomes to view patterns.
package mapper

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/dkoosis/cleansarif/pkg/pattern"
	"github.com/dkoosis/cleansarif/pkg/sarif"
)

// noRule labels results that carry no ruleId.
const noRule = "(none)"

// FromSummary converts a loaded document's overview into patterns:
// Summary, Leaderboard of top files (if more than one file), RuleTable.
func FromSummary(sum sarif.Summary, top []sarif.FileCount, suppressed []string) []pattern.Pattern {
	patterns := []pattern.Pattern{documentSummary(sum)}
	if lb := fileLeaderboard(top, sum.Files); lb != nil {
		patterns = append(patterns, lb)
	}
	if rt := RuleTable(sum.Rules, sum.RuleCounts, suppressed); len(rt.Rows) > 0 {
		patterns = append(patterns, rt)
	}
	return patterns
}

func documentSummary(sum sarif.Summary) *pattern.Summary {
	label := sum.Path
	if label == "" {
		label = "SARIF document"
	}
	resultKind := "warning"
	if sum.Results == 0 {
		resultKind = "success"
	}
	base := sum.Base
	if base == "" {
		base = "(none)"
	}
	return &pattern.Summary{
		Label: label,
		Kind:  pattern.SummaryKindDocument,
		Metrics: []pattern.SummaryItem{
			{Label: "Tool", Value: orDash(sum.Tool), Kind: "info"},
			{Label: "Version", Value: sum.Version, Kind: "info"},
			{Label: "Base", Value: base, Kind: "info"},
			{Label: "Results", Value: strconv.Itoa(sum.Results), Kind: resultKind},
			{Label: "Rules", Value: strconv.Itoa(len(sum.Rules)), Kind: "info"},
			{Label: "Files", Value: strconv.Itoa(sum.Files), Kind: "info"},
		},
	}
}

func fileLeaderboard(top []sarif.FileCount, total int) *pattern.Leaderboard {
	if total <= 1 || len(top) == 0 {
		return nil
	}
	items := make([]pattern.LeaderboardItem, len(top))
	for i, f := range top {
		items[i] = pattern.LeaderboardItem{Name: f.File, Count: f.Count, Rank: i + 1}
	}
	return &pattern.Leaderboard{
		Label:      "Files with most results",
		MetricName: "results",
		Items:      items,
		TotalCount: total,
		ShowRank:   true,
	}
}

// RuleTable lists rules in their declared order, then any rule IDs that
// appear only on results, sorted.
func RuleTable(rules []sarif.Rule, counts map[string]int, suppressed []string) *pattern.RuleTable {
	rt := &pattern.RuleTable{Label: "Rules"}
	declared := make(map[string]bool, len(rules))
	for _, r := range rules {
		declared[r.ID] = true
		rt.Rows = append(rt.Rows, pattern.RuleRow{
			ID:         r.ID,
			Count:      counts[r.ID],
			Help:       r.Help,
			Suppressed: slices.Contains(suppressed, r.ID),
		})
	}

	var extra []string
	for id := range counts {
		if !declared[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		name := id
		if name == "" {
			name = noRule
		}
		rt.Rows = append(rt.Rows, pattern.RuleRow{
			ID:         name,
			Count:      counts[id],
			Suppressed: slices.Contains(suppressed, id),
		})
	}
	return rt
}

// FromFiles lists candidate paths. When matchPattern is set, files are the
// matches and total is the unfiltered count.
func FromFiles(base, matchPattern string, files []string, total int) []pattern.Pattern {
	label := fmt.Sprintf("%d files", len(files))
	if matchPattern != "" {
		label = fmt.Sprintf("%d of %d files match %s", len(files), total, matchPattern)
	}
	return []pattern.Pattern{&pattern.FileList{
		Label:   label,
		Base:    base,
		Pattern: matchPattern,
		Files:   files,
		Total:   total,
	}}
}

// FilterCount is one applied filter with the number of results it matched.
type FilterCount struct {
	Filter string
	Count  int
}

// CleanReport describes a finished clean.
type CleanReport struct {
	Input   string
	Output  string
	Backup  string // empty when no backup was written
	Base    string
	NewBase string // empty when the base was not rewritten
	Before  int
	After   int
	Rules   []FilterCount
	Files   []FilterCount
}

// FromClean converts a clean outcome into Summary, Comparison and a
// Leaderboard of filters by matched results.
func FromClean(r CleanReport) []pattern.Pattern {
	metrics := []pattern.SummaryItem{
		{Label: "Input", Value: r.Input, Kind: "info"},
		{Label: "Output", Value: r.Output, Kind: "success"},
	}
	if r.Backup != "" {
		metrics = append(metrics, pattern.SummaryItem{Label: "Backup", Value: r.Backup, Kind: "info"})
	}
	if r.NewBase != "" {
		metrics = append(metrics, pattern.SummaryItem{Label: "Base", Value: r.Base + " → " + r.NewBase, Kind: "warning"})
	}
	patterns := []pattern.Pattern{
		&pattern.Summary{Label: "Cleaned " + r.Input, Kind: pattern.SummaryKindClean, Metrics: metrics},
		&pattern.Comparison{
			Label: "Results",
			Changes: []pattern.ComparisonItem{{
				Label:  "results",
				Before: strconv.Itoa(r.Before),
				After:  strconv.Itoa(r.After),
				Change: r.After - r.Before,
			}},
		},
	}

	var items []pattern.LeaderboardItem
	for _, f := range r.Rules {
		items = append(items, pattern.LeaderboardItem{Name: "rule " + f.Filter, Count: f.Count})
	}
	for _, f := range r.Files {
		items = append(items, pattern.LeaderboardItem{Name: "file " + f.Filter, Count: f.Count})
	}
	if len(items) > 0 {
		for i := range items {
			items[i].Rank = i + 1
		}
		patterns = append(patterns, &pattern.Leaderboard{
			Label:      "Filters",
			MetricName: "matched",
			Items:      items,
			TotalCount: len(items),
		})
	}
	return patterns
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
