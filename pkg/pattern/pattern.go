// Package pattern defines the semantic views cleansarif prints about a
// document. Patterns are pure data; renderers decide presentation.
package pattern

// PatternType identifies the kind of view.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeLeaderboard PatternType = "leaderboard"
	PatternTypeRuleTable   PatternType = "rule-table"
	PatternTypeFileList    PatternType = "file-list"
	PatternTypeComparison  PatternType = "comparison"
)

// Pattern is the interface all views implement.
type Pattern interface {
	Type() PatternType
}
