// Package sarif loads, filters, rebases and re-exports SARIF (Static Analysis
// Results Interchange Format) documents.
//
// A Document keeps the parsed file as an ordered JSON tree so that an export
// reproduces the input field for field, except for the edits requested
// through the filter setters. Only the first run is inspected.
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html
package sarif

// DefaultVersion is written when the input carries no top-level version.
const DefaultVersion = "2.1.0"

// Rule is an entry of runs[0].tool.driver.rules.
type Rule struct {
	ID   string `json:"id"`
	Help string `json:"help"` // short description, else full description, else help text
}

// FileCount is a file and the number of results reported against it.
type FileCount struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Summary is the view of a loaded document a front end needs to populate
// its rule and file lists.
type Summary struct {
	Path       string         `json:"path"`
	Tool       string         `json:"tool"`
	Version    string         `json:"version"`
	Base       string         `json:"base"`
	Results    int            `json:"results"`
	Rules      []Rule         `json:"rules"`
	RuleCounts map[string]int `json:"ruleCounts"`
	Files      int            `json:"files"`
}
