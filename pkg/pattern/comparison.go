package pattern

// Comparison shows before/after values, such as result counts across a clean.
type Comparison struct {
	Label   string           `json:"label"`
	Changes []ComparisonItem `json:"changes"`
}

// ComparisonItem is a single before/after delta.
type ComparisonItem struct {
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
	Change int    `json:"change"` // After minus Before
}

func (c *Comparison) Type() PatternType { return PatternTypeComparison }
