package pattern

// SummaryKind identifies what produced a summary, for renderer dispatch.
type SummaryKind string

const (
	SummaryKindDocument SummaryKind = "document" // a loaded file's overview
	SummaryKindClean    SummaryKind = "clean"    // the outcome of an export
)

// Summary is a titled list of metrics.
type Summary struct {
	Label   string        `json:"label"`
	Kind    SummaryKind   `json:"kind"`
	Metrics []SummaryItem `json:"metrics"`
}

// SummaryItem is a single metric.
type SummaryItem struct {
	Label string `json:"label"` // e.g. "Results", "Base"
	Value string `json:"value"`
	Kind  string `json:"kind"` // "success", "error", "warning", "info"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
