package pattern

// Leaderboard is a ranked list, such as the files with the most results.
type Leaderboard struct {
	Label      string            `json:"label"`
	MetricName string            `json:"metricName"` // e.g. "results"
	Items      []LeaderboardItem `json:"items"`
	TotalCount int               `json:"totalCount"` // entries before the top-N cut
	ShowRank   bool              `json:"showRank"`
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Rank  int    `json:"rank"`
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
