package sarif

import (
	"cmp"
	"slices"
)

// TopFiles returns files sorted by result count (descending, then by name),
// relative to Base. limit <= 0 returns every file.
func (d *Document) TopFiles(limit int) []FileCount {
	counts := make(map[string]int)
	for _, r := range d.results {
		counts[trimBase(ArtifactURI(r), d.base)]++
	}
	return topN(counts, limit)
}

// TopRules is TopFiles for rule IDs.
func (d *Document) TopRules(limit int) []FileCount {
	return topN(d.RuleCounts(), limit)
}

func topN(counts map[string]int, limit int) []FileCount {
	out := make([]FileCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, FileCount{File: k, Count: n})
	}
	slices.SortFunc(out, func(a, b FileCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.File, b.File)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
