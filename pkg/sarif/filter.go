package sarif

import (
	"context"
	"regexp"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps small documents on a single goroutine.
const minChunk = 512

// filter is the export-time form of a Document's suppressions: the rule
// list as a set, each location pattern compiled once per pass.
type filter struct {
	rules    map[string]struct{}
	patterns []*regexp.Regexp
}

func compileFilter(rules, patterns []string) (*filter, error) {
	f := &filter{rules: make(map[string]struct{}, len(rules))}
	for _, r := range rules {
		f.rules[r] = struct{}{}
	}
	for _, p := range patterns {
		re, err := compilePattern("export", p)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// excludes reports whether result is dropped. The URI tested is the one in
// the loaded document, before any base rewrite.
func (f *filter) excludes(result any) bool {
	if _, ok := f.rules[RuleOf(result)]; ok {
		return true
	}
	if len(f.patterns) == 0 {
		return false
	}
	uri := ArtifactURI(result)
	for _, re := range f.patterns {
		if re.MatchString(uri) {
			return true
		}
	}
	return false
}

// decide computes keep[i] for every result. Work is split into contiguous
// chunks across at most workers goroutines; results land by index so the
// order always matches the input.
func (f *filter) decide(ctx context.Context, results []any, workers int) ([]bool, error) {
	keep := make([]bool, len(results))
	if workers < 1 {
		workers = 1
	}
	chunk := max(minChunk, (len(results)+workers-1)/workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(results); start += chunk {
		end := min(start+chunk, len(results))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := checkCancel(gctx, "export", ""); err != nil {
					return err
				}
				keep[i] = !f.excludes(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup cancels gctx only on failure; a parent cancelled after the
	// last chunk finished is still observed here.
	if err := checkCancel(ctx, "export", ""); err != nil {
		return nil, err
	}
	return keep, nil
}
