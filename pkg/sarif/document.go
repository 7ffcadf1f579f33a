package sarif

import (
	"regexp"
	"slices"
	"strings"
)

// Document is a loaded SARIF file plus the filter state that shapes its
// export. The parsed tree is never modified after Load; exports build a new
// tree. A Document is not safe for concurrent mutation.
type Document struct {
	tree    *Object
	run     *Object // runs[0]
	results []any   // runs[0].results

	base        string
	override    string
	hasOverride bool

	suppressed []string
	locations  []string
}

// Base returns the longest common prefix of every result's artifact URI,
// computed at load time.
func (d *Document) Base() string { return d.base }

// SetBase makes exports rewrite URIs under Base to start with newBase.
func (d *Document) SetBase(newBase string) {
	d.override = newBase
	d.hasOverride = true
}

// ClearBase drops a base set with SetBase.
func (d *Document) ClearBase() {
	d.override = ""
	d.hasOverride = false
}

// Override returns the base set with SetBase, if any.
func (d *Document) Override() (string, bool) { return d.override, d.hasOverride }

// Version returns the top-level version, or DefaultVersion if absent.
func (d *Document) Version() string {
	if v, ok := d.tree.Get("version"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return DefaultVersion
}

// ToolName returns runs[0].tool.driver.name.
func (d *Document) ToolName() string {
	return lookupString(d.run, "tool", "driver", "name")
}

// ResultCount returns the number of results in the first run.
func (d *Document) ResultCount() int { return len(d.results) }

// Rules lists runs[0].tool.driver.rules in document order. Entries with a
// missing or mistyped field yield empty strings rather than an error.
func (d *Document) Rules() []Rule {
	raw, ok := lookup(d.run, "tool", "driver", "rules")
	if !ok {
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	rules := make([]Rule, 0, len(arr))
	for _, r := range arr {
		rules = append(rules, Rule{ID: lookupString(r, "id"), Help: ruleHelp(r)})
	}
	return rules
}

func ruleHelp(rule any) string {
	for _, key := range []string{"shortDescription", "fullDescription", "help"} {
		if s := lookupString(rule, key, "text"); s != "" {
			return s
		}
	}
	return ""
}

// RuleCounts tallies results per ruleId. Results without a ruleId count
// under "".
func (d *Document) RuleCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range d.results {
		counts[RuleOf(r)]++
	}
	return counts
}

// Files returns the distinct artifact URIs, sorted. When a base override is
// set, URIs that start with it are listed with that prefix stripped.
func (d *Document) Files() []string {
	seen := make(map[string]struct{})
	for _, r := range d.results {
		uri := ArtifactURI(r)
		if d.hasOverride && hasBase(uri, d.override) {
			uri = uri[len(d.override):]
		}
		seen[uri] = struct{}{}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// MatchFiles returns the members of Files that pattern matches anywhere.
func (d *Document) MatchFiles(pattern string) ([]string, error) {
	re, err := compilePattern("match files", pattern)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range d.Files() {
		if re.MatchString(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// SuppressRule excludes results with ruleID from future exports. It returns
// how many loaded results carry that rule, independent of other filters.
func (d *Document) SuppressRule(ruleID string) int {
	d.suppressed = append(d.suppressed, ruleID)
	return d.countMatching(func(r any) bool { return RuleOf(r) == ruleID })
}

// UnsuppressRule removes every suppression of ruleID. Unknown IDs are ignored.
func (d *Document) UnsuppressRule(ruleID string) {
	d.suppressed = slices.DeleteFunc(d.suppressed, func(s string) bool { return s == ruleID })
}

// SuppressedRules returns the suppressed rule IDs in insertion order.
func (d *Document) SuppressedRules() []string { return slices.Clone(d.suppressed) }

// AddLocationFilter excludes results whose artifact URI matches pattern from
// future exports. It returns how many loaded results match, independent of
// other filters. An invalid pattern returns a KindPattern error and changes
// nothing.
func (d *Document) AddLocationFilter(pattern string) (int, error) {
	re, err := compilePattern("add location filter", pattern)
	if err != nil {
		return 0, err
	}
	d.locations = append(d.locations, pattern)
	return d.countMatching(func(r any) bool { return re.MatchString(ArtifactURI(r)) }), nil
}

// RemoveLocationFilter removes every occurrence of pattern. Unknown patterns
// are ignored.
func (d *Document) RemoveLocationFilter(pattern string) {
	d.locations = slices.DeleteFunc(d.locations, func(s string) bool { return s == pattern })
}

// LocationFilters returns the active patterns in insertion order.
func (d *Document) LocationFilters() []string { return slices.Clone(d.locations) }

// Snapshot returns a copy that shares the parsed tree but owns its filter
// state and base override. The copy can be exported while d keeps changing.
func (d *Document) Snapshot() *Document {
	c := *d
	c.suppressed = slices.Clone(d.suppressed)
	c.locations = slices.Clone(d.locations)
	return &c
}

// Equal reports whether both documents hold the same JSON content. Filter
// state and base overrides are not part of the comparison.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return Equal(d.tree, other.tree)
}

// Summary collects the document's overview for a front end.
func (d *Document) Summary(path string) Summary {
	return Summary{
		Path:       path,
		Tool:       d.ToolName(),
		Version:    d.Version(),
		Base:       d.base,
		Results:    len(d.results),
		Rules:      d.Rules(),
		RuleCounts: d.RuleCounts(),
		Files:      len(d.Files()),
	}
}

func (d *Document) countMatching(match func(any) bool) int {
	n := 0
	for _, r := range d.results {
		if match(r) {
			n++
		}
	}
	return n
}

func compilePattern(op, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newError(KindPattern, op, pattern, "", err)
	}
	return re, nil
}

// trimBase strips base from uri when uri lies under it.
func trimBase(uri, base string) string {
	if base != "" && strings.HasPrefix(uri, base) {
		return uri[len(base):]
	}
	return uri
}
