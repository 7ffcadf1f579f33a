package sarif

import "unicode/utf8"

// MaxMatch returns the longest common prefix of a and b, compared character
// by character from the start. It is not path-segment aware: "/home/a" and
// "/home/ab" share "/home/a".
func MaxMatch(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	// Never split a multi-byte character.
	for i > 0 && (splitsRune(a, i) || splitsRune(b, i)) {
		i--
	}
	return a[:i]
}

func splitsRune(s string, i int) bool {
	return i < len(s) && !utf8.RuneStart(s[i])
}

// hasBase reports whether s starts with base, using MaxMatch so the rewrite
// and the base computation agree on what "under the base" means.
func hasBase(s, base string) bool {
	return MaxMatch(s, base) == base
}

// ArtifactURI returns locations[0].physicalLocation.artifactLocation.uri of a
// result, or "" if any link is absent or of the wrong type. Only the first
// location is consulted.
func ArtifactURI(result any) string {
	locs, ok := lookup(result, "locations")
	if !ok {
		return ""
	}
	arr, ok := locs.([]any)
	if !ok || len(arr) == 0 {
		return ""
	}
	return lookupString(arr[0], "physicalLocation", "artifactLocation", "uri")
}

// RuleOf returns the result's ruleId, or "" if it is absent or not a string.
func RuleOf(result any) string {
	return lookupString(result, "ruleId")
}

// RewriteURI returns a copy of tree in which every string value under a key
// named "uri" that starts with lookFor has that prefix replaced by
// replaceWith. The input tree is left untouched.
func RewriteURI(tree any, lookFor, replaceWith string) any {
	switch t := tree.(type) {
	case *Object:
		out := NewObject()
		for p := t.Oldest(); p != nil; p = p.Next() {
			if s, ok := p.Value.(string); ok && p.Key == "uri" {
				if hasBase(s, lookFor) {
					s = replaceWith + s[len(lookFor):]
				}
				out.Set(p.Key, s)
				continue
			}
			out.Set(p.Key, RewriteURI(p.Value, lookFor, replaceWith))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = RewriteURI(e, lookFor, replaceWith)
		}
		return out
	default:
		return tree
	}
}
