// Package render provides output renderers for cleansarif's views.
package render

import "github.com/dkoosis/cleansarif/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// ForFormat returns the renderer for a resolved format name ("terminal",
// "llm" or "json"). Unknown names fall back to llm, which is always safe to
// pipe. Only the JSON renderer records scope.
func ForFormat(format string, theme Theme, width int, scope Scope) Renderer {
	switch format {
	case "terminal":
		return NewTerminal(theme, width)
	case "json":
		return NewJSON(scope)
	default:
		return NewLLM()
	}
}
