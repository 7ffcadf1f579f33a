package render

import (
	"encoding/json"

	"github.com/dkoosis/cleansarif/pkg/pattern"
)

// JSONSchemaVersion is bumped when the envelope or pattern payloads change
// incompatibly.
const JSONSchemaVersion = "1.0"

// Scope names what a rendering describes: the command that produced it and
// the SARIF document it was run on.
type Scope struct {
	Command string
	Source  string
}

// JSON renders patterns as structured JSON for automation.
type JSON struct {
	scope Scope
}

// NewJSON creates a JSON renderer whose envelope carries scope.
func NewJSON(scope Scope) *JSON {
	return &JSON{scope: scope}
}

// envelope is the top-level JSON document. Consumers switch on each
// pattern's type to decode its data.
type envelope struct {
	Tool     string        `json:"tool"`
	Version  string        `json:"version"`
	Command  string        `json:"command,omitempty"`
	Source   string        `json:"source,omitempty"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Render formats all patterns as one indented JSON document.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := envelope{
		Tool:     "cleansarif",
		Version:  JSONSchemaVersion,
		Command:  j.scope.Command,
		Source:   j.scope.Source,
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{Type: string(p.Type()), Data: p})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"tool": "cleansarif", "error": err.Error()})
		return string(errJSON) + "\n"
	}
	return string(data) + "\n"
}
