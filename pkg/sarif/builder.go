package sarif

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
)

// SchemaURI is the $schema written by Builder.
const SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// Builder constructs SARIF 2.1.0 documents with a single run.
type Builder struct {
	toolName    string
	toolVersion string
	rules       []any
	artifacts   []any
	results     []any
}

// NewBuilder creates a SARIF builder for the given tool.
func NewBuilder(toolName, toolVersion string) *Builder {
	return &Builder{toolName: toolName, toolVersion: toolVersion}
}

// AddRule appends a driver rule with a short description.
func (b *Builder) AddRule(id, shortDescription string) *Builder {
	rule := NewObject()
	rule.Set("id", id)
	if shortDescription != "" {
		desc := NewObject()
		desc.Set("text", shortDescription)
		rule.Set("shortDescription", desc)
	}
	b.rules = append(b.rules, rule)
	return b
}

// AddArtifact appends a runs[0].artifacts entry for uri.
func (b *Builder) AddArtifact(uri string) *Builder {
	loc := NewObject()
	loc.Set("uri", uri)
	artifact := NewObject()
	artifact.Set("location", loc)
	b.artifacts = append(b.artifacts, artifact)
	return b
}

// AddResult adds a result with one physical location. An empty file adds
// a result without locations.
func (b *Builder) AddResult(ruleID, level, message, file string, line, col int) *Builder {
	r := NewObject()
	r.Set("ruleId", ruleID)
	r.Set("level", level)
	msg := NewObject()
	msg.Set("text", message)
	r.Set("message", msg)

	if file != "" {
		artifact := NewObject()
		artifact.Set("uri", file)
		physical := NewObject()
		physical.Set("artifactLocation", artifact)
		if line > 0 {
			region := NewObject()
			region.Set("startLine", json.Number(strconv.Itoa(line)))
			if col > 0 {
				region.Set("startColumn", json.Number(strconv.Itoa(col)))
			}
			physical.Set("region", region)
		}
		loc := NewObject()
		loc.Set("physicalLocation", physical)
		r.Set("locations", []any{loc})
	}
	b.results = append(b.results, r)
	return b
}

// Tree returns a fresh copy of the document built so far.
func (b *Builder) Tree() *Object {
	driver := NewObject()
	driver.Set("name", b.toolName)
	if b.toolVersion != "" {
		driver.Set("version", b.toolVersion)
	}
	driver.Set("rules", append([]any{}, b.rules...))
	tool := NewObject()
	tool.Set("driver", driver)

	run := NewObject()
	run.Set("tool", tool)
	if len(b.artifacts) > 0 {
		run.Set("artifacts", append([]any{}, b.artifacts...))
	}
	run.Set("results", append([]any{}, b.results...))

	doc := NewObject()
	doc.Set("version", DefaultVersion)
	doc.Set("$schema", SchemaURI)
	doc.Set("runs", []any{run})
	return Clone(doc).(*Object)
}

// Document returns the built document, ready for filtering and export.
func (b *Builder) Document() *Document {
	doc, err := fromTree(context.Background(), b.Tree())
	if err != nil {
		// Tree always carries a SARIF schema and a results array.
		panic(err)
	}
	return doc
}

// WriteTo writes the document as indented JSON to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	data, err := encodeTree(b.Tree(), "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
