package sarif

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Load reads and validates a SARIF file from disk. The context is checked
// for every result while the base path is computed; cancellation fails the
// whole load.
func Load(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindIO, "load", path, "unable to open file", err)
	}
	doc, err := ReadBytes(ctx, data)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Path == "" {
			e.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// ReadBytes parses SARIF from memory. Input that is not valid UTF-8 is
// rejected rather than having bad bytes replaced with U+FFFD, which would
// silently change the exported document.
func ReadBytes(ctx context.Context, data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, newError(KindParse, "load", "", "file contains invalid UTF-8", nil)
	}
	v, err := decodeTree(bytes.NewReader(data))
	if err != nil {
		return nil, newError(KindParse, "load", "", "file does not contain valid JSON data", err)
	}
	return fromTree(ctx, v)
}

// Read parses SARIF from an io.Reader.
func Read(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(KindIO, "load", "", "unable to read input", err)
	}
	return ReadBytes(ctx, data)
}

// fromTree validates a decoded value and derives the document metadata.
func fromTree(ctx context.Context, v any) (*Document, error) {
	tree, ok := v.(*Object)
	if !ok {
		return nil, newError(KindSchema, "load", "", "top-level value is not an object, no $schema found", nil)
	}
	if err := checkSchema(tree); err != nil {
		return nil, err
	}

	run, results, err := firstRun(tree)
	if err != nil {
		return nil, err
	}

	doc := &Document{tree: tree, run: run, results: results}
	if doc.base, err = commonBase(ctx, results); err != nil {
		return nil, err
	}
	return doc, nil
}

func checkSchema(tree *Object) error {
	raw, ok := tree.Get("$schema")
	if !ok {
		return newError(KindSchema, "load", "", "no $schema found", nil)
	}
	schema, ok := raw.(string)
	if !ok {
		return newError(KindSchema, "load", "", "$schema is not a string", nil)
	}
	if !strings.Contains(schema, "sarif") {
		return newError(KindSchema, "load", "", "schema is not SARIF: "+schema, nil)
	}
	return nil
}

func firstRun(tree *Object) (*Object, []any, error) {
	raw, ok := tree.Get("runs")
	if !ok {
		return nil, nil, newError(KindStructure, "load", "", "missing runs", nil)
	}
	runs, ok := raw.([]any)
	if !ok {
		return nil, nil, newError(KindStructure, "load", "", "runs is not an array", nil)
	}
	if len(runs) == 0 {
		return nil, nil, newError(KindStructure, "load", "", "runs is empty", nil)
	}
	run, ok := runs[0].(*Object)
	if !ok {
		return nil, nil, newError(KindStructure, "load", "", "runs[0] is not an object", nil)
	}
	rawResults, ok := run.Get("results")
	if !ok {
		return nil, nil, newError(KindStructure, "load", "", "missing runs[0].results", nil)
	}
	results, ok := rawResults.([]any)
	if !ok {
		return nil, nil, newError(KindStructure, "load", "", "runs[0].results is not an array", nil)
	}
	return run, results, nil
}

// commonBase folds every result URI into a running longest common prefix.
func commonBase(ctx context.Context, results []any) (string, error) {
	var base string
	for i, r := range results {
		if err := checkCancel(ctx, "load", ""); err != nil {
			return "", err
		}
		uri := ArtifactURI(r)
		if i == 0 {
			base = uri
			continue
		}
		base = MaxMatch(base, uri)
	}
	return base, nil
}
