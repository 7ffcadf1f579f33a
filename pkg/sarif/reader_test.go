package sarif

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wantVersion = "2.1.0"

// minimalSARIF is the smallest document Read accepts.
const minimalSARIF = `{"version":"` + wantVersion + `","$schema":"https://json.schemastore.org/sarif-2.1.0.json","runs":[{"tool":{"driver":{"name":"test"}},"results":[]}]}`

func TestRead_ValidDocument(t *testing.T) {
	doc, err := Read(t.Context(), strings.NewReader(minimalSARIF))
	require.NoError(t, err)
	assert.Equal(t, wantVersion, doc.Version())
	assert.Equal(t, "test", doc.ToolName())
	assert.Zero(t, doc.ResultCount())
}

func TestRead_ValidWithTrailingWhitespace(t *testing.T) {
	_, err := Read(t.Context(), strings.NewReader(minimalSARIF+"   \n\t\n  "))
	require.NoError(t, err, "trailing whitespace should be accepted")
}

func TestRead_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     error
		contains string
	}{
		{"trailing garbage text", minimalSARIF + `garbage`, ErrParse, "trailing data"},
		{"trailing JSON object", minimalSARIF + `{"extra":"object"}`, ErrParse, "trailing data"},
		{"invalid JSON", `not json`, ErrParse, "valid JSON"},
		{"empty input", ``, ErrParse, "valid JSON"},
		{"truncated", `{"$schema":"sarif","runs":[`, ErrParse, "valid JSON"},
		{"invalid UTF-8 in string", "{\"$schema\":\"sarif\",\"runs\":[{\"results\":[]}],\"x\":\"\xff\"}", ErrParse, "invalid UTF-8"},
		{"top-level array", `[1,2]`, ErrSchema, "no $schema"},
		{"missing schema", `{"version":"2.1.0","runs":[]}`, ErrSchema, "no $schema found"},
		{"schema not a string", `{"$schema":42,"runs":[]}`, ErrSchema, "not a string"},
		{"schema not sarif", `{"$schema":"https://json-schema.org/draft/2020-12/schema","runs":[]}`, ErrSchema, "schema is not SARIF"},
		{"missing runs", `{"$schema":"sarif"}`, ErrStructure, "missing runs"},
		{"runs not array", `{"$schema":"sarif","runs":{}}`, ErrStructure, "runs is not an array"},
		{"runs empty", `{"$schema":"sarif","runs":[]}`, ErrStructure, "runs is empty"},
		{"run not object", `{"$schema":"sarif","runs":[7]}`, ErrStructure, "not an object"},
		{"results missing", `{"$schema":"sarif","runs":[{}]}`, ErrStructure, "missing runs[0].results"},
		{"results not array", `{"$schema":"sarif","runs":[{"results":"x"}]}`, ErrStructure, "results is not an array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(t.Context(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestReadBytes_ValidDocument(t *testing.T) {
	doc, err := ReadBytes(t.Context(), []byte(minimalSARIF))
	require.NoError(t, err)
	assert.Equal(t, wantVersion, doc.Version())
}

func TestRead_MissingVersionDefaults(t *testing.T) {
	doc, err := ReadBytes(t.Context(), []byte(`{"$schema":"sarif","runs":[{"results":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, doc.Version())
}

func TestLoad_NonexistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Nonexistent.sarif")
	_, err := Load(t.Context(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_ErrorsCarryPath(t *testing.T) {
	path := writeTemp(t, `not json`)
	_, err := Load(t.Context(), path)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindParse, e.Kind)
	assert.Equal(t, path, e.Path)
}

func TestLoad_BaseLocation(t *testing.T) {
	doc := loadReference(t)
	assert.Equal(t, referenceBase, doc.Base())
	assert.Equal(t, 12, doc.ResultCount())
}

func TestLoad_BaseIsCharacterPrefix(t *testing.T) {
	b := NewBuilder("t", "").
		AddResult("r", "note", "m", "/home/a", 1, 0).
		AddResult("r", "note", "m", "/home/ab", 1, 0)
	doc, err := Load(t.Context(), writeBuilder(t, b))
	require.NoError(t, err)
	assert.Equal(t, "/home/a", doc.Base())
}

func TestLoad_EmptyResultsHaveEmptyBase(t *testing.T) {
	doc, err := ReadBytes(t.Context(), []byte(minimalSARIF))
	require.NoError(t, err)
	assert.Empty(t, doc.Base())
}

func TestLoad_ResultWithoutLocationCollapsesBase(t *testing.T) {
	b := NewBuilder("t", "").
		AddResult("r", "note", "m", "/src/a.go", 1, 0).
		AddResult("r", "note", "no location", "", 0, 0)
	doc, err := Load(t.Context(), writeBuilder(t, b))
	require.NoError(t, err)
	assert.Empty(t, doc.Base())
}

func TestLoad_Cancelled(t *testing.T) {
	path := writeBuilder(t, referenceBuilder())
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	doc, err := Load(ctx, path)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_CancelledWithNoResultsSucceeds(t *testing.T) {
	// The context is only polled per result.
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := ReadBytes(ctx, []byte(minimalSARIF))
	assert.NoError(t, err)
}

func TestKindOf(t *testing.T) {
	_, err := ReadBytes(t.Context(), []byte(`{}`))
	assert.Equal(t, KindSchema, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
