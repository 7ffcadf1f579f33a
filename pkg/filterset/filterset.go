// Package filterset saves and restores the filter state of a SARIF document:
// an optional base path, suppressed rules and location patterns, each with a
// free-form note.
//
// The on-disk envelope is JSON:
//
//	{
//	  "fileFormatMajorVersion": 1,
//	  "fileFormatMinorVersion": 0,
//	  "basePath": "/work/",
//	  "ruleFilters": [{"rule": "V008", "note": "generated code"}],
//	  "fileFilters": [{"regex": "3rdParty/", "note": "vendored"}]
//	}
//
// Files ending in .yaml or .yml use the same field names in YAML.
package filterset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/cleansarif/pkg/sarif"
)

// Format version written by Save. Load accepts any minor version of the
// same major version.
const (
	MajorVersion = 1
	MinorVersion = 0
)

// RuleFilter suppresses one rule.
type RuleFilter struct {
	Rule string `json:"rule" yaml:"rule"`
	Note string `json:"note" yaml:"note"`
}

// FileFilter drops results whose artifact URI matches Regex.
type FileFilter struct {
	Regex string `json:"regex" yaml:"regex"`
	Note  string `json:"note" yaml:"note"`
}

// Set is a saved filter configuration.
type Set struct {
	MajorVersion int          `json:"fileFormatMajorVersion" yaml:"fileFormatMajorVersion"`
	MinorVersion int          `json:"fileFormatMinorVersion" yaml:"fileFormatMinorVersion"`
	BasePath     *string      `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	RuleFilters  []RuleFilter `json:"ruleFilters" yaml:"ruleFilters"`
	FileFilters  []FileFilter `json:"fileFilters" yaml:"fileFilters"`
}

// Applied reports the preview count returned for each filter, in Set order.
type Applied struct {
	RuleCounts []int
	FileCounts []int
}

// New returns an empty Set stamped with the current format version.
func New() *Set {
	return &Set{MajorVersion: MajorVersion, MinorVersion: MinorVersion}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a filter set from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter set: %w", err)
	}
	if isYAML(path) {
		return ParseYAML(data)
	}
	return Parse(data)
}

// Parse decodes the JSON envelope.
func Parse(data []byte) (*Set, error) {
	var s Set
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode filter set: %w", err)
	}
	return &s, s.validate()
}

// ParseYAML decodes the YAML form of the envelope.
func ParseYAML(data []byte) (*Set, error) {
	var s Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode filter set: %w", err)
	}
	return &s, s.validate()
}

func (s *Set) validate() error {
	if s.MajorVersion == 0 {
		return fmt.Errorf("filter set: missing fileFormatMajorVersion")
	}
	if s.MajorVersion > MajorVersion {
		return fmt.Errorf("filter set: format version %d.%d is newer than supported %d.%d",
			s.MajorVersion, s.MinorVersion, MajorVersion, MinorVersion)
	}
	return nil
}

// Save writes s to path, as YAML when the extension asks for it.
func Save(path string, s *Set) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode filter set: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write filter set: %w", err)
	}
	return nil
}

// Capture snapshots doc's filter state. notes maps a rule ID or pattern to
// its note; missing entries get an empty note.
func Capture(doc *sarif.Document, notes map[string]string) *Set {
	s := New()
	if base, ok := doc.Override(); ok {
		s.BasePath = &base
	}
	for _, r := range doc.SuppressedRules() {
		s.RuleFilters = append(s.RuleFilters, RuleFilter{Rule: r, Note: notes[r]})
	}
	for _, p := range doc.LocationFilters() {
		s.FileFilters = append(s.FileFilters, FileFilter{Regex: p, Note: notes[p]})
	}
	return s
}

// Apply installs the set on doc. Every pattern is compiled before anything
// changes, so an invalid pattern returns a sarif.KindPattern error and
// leaves doc as it was.
func (s *Set) Apply(doc *sarif.Document) (Applied, error) {
	for _, f := range s.FileFilters {
		if _, err := regexp.Compile(f.Regex); err != nil {
			return Applied{}, &sarif.Error{Kind: sarif.KindPattern, Op: "apply filter set", Path: f.Regex, Err: err}
		}
	}

	if s.BasePath != nil {
		doc.SetBase(*s.BasePath)
	}
	applied := Applied{
		RuleCounts: make([]int, 0, len(s.RuleFilters)),
		FileCounts: make([]int, 0, len(s.FileFilters)),
	}
	for _, r := range s.RuleFilters {
		applied.RuleCounts = append(applied.RuleCounts, doc.SuppressRule(r.Rule))
	}
	for _, f := range s.FileFilters {
		n, err := doc.AddLocationFilter(f.Regex)
		if err != nil {
			return applied, err // unreachable: compiled above
		}
		applied.FileCounts = append(applied.FileCounts, n)
	}
	return applied, nil
}
