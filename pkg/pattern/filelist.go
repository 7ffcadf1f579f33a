package pattern

// FileList is a list of artifact paths, optionally narrowed by a pattern.
type FileList struct {
	Label   string   `json:"label"`
	Base    string   `json:"base,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Files   []string `json:"files"`
	Total   int      `json:"total"` // files before Pattern was applied
}

func (f *FileList) Type() PatternType { return PatternTypeFileList }
