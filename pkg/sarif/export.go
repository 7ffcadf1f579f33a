package sarif

import (
	"context"
	"os"
	"runtime"
)

type exportConfig struct {
	indent  string
	workers int
}

// ExportOption tunes Transform, Marshal and Export.
type ExportOption func(*exportConfig)

// WithIndent sets the per-level indent of the written JSON. An empty string
// produces compact output.
func WithIndent(indent string) ExportOption {
	return func(c *exportConfig) { c.indent = indent }
}

// WithWorkers bounds the goroutines used to evaluate filters. Values below 1
// mean one.
func WithWorkers(n int) ExportOption {
	return func(c *exportConfig) { c.workers = n }
}

func newExportConfig(opts []ExportOption) exportConfig {
	cfg := exportConfig{indent: "  ", workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Transform builds the tree an export would write: version first, the first
// run's artifacts removed, its results filtered and rebased, everything else
// copied. The document itself is not modified, and the returned tree shares
// nothing with it.
func (d *Document) Transform(ctx context.Context, opts ...ExportOption) (*Object, error) {
	cfg := newExportConfig(opts)
	f, err := compileFilter(d.suppressed, d.locations)
	if err != nil {
		return nil, err
	}

	out := NewObject()
	var version any = DefaultVersion
	if v, ok := d.tree.Get("version"); ok {
		version = Clone(v)
	}
	out.Set("version", version)

	for p := d.tree.Oldest(); p != nil; p = p.Next() {
		if err := checkCancel(ctx, "export", ""); err != nil {
			return nil, err
		}
		switch p.Key {
		case "version":
		case "runs":
			runs, err := d.transformRuns(ctx, f, cfg)
			if err != nil {
				return nil, err
			}
			out.Set(p.Key, runs)
		default:
			out.Set(p.Key, Clone(p.Value))
		}
	}
	return out, nil
}

func (d *Document) transformRuns(ctx context.Context, f *filter, cfg exportConfig) ([]any, error) {
	raw, _ := d.tree.Get("runs")
	runs, _ := raw.([]any) // validated at load
	out := make([]any, 0, len(runs))
	for i, run := range runs {
		if err := checkCancel(ctx, "export", ""); err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, Clone(run))
			continue
		}
		first, err := d.transformRun(ctx, f, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, first)
	}
	return out, nil
}

func (d *Document) transformRun(ctx context.Context, f *filter, cfg exportConfig) (*Object, error) {
	keep, err := f.decide(ctx, d.results, cfg.workers)
	if err != nil {
		return nil, err
	}

	out := NewObject()
	for p := d.run.Oldest(); p != nil; p = p.Next() {
		if err := checkCancel(ctx, "export", ""); err != nil {
			return nil, err
		}
		switch p.Key {
		case "artifacts":
		case "results":
			results, err := d.transformResults(ctx, keep)
			if err != nil {
				return nil, err
			}
			out.Set(p.Key, results)
		default:
			out.Set(p.Key, Clone(p.Value))
		}
	}
	return out, nil
}

func (d *Document) transformResults(ctx context.Context, keep []bool) ([]any, error) {
	out := make([]any, 0, len(d.results))
	for i, r := range d.results {
		if err := checkCancel(ctx, "export", ""); err != nil {
			return nil, err
		}
		if !keep[i] {
			continue
		}
		if d.hasOverride {
			out = append(out, RewriteURI(r, d.base, d.override))
		} else {
			out = append(out, Clone(r))
		}
	}
	return out, nil
}

// Marshal renders the export as JSON text.
func (d *Document) Marshal(ctx context.Context, opts ...ExportOption) ([]byte, error) {
	tree, err := d.Transform(ctx, opts...)
	if err != nil {
		return nil, err
	}
	data, err := encodeTree(tree, newExportConfig(opts).indent)
	if err != nil {
		return nil, newError(KindStructure, "export", "", "encode", err)
	}
	return data, nil
}

// Export writes the filtered, rebased document to path. The file is opened
// only once the complete output is in memory, so a cancelled or failed build
// never touches it. A failure during the write itself is not rolled back.
func (d *Document) Export(ctx context.Context, path string, opts ...ExportOption) error {
	data, err := d.Marshal(ctx, opts...)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Path == "" {
			e.Path = path
		}
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newError(KindIO, "export", path, "unable to write file", err)
	}
	return nil
}

// Remaining returns how many first-run results an export would keep.
func (d *Document) Remaining(ctx context.Context, opts ...ExportOption) (int, error) {
	cfg := newExportConfig(opts)
	f, err := compileFilter(d.suppressed, d.locations)
	if err != nil {
		return 0, err
	}
	keep, err := f.decide(ctx, d.results, cfg.workers)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	return n, nil
}
