// Package session owns the loaded SARIF document for a front end. Loads and
// exports run on one worker goroutine; filter edits and queries run on the
// caller's goroutine under a read/write lock that jobs hold only briefly.
package session

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/dkoosis/cleansarif/pkg/filterset"
	"github.com/dkoosis/cleansarif/pkg/sarif"
)

var (
	// ErrBusy is returned when a job is submitted while another is running.
	ErrBusy = errors.New("session: a job is already running")
	// ErrNoDocument is returned by mutators before a successful Load.
	ErrNoDocument = errors.New("session: no document loaded")
	// ErrClosed is returned by jobs submitted after Close.
	ErrClosed = errors.New("session: closed")
)

// DefaultBackupSuffix is appended to the source path when an export would
// overwrite it.
const DefaultBackupSuffix = ".backup"

// Options configures a Session. The zero value is usable.
type Options struct {
	Indent       string // export indentation; "" means the sarif default
	Compact      bool   // export without indentation
	Workers      int    // filter workers; <= 0 means GOMAXPROCS
	NoBackup     bool   // skip the backup on in-place export
	BackupSuffix string // "" means DefaultBackupSuffix
	Logger       *slog.Logger
}

type job struct {
	ctx   context.Context
	name  string
	run   func(ctx context.Context) error
	reply chan error
}

// Session holds at most one document.
type Session struct {
	opts Options
	log  *slog.Logger

	mu   sync.RWMutex
	doc  *sarif.Document
	path string

	jobs      chan job
	busy      atomic.Bool
	closeOnce sync.Once
	done      chan struct{}

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// New starts a session and its worker goroutine. Call Close to stop it.
func New(opts Options) *Session {
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = DefaultBackupSuffix
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		opts: opts,
		log:  log,
		jobs: make(chan job),
		done: make(chan struct{}),
	}
	go s.worker()
	return s
}

// Close stops the worker. A running job is cancelled first.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.RequestCancel()
		close(s.done)
	})
}

func (s *Session) worker() {
	for {
		select {
		case <-s.done:
			return
		case j := <-s.jobs:
			start := time.Now()
			s.log.Debug("job started", "job", j.name)
			err := j.run(j.ctx)
			s.log.Debug("job finished", "job", j.name, "duration", time.Since(start), "err", err)
			j.reply <- err
		}
	}
}

// submit hands fn to the worker and blocks until it returns.
func (s *Session) submit(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	jctx, cancel := context.WithCancel(ctx)
	s.cancelMu.Lock()
	s.cancel = cancel
	s.cancelMu.Unlock()
	defer func() {
		s.cancelMu.Lock()
		s.cancel = nil
		s.cancelMu.Unlock()
		cancel()
	}()

	j := job{ctx: jctx, name: name, run: fn, reply: make(chan error, 1)}
	select {
	case s.jobs <- j:
	case <-s.done:
		return ErrClosed
	}
	return <-j.reply
}

// RequestCancel cancels the running job, if any. The job stops at its next
// polling point and returns a sarif.KindCancelled error.
func (s *Session) RequestCancel() {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancel != nil {
		s.log.Debug("cancel requested")
		s.cancel()
	}
}

// Busy reports whether a job is running.
func (s *Session) Busy() bool { return s.busy.Load() }

// Load parses path and, on success, replaces the current document.
func (s *Session) Load(ctx context.Context, path string) (sarif.Summary, error) {
	var sum sarif.Summary
	err := s.submit(ctx, "load", func(ctx context.Context) error {
		doc, err := sarif.Load(ctx, path)
		if err != nil {
			return err
		}
		// Callers may edit filters as soon as doc is published.
		sum = doc.Summary(path)
		s.mu.Lock()
		s.doc, s.path = doc, path
		s.mu.Unlock()
		return nil
	})
	return sum, err
}

// Export writes the filtered document to path. Exporting over the loaded
// file first copies it aside unless backups are disabled. The filter state
// is captured when the job starts; edits made while it runs do not block and
// apply to the next export.
func (s *Session) Export(ctx context.Context, path string) error {
	return s.submit(ctx, "export", func(ctx context.Context) error {
		doc, src, err := s.snapshot()
		if err != nil {
			return err
		}
		if !s.opts.NoBackup && filepath.Clean(path) == filepath.Clean(src) {
			backup := src + s.opts.BackupSuffix
			if err := copyFile(src, backup); err != nil {
				return errors.Wrapf(err, "back up %s", src)
			}
			s.log.Debug("backup written", "path", backup)
		}
		return doc.Export(ctx, path, s.exportOptions()...)
	})
}

// snapshot copies the document's filter state under a short read lock.
func (s *Session) snapshot() (*sarif.Document, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, "", ErrNoDocument
	}
	return s.doc.Snapshot(), s.path, nil
}

func (s *Session) exportOptions() []sarif.ExportOption {
	var opts []sarif.ExportOption
	switch {
	case s.opts.Compact:
		opts = append(opts, sarif.WithIndent(""))
	case s.opts.Indent != "":
		opts = append(opts, sarif.WithIndent(s.opts.Indent))
	}
	if s.opts.Workers > 0 {
		opts = append(opts, sarif.WithWorkers(s.opts.Workers))
	}
	return opts
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Path returns the loaded file's path, or "".
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Loaded reports whether a document is loaded.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc != nil
}

// read runs fn under the read lock, skipping it when nothing is loaded.
func (s *Session) read(fn func(d *sarif.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc != nil {
		fn(s.doc)
	}
}

// write runs fn under the write lock.
func (s *Session) write(fn func(d *sarif.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNoDocument
	}
	return fn(s.doc)
}

// Summary returns the current document's overview.
func (s *Session) Summary() (sarif.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return sarif.Summary{}, ErrNoDocument
	}
	return s.doc.Summary(s.path), nil
}

// Rules returns the driver rules of the loaded document.
func (s *Session) Rules() (rules []sarif.Rule) {
	s.read(func(d *sarif.Document) { rules = d.Rules() })
	return rules
}

// RuleCounts returns results per rule ID.
func (s *Session) RuleCounts() (counts map[string]int) {
	s.read(func(d *sarif.Document) { counts = d.RuleCounts() })
	return counts
}

// Files returns the distinct artifact URIs of the loaded results.
func (s *Session) Files() (files []string) {
	s.read(func(d *sarif.Document) { files = d.Files() })
	return files
}

// TopFiles returns the files with the most results.
func (s *Session) TopFiles(limit int) (top []sarif.FileCount) {
	s.read(func(d *sarif.Document) { top = d.TopFiles(limit) })
	return top
}

// MatchFiles previews which files a location pattern would drop.
func (s *Session) MatchFiles(pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.doc.MatchFiles(pattern)
}

// Base returns the common base path computed at load.
func (s *Session) Base() (base string) {
	s.read(func(d *sarif.Document) { base = d.Base() })
	return base
}

// SetBase makes exports rewrite the base to newBase.
func (s *Session) SetBase(newBase string) error {
	return s.write(func(d *sarif.Document) error {
		d.SetBase(newBase)
		return nil
	})
}

// SuppressRule returns the number of results the rule matches.
func (s *Session) SuppressRule(ruleID string) (int, error) {
	var n int
	err := s.write(func(d *sarif.Document) error {
		n = d.SuppressRule(ruleID)
		return nil
	})
	return n, err
}

// UnsuppressRule drops every suppression of ruleID.
func (s *Session) UnsuppressRule(ruleID string) error {
	return s.write(func(d *sarif.Document) error {
		d.UnsuppressRule(ruleID)
		return nil
	})
}

// SuppressedRules returns the suppressed rule IDs in insertion order.
func (s *Session) SuppressedRules() (rules []string) {
	s.read(func(d *sarif.Document) { rules = d.SuppressedRules() })
	return rules
}

// AddLocationFilter returns the number of results the pattern matches.
func (s *Session) AddLocationFilter(pattern string) (int, error) {
	var n int
	err := s.write(func(d *sarif.Document) error {
		var err error
		n, err = d.AddLocationFilter(pattern)
		return err
	})
	return n, err
}

// RemoveLocationFilter drops every occurrence of pattern.
func (s *Session) RemoveLocationFilter(pattern string) error {
	return s.write(func(d *sarif.Document) error {
		d.RemoveLocationFilter(pattern)
		return nil
	})
}

// LocationFilters returns the active location patterns.
func (s *Session) LocationFilters() (patterns []string) {
	s.read(func(d *sarif.Document) { patterns = d.LocationFilters() })
	return patterns
}

// ApplyFilterSet installs a saved filter set on the document.
func (s *Session) ApplyFilterSet(set *filterset.Set) (filterset.Applied, error) {
	var applied filterset.Applied
	err := s.write(func(d *sarif.Document) error {
		var err error
		applied, err = set.Apply(d)
		return err
	})
	return applied, err
}

// CaptureFilterSet snapshots the document's filter state.
func (s *Session) CaptureFilterSet(notes map[string]string) (*filterset.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return filterset.Capture(s.doc, notes), nil
}

// Remaining returns how many results an export would keep.
func (s *Session) Remaining(ctx context.Context) (int, error) {
	doc, _, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	return doc.Remaining(ctx, s.exportOptions()...)
}
