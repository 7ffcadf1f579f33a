package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/cleansarif/pkg/filterset"
	"github.com/dkoosis/cleansarif/pkg/sarif"
)

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = sarif.NewBuilder("pvs", "7.0").
		AddRule("V008", "unreachable code").
		AddRule("V501", "identical sub-expressions").
		AddResult("V008", "warning", "a", "/repo/src/a.cpp", 1, 1).
		AddResult("V008", "warning", "b", "/repo/vendor/z.cpp", 2, 1).
		AddResult("V501", "error", "c", "/repo/src/b.cpp", 3, 1).
		WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s := New(opts)
	t.Cleanup(s.Close)
	return s
}

func TestLoad_ReturnsSummary(t *testing.T) {
	s := newSession(t, Options{})
	path := writeSample(t, "in.sarif")

	sum, err := s.Load(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, path, sum.Path)
	assert.Equal(t, "pvs", sum.Tool)
	assert.Equal(t, "/repo/", sum.Base)
	assert.Equal(t, 3, sum.Results)
	assert.Equal(t, map[string]int{"V008": 2, "V501": 1}, sum.RuleCounts)
	assert.Len(t, sum.Rules, 2)
	assert.Equal(t, 3, sum.Files)

	assert.True(t, s.Loaded())
	assert.Equal(t, path, s.Path())
	assert.Equal(t, "/repo/", s.Base())
	assert.Len(t, s.Files(), 3)
	assert.False(t, s.Busy())
}

func TestNoDocument(t *testing.T) {
	s := newSession(t, Options{})

	_, err := s.SuppressRule("V008")
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = s.AddLocationFilter("x")
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.ErrorIs(t, s.SetBase("/x/"), ErrNoDocument)
	assert.ErrorIs(t, s.Export(t.Context(), filepath.Join(t.TempDir(), "o.sarif")), ErrNoDocument)
	_, err = s.Summary()
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = s.CaptureFilterSet(nil)
	assert.ErrorIs(t, err, ErrNoDocument)

	assert.Nil(t, s.Rules())
	assert.Nil(t, s.Files())
	assert.Empty(t, s.Base())
	assert.False(t, s.Loaded())
}

func TestLoad_FailureKeepsPreviousDocument(t *testing.T) {
	s := newSession(t, Options{})
	path := writeSample(t, "in.sarif")
	_, err := s.Load(t.Context(), path)
	require.NoError(t, err)

	bad := filepath.Join(t.TempDir(), "bad.sarif")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = s.Load(t.Context(), bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, sarif.ErrParse)
	assert.Equal(t, path, s.Path())
}

func TestLoad_ReplacesDocumentWholesale(t *testing.T) {
	s := newSession(t, Options{})
	first := writeSample(t, "a.sarif")
	_, err := s.Load(t.Context(), first)
	require.NoError(t, err)
	_, err = s.SuppressRule("V008")
	require.NoError(t, err)

	second := writeSample(t, "b.sarif")
	_, err = s.Load(t.Context(), second)
	require.NoError(t, err)
	assert.Empty(t, s.SuppressedRules())
}

func TestExport_InPlaceWritesBackup(t *testing.T) {
	s := newSession(t, Options{})
	path := writeSample(t, "in.sarif")
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = s.Load(t.Context(), path)
	require.NoError(t, err)
	n, err := s.SuppressRule("V008")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Export(t.Context(), filepath.Dir(path)+"/./"+filepath.Base(path)))
	backup, err := os.ReadFile(path + DefaultBackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	reloaded, err := sarif.Load(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ResultCount())
}

func TestExport_NoBackup(t *testing.T) {
	s := newSession(t, Options{NoBackup: true})
	path := writeSample(t, "in.sarif")
	_, err := s.Load(t.Context(), path)
	require.NoError(t, err)
	require.NoError(t, s.Export(t.Context(), path))
	assert.NoFileExists(t, path+DefaultBackupSuffix)
}

func TestExport_OtherDestinationNoBackup(t *testing.T) {
	s := newSession(t, Options{BackupSuffix: ".orig"})
	path := writeSample(t, "in.sarif")
	_, err := s.Load(t.Context(), path)
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.sarif")
	require.NoError(t, s.Export(t.Context(), out))
	assert.FileExists(t, out)
	assert.NoFileExists(t, path+".orig")
}

func TestExport_BackupFailureAborts(t *testing.T) {
	s := newSession(t, Options{})
	path := writeSample(t, "in.sarif")
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	// A directory where the backup should go makes the copy fail.
	require.NoError(t, os.Mkdir(path+DefaultBackupSuffix, 0o755))

	_, err = s.Load(t.Context(), path)
	require.NoError(t, err)
	_, err = s.SuppressRule("V008")
	require.NoError(t, err)

	err = s.Export(t.Context(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "back up")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestExport_CompactAndIndent(t *testing.T) {
	path := writeSample(t, "in.sarif")
	for name, opts := range map[string]Options{
		"compact": {Compact: true},
		"tabs":    {Indent: "\t", Workers: 2},
	} {
		t.Run(name, func(t *testing.T) {
			s := newSession(t, opts)
			_, err := s.Load(t.Context(), path)
			require.NoError(t, err)
			out := filepath.Join(t.TempDir(), "out.sarif")
			require.NoError(t, s.Export(t.Context(), out))
			data, err := os.ReadFile(out)
			require.NoError(t, err)
			if opts.Compact {
				assert.Contains(t, string(data), `{"version":"2.1.0",`)
			} else {
				assert.Contains(t, string(data), "{\n\t\"version\": \"2.1.0\",")
			}
		})
	}
}

func TestSubmit_Busy(t *testing.T) {
	s := newSession(t, Options{})
	started := make(chan struct{})
	release := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- s.submit(context.Background(), "block", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.True(t, s.Busy())
	_, err := s.Load(t.Context(), writeSample(t, "in.sarif"))
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-errc)
	assert.False(t, s.Busy())
}

func TestRequestCancel(t *testing.T) {
	s := newSession(t, Options{})
	started := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- s.submit(context.Background(), "wait", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started
	s.RequestCancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	// Nothing running: a no-op.
	s.RequestCancel()
}

func TestLoad_Cancelled(t *testing.T) {
	s := newSession(t, Options{})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := s.Load(ctx, writeSample(t, "in.sarif"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sarif.ErrCancelled)
	assert.False(t, s.Loaded())
}

func TestClosed(t *testing.T) {
	s := New(Options{})
	s.Close()
	s.Close()
	_, err := s.Load(t.Context(), writeSample(t, "in.sarif"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFilterPassthroughs(t *testing.T) {
	s := newSession(t, Options{})
	_, err := s.Load(t.Context(), writeSample(t, "in.sarif"))
	require.NoError(t, err)

	n, err := s.AddLocationFilter("vendor/")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = s.AddLocationFilter("(")
	assert.ErrorIs(t, err, sarif.ErrPattern)
	assert.Equal(t, []string{"vendor/"}, s.LocationFilters())

	matched, err := s.MatchFiles("src/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/src/a.cpp", "/repo/src/b.cpp"}, matched)

	require.NoError(t, s.RemoveLocationFilter("vendor/"))
	assert.Empty(t, s.LocationFilters())

	_, err = s.SuppressRule("V501")
	require.NoError(t, err)
	require.NoError(t, s.UnsuppressRule("V501"))
	assert.Empty(t, s.SuppressedRules())

	require.NoError(t, s.SetBase("/work/"))
	assert.Equal(t, "/repo/", s.Base())
	assert.Contains(t, s.Files(), "/repo/src/a.cpp")
	assert.Equal(t, []sarif.FileCount{{File: "src/a.cpp", Count: 1}}, s.TopFiles(1))
}

func TestFilterSetRoundTrip(t *testing.T) {
	s := newSession(t, Options{})
	path := writeSample(t, "in.sarif")
	_, err := s.Load(t.Context(), path)
	require.NoError(t, err)
	_, err = s.SuppressRule("V008")
	require.NoError(t, err)
	_, err = s.AddLocationFilter("vendor/")
	require.NoError(t, err)

	set, err := s.CaptureFilterSet(map[string]string{"V008": "noise"})
	require.NoError(t, err)
	assert.Equal(t, "noise", set.RuleFilters[0].Note)

	other := newSession(t, Options{})
	_, err = other.Load(t.Context(), path)
	require.NoError(t, err)
	applied, err := other.ApplyFilterSet(set)
	require.NoError(t, err)
	assert.Equal(t, filterset.Applied{RuleCounts: []int{2}, FileCounts: []int{1}}, applied)
	assert.Equal(t, s.SuppressedRules(), other.SuppressedRules())
}

func TestRemaining(t *testing.T) {
	s := newSession(t, Options{})
	_, err := s.Remaining(t.Context())
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = s.Load(t.Context(), writeSample(t, "in.sarif"))
	require.NoError(t, err)
	_, err = s.SuppressRule("V501")
	require.NoError(t, err)
	n, err := s.Remaining(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoad_ConcurrentSetBase(t *testing.T) {
	s := newSession(t, Options{})
	path := writeSample(t, "in.sarif")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = s.SetBase("/x/")
			}
		}
	}()

	for range 50 {
		sum, err := s.Load(t.Context(), path)
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Files)
	}
	close(stop)
	wg.Wait()
}

func TestExport_ConcurrentFilterEdits(t *testing.T) {
	s := newSession(t, Options{NoBackup: true})
	_, err := s.Load(t.Context(), writeSample(t, "in.sarif"))
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.sarif")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = s.SuppressRule("V501")
				_ = s.UnsuppressRule("V501")
				_, _ = s.AddLocationFilter("vendor/")
				_ = s.RemoveLocationFilter("vendor/")
				_ = s.SetBase("/work/")
			}
		}
	}()

	for range 20 {
		require.NoError(t, s.Export(t.Context(), out))
		doc, err := sarif.Load(t.Context(), out)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, doc.ResultCount(), 1)
		assert.LessOrEqual(t, doc.ResultCount(), 3)
	}
	close(stop)
	wg.Wait()
}
