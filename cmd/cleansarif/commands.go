package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkoosis/cleansarif/internal/progress"
	"github.com/dkoosis/cleansarif/internal/session"
	"github.com/dkoosis/cleansarif/internal/version"
	"github.com/dkoosis/cleansarif/pkg/filterset"
	"github.com/dkoosis/cleansarif/pkg/mapper"
	"github.com/dkoosis/cleansarif/pkg/pattern"
	"github.com/dkoosis/cleansarif/pkg/sarif"
)

// load opens path in a fresh session behind a spinner on stderr.
func (a *app) load(ctx context.Context, path string) (*session.Session, sarif.Summary, error) {
	sess := a.newSession()
	var sum sarif.Summary
	err := progress.Run(ctx, a.stderr, "loading "+filepath.Base(path), func(ctx context.Context) error {
		var err error
		sum, err = sess.Load(ctx, path)
		return err
	})
	if err != nil {
		sess.Close()
		return nil, sarif.Summary{}, err
	}
	a.log.Info("loaded", "path", path, "results", sum.Results, "base", sum.Base)
	return sess, sum, nil
}

func (a *app) summaryCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Show tool, base path, and result counts",
		Args:  exactArgs(1, "one SARIF file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return usagef("--top must not be negative")
			}
			sess, sum, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()
			a.print("summary", args[0], mapper.FromSummary(sum, sess.TopFiles(top), sess.SuppressedRules()))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "files to list in the leaderboard (0 for all)")
	return cmd
}

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules FILE",
		Short: "List rules with result counts and help text",
		Args:  exactArgs(1, "one SARIF file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, sum, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()
			a.print("rules", args[0], []pattern.Pattern{mapper.RuleTable(sum.Rules, sum.RuleCounts, nil)})
			return nil
		},
	}
}

func (a *app) filesCmd() *cobra.Command {
	var match, newBase string
	cmd := &cobra.Command{
		Use:   "files FILE",
		Short: "List result files, or preview which a location pattern drops",
		Args:  exactArgs(1, "one SARIF file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, sum, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			all := sess.Files()
			files := all
			if match != "" {
				files, err = sess.MatchFiles(match)
				if err != nil {
					return patternError(err)
				}
			}
			base := sum.Base
			if cmd.Flags().Changed("base") {
				files = rebase(files, base, newBase)
				base = newBase
			}
			a.print("files", args[0], mapper.FromFiles(base, match, files, len(all)))
			return nil
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "show only files whose URI matches this regular expression")
	cmd.Flags().StringVar(&newBase, "base", "", "show paths as they would read under this base")
	return cmd
}

// rebase swaps the base prefix of each file for newBase.
func rebase(files []string, base, newBase string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		if rest, ok := strings.CutPrefix(f, base); ok {
			f = newBase + rest
		}
		out[i] = f
	}
	return out
}

// patternError turns a bad user regex into a usage error.
func patternError(err error) error {
	if errors.Is(err, sarif.ErrPattern) {
		return usageError{err}
	}
	return err
}

type cleanOptions struct {
	output      string
	suppress    []string
	exclude     []string
	base        string
	saveFilters string
}

func (a *app) cleanCmd() *cobra.Command {
	var opts cleanOptions
	cmd := &cobra.Command{
		Use:   "clean IN",
		Short: "Suppress rules, drop files, rebase URIs, and write the result",
		Long: `clean loads IN, applies the saved filter set (--filters), then every
--suppress and --exclude, rewrites the base path if --base is given and
writes the document to -o (default: IN, after writing IN.backup).`,
		Args: exactArgs(1, "one SARIF file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.clean(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite IN)")
	f.StringArrayVar(&opts.suppress, "suppress", nil, "drop results for this rule ID (repeatable)")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "drop results whose first location URI matches this regular expression (repeatable)")
	f.StringVar(&opts.base, "base", "", "replace the common base path with this prefix")
	f.String("filters", "", "apply a saved filter set (.json, .yaml)")
	f.StringVar(&opts.saveFilters, "save-filters", "", "save the final filter state to this file")
	f.Bool("no-backup", false, "do not copy IN aside before overwriting it")
	f.String("indent", "", `output indentation ("" for compact)`)
	f.Int("workers", 0, "filter workers (0 for GOMAXPROCS)")
	return cmd
}

func (a *app) clean(cmd *cobra.Command, in string, opts cleanOptions) error {
	ctx := cmd.Context()
	sess, sum, err := a.load(ctx, in)
	if err != nil {
		return err
	}
	defer sess.Close()

	report := mapper.CleanReport{Input: in, Base: sum.Base, Before: sum.Results}

	if a.cfg.FilterSet != "" {
		set, err := filterset.Load(a.cfg.FilterSet)
		if err != nil {
			return err
		}
		applied, err := sess.ApplyFilterSet(set)
		if err != nil {
			return err
		}
		for i, rf := range set.RuleFilters {
			report.Rules = append(report.Rules, mapper.FilterCount{Filter: rf.Rule, Count: applied.RuleCounts[i]})
		}
		for i, ff := range set.FileFilters {
			report.Files = append(report.Files, mapper.FilterCount{Filter: ff.Regex, Count: applied.FileCounts[i]})
		}
		if set.BasePath != nil {
			report.NewBase = *set.BasePath
		}
		a.log.Info("filter set applied", "path", a.cfg.FilterSet,
			"rules", len(set.RuleFilters), "files", len(set.FileFilters))
	}

	for _, id := range opts.suppress {
		n, err := sess.SuppressRule(id)
		if err != nil {
			return err
		}
		if n == 0 {
			a.log.Warn("rule matches no results", "rule", id)
		}
		report.Rules = append(report.Rules, mapper.FilterCount{Filter: id, Count: n})
	}
	for _, p := range opts.exclude {
		n, err := sess.AddLocationFilter(p)
		if err != nil {
			return patternError(err)
		}
		if n == 0 {
			a.log.Warn("pattern matches no results", "pattern", p)
		}
		report.Files = append(report.Files, mapper.FilterCount{Filter: p, Count: n})
	}
	if cmd.Flags().Changed("base") {
		if err := sess.SetBase(opts.base); err != nil {
			return err
		}
		report.NewBase = opts.base
	}

	if opts.saveFilters != "" {
		set, err := sess.CaptureFilterSet(nil)
		if err != nil {
			return err
		}
		if err := filterset.Save(opts.saveFilters, set); err != nil {
			return err
		}
		a.log.Info("filter set saved", "path", opts.saveFilters)
	}

	report.After, err = sess.Remaining(ctx)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = in
	}
	report.Output = out
	if a.cfg.Backup && filepath.Clean(out) == filepath.Clean(in) {
		report.Backup = in + a.cfg.BackupSuffix
	}

	err = progress.Run(ctx, a.stderr, "writing "+filepath.Base(out), func(ctx context.Context) error {
		return sess.Export(ctx, out)
	})
	if err != nil {
		return err
	}
	a.log.Info("exported", "path", out, "before", report.Before, "after", report.After)
	a.print("clean", in, mapper.FromClean(report))
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0, "no arguments"),
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}

func (a *app) wrapCmd() *cobra.Command {
	var toolName, ruleID, level, toolVersion string
	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Convert file:line:col diagnostics on stdin to SARIF on stdout",
		Example: `  go vet ./... 2>&1 | cleansarif wrap --tool govet > vet.sarif
  gofmt -l . | cleansarif wrap --tool gofmt --rule gofmt`,
		Args: exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if toolName == "" {
				return usagef("wrap: --tool is required")
			}
			switch level {
			case "error", "warning", "note", "none":
			default:
				return usagef("wrap: invalid level %q (must be error, warning, note or none)", level)
			}

			b := sarif.NewBuilder(toolName, toolVersion).AddRule(ruleID, "")
			scanner := bufio.NewScanner(a.stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			n := 0
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				file, ln, col, msg := parseDiagLine(line)
				if file == "" {
					a.log.Debug("skipping unrecognized line", "line", line)
					continue
				}
				b.AddResult(ruleID, level, msg, file, ln, col)
				n++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("wrap: reading stdin: %w", err)
			}
			if _, err := b.WriteTo(a.stdout); err != nil {
				return fmt.Errorf("wrap: writing output: %w", err)
			}
			a.log.Info("wrapped diagnostics", "tool", toolName, "results", n)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&toolName, "tool", "", "tool name for driver.name (required)")
	f.StringVar(&ruleID, "rule", "finding", "rule ID for every result")
	f.StringVar(&level, "level", "warning", "result level: error, warning, note, none")
	f.StringVar(&toolVersion, "tool-version", "", "tool version string")
	return cmd
}

// parseDiagLine parses compiler-style diagnostics:
//  1. file:line:col: message
//  2. file:line: message
//  3. path/to/file.go  (file-only, e.g., gofmt -l)
//
// Handles Windows drive-letter prefixes (e.g. C:\path\file.go:10:5: msg).
func parseDiagLine(line string) (file string, ln, col int, msg string) {
	rest := line
	var prefix string

	if len(rest) >= 3 && rest[1] == ':' && (rest[2] == '\\' || rest[2] == '/') {
		prefix = rest[:2]
		rest = rest[2:]
	}

	parts := strings.SplitN(rest, ":", 4)
	if len(parts) >= 4 {
		var l, c int
		if _, err := fmt.Sscanf(parts[1], "%d", &l); err == nil {
			if _, err := fmt.Sscanf(parts[2], "%d", &c); err == nil {
				return prefix + parts[0], l, c, strings.TrimSpace(parts[3])
			}
		}
	}

	if len(parts) >= 3 {
		var l int
		if _, err := fmt.Sscanf(parts[1], "%d", &l); err == nil {
			return prefix + parts[0], l, 0, strings.TrimSpace(strings.Join(parts[2:], ":"))
		}
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasSuffix(trimmed, ".go") || strings.Contains(trimmed, "/") {
		if !strings.Contains(trimmed, " ") {
			return trimmed, 0, 0, "needs formatting"
		}
	}

	return "", 0, 0, ""
}
