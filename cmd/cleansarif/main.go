// cleansarif inspects and cleans SARIF static-analysis reports.
//
// Usage:
//
//	cleansarif summary scan.sarif
//	cleansarif rules scan.sarif --format llm
//	cleansarif files scan.sarif --match '3rdParty/'
//	cleansarif clean scan.sarif --suppress V008 --exclude '3rdParty/' --base /work/
//	go vet ./... 2>&1 | cleansarif wrap --tool govet > vet.sarif
//
// clean rewrites the input in place (after copying it to scan.sarif.backup)
// unless -o names another file. The written document lists "version" first,
// drops runs[0].artifacts and keeps every other field as loaded.
//
// Output modes (auto-detected):
//
//	terminal: styled Unicode output (default when TTY)
//	llm: terse plain text for AI consumption (default when piped)
//	json: structured JSON for automation
//
// Exit codes: 0 success, 1 operation failure, 2 usage error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/cleansarif/internal/config"
	"github.com/dkoosis/cleansarif/internal/logging"
	"github.com/dkoosis/cleansarif/internal/session"
	"github.com/dkoosis/cleansarif/internal/version"
	"github.com/dkoosis/cleansarif/pkg/pattern"
	"github.com/dkoosis/cleansarif/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks failures caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// app carries the I/O and resolved settings shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	format     string
	theme      string
	logLevel   string

	cfg *config.ResolvedConfig
	log *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "cleansarif: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cleansarif",
		Short:         "Inspect and clean SARIF static-analysis reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(version.String() + "\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default .cleansarif.yaml, then $XDG_CONFIG_HOME/cleansarif/.cleansarif.yaml)")
	pf.StringVar(&a.format, "format", "", "output format: auto, terminal, llm, json")
	pf.StringVar(&a.theme, "theme", "", "terminal theme: default, orca, mono")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.summaryCmd(),
		a.rulesCmd(),
		a.filesCmd(),
		a.cleanCmd(),
		a.wrapCmd(),
		a.versionCmd(),
	)
	return root
}

// setup resolves configuration and installs the logger before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	flags := config.CliFlags{
		ConfigPath: a.configPath,
		Format:     a.format,
		Theme:      a.theme,
		LogLevel:   a.logLevel,
	}
	fs := cmd.Flags()
	if fs.Changed("indent") {
		flags.Indent, _ = fs.GetString("indent")
		flags.IndentSet = true
	}
	if fs.Changed("workers") {
		flags.Workers, _ = fs.GetInt("workers")
		flags.WorkersSet = true
	}
	if fs.Changed("no-backup") {
		flags.NoBackup, _ = fs.GetBool("no-backup")
		flags.NoBackupSet = true
	}
	if fs.Changed("filters") {
		flags.FilterSet, _ = fs.GetString("filters")
	}

	cfg, err := config.ResolveConfig(flags)
	if err != nil {
		return usageError{err}
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError{err}
	}
	a.log = logging.Setup(a.stderr, level, cfg.NoColor || !isTTYWriter(a.stderr))
	a.log.Debug("config resolved",
		"file", cfg.ConfigPath,
		"format", cfg.Format, "format_source", cfg.FormatSource,
		"theme", cfg.Theme, "theme_source", cfg.ThemeSource,
		"workers", cfg.Workers, "backup", cfg.Backup)
	return nil
}

func (a *app) newSession() *session.Session {
	return session.New(session.Options{
		Indent:       a.cfg.Indent,
		Compact:      a.cfg.Indent == "",
		Workers:      a.cfg.Workers,
		NoBackup:     !a.cfg.Backup,
		BackupSuffix: a.cfg.BackupSuffix,
		Logger:       a.log,
	})
}

// print renders patterns for command run on source to stdout in the
// resolved format.
func (a *app) print(command, source string, patterns []pattern.Pattern) {
	mode := resolveFormat(a.cfg.Format, a.stdout)
	width, _ := termSize(a.stdout)
	r := render.ForFormat(mode, render.ThemeByName(a.cfg.Theme), width, render.Scope{Command: command, Source: source})
	fmt.Fprint(a.stdout, r.Render(patterns))
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("expected %s, got %d argument(s)", what, len(args))
		}
		return nil
	}
}
