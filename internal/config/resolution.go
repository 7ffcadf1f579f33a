package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Source names reported in ResolvedConfig.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

var (
	validFormats   = []string{"auto", "terminal", "llm", "json"}
	validThemes    = []string{"default", "orca", "mono"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// CliFlags holds the values of command-line flags. Empty strings mean the
// flag was not given; the *Set fields track flags whose zero value is
// meaningful.
type CliFlags struct {
	ConfigPath string
	Format     string
	Theme      string
	LogLevel   string
	FilterSet  string

	Indent    string
	IndentSet bool

	Workers    int
	WorkersSet bool

	NoBackup    bool
	NoBackupSet bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	Format       string
	Theme        string
	LogLevel     string
	Indent       string
	Workers      int
	Backup       bool
	BackupSuffix string
	FilterSet    string
	NoColor      bool

	// Resolution metadata (for debugging)
	ConfigPath     string // file read, "" if none
	FormatSource   string
	ThemeSource    string
	LogLevelSource string
	IndentSource   string
	WorkersSource  string
	BackupSource   string
}

// ResolveConfig resolves configuration from all sources with explicit
// priority order: CLI > env > file > default.
func ResolveConfig(flags CliFlags) (*ResolvedConfig, error) {
	appCfg, path, err := LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	r := &ResolvedConfig{ConfigPath: path}
	r.Format, r.FormatSource = resolveString(flags.Format, "CLEANSARIF_FORMAT", appCfg.Format, DefaultFormat)
	r.Theme, r.ThemeSource = resolveString(flags.Theme, "CLEANSARIF_THEME", appCfg.Theme, DefaultTheme)
	r.LogLevel, r.LogLevelSource = resolveString(flags.LogLevel, "CLEANSARIF_LOG_LEVEL", appCfg.LogLevel, DefaultLogLevel)

	switch {
	case flags.IndentSet:
		r.Indent, r.IndentSource = flags.Indent, SourceCLI
	case appCfg.Indent != nil:
		r.Indent, r.IndentSource = *appCfg.Indent, SourceFile
	default:
		r.Indent, r.IndentSource = DefaultIndent, SourceDefault
	}

	switch {
	case flags.WorkersSet:
		r.Workers, r.WorkersSource = flags.Workers, SourceCLI
	case os.Getenv("CLEANSARIF_WORKERS") != "":
		n, err := strconv.Atoi(os.Getenv("CLEANSARIF_WORKERS"))
		if err != nil {
			return nil, fmt.Errorf("config validation failed: CLEANSARIF_WORKERS: %w", err)
		}
		r.Workers, r.WorkersSource = n, SourceEnv
	case appCfg.Workers != nil:
		r.Workers, r.WorkersSource = *appCfg.Workers, SourceFile
	default:
		r.Workers, r.WorkersSource = 0, SourceDefault
	}

	switch {
	case flags.NoBackupSet:
		r.Backup, r.BackupSource = !flags.NoBackup, SourceCLI
	case appCfg.Backup != nil:
		r.Backup, r.BackupSource = *appCfg.Backup, SourceFile
	default:
		r.Backup, r.BackupSource = true, SourceDefault
	}

	r.BackupSuffix = appCfg.BackupSuffix
	if r.BackupSuffix == "" {
		r.BackupSuffix = DefaultBackupSuffix
	}
	r.FilterSet = appCfg.FilterSet
	if flags.FilterSet != "" {
		r.FilterSet = flags.FilterSet
	}

	// NO_COLOR (https://no-color.org) wins over any theme choice.
	if os.Getenv("NO_COLOR") != "" {
		r.NoColor = true
		r.Theme, r.ThemeSource = "mono", SourceEnv
	}

	if err := validateResolvedConfig(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

// resolveString picks the first non-empty of flag, $envKey, file, def.
func resolveString(flag, envKey, file, def string) (string, string) {
	if flag != "" {
		return flag, SourceCLI
	}
	if v := os.Getenv(envKey); v != "" {
		return v, SourceEnv
	}
	if file != "" {
		return file, SourceFile
	}
	return def, SourceDefault
}

// validateResolvedConfig returns an error naming the first invalid value.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !slices.Contains(validFormats, cfg.Format) {
		return fmt.Errorf("invalid format %q (from %s; must be one of %v)", cfg.Format, cfg.FormatSource, validFormats)
	}
	if !slices.Contains(validThemes, cfg.Theme) {
		return fmt.Errorf("invalid theme %q (from %s; must be one of %v)", cfg.Theme, cfg.ThemeSource, validThemes)
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level %q (from %s; must be one of %v)", cfg.LogLevel, cfg.LogLevelSource, validLogLevels)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d (from %s)", cfg.Workers, cfg.WorkersSource)
	}
	return nil
}
