// Package config handles configuration loading and merging for cleansarif.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --theme, --log-level, --indent, --workers, --no-backup, --filters)
//  2. Environment variables (CLEANSARIF_FORMAT, CLEANSARIF_THEME, CLEANSARIF_LOG_LEVEL,
//     CLEANSARIF_WORKERS, NO_COLOR)
//  3. YAML config file (.cleansarif.yaml in the working directory or
//     $XDG_CONFIG_HOME/cleansarif/.cleansarif.yaml, or the file named by --config)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Keys
//
//   - format: auto, terminal, llm or json. auto picks terminal on a TTY, llm otherwise.
//   - theme: default, orca or mono.
//   - log_level: debug, info, warn or error.
//   - indent: per-level indent of exported SARIF; "" writes compact JSON.
//   - workers: goroutines used to evaluate filters; 0 means one per CPU.
//   - backup: copy the input aside before overwriting it in place.
//   - backup_suffix: appended to the input path to name the backup.
//   - filter_set: filter set applied by clean when --filters is not given.
//
// # Environment Variables
//
//   - NO_COLOR: any non-empty value forces the mono theme.
package config
