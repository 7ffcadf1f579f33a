package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = ".cleansarif.yaml"

// Constants for default values.
const (
	DefaultFormat       = "auto"
	DefaultTheme        = "default"
	DefaultLogLevel     = "warn"
	DefaultIndent       = "  "
	DefaultBackupSuffix = ".backup"
)

// AppConfig represents the contents of .cleansarif.yaml. Pointer fields
// distinguish "absent" from a zero value the user chose.
type AppConfig struct {
	Format       string  `yaml:"format"`
	Theme        string  `yaml:"theme"`
	LogLevel     string  `yaml:"log_level"`
	Indent       *string `yaml:"indent"`
	Workers      *int    `yaml:"workers"`
	Backup       *bool   `yaml:"backup"`
	BackupSuffix string  `yaml:"backup_suffix"`
	FilterSet    string  `yaml:"filter_set"`
}

// LoadConfig reads the config file. With explicitPath empty the file is
// discovered with getConfigPath and a missing file yields an empty config;
// a named file must exist. The returned path is "" when no file was read.
func LoadConfig(explicitPath string) (*AppConfig, string, error) {
	path := explicitPath
	if path == "" {
		path = getConfigPath()
		if path == "" {
			return &AppConfig{}, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, path, nil
}

// getConfigPath tries to find the .cleansarif.yaml configuration file.
// It checks the local directory first, then the XDG user config dir.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not usable for path construction.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "cleansarif", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
