package config

import (
	"os"
	"strings"
	"testing"
)

func TestResolveConfig_Defaults(t *testing.T) {
	isolate(t)
	r, err := ResolveConfig(CliFlags{})
	if err != nil {
		t.Fatalf("ResolveConfig() error = %v", err)
	}
	if r.Format != DefaultFormat || r.Theme != DefaultTheme || r.LogLevel != DefaultLogLevel {
		t.Errorf("unexpected defaults: %+v", r)
	}
	if r.Indent != DefaultIndent || r.Workers != 0 || !r.Backup || r.BackupSuffix != DefaultBackupSuffix {
		t.Errorf("unexpected defaults: %+v", r)
	}
	for name, src := range map[string]string{
		"format": r.FormatSource, "theme": r.ThemeSource, "log level": r.LogLevelSource,
		"indent": r.IndentSource, "workers": r.WorkersSource, "backup": r.BackupSource,
	} {
		if src != SourceDefault {
			t.Errorf("%s source = %q, want default", name, src)
		}
	}
}

func TestResolveConfig_PriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		env        map[string]string
		flags      CliFlags
		wantFormat string
		wantSource string
	}{
		{
			name:       "file over default",
			file:       "format: json\n",
			wantFormat: "json",
			wantSource: SourceFile,
		},
		{
			name:       "env over file",
			file:       "format: json\n",
			env:        map[string]string{"CLEANSARIF_FORMAT": "llm"},
			wantFormat: "llm",
			wantSource: SourceEnv,
		},
		{
			name:       "cli over env",
			file:       "format: json\n",
			env:        map[string]string{"CLEANSARIF_FORMAT": "llm"},
			flags:      CliFlags{Format: "terminal"},
			wantFormat: "terminal",
			wantSource: SourceCLI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.file != "" {
				if err := os.WriteFile(FileName, []byte(tt.file), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			r, err := ResolveConfig(tt.flags)
			if err != nil {
				t.Fatalf("ResolveConfig() error = %v", err)
			}
			if r.Format != tt.wantFormat || r.FormatSource != tt.wantSource {
				t.Errorf("Format = %q from %q, want %q from %q", r.Format, r.FormatSource, tt.wantFormat, tt.wantSource)
			}
		})
	}
}

func TestResolveConfig_ZeroValueFlags(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(FileName, []byte("indent: \"\\t\"\nworkers: 4\nbackup: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := ResolveConfig(CliFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Indent != "\t" || r.Workers != 4 || !r.Backup {
		t.Fatalf("file values not applied: %+v", r)
	}

	r, err = ResolveConfig(CliFlags{IndentSet: true, WorkersSet: true, NoBackup: true, NoBackupSet: true})
	if err != nil {
		t.Fatal(err)
	}
	if r.Indent != "" || r.IndentSource != SourceCLI {
		t.Errorf("explicit empty --indent lost: %q from %s", r.Indent, r.IndentSource)
	}
	if r.Workers != 0 || r.WorkersSource != SourceCLI {
		t.Errorf("explicit --workers 0 lost: %d from %s", r.Workers, r.WorkersSource)
	}
	if r.Backup || r.BackupSource != SourceCLI {
		t.Errorf("--no-backup lost: %v from %s", r.Backup, r.BackupSource)
	}
}

func TestResolveConfig_WorkersFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CLEANSARIF_WORKERS", "6")
	r, err := ResolveConfig(CliFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Workers != 6 || r.WorkersSource != SourceEnv {
		t.Errorf("Workers = %d from %s", r.Workers, r.WorkersSource)
	}

	t.Setenv("CLEANSARIF_WORKERS", "many")
	if _, err := ResolveConfig(CliFlags{}); err == nil {
		t.Error("expected error for non-numeric CLEANSARIF_WORKERS")
	}
}

func TestResolveConfig_NoColorForcesMono(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "1")
	r, err := ResolveConfig(CliFlags{Theme: "orca"})
	if err != nil {
		t.Fatal(err)
	}
	if !r.NoColor || r.Theme != "mono" || r.ThemeSource != SourceEnv {
		t.Errorf("NO_COLOR not honoured: %+v", r)
	}
}

func TestResolveConfig_FilterSet(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(FileName, []byte("filter_set: team.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := ResolveConfig(CliFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if r.FilterSet != "team.json" {
		t.Errorf("FilterSet = %q", r.FilterSet)
	}
	r, err = ResolveConfig(CliFlags{FilterSet: "mine.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if r.FilterSet != "mine.yaml" {
		t.Errorf("FilterSet = %q", r.FilterSet)
	}
}

func TestResolveConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		flags   CliFlags
		wantErr string
	}{
		{"valid", CliFlags{Format: "json", Theme: "mono", LogLevel: "info"}, ""},
		{"bad format", CliFlags{Format: "xml"}, "invalid format"},
		{"bad theme", CliFlags{Theme: "neon"}, "invalid theme"},
		{"bad log level", CliFlags{LogLevel: "trace"}, "invalid log level"},
		{"negative workers", CliFlags{Workers: -1, WorkersSet: true}, "workers must not be negative"},
		{"missing config", CliFlags{ConfigPath: "does-not-exist.yaml"}, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := ResolveConfig(tt.flags)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ResolveConfig() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ResolveConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
