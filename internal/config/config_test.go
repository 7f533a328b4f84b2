package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "sqlite backend",
			mutate:  func(c *Config) { c.Storage.Backend = "SQLite" },
			wantErr: false,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantErr: true,
			errMsg:  "Backend",
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Analysis.Workers = 65 },
			wantErr: true,
			errMsg:  "Workers",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Analysis.Workers = 0 },
			wantErr: true,
			errMsg:  "Workers",
		},
		{
			name:    "non-positive live rate",
			mutate:  func(c *Config) { c.Live.RatePerSecond = 0 },
			wantErr: true,
			errMsg:  "RatePerSecond",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
			errMsg:  "Level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "Format",
		},
		{
			name:    "bad session naming",
			mutate:  func(c *Config) { c.Storage.SessionNaming = "random" },
			wantErr: true,
			errMsg:  "SessionNaming",
		},
		{
			name:    "read timeout too short",
			mutate:  func(c *Config) { c.Server.ReadTimeout = time.Millisecond },
			wantErr: true,
			errMsg:  "ReadTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if cfg.Storage != want.Storage || cfg.Log != want.Log || cfg.Server != want.Server {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := `
storage:
  backend: sqlite
  data_dir: /srv/plotarc
analysis:
  workers: 3
server:
  read_timeout: 5s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PLOTARC_WORKERS", "7")
	t.Setenv("PLOTARC_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != "sqlite" || cfg.Storage.DataDir != "/srv/plotarc" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Analysis.Workers != 7 {
		t.Errorf("Workers = %d, want env override 7", cfg.Analysis.Workers)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	// keys absent from the file keep their defaults
	if cfg.Server.WriteTimeout != DefaultServer().WriteTimeout || cfg.Log.Format != "text" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an invalid log level")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("PLOTARC_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := getConfigPath(); got != filepath.Join("/xdg", "plotarc", "config.yaml") {
		t.Errorf("getConfigPath() = %q", got)
	}

	t.Setenv("PLOTARC_CONFIG", "/etc/plotarc.yaml")
	if got := getConfigPath(); got != "/etc/plotarc.yaml" {
		t.Errorf("getConfigPath() = %q, want PLOTARC_CONFIG", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/plotarc", filepath.Join(home, "plotarc")},
		{"/abs/path", "/abs/path"},
		{"relative/~/path", "relative/~/path"},
		{"~", "~"},
	}
	for _, tt := range tests {
		if got := expandTilde(tt.in); got != tt.want {
			t.Errorf("expandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Analysis.Workers = 2

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Storage.Backend != "sqlite" || loaded.Analysis.Workers != 2 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
