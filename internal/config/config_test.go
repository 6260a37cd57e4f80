package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("driver: got %q", cfg.Storage.Driver)
	}
	if cfg.Recommender.LearningRate != 0.1 || cfg.Recommender.Exploration != 0.2 {
		t.Errorf("recommender: got %+v", cfg.Recommender)
	}
	if cfg.Spotify.MaxRetries != 1 {
		t.Errorf("retries should be opt-in, got %d", cfg.Spotify.MaxRetries)
	}
	if cfg.Spotify.Market != "US" {
		t.Errorf("market: got %q", cfg.Spotify.Market)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("breaker timeout: got %v", cfg.Breaker.Timeout)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "config.yaml", `
storage:
  driver: sqlite
  sqlite_path: /tmp/file.db
recommender:
  exploration: 0.05
spotify:
  timeout: 3s
log:
  level: debug
`)
	t.Setenv("SQLITE_PATH", "/tmp/env.db")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_MAX_RETRIES", "3")
	t.Setenv("AIDJ_ADDR", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file overrides default", cfg.Storage.Driver, DriverSQLite},
		{"env overrides file", cfg.Storage.SQLitePath, "/tmp/env.db"},
		{"file float", cfg.Recommender.Exploration, 0.05},
		{"file duration", cfg.Spotify.Timeout, 3 * time.Second},
		{"env int", cfg.Spotify.MaxRetries, 3},
		{"env string", cfg.Spotify.ClientID, "id"},
		{"bare port gets a colon", cfg.Server.Addr, ":9090"},
		{"untouched default", cfg.Recommender.LearningRate, 0.1},
		{"file string", cfg.Log.Level, "debug"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeFile(t, "custom.yaml", "storage:\n  driver: badger\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverBadger {
		t.Fatalf("driver: got %q", cfg.Storage.Driver)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "postgres" },
			wantErr: `unknown storage driver "postgres"`,
		},
		{
			name:    "learning rate zero",
			mutate:  func(c *Config) { c.Recommender.LearningRate = 0 },
			wantErr: "learning_rate",
		},
		{
			name:    "exploration above one",
			mutate:  func(c *Config) { c.Recommender.Exploration = 1.5 },
			wantErr: "exploration",
		},
		{
			name:   "exploration zero is greedy",
			mutate: func(c *Config) { c.Recommender.Exploration = 0 },
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Storage.Driver = DriverSQLite; c.Storage.SQLitePath = "" },
			wantErr: "sqlite_path",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name: "errors are joined",
			mutate: func(c *Config) {
				c.Recommender.ValueTableSize = 0
				c.Worker.Workers = -1
			},
			wantErr: "worker.workers",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRequireSpotify(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.RequireSpotify(); err == nil {
		t.Fatalf("expected error without credentials")
	}
	cfg.Spotify.ClientID, cfg.Spotify.ClientSecret = "id", "secret"
	if err := cfg.RequireSpotify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
