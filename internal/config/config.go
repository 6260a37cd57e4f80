// Package config loads application settings from defaults, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable holding the YAML file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath is read when present and CONFIG_PATH is unset.
const DefaultConfigPath = "config.yaml"

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Config is the full application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Spotify     SpotifyConfig     `koanf:"spotify"`
	Storage     StorageConfig     `koanf:"storage"`
	Recommender RecommenderConfig `koanf:"recommender"`
	Breaker     BreakerConfig     `koanf:"breaker"`
	Worker      WorkerConfig      `koanf:"worker"`
	Log         LogConfig         `koanf:"log"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type SpotifyConfig struct {
	ClientID          string        `koanf:"client_id"`
	ClientSecret      string        `koanf:"client_secret"`
	BaseURL           string        `koanf:"base_url"`
	TokenURL          string        `koanf:"token_url"`
	Market            string        `koanf:"market"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBackoff      time.Duration `koanf:"retry_backoff"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

type StorageConfig struct {
	Driver     string `koanf:"driver"`
	Dir        string `koanf:"dir"`
	SQLitePath string `koanf:"sqlite_path"`
	BadgerDir  string `koanf:"badger_dir"`
}

type RecommenderConfig struct {
	LearningRate   float64 `koanf:"learning_rate"`
	Exploration    float64 `koanf:"exploration"`
	ValueTableSize int     `koanf:"value_table_size"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// WorkerConfig controls asynchronous profile saves. Workers == 0 saves inline.
type WorkerConfig struct {
	Workers   int `koanf:"workers"`
	QueueSize int `koanf:"queue_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, console
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Spotify: SpotifyConfig{
			BaseURL:           "https://api.spotify.com/v1",
			TokenURL:          "https://accounts.spotify.com/api/token",
			Market:            "US",
			Timeout:           10 * time.Second,
			MaxRetries:        1,
			RetryBackoff:      500 * time.Millisecond,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Storage: StorageConfig{
			Driver:     DriverFile,
			Dir:        "data",
			SQLitePath: "aidj.db",
			BadgerDir:  "data/badger",
		},
		Recommender: RecommenderConfig{
			LearningRate:   0.1,
			Exploration:    0.2,
			ValueTableSize: 1 << 16,
		},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Worker: WorkerConfig{
			Workers:   2,
			QueueSize: 100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"aidj_addr":                    "server.addr",
	"spotify_client_id":            "spotify.client_id",
	"spotify_client_secret":        "spotify.client_secret",
	"spotify_base_url":             "spotify.base_url",
	"spotify_token_url":            "spotify.token_url",
	"spotify_market":               "spotify.market",
	"spotify_timeout":              "spotify.timeout",
	"spotify_max_retries":          "spotify.max_retries",
	"spotify_retry_backoff":        "spotify.retry_backoff",
	"spotify_requests_per_second":  "spotify.requests_per_second",
	"spotify_burst":                "spotify.burst",
	"storage_driver":               "storage.driver",
	"storage_dir":                  "storage.dir",
	"sqlite_path":                  "storage.sqlite_path",
	"badger_dir":                   "storage.badger_dir",
	"recommender_learning_rate":    "recommender.learning_rate",
	"recommender_exploration":      "recommender.exploration",
	"recommender_value_table_size": "recommender.value_table_size",
	"breaker_failure_threshold":    "breaker.failure_threshold",
	"breaker_timeout":              "breaker.timeout",
	"worker_count":                 "worker.workers",
	"worker_queue_size":            "worker.queue_size",
	"log_level":                    "log.level",
	"log_format":                   "log.format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads .env (if present), then builds the configuration from defaults,
// the YAML file and the environment, and validates it. path overrides the
// file lookup when non-empty.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	// Layer 2: optional config file
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Server.Addr != "" && !strings.Contains(cfg.Server.Addr, ":") {
		cfg.Server.Addr = ":" + cfg.Server.Addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// Validate checks values that would otherwise fail late or silently.
// Spotify credentials are checked separately by RequireSpotify, since only
// commands that talk to the catalog need them.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the file driver"))
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	case DriverBadger:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if lr := c.Recommender.LearningRate; lr <= 0 || lr > 1 {
		errs = append(errs, fmt.Errorf("recommender.learning_rate must be in (0, 1], got %v", lr))
	}
	if eps := c.Recommender.Exploration; eps < 0 || eps > 1 {
		errs = append(errs, fmt.Errorf("recommender.exploration must be in [0, 1], got %v", eps))
	}
	if c.Recommender.ValueTableSize <= 0 {
		errs = append(errs, errors.New("recommender.value_table_size must be positive"))
	}
	if c.Worker.Workers < 0 {
		errs = append(errs, errors.New("worker.workers must not be negative"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// RequireSpotify reports missing catalog credentials.
func (c *Config) RequireSpotify() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return errors.New("config: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}
	return nil
}
