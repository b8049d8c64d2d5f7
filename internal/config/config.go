package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SnapshotPath    string        `toml:"snapshot_path"`
	ProjectKey      string        `toml:"project_key"`
	DefaultTaskDays int           `toml:"default_task_days"`
	Debug           Debug         `toml:"debug"`
	Watch           Watch         `toml:"watch"`
	Output          Output        `toml:"output"`
	Export          Export        `toml:"export"`
	History         History       `toml:"history"`
	Observability   Observability `toml:"observability"`
}

type Debug struct {
	// AssertAcyclic re-verifies the committed edge set before every
	// analysis. Costs a full traversal; intended for staging, not hot paths.
	AssertAcyclic bool `toml:"assert_acyclic"`
}

type Watch struct {
	Debounce   time.Duration `toml:"debounce"`
	Exclude    []string      `toml:"exclude"`
	RunsPerSec float64       `toml:"runs_per_sec"`
	Burst      int           `toml:"burst"`
}

type Output struct {
	Mermaid string `toml:"mermaid"`
	DOT     string `toml:"dot"`
	JSON    string `toml:"json"`
}

type Export struct {
	// Focus narrows diagram exports to tasks whose id or title matches the
	// glob; empty means everything.
	Focus string `toml:"focus"`
}

type History struct {
	Path string `toml:"path"`
}

type Observability struct {
	Addr         string `toml:"addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ProjectKey == "" {
		cfg.ProjectKey = "default"
	}
	if cfg.DefaultTaskDays <= 0 {
		cfg.DefaultTaskDays = 1
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RunsPerSec <= 0 {
		cfg.Watch.RunsPerSec = 2
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}
	if cfg.History.Path == "" {
		cfg.History.Path = ".critpath/history.db"
	}
}
