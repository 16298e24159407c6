// Package config loads the server configuration from YAML with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the arena server.
type Config struct {
	Server struct {
		Addr        string `yaml:"addr"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`

	Store struct {
		// Driver is "sqlite" or "memory".
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
		// DistributedLock enables the store's advisory lock, for
		// multi-instance deployments sharing one store.
		DistributedLock bool `yaml:"distributed_lock"`
	} `yaml:"store"`

	Engine struct {
		// Seed pins the engine's random source; 0 means time-seeded.
		Seed int64 `yaml:"seed"`
	} `yaml:"engine"`
}

// Default returns sensible defaults for a single-node deployment.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.MetricsAddr = ":9090"
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = "arena.db"
	return cfg
}

// Load reads a YAML config file over the defaults. A missing file is
// not an error; environment variables win over both.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if addr := os.Getenv("ARENA_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if addr := os.Getenv("ARENA_METRICS_ADDR"); addr != "" {
		cfg.Server.MetricsAddr = addr
	}
	if driver := os.Getenv("ARENA_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if path := os.Getenv("ARENA_STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}

	return cfg, nil
}
