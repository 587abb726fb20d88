package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultFetchTimeout    = 15 * time.Second
	DefaultHTTPPort        = 8080
	DefaultStoragePath     = "gradewatch.db"
)

// Config is the top-level gradewatch configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// SourceConfig describes where and how often the report is fetched.
type SourceConfig struct {
	// Mirrors is the ordered list of report URLs. The first is the origin
	// page; later entries are read-through proxies tried on failure.
	Mirrors []string `yaml:"mirrors"`

	// RefreshInterval controls how often the report is re-scraped.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// FetchTimeout bounds each individual mirror request.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// ServerConfig holds the display-facing HTTP settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket feed and /metrics
	// listen on.
	HTTPPort int `yaml:"http_port"`
}

// StorageConfig configures the cross-cycle persistence backend.
type StorageConfig struct {
	// Path is the filesystem path of the bbolt database file.
	Path string `yaml:"path"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			RefreshInterval: DefaultRefreshInterval,
			FetchTimeout:    DefaultFetchTimeout,
		},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
		Storage: StorageConfig{
			Path: DefaultStoragePath,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if len(cfg.Source.Mirrors) == 0 {
		return fmt.Errorf("source.mirrors must list at least one URL")
	}
	for i, m := range cfg.Source.Mirrors {
		if m == "" {
			return fmt.Errorf("source.mirrors[%d] is empty", i)
		}
	}
	if cfg.Source.RefreshInterval <= 0 {
		return fmt.Errorf("source.refresh_interval must be positive")
	}
	if cfg.Source.FetchTimeout <= 0 {
		return fmt.Errorf("source.fetch_timeout must be positive")
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in 1-65535")
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	return nil
}
