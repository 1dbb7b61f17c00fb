package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/devrev/crmstore/internal/errors"
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/service"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the entity stores
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Stores      StoresConfig      `yaml:"stores"`
	Consistency ConsistencyConfig `yaml:"consistency"`
	Seed        SeedConfig        `yaml:"seed"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds metrics configuration. Textfile, when set, receives
// the metrics in the Prometheus text format once a command completes.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Textfile  string `yaml:"textfile"`
}

// StoresConfig names each store. Names label metrics and log lines.
type StoresConfig struct {
	Companies         string `yaml:"companies"`
	Deals             string `yaml:"deals"`
	Tasks             string `yaml:"tasks"`
	Interactions      string `yaml:"interactions"`
	Clients           string `yaml:"clients"`
	InternalEmployees string `yaml:"internal_employees"`
	ExternalEmployees string `yaml:"external_employees"`
}

// ConsistencyConfig holds consistency check configuration
type ConsistencyConfig struct {
	FailOnInconsistency bool `yaml:"fail_on_inconsistency"`
}

// SeedConfig points at the fixture file loaded at startup
type SeedConfig struct {
	Path string `yaml:"path"`
}

// LoadConfig loads configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.InvalidConfig("failed to read config file", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.InvalidConfig("failed to parse config file", err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// setDefaults sets default values for unspecified configuration
func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = metrics.DefaultNamespace
	}

	names := service.DefaultNames()
	defaultString(&cfg.Stores.Companies, names.Companies)
	defaultString(&cfg.Stores.Deals, names.Deals)
	defaultString(&cfg.Stores.Tasks, names.Tasks)
	defaultString(&cfg.Stores.Interactions, names.Interactions)
	defaultString(&cfg.Stores.Clients, names.Clients)
	defaultString(&cfg.Stores.InternalEmployees, names.InternalEmployees)
	defaultString(&cfg.Stores.ExternalEmployees, names.ExternalEmployees)
}

func defaultString(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.InvalidConfig(fmt.Sprintf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level), nil).
			WithDetail("field", "logging.level")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return errors.InvalidConfig(fmt.Sprintf("logging.format must be json or console; got %q", c.Logging.Format), nil).
			WithDetail("field", "logging.format")
	}

	if c.Metrics.Textfile != "" && !c.Metrics.Enabled {
		return errors.InvalidConfig("metrics.textfile requires metrics.enabled", nil).
			WithDetail("field", "metrics.textfile")
	}

	seen := make(map[string]string)
	for _, s := range c.storeNames() {
		if prev, ok := seen[s.name]; ok {
			return errors.InvalidConfig(fmt.Sprintf("stores.%s and stores.%s share the name %q", prev, s.key, s.name), nil).
				WithDetail("field", "stores."+s.key)
		}
		seen[s.name] = s.key
	}
	return nil
}

type storeName struct {
	key, name string
}

func (c *Config) storeNames() []storeName {
	return []storeName{
		{"companies", c.Stores.Companies},
		{"deals", c.Stores.Deals},
		{"tasks", c.Stores.Tasks},
		{"interactions", c.Stores.Interactions},
		{"clients", c.Stores.Clients},
		{"internal_employees", c.Stores.InternalEmployees},
		{"external_employees", c.Stores.ExternalEmployees},
	}
}

// Names converts the store section into service names
func (s StoresConfig) Names() service.Names {
	return service.Names{
		Companies:         s.Companies,
		Deals:             s.Deals,
		Tasks:             s.Tasks,
		Interactions:      s.Interactions,
		Clients:           s.Clients,
		InternalEmployees: s.InternalEmployees,
		ExternalEmployees: s.ExternalEmployees,
	}
}
