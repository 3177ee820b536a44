package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath           = "lumiverse.yaml"
	DefaultDSN            = "sqlite://./lumiverse.db"
	DefaultLegacyPackName = "Legacy Lumia"
	DefaultSourceMarker   = "legacy-settings"
	DefaultLogLevel       = "info"
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Legacy   LegacyConfig   `yaml:"legacy"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LegacyConfig labels the synthetic pack built when migrating pre-pack
// settings.
type LegacyConfig struct {
	PackName     string `yaml:"pack_name"`
	SourceMarker string `yaml:"source_marker"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// Default returns the config written by `lumiverse init`.
func Default(project string) *ProjectConfig {
	cfg := &ProjectConfig{Project: project, Version: 1}
	cfg.Database.DSN = DefaultDSN
	applyDefaults(cfg)
	return cfg
}

// Marshal renders cfg as YAML.
func (c *ProjectConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding project config: %w", err)
	}
	return data, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Legacy.PackName) == "" {
		cfg.Legacy.PackName = DefaultLegacyPackName
	}
	if strings.TrimSpace(cfg.Legacy.SourceMarker) == "" {
		cfg.Legacy.SourceMarker = DefaultSourceMarker
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	dsn := strings.TrimSpace(cfg.Database.DSN)
	if dsn == "" {
		return fmt.Errorf("database dsn is required")
	}
	if DriverFor(dsn) == "" {
		return fmt.Errorf("unsupported database dsn %q: expected sqlite:// or postgres://", dsn)
	}

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	return nil
}

// DriverFor names the store adapter for dsn, or "" when the scheme is
// not supported.
func DriverFor(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite"
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	default:
		return ""
	}
}
