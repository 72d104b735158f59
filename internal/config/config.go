// Package config provides engine-wide configuration loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fireverse/worldengine/internal/styleguard"
)

// PoolPolicy controls how the validator treats an arc whose creature pool
// falls outside the target range.
type PoolPolicy string

const (
	// PoolPolicyAdvisory logs a warning and lets validation pass.
	PoolPolicyAdvisory PoolPolicy = "advisory"

	// PoolPolicyStrict fails validation.
	PoolPolicyStrict PoolPolicy = "strict"
)

// EngineConfig holds engine-wide settings.
type EngineConfig struct {
	Validation ValidationConfig  `yaml:"validation"`
	Rotation   RotationConfig    `yaml:"rotation"`
	Director   DirectorConfig    `yaml:"director"`
	Prompt     styleguard.Config `yaml:"prompt"`
	Database   DatabaseConfig    `yaml:"database"`
}

// ValidationConfig holds validator policy settings.
type ValidationConfig struct {
	// PoolPolicy is "advisory" or "strict". The arc description says arcs
	// track "about 15-20" creatures, so advisory is the default.
	PoolPolicy PoolPolicy `yaml:"pool_policy"`
}

// RotationConfig holds background-creature rotation settings.
type RotationConfig struct {
	// RecentMainWindow is how many trailing episodes a creature is kept
	// out of the main slot after being featured.
	RecentMainWindow int `yaml:"recent_main_window"`
}

// DirectorConfig holds tunable knobs for arc progression.
type DirectorConfig struct {
	// SilhouetteVisibility is the base silhouette presence before
	// progression growth is applied, in [0, 1].
	SilhouetteVisibility float64 `yaml:"silhouette_visibility"`
}

// DatabaseConfig holds continuity tracker persistence settings.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres". Empty disables persistence.
	Driver string `yaml:"driver"`

	// SQLitePath is the database file path for the sqlite driver.
	SQLitePath string `yaml:"sqlite_path"`

	// Postgres connection settings for the postgres driver.
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DefaultConfig returns an EngineConfig with sensible defaults.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Validation: ValidationConfig{
			PoolPolicy: PoolPolicyAdvisory,
		},
		Rotation: RotationConfig{
			RecentMainWindow: 3,
		},
		Director: DirectorConfig{
			SilhouetteVisibility: 0.2,
		},
		Prompt: styleguard.Config{
			Enabled: false,
		},
		Database: DatabaseConfig{
			Driver:     "",
			SQLitePath: "data/fireverse.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
	}
}

// LoadConfig loads engine configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*EngineConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	if err := config.normalize(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// normalize fills unset fields with defaults and rejects unknown values.
func (c *EngineConfig) normalize() error {
	switch c.Validation.PoolPolicy {
	case "":
		c.Validation.PoolPolicy = PoolPolicyAdvisory
	case PoolPolicyAdvisory, PoolPolicyStrict:
	default:
		return fmt.Errorf("unknown pool policy %q", c.Validation.PoolPolicy)
	}

	if c.Rotation.RecentMainWindow <= 0 {
		c.Rotation.RecentMainWindow = 3
	}

	// Unmarshal overlays the defaults struct, so an omitted key keeps 0.2
	// while an explicit 0 (silhouette fully hidden) survives.
	if c.Director.SilhouetteVisibility < 0 || c.Director.SilhouetteVisibility > 1 {
		return fmt.Errorf("silhouette visibility %v out of range [0, 1]", c.Director.SilhouetteVisibility)
	}

	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	return nil
}
