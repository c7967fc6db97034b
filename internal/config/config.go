package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/dantwoashim/Project-Parva-sub001/internal/panchanga"
	"github.com/dantwoashim/Project-Parva-sub001/internal/rootfind"
	"github.com/dantwoashim/Project-Parva-sub001/internal/solar"
)

// OracleConfig selects the longitude source. An empty Addr uses the
// in-process analytic ephemeris.
type OracleConfig struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig bounds every boundary search.
type SearchConfig struct {
	MaxIterations int           `mapstructure:"max_iterations"`
	Precision     time.Duration `mapstructure:"precision"`
}

// LocationConfig is the observer used for sunrise and civil dates.
type LocationConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// Config holds all runtime configuration for parva.
// Values are populated from .parva.yaml, PARVA_* env vars, and CLI flags.
type Config struct {
	DBPath            string         `mapstructure:"db_path"`
	ListenAddr        string         `mapstructure:"listen_addr"`
	BSTable           string         `mapstructure:"bs_table"`
	BoundaryThreshold float64        `mapstructure:"boundary_threshold"`
	Oracle            OracleConfig   `mapstructure:"oracle"`
	Search            SearchConfig   `mapstructure:"search"`
	Location          LocationConfig `mapstructure:"location"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("db_path", "parva.db")
	viper.SetDefault("listen_addr", "127.0.0.1:50061")
	viper.SetDefault("bs_table", "")
	viper.SetDefault("boundary_threshold", 0.01)
	viper.SetDefault("oracle.addr", "")
	viper.SetDefault("oracle.timeout", 5*time.Second)
	viper.SetDefault("search.max_iterations", rootfind.DefaultConfig().MaxIterations)
	viper.SetDefault("search.precision", rootfind.DefaultConfig().Precision)
	viper.SetDefault("location.latitude", solar.Kathmandu.Latitude)
	viper.SetDefault("location.longitude", solar.Kathmandu.Longitude)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engines cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Search.MaxIterations <= 0:
		return fmt.Errorf("search.max_iterations must be positive, got %d", c.Search.MaxIterations)
	case c.Search.Precision <= 0:
		return fmt.Errorf("search.precision must be positive, got %s", c.Search.Precision)
	case c.Oracle.Timeout <= 0:
		return fmt.Errorf("oracle.timeout must be positive, got %s", c.Oracle.Timeout)
	case c.Location.Latitude < -90 || c.Location.Latitude > 90:
		return fmt.Errorf("location.latitude %v out of range", c.Location.Latitude)
	}
	if err := c.Panchanga().Uncertainty.Validate(); err != nil {
		return fmt.Errorf("boundary_threshold: %w", err)
	}
	return nil
}

// Panchanga converts the loaded settings into engine configuration. The
// civil zone stays Nepal time.
func (c Config) Panchanga() panchanga.Config {
	pc := panchanga.DefaultConfig()
	pc.Search = rootfind.Config{
		MaxIterations: c.Search.MaxIterations,
		Precision:     c.Search.Precision,
	}
	pc.Uncertainty.BoundaryThreshold = c.BoundaryThreshold
	pc.Location = solar.Location{
		Latitude:  c.Location.Latitude,
		Longitude: c.Location.Longitude,
		Zone:      solar.NepalTime,
	}
	return pc
}
