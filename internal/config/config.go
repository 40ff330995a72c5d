// Package config holds the service configuration, read through viper from
// flags, environment (TRACKCORE_*) and an optional config file.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables, e.g. TRACKCORE_DB_PATH.
const EnvPrefix = "TRACKCORE"

// Config is the application configuration
type Config struct {
	Port             string        `mapstructure:"port"`
	DBPath           string        `mapstructure:"db-path"`
	JWTSecret        string        `mapstructure:"jwt-secret"`
	ElevationURL     string        `mapstructure:"elevation-url"`
	ElevationTimeout time.Duration `mapstructure:"elevation-timeout"`
	LogLevel         string        `mapstructure:"log-level"`
	LogFormat        string        `mapstructure:"log-format"`
	HRZones          string        `mapstructure:"hr-zones"`
	WatchDir         string        `mapstructure:"watch-dir"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", ":8080")
	v.SetDefault("db-path", "./data/tracks.db")
	v.SetDefault("jwt-secret", "")
	v.SetDefault("elevation-url", "https://api.open-elevation.com/api/v1/lookup")
	v.SetDefault("elevation-timeout", "30s")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")
	v.SetDefault("hr-zones", "120,140,160,180")
	v.SetDefault("watch-dir", "")
}

// Load reads the configuration from v, registering defaults and the
// environment binding first.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := ParseZones(cfg.HRZones); err != nil {
		return nil, fmt.Errorf("invalid hr-zones: %w", err)
	}
	return &cfg, nil
}

// Zones returns the configured heart-rate zone thresholds.
func (c *Config) Zones() []float64 {
	zones, _ := ParseZones(c.HRZones)
	return zones
}

// ParseZones parses comma separated heart-rate thresholds and returns them
// in ascending order.
func ParseZones(s string) ([]float64, error) {
	var zones []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad threshold %q: %w", part, err)
		}
		zones = append(zones, v)
	}
	sort.Float64s(zones)
	return zones, nil
}
