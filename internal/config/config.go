package config

import (
	"os"
	"time"

	"quiz-draw-service/internal/draw"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Draw struct {
		FastInterval string `yaml:"fastInterval"`
		SlowInterval string `yaml:"slowInterval"`
		SettlePause  string `yaml:"settlePause"`
		Timezone     string `yaml:"timezone"`
	} `yaml:"draw"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// DrawPacing returns the reveal timings, keeping defaults for unset fields.
func (c Config) DrawPacing() draw.Config {
	pacing := draw.DefaultConfig()
	pacing.FastInterval = Duration(c.Draw.FastInterval, pacing.FastInterval)
	pacing.SlowInterval = Duration(c.Draw.SlowInterval, pacing.SlowInterval)
	pacing.SettlePause = Duration(c.Draw.SettlePause, pacing.SettlePause)
	return pacing
}

// Location resolves draw.timezone, defaulting to UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Draw.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Draw.Timezone)
}
