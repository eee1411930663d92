// Package config loads the application configuration from YAML with
// environment-variable fallbacks for credentials and service URLs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
	Environment string          `yaml:"environment"` // "development" or "production"
	Redis       RedisConfig     `yaml:"redis"`
	DB          DBConfig        `yaml:"db"`
	Valhalla    ValhallaConfig  `yaml:"valhalla"`
	LLM         LLMConfig       `yaml:"llm"`
	Narration   NarrationConfig `yaml:"narration"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	JWTSecret      string   `yaml:"jwt_secret"` // reserved; authentication is not implemented yet
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ValhallaConfig holds map-matching settings.
type ValhallaConfig struct {
	URL string `yaml:"url"`
}

// LLMConfig holds settings for the Large Language Model provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "gemini"
	Model    string `yaml:"model"`    // "gemini-2.0-flash"
	Key      string `yaml:"key"`      // API Key
}

// NarrationConfig holds generation settings.
type NarrationConfig struct {
	ReadingSpeedWPM int     `yaml:"reading_speed_wpm"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:8000",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		Environment: "development",
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		DB: DBConfig{
			Path: "./data/geotruth.db",
		},
		Valhalla: ValhallaConfig{
			URL: "http://localhost:8002",
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Key:      "",
		},
		Narration: NarrationConfig{
			ReadingSpeedWPM: 150,
			Temperature:     0.7,
			MaxOutputTokens: 2000,
		},
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		cfg.applyEnvFallbacks()
		return cfg, nil
	}

	// If file does not exist, save defaults
	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	cfg.applyEnvFallbacks()
	return cfg, nil
}

// applyEnvFallbacks fills empty settings from the environment. The config
// file wins when both are present.
func (c *Config) applyEnvFallbacks() {
	if c.LLM.Key == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.LLM.Key = key
		}
	}
	if url := os.Getenv("REDIS_URL"); url != "" && c.Redis.URL == DefaultConfig().Redis.URL {
		c.Redis.URL = url
	}
	if url := os.Getenv("VALHALLA_URL"); url != "" && c.Valhalla.URL == DefaultConfig().Valhalla.URL {
		c.Valhalla.URL = url
	}
	if env := os.Getenv("GEOTRUTH_ENV"); env != "" {
		c.Environment = env
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# GeoTruth API Configuration
# --------------------------
# Credentials can also come from the environment:
#   GEMINI_API_KEY, REDIS_URL, VALHALLA_URL, GEOTRUTH_ENV

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
