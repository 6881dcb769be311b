package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCORSOrigin      = "http://localhost:8000"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel     = "gemini-1.5-flash-latest"
	DefaultGeminiTimeout   = 60 * time.Second
	DefaultTokenTTL        = 7 * 24 * time.Hour
	DefaultStreakResetSpec = "0 5 0 * * *"
	DefaultTailnetHostname = "momentumx"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	// StaticDir, when set, is served at / with an index.html fallback.
	StaticDir string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type JobsConfig struct {
	// StreakResetSpec is a six-field cron spec (with seconds).
	StreakResetSpec string `yaml:"streak_reset_spec"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix MOMENTUMX_ and underscore-separated paths:
//
//	MOMENTUMX_SERVER_HOST, MOMENTUMX_SERVER_PORT, MOMENTUMX_CORS_ORIGIN,
//	MOMENTUMX_DB_HOST, MOMENTUMX_DB_PORT, MOMENTUMX_DB_NAME,
//	MOMENTUMX_DB_USER, MOMENTUMX_DB_PASSWORD, MOMENTUMX_DB_SSLMODE,
//	MOMENTUMX_AUTH_JWT_SECRET, MOMENTUMX_GEMINI_API_KEY, MOMENTUMX_GEMINI_MODEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MOMENTUMX_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MOMENTUMX_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MOMENTUMX_CORS_ORIGIN"); v != "" {
		cfg.Server.CORSOrigin = v
	}
	if v := os.Getenv("MOMENTUMX_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MOMENTUMX_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MOMENTUMX_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("MOMENTUMX_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MOMENTUMX_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MOMENTUMX_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("MOMENTUMX_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("MOMENTUMX_GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("MOMENTUMX_GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = DefaultCORSOrigin
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = DefaultGeminiTimeout
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = DefaultTailnetHostname
	}
	if cfg.Jobs.StreakResetSpec == "" {
		cfg.Jobs.StreakResetSpec = DefaultStreakResetSpec
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.StateDir == "" {
		return fmt.Errorf("tailscale.state_dir is required when tailscale is enabled")
	}
	if _, err := cron.Parse(c.Jobs.StreakResetSpec); err != nil {
		return fmt.Errorf("jobs.streak_reset_spec: %w", err)
	}
	return nil
}
