package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config covers both binaries. The engine (amson) uses Server, User, Data,
// Hub and Live; the hub (amson-hub) uses Server, Database, Auth and
// Tailscale. LoadEngine and LoadHub validate the relevant sections.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	User      UserConfig      `yaml:"user"`
	Data      DataConfig      `yaml:"data"`
	Hub       HubConfig       `yaml:"hub"`
	Live      LiveConfig      `yaml:"live"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// UserConfig identifies the authenticated user the engine runs for. The
// identifier is opaque; identity issuance happens elsewhere.
type UserConfig struct {
	ID string `yaml:"id"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

// HubConfig points the engine at the remote pack store. An empty URL runs
// the engine on the local weekly plan only.
type HubConfig struct {
	URL string `yaml:"url"`
}

// LiveConfig points the engine at the live-status sink. Empty disables
// mirroring.
type LiveConfig struct {
	SinkURL string `yaml:"sink_url"`
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
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
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

// LoadEngine reads the engine's config from a YAML file, then applies
// environment variable overrides (AMSON_ prefix).
func LoadEngine(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateEngine(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadHub reads the hub's config from a YAML file, then applies environment
// variable overrides.
func LoadHub(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateHub(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Env vars use the prefix AMSON_ and underscore-separated paths:
//
//	AMSON_SERVER_HOST, AMSON_SERVER_PORT, AMSON_USER_ID, AMSON_DATA_DIR,
//	AMSON_HUB_URL, AMSON_LIVE_SINK_URL,
//	AMSON_DB_HOST, AMSON_DB_PORT, AMSON_DB_NAME, AMSON_DB_USER,
//	AMSON_DB_PASSWORD, AMSON_DB_SSLMODE, AMSON_AUTH_API_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AMSON_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("AMSON_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AMSON_USER_ID"); v != "" {
		cfg.User.ID = v
	}
	if v := os.Getenv("AMSON_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("AMSON_HUB_URL"); v != "" {
		cfg.Hub.URL = v
	}
	if v := os.Getenv("AMSON_LIVE_SINK_URL"); v != "" {
		cfg.Live.SinkURL = v
	}
	if v := os.Getenv("AMSON_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("AMSON_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("AMSON_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("AMSON_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("AMSON_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("AMSON_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("AMSON_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validateEngine() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.User.ID == "" {
		return fmt.Errorf("user.id is required")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}

func (c *Config) validateHub() error {
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
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
