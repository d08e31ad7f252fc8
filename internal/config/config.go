// Package config implements layered configuration for the Mailpilot service:
// TOML base file, environment overlay file, environment variable overrides,
// and validated defaults.
package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/mailpilot/mailpilot/internal/mail"
	"github.com/mailpilot/mailpilot/pkg/database"
	"github.com/mailpilot/mailpilot/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMailpilotEnv             = "MAILPILOT_ENV"
	EnvMailpilotShutdownTimeout = "MAILPILOT_SHUTDOWN_TIMEOUT"
	EnvMailpilotVersion         = "MAILPILOT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "MAILPILOT_DB_HOST",
	Port:            "MAILPILOT_DB_PORT",
	Name:            "MAILPILOT_DB_NAME",
	User:            "MAILPILOT_DB_USER",
	Password:        "MAILPILOT_DB_PASSWORD",
	SSLMode:         "MAILPILOT_DB_SSL_MODE",
	MaxOpenConns:    "MAILPILOT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MAILPILOT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MAILPILOT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MAILPILOT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "MAILPILOT_STORAGE_CONTAINER_NAME",
	ConnectionString: "MAILPILOT_STORAGE_CONNECTION_STRING",
}

var mailEnv = &mail.Env{
	CredentialsFile: "MAILPILOT_MAIL_CREDENTIALS_FILE",
	TokenFile:       "MAILPILOT_MAIL_TOKEN_FILE",
	UserID:          "MAILPILOT_MAIL_USER_ID",
	Query:           "MAILPILOT_MAIL_QUERY",
	MaxResults:      "MAILPILOT_MAIL_MAX_RESULTS",
}

// Config is the root configuration for the Mailpilot service.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        database.Config       `toml:"database"`
	Storage         storage.Config        `toml:"storage"`
	Mail            mail.Config           `toml:"mail"`
	API             APIConfig             `toml:"api"`
	Workflow        WorkflowConfig        `toml:"workflow"`
	Agent           gaconfig.AgentConfig  `toml:"agent"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the MAILPILOT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMailpilotEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Mail.Merge(&overlay.Mail)
	c.API.Merge(&overlay.API)
	c.Workflow.Merge(&overlay.Workflow)
	c.Agent.Merge(&overlay.Agent)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMailpilotShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMailpilotVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMailpilotEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
