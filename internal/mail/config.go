package mail

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds Gmail provider parameters.
type Config struct {
	CredentialsFile string `toml:"credentials_file"`
	TokenFile       string `toml:"token_file"`
	UserID          string `toml:"user_id"`
	Query           string `toml:"query"`
	MaxResults      int64  `toml:"max_results"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CredentialsFile string
	TokenFile       string
	UserID          string
	Query           string
	MaxResults      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
	if overlay.TokenFile != "" {
		c.TokenFile = overlay.TokenFile
	}
	if overlay.UserID != "" {
		c.UserID = overlay.UserID
	}
	if overlay.Query != "" {
		c.Query = overlay.Query
	}
	if overlay.MaxResults != 0 {
		c.MaxResults = overlay.MaxResults
	}
}

func (c *Config) loadDefaults() {
	if c.CredentialsFile == "" {
		c.CredentialsFile = "credentials.json"
	}
	if c.TokenFile == "" {
		c.TokenFile = "token.json"
	}
	if c.UserID == "" {
		c.UserID = "me"
	}
	if c.Query == "" {
		c.Query = "is:unread in:inbox -in:draft"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 25
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.CredentialsFile != "" {
		if v := os.Getenv(env.CredentialsFile); v != "" {
			c.CredentialsFile = v
		}
	}
	if env.TokenFile != "" {
		if v := os.Getenv(env.TokenFile); v != "" {
			c.TokenFile = v
		}
	}
	if env.UserID != "" {
		if v := os.Getenv(env.UserID); v != "" {
			c.UserID = v
		}
	}
	if env.Query != "" {
		if v := os.Getenv(env.Query); v != "" {
			c.Query = v
		}
	}
	if env.MaxResults != "" {
		if v := os.Getenv(env.MaxResults); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				c.MaxResults = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.CredentialsFile == "" {
		return fmt.Errorf("credentials_file required")
	}
	if c.TokenFile == "" {
		return fmt.Errorf("token_file required")
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be positive")
	}
	return nil
}
