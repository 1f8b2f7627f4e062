package config

import (
	"errors"
	"fmt"
	"strings"
)

var validPriorities = map[string]bool{
	"low": true, "normal": true, "high": true, "urgent": true,
}

// Validate checks that all required fields are set and values are valid.
func (c *MonitorConfig) Validate() error {
	if c.Platform.BaseURL == "" {
		return errors.New("platform.base_url is required")
	}
	if !strings.HasPrefix(c.Platform.BaseURL, "ws://") && !strings.HasPrefix(c.Platform.BaseURL, "wss://") {
		return fmt.Errorf("platform.base_url must use a ws:// or wss:// scheme, got %q", c.Platform.BaseURL)
	}
	if c.Platform.TenantID == "" {
		return errors.New("platform.tenant_id is required")
	}

	if c.Auth.Token == "" && c.Auth.TokenEnv == "" && c.Auth.TokenFile == "" {
		return errors.New("auth requires one of token, token_env, or token_file")
	}

	if c.Connection.ReconnectMaxAttempts < 1 {
		return errors.New("connection.reconnect_max_attempts must be >= 1")
	}
	if c.Connection.ReconnectBaseDelay <= 0 {
		return errors.New("connection.reconnect_base_delay must be positive")
	}

	if !validPriorities[c.Notifications.MinPushPriority] {
		return fmt.Errorf("notifications.min_push_priority must be one of low, normal, high, urgent, got %q",
			c.Notifications.MinPushPriority)
	}

	if c.Archive.Enabled {
		if c.Archive.BatchSize < 1 {
			return errors.New("archive.batch_size must be >= 1")
		}
		if c.Archive.BufferSize < 1 {
			return errors.New("archive.buffer_size must be >= 1")
		}
		if err := c.Archive.Postgres.validate("archive.postgres"); err != nil {
			return err
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
