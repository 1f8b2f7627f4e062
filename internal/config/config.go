package config

import "time"

// MonitorConfig is the root configuration for a monitor instance.
type MonitorConfig struct {
	Platform      PlatformConfig      `yaml:"platform"`
	Auth          AuthConfig          `yaml:"auth"`
	Connection    ConnectionConfig    `yaml:"connection"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Archive       ArchiveConfig       `yaml:"archive"`
}

// PlatformConfig identifies the tenant and the realtime endpoint.
type PlatformConfig struct {
	BaseURL  string `yaml:"base_url"` // websocket origin, e.g. wss://rt.tutorlink.io
	TenantID string `yaml:"tenant_id"`
	UserID   string `yaml:"user_id"` // scopes the balance feed
}

// AuthConfig selects the token source. Exactly one of Token, TokenEnv, or
// TokenFile should be set; Token wins when several are.
type AuthConfig struct {
	Token     string `yaml:"token"`      // literal token (supports ${VAR})
	TokenEnv  string `yaml:"token_env"`  // environment variable name
	TokenFile string `yaml:"token_file"` // path to a token file
}

// ConnectionConfig holds connection lifecycle settings.
type ConnectionConfig struct {
	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxAttempts int           `yaml:"reconnect_max_attempts"`
	HandshakeTimeout     time.Duration `yaml:"handshake_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
}

// NotificationsConfig holds purchase-approval push settings.
type NotificationsConfig struct {
	EnablePush      bool   `yaml:"enable_push"`
	MinPushPriority string `yaml:"min_push_priority"` // low, normal, high, urgent
}

// ArchiveConfig holds the optional Postgres transaction journal.
type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
	Postgres      DBConfig      `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
