// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package config

import "time"

// Config is the root configuration object.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Security    SecurityConfig    `koanf:"security"`
	Authz       AuthzConfig       `koanf:"authz"`
	OTP         OTPConfig         `koanf:"otp"`
	Mail        MailConfig        `koanf:"mail"`
	TransactPay TransactPayConfig `koanf:"transactpay"`
	Events      EventsConfig      `koanf:"events"`
	Scheduler   SchedulerConfig   `koanf:"scheduler"`
	Audit       AuditConfig       `koanf:"audit"`
	Backup      BackupConfig      `koanf:"backup"`
	Logging     LoggingConfig     `koanf:"logging"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	SwaggerEnabled  bool          `koanf:"swagger_enabled"`
	// StatsCacheTTL bounds how stale dashboard totals may be. Zero disables caching.
	StatsCacheTTL   time.Duration `koanf:"stats_cache_ttl"`
}

// DatabaseConfig selects and tunes the relational store.
//
// Driver "duckdb" uses Path (":memory:" for an ephemeral database); driver
// "postgres" uses DSN.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	Path            string        `koanf:"path"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	JWTSecret                string        `koanf:"jwt_secret"`
	TokenTTL                 time.Duration `koanf:"token_ttl"`
	BcryptCost               int           `koanf:"bcrypt_cost"`
	CookieName               string        `koanf:"cookie_name"`
	RequireVerifiedMerchants bool          `koanf:"require_verified_merchants"`
	RateLimitDisabled        bool          `koanf:"rate_limit_disabled"`
}

// AuthzConfig tunes the casbin permission enforcer.
type AuthzConfig struct {
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// OTPConfig controls one-time codes and password reset tokens.
type OTPConfig struct {
	Store         string        `koanf:"store"`
	BadgerPath    string        `koanf:"badger_path"`
	RedisURL      string        `koanf:"redis_url"`
	Length        int           `koanf:"length"`
	TTL           time.Duration `koanf:"ttl"`
	MaxAttempts   int           `koanf:"max_attempts"`
	IssueLimit    int           `koanf:"issue_limit"`
	IssueWindow   time.Duration `koanf:"issue_window"`
	ResetTokenTTL time.Duration `koanf:"reset_token_ttl"`
	// ExposeInResponse echoes codes in API responses. Development only.
	ExposeInResponse bool `koanf:"expose_in_response"`
}

// MailConfig configures outbound SMTP.
type MailConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"`
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	From     string        `koanf:"from"`
	FromName string        `koanf:"from_name"`
	UseTLS   bool          `koanf:"use_tls"`
	Timeout  time.Duration `koanf:"timeout"`
}

// TransactPayConfig configures the virtual account provider.
type TransactPayConfig struct {
	Enabled bool   `koanf:"enabled"`
	APIURL  string `koanf:"api_url"`
	// PublicKey is sent as the api-key header.
	PublicKey string `koanf:"public_key"`
	// SecretKey is sent as a bearer token.
	SecretKey string `koanf:"secret_key"`
	// EncryptionKey is the base64 RSA key in XML form, optionally prefixed "4096!".
	EncryptionKey string        `koanf:"encryption_key"`
	Timeout       time.Duration `koanf:"timeout"`
}

// EventsConfig selects the domain event transport.
type EventsConfig struct {
	Backend    string `koanf:"backend"`
	NATSURL    string `koanf:"nats_url"`
	BufferSize int64  `koanf:"buffer_size"`

	// WAL* settings journal events to BadgerDB before a NATS publish.
	WALEnabled       bool          `koanf:"wal_enabled"`
	WALPath          string        `koanf:"wal_path"`
	WALSyncWrites    bool          `koanf:"wal_sync_writes"`
	WALRetryInterval time.Duration `koanf:"wal_retry_interval"`
	WALMaxRetries    int           `koanf:"wal_max_retries"`
	WALEntryTTL      time.Duration `koanf:"wal_entry_ttl"`
}

// SchedulerConfig holds cron specs for background jobs. An empty spec disables the job.
type SchedulerConfig struct {
	Enabled        bool   `koanf:"enabled"`
	OverdueSweep   string `koanf:"overdue_sweep"`
	AuditRetention string `koanf:"audit_retention"`
	OTPPurge       string `koanf:"otp_purge"`
	Backup         string `koanf:"backup"`
}

// AuditConfig controls admin log buffering and retention.
type AuditConfig struct {
	Enabled       bool `koanf:"enabled"`
	BufferSize    int  `koanf:"buffer_size"`
	RetentionDays int  `koanf:"retention_days"`
}

// BackupConfig controls DuckDB snapshot archives. Backups are skipped for postgres.
type BackupConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Dir        string `koanf:"dir"`
	Compress   bool   `koanf:"compress"`
	MinCount   int    `koanf:"min_count"`
	MaxCount   int    `koanf:"max_count"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Load reads configuration from defaults, file and environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether development conveniences are allowed.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}
