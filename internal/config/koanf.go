// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/alphaweb/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DevelopmentJWTSecret is accepted only outside production.
const DevelopmentJWTSecret = "alphaweb-development-secret-change-me-now"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			SwaggerEnabled:  true,
			StatsCacheTTL:   30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "duckdb",
			Path:            "/data/alphaweb.duckdb",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Security: SecurityConfig{
			JWTSecret:  DevelopmentJWTSecret,
			TokenTTL:   24 * time.Hour,
			BcryptCost: 12,
			CookieName: "token",
		},
		Authz: AuthzConfig{
			CacheEnabled: true,
			CacheTTL:     2 * time.Minute,
		},
		OTP: OTPConfig{
			Store:         "memory",
			BadgerPath:    "/data/otp",
			Length:        6,
			TTL:           10 * time.Minute,
			MaxAttempts:   5,
			IssueLimit:    3,
			IssueWindow:   time.Hour,
			ResetTokenTTL: 15 * time.Minute,
		},
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "AlphaWeb",
			UseTLS:   true,
			Timeout:  15 * time.Second,
		},
		TransactPay: TransactPayConfig{
			APIURL:  "https://payment-api-service.transactpay.ai/payment/virtual-account/create",
			Timeout: 20 * time.Second,
		},
		Events: EventsConfig{
			Backend:          "memory",
			BufferSize:       256,
			WALPath:          "/data/wal",
			WALSyncWrites:    true,
			WALRetryInterval: 30 * time.Second,
			WALMaxRetries:    100,
			WALEntryTTL:      7 * 24 * time.Hour,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			OverdueSweep:   "*/15 * * * *",
			AuditRetention: "30 3 * * *",
			OTPPurge:       "*/5 * * * *",
			Backup:         "0 2 * * *",
		},
		Audit: AuditConfig{
			Enabled:       true,
			BufferSize:    1024,
			RetentionDays: 365,
		},
		Backup: BackupConfig{
			Dir:        "/data/backups",
			Compress:   true,
			MinCount:   3,
			MaxCount:   30,
			MaxAgeDays: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadWithKoanf layers defaults, the config file and the environment.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"environment":      "server.environment",
	"node_env":         "server.environment",
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":     "server.cors_origins",
	"swagger_enabled":  "server.swagger_enabled",
	"stats_cache_ttl":  "server.stats_cache_ttl",

	"database_driver":      "database.driver",
	"database_url":         "database.dsn",
	"duckdb_path":          "database.path",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",
	"db_auto_migrate":      "database.auto_migrate",

	"jwt_secret":                 "security.jwt_secret",
	"jwt_ttl":                    "security.token_ttl",
	"bcrypt_cost":                "security.bcrypt_cost",
	"auth_cookie_name":           "security.cookie_name",
	"require_verified_merchants": "security.require_verified_merchants",
	"disable_rate_limit":         "security.rate_limit_disabled",

	"authz_cache_enabled": "authz.cache_enabled",
	"authz_cache_ttl":     "authz.cache_ttl",

	"otp_store":              "otp.store",
	"otp_badger_path":        "otp.badger_path",
	"redis_url":              "otp.redis_url",
	"otp_length":             "otp.length",
	"otp_ttl":                "otp.ttl",
	"otp_max_attempts":       "otp.max_attempts",
	"otp_issue_limit":        "otp.issue_limit",
	"otp_issue_window":       "otp.issue_window",
	"reset_token_ttl":        "otp.reset_token_ttl",
	"otp_expose_in_response": "otp.expose_in_response",

	"mail_enabled": "mail.enabled",
	"smtp_host":    "mail.host",
	"smtp_port":    "mail.port",
	"email_user":   "mail.username",
	"email_pass":   "mail.password",
	"email_from":   "mail.from",
	"smtp_use_tls": "mail.use_tls",

	"transactpay_enabled":               "transactpay.enabled",
	"transactpay_api_url":               "transactpay.api_url",
	"transactpay_public_key":            "transactpay.public_key",
	"transactpay_secret_key":            "transactpay.secret_key",
	"transactpay_encryption_key_base64": "transactpay.encryption_key",
	"transactpay_timeout":               "transactpay.timeout",

	"events_backend":     "events.backend",
	"nats_url":           "events.nats_url",
	"events_buffer_size": "events.buffer_size",
	"wal_enabled":        "events.wal_enabled",
	"wal_path":           "events.wal_path",
	"wal_sync_writes":    "events.wal_sync_writes",
	"wal_retry_interval": "events.wal_retry_interval",
	"wal_max_retries":    "events.wal_max_retries",
	"wal_entry_ttl":      "events.wal_entry_ttl",

	"scheduler_enabled":        "scheduler.enabled",
	"schedule_overdue_sweep":   "scheduler.overdue_sweep",
	"schedule_audit_retention": "scheduler.audit_retention",
	"schedule_otp_purge":       "scheduler.otp_purge",
	"schedule_backup":          "scheduler.backup",
	"audit_enabled":            "audit.enabled",
	"audit_buffer_size":        "audit.buffer_size",
	"audit_retention_days":     "audit.retention_days",

	"backup_enabled":      "backup.enabled",
	"backup_dir":          "backup.dir",
	"backup_compress":     "backup.compress",
	"backup_min_count":    "backup.min_count",
	"backup_max_count":    "backup.max_count",
	"backup_max_age_days": "backup.max_age_days",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"enable_metrics": "metrics.enabled",
	"metrics_path":   "metrics.path",
}

// envTransformFunc maps an environment variable to its koanf path.
// Variables without a mapping return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
