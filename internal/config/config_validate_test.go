// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "prod" }, "ENVIRONMENT"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DATABASE_DRIVER"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "DATABASE_URL"},
		{"redis without url", func(c *Config) { c.OTP.Store = "redis" }, "REDIS_URL"},
		{"short otp", func(c *Config) { c.OTP.Length = 2 }, "OTP_LENGTH"},
		{"mail incomplete", func(c *Config) { c.Mail.Enabled = true }, "EMAIL_USER"},
		{"transactpay without keys", func(c *Config) { c.TransactPay.Enabled = true }, "TRANSACTPAY_PUBLIC_KEY"},
		{"nats without url", func(c *Config) { c.Events.Backend = "nats" }, "NATS_URL"},
		{"backup without dir", func(c *Config) { c.Backup.Enabled = true; c.Backup.Dir = "" }, "BACKUP_DIR"},
		{"backup min above max", func(c *Config) { c.Backup.Enabled = true; c.Backup.MinCount = 40 }, "BACKUP_MIN_COUNT"},
		{"wal without path", func(c *Config) { c.Events.WALEnabled = true; c.Events.WALPath = "" }, "WAL_PATH"},
		{"wal zero retries", func(c *Config) { c.Events.WALEnabled = true; c.Events.WALMaxRetries = 0 }, "WAL_MAX_RETRIES"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"production default secret", func(c *Config) {
			c.Server.Environment = "production"
			c.Server.CORSOrigins = []string{"https://admin.example"}
		}, "development default"},
		{"production short secret", func(c *Config) {
			c.Server.Environment = "production"
			c.Server.CORSOrigins = []string{"https://admin.example"}
			c.Security.JWTSecret = "short"
		}, "at least 32"},
		{"production wildcard cors", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.JWTSecret = strings.Repeat("k", 40)
		}, "wildcard"},
		{"production exposed otp", func(c *Config) {
			c.Server.Environment = "production"
			c.Server.CORSOrigins = []string{"https://admin.example"}
			c.Security.JWTSecret = strings.Repeat("k", 40)
			c.OTP.ExposeInResponse = true
		}, "OTP_EXPOSE_IN_RESPONSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	cfg := defaultConfig()
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Fatal("default config should be development")
	}
	cfg.Server.Environment = "production"
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
}
