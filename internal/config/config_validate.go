// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateOTP,
		c.validateMail,
		c.validateTransactPay,
		c.validateEvents,
		c.validateBackup,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, production or test, got %q", c.Server.Environment)
	}
	if c.IsProduction() {
		for _, origin := range c.Server.CORSOrigins {
			if origin == "*" {
				return errors.New("CORS_ORIGINS must not contain a wildcard in production")
			}
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return errors.New("DUCKDB_PATH is required when DATABASE_DRIVER is duckdb")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("DATABASE_URL is required when DATABASE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be duckdb or postgres, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if c.Security.JWTSecret == DevelopmentJWTSecret {
			return errors.New("JWT_SECRET must be changed from the development default in production")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production, got %d", len(c.Security.JWTSecret))
		}
		if c.Security.RateLimitDisabled {
			return errors.New("DISABLE_RATE_LIMIT is not allowed in production")
		}
	}
	if c.Security.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Security.BcryptCost)
	}
	return nil
}

func (c *Config) validateOTP() error {
	switch c.OTP.Store {
	case "memory":
	case "badger":
		if c.OTP.BadgerPath == "" {
			return errors.New("OTP_BADGER_PATH is required when OTP_STORE is badger")
		}
	case "redis":
		if c.OTP.RedisURL == "" {
			return errors.New("REDIS_URL is required when OTP_STORE is redis")
		}
	default:
		return fmt.Errorf("OTP_STORE must be memory, badger or redis, got %q", c.OTP.Store)
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", c.OTP.Length)
	}
	if c.OTP.TTL <= 0 || c.OTP.ResetTokenTTL <= 0 {
		return errors.New("OTP_TTL and RESET_TOKEN_TTL must be positive")
	}
	if c.OTP.MaxAttempts < 1 {
		return errors.New("OTP_MAX_ATTEMPTS must be at least 1")
	}
	if c.IsProduction() && c.OTP.ExposeInResponse {
		return errors.New("OTP_EXPOSE_IN_RESPONSE is not allowed in production")
	}
	return nil
}

func (c *Config) validateMail() error {
	if !c.Mail.Enabled {
		return nil
	}
	var missing []string
	if c.Mail.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Mail.Username == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Mail.Password == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("mail is enabled but %s not set", strings.Join(missing, ", "))
	}
	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.Mail.Port)
	}
	return nil
}

func (c *Config) validateTransactPay() error {
	if !c.TransactPay.Enabled {
		return nil
	}
	if c.TransactPay.PublicKey == "" || c.TransactPay.SecretKey == "" || c.TransactPay.EncryptionKey == "" {
		return errors.New("TRANSACTPAY_PUBLIC_KEY, TRANSACTPAY_SECRET_KEY and TRANSACTPAY_ENCRYPTION_KEY_BASE64 are required when TransactPay is enabled")
	}
	if !strings.HasPrefix(c.TransactPay.APIURL, "http://") && !strings.HasPrefix(c.TransactPay.APIURL, "https://") {
		return fmt.Errorf("TRANSACTPAY_API_URL must be an http(s) URL, got %q", c.TransactPay.APIURL)
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
	case "nats":
		if c.Events.NATSURL == "" {
			return errors.New("NATS_URL is required when EVENTS_BACKEND is nats")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory or nats, got %q", c.Events.Backend)
	}
	if c.Events.WALEnabled {
		if c.Events.WALPath == "" {
			return errors.New("WAL_PATH is required when WAL_ENABLED is true")
		}
		if c.Events.WALRetryInterval <= 0 || c.Events.WALMaxRetries <= 0 || c.Events.WALEntryTTL <= 0 {
			return errors.New("WAL_RETRY_INTERVAL, WAL_MAX_RETRIES and WAL_ENTRY_TTL must be positive")
		}
	}
	return nil
}

func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}
	if c.Backup.Dir == "" {
		return errors.New("BACKUP_DIR is required when BACKUP_ENABLED is true")
	}
	if c.Backup.MinCount < 0 || c.Backup.MaxCount < 0 || c.Backup.MaxAgeDays < 0 {
		return errors.New("backup retention values must not be negative")
	}
	if c.Backup.MaxCount > 0 && c.Backup.MinCount > c.Backup.MaxCount {
		return fmt.Errorf("BACKUP_MIN_COUNT (%d) must not exceed BACKUP_MAX_COUNT (%d)", c.Backup.MinCount, c.Backup.MaxCount)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
