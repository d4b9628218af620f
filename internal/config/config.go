package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens
	TokenSecret string
	TokenExpiry time.Duration

	// Optional Redis backend for the token denylist
	RedisURL string

	// Payments
	StripeSecretKey string
	PaymentCurrency string

	// Admin bootstrap: identities promoted to admin at startup
	AdminEmails string

	// HardenedAccess switches every route to its hardened access level.
	HardenedAccess bool

	// Server
	Port         string
	CORSOrigins  string
	StoreTimeout time.Duration

	// Observability
	SentryDSN    string
	AppEnv       string
	LogRetention time.Duration
}

var defaults = map[string]any{
	"db_host":          "localhost",
	"db_port":          "5432",
	"db_user":          "postgres",
	"db_password":      "",
	"db_name":          "jollyhome",
	"db_sslmode":       "disable",
	"jwt_expiry":       "1h",
	"payment_currency": "usd",
	"hardened_access":  false,
	"port":             "8000",
	"cors_origins":     "http://localhost:5173,http://localhost:5174",
	"store_timeout":    "5s",
	"app_env":          "development",
	"log_retention":    "720h",
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		DBSSLMode:  v.GetString("db_sslmode"),

		TokenSecret: v.GetString("access_token_secret"),
		TokenExpiry: parseDuration(v.GetString("jwt_expiry"), time.Hour),

		RedisURL: v.GetString("redis_url"),

		StripeSecretKey: v.GetString("stripe_secret_key"),
		PaymentCurrency: strings.ToLower(v.GetString("payment_currency")),

		AdminEmails:    v.GetString("admin_emails"),
		HardenedAccess: v.GetBool("hardened_access"),

		Port:         v.GetString("port"),
		CORSOrigins:  v.GetString("cors_origins"),
		StoreTimeout: parseDuration(v.GetString("store_timeout"), 5*time.Second),

		SentryDSN:    v.GetString("sentry_dsn"),
		AppEnv:       v.GetString("app_env"),
		LogRetention: parseDuration(v.GetString("log_retention"), 30*24*time.Hour),
	}, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AdminEmailList returns the bootstrap admin emails, trimmed and without blanks.
func (c *Config) AdminEmailList() []string {
	return parseCSV(c.AdminEmails)
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
