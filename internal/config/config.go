package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	// EnvProduction suppresses internal error details in responses
	EnvProduction = "production"
	// EnvDevelopment is the default environment mode
	EnvDevelopment = "development"

	// PlaceholderSecret is the development-only signing secret
	PlaceholderSecret = "secret"

	maxTokenLeeway = time.Minute
)

// Config holds application configuration
type Config struct {
	Port             string
	DBConn           string
	LogLevel         string
	Env              string
	JWTSecret        string
	TokenTTL         time.Duration
	TokenLeeway      time.Duration
	BcryptCost       int
	HideForeignTodos bool
	ShutdownTimeout  time.Duration
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPTimeout      time.Duration
	SenderEmail      string
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// MailEnabled reports whether SMTP delivery is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:             v.GetString("port"),
		DBConn:           v.GetString("db_conn"),
		LogLevel:         v.GetString("log_level"),
		Env:              strings.ToLower(strings.TrimSpace(v.GetString("app_env"))),
		JWTSecret:        v.GetString("jwt_secret"),
		TokenTTL:         v.GetDuration("token_ttl"),
		TokenLeeway:      v.GetDuration("token_leeway"),
		BcryptCost:       v.GetInt("bcrypt_cost"),
		HideForeignTodos: v.GetBool("hide_foreign_todos"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		SMTPHost:         v.GetString("smtp_host"),
		SMTPPort:         v.GetString("smtp_port"),
		SMTPUsername:     v.GetString("smtp_username"),
		SMTPPassword:     v.GetString("smtp_password"),
		SMTPTimeout:      v.GetDuration("smtp_timeout"),
		SenderEmail:      v.GetString("sender_email"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_conn", "host=localhost port=5432 user=todo password=todo dbname=todo sslmode=disable")
	v.SetDefault("log_level", "info")
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("jwt_secret", PlaceholderSecret)
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("token_leeway", 30*time.Second)
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("hide_foreign_todos", false)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", "587")
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("smtp_timeout", 5*time.Second)
	v.SetDefault("sender_email", "no-reply@todo.local")
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWTSecret == PlaceholderSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.TokenLeeway < 0 || c.TokenLeeway > maxTokenLeeway {
		return fmt.Errorf("TOKEN_LEEWAY must be within [0, %s], got %s", maxTokenLeeway, c.TokenLeeway)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.SMTPTimeout <= 0 {
		return fmt.Errorf("SMTP_TIMEOUT must be positive, got %s", c.SMTPTimeout)
	}
	if c.MailEnabled() && c.SenderEmail == "" {
		return fmt.Errorf("SENDER_EMAIL is required when SMTP_HOST is set")
	}
	return nil
}
