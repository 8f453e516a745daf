package config

import (
	"fmt"
	"net/url"
	"strconv"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Env      string         `mapstructure:"env" validate:"required,oneof=development testing production"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
}

// DatabaseConfig contains all database-related configuration settings.
// Either URL or the Host/Name pair must be provided; URL wins when both are set.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"omitempty,url"`
	Host         string `mapstructure:"host" validate:"required_without=URL"`
	Port         int    `mapstructure:"port" validate:"omitempty,gt=0,lt=65536"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name" validate:"required_without=URL"`
	SSLMode      string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// DSN returns the connection string for the configured database.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host,
		Path:   "/" + c.Name,
	}
	if c.Port != 0 {
		u.Host = fmt.Sprintf("%s:%s", c.Host, strconv.Itoa(c.Port))
	}
	switch {
	case c.User != "" && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return u.String()
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// BcryptCost is the work factor used when hashing new passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	// UsernameSuggestions is how many alternatives check-username offers
	// when the requested name is taken.
	UsernameSuggestions   int     `mapstructure:"username_suggestions" validate:"gte=1,lte=20"`
	SuggestionMaxAttempts int     `mapstructure:"suggestion_max_attempts" validate:"gtefield=UsernameSuggestions"`
	RateLimitPerSecond    float64 `mapstructure:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst        int     `mapstructure:"rate_limit_burst" validate:"gte=1"`
}
