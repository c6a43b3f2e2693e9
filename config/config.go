package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"formdesk/pkg/logger"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Database
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"require"`
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"true"`

	// Auth: HS256 with JWTSecret, or RS256 keys from JWKSURL.
	JWTSecret string `envconfig:"JWT_SECRET"`
	JWKSURL   string `envconfig:"JWKS_URL"`
	JWTIssuer string `envconfig:"JWT_ISSUER"`

	RoleCacheSize int           `envconfig:"ROLE_CACHE_SIZE" default:"1024"`
	RoleCacheTTL  time.Duration `envconfig:"ROLE_CACHE_TTL" default:"15m"`

	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" && c.JWKSURL == "" {
		return errors.New("config: one of JWT_SECRET or JWKS_URL must be set")
	}
	if c.RoleCacheSize <= 0 {
		return fmt.Errorf("config: ROLE_CACHE_SIZE must be positive, got %d", c.RoleCacheSize)
	}
	return nil
}

// DatabaseURL is the connection string understood by both lib/pq and
// golang-migrate's postgres driver.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
