// Package config builds the process configuration exactly once at startup.
// Components receive the resulting Config by reference; nothing reads the
// process environment after Load returns.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Database holds the relational store connection settings.
type Database struct {
	Host     string `envconfig:"DATABASE_HOST" yaml:"DATABASE_HOST" default:"localhost"`
	Port     int    `envconfig:"DATABASE_PORT" yaml:"DATABASE_PORT" default:"5432"`
	User     string `envconfig:"DATABASE_USER" yaml:"DATABASE_USER" default:"postgres"`
	Password string `envconfig:"DATABASE_PASSWORD" yaml:"DATABASE_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DATABASE_NAME" yaml:"DATABASE_NAME" default:"vnrental"`
	SSLMode  string `envconfig:"DATABASE_SSLMODE" yaml:"DATABASE_SSLMODE" default:"disable"`
}

// DSN renders the GORM/postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// OAuthProvider holds the per-provider credentials and redirect URI. The
// redirect URI must exactly match the one registered in the provider console.
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Config is the immutable process configuration.
type Config struct {
	Port      int    `envconfig:"PORT" yaml:"PORT" default:"3001"`
	JWTSecret string `envconfig:"JWT_SECRET" yaml:"JWT_SECRET" default:"jwt_secret"`

	Database Database `yaml:"database"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" yaml:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" yaml:"KAFKA_TOPIC" default:"vnrental.events"`

	KakaoClientID      string `envconfig:"KAKAO_CLIENT_ID" yaml:"KAKAO_CLIENT_ID"`
	KakaoClientSecret  string `envconfig:"KAKAO_CLIENT_SECRET" yaml:"KAKAO_CLIENT_SECRET"`
	KakaoRedirectURI   string `envconfig:"KAKAO_REDIRECT_URI" yaml:"KAKAO_REDIRECT_URI"`
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID" yaml:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" yaml:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `envconfig:"GOOGLE_REDIRECT_URI" yaml:"GOOGLE_REDIRECT_URI"`

	// FRONTEND_URL is comma-separated; the first entry is used for OAuth
	// redirects, all entries are allowed CORS origins.
	FrontendURLs []string `envconfig:"FRONTEND_URL" yaml:"FRONTEND_URL" default:"http://localhost:3000"`
}

// Kakao bundles the Kakao provider settings.
func (c *Config) Kakao() OAuthProvider {
	return OAuthProvider{
		ClientID:     c.KakaoClientID,
		ClientSecret: c.KakaoClientSecret,
		RedirectURI:  c.KakaoRedirectURI,
	}
}

// Google bundles the Google provider settings.
func (c *Config) Google() OAuthProvider {
	return OAuthProvider{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURI:  c.GoogleRedirectURI,
	}
}

// FrontendURL returns the primary frontend origin.
func (c *Config) FrontendURL() string {
	if len(c.FrontendURLs) == 0 {
		return "http://localhost:3000"
	}
	return c.FrontendURLs[0]
}

// Load reads an optional .env file, parses the environment, and overlays an
// optional YAML file pointed to by CONFIG_FILE.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	return &cfg, nil
}
