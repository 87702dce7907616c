package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every environment option the service recognizes.
type Config struct {
	Addr string

	// Hosted backend. Both URL and key must be present for the hosted
	// strategy to be attempted at all.
	HostedDatabaseURL string
	HostedDatabaseKey string

	// DisableMockAPI skips the mocked-backend fallback step entirely, so a
	// hosted failure falls straight through to the local snapshot.
	DisableMockAPI bool

	LocalDBPath   string
	BlobCachePath string

	JWTSecret     string
	RolloutAPIKey string
}

// LoadEnv loads environment variables from .env.local if APP_ENV is "local".
func LoadEnv() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
		os.Setenv("APP_ENV", appEnv)
	}

	if appEnv == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Printf("Warning: .env.local not found or unreadable: %v. Relying on system environment variables.", err)
		}
	}
}

// Load reads the configuration from the environment.
func Load() *Config {
	LoadEnv()

	return &Config{
		Addr:              envOr("ADDR", ":8080"),
		HostedDatabaseURL: os.Getenv("HOSTED_DATABASE_URL"),
		HostedDatabaseKey: os.Getenv("HOSTED_DATABASE_KEY"),
		DisableMockAPI:    envBool("DISABLE_MOCK_API"),
		LocalDBPath:       envOr("LOCAL_DB_PATH", "youtools.db"),
		BlobCachePath:     envOr("BLOB_CACHE_PATH", "youtools_blobs.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RolloutAPIKey:     os.Getenv("ROLLOUT_API_KEY"),
	}
}

// HostedConfigured reports whether the hosted backend should be attempted.
func (c *Config) HostedConfigured() bool {
	return c.HostedDatabaseURL != "" && c.HostedDatabaseKey != ""
}

// HostedDSN combines the hosted URL and access key into a connection string.
// The key acts as the database password.
func (c *Config) HostedDSN() string {
	if u, err := url.Parse(c.HostedDatabaseURL); err == nil && u.Scheme != "" {
		user := "postgres"
		if u.User != nil {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, c.HostedDatabaseKey)
		return u.String()
	}
	// keyword/value DSN form
	return fmt.Sprintf("%s password=%s", c.HostedDatabaseURL, c.HostedDatabaseKey)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
