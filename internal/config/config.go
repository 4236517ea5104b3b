package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port string
	Env  string

	// GitHubUsername is the account the portfolio reports on
	GitHubUsername string
	GitHubToken    string
	GitHubAPIURL   string
	GitHubTimeout  time.Duration

	CORSOrigins []string
}

// Load reads configuration from environment variables.
// Everything has a default; only malformed values are rejected.
func Load() (*Config, error) {
	username := strings.TrimSpace(getEnv("GITHUB_USERNAME", "CaioBertoldo07"))
	if username == "" {
		return nil, fmt.Errorf("GITHUB_USERNAME must not be blank")
	}

	timeout := getDuration("GITHUB_TIMEOUT", 10*time.Second)
	if timeout <= 0 {
		return nil, fmt.Errorf("GITHUB_TIMEOUT must be positive, got %s", timeout)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		GitHubUsername: username,
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:   strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		GitHubTimeout:  timeout,
		CORSOrigins:    getList("CORS_ORIGINS"),
	}, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
