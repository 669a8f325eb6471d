package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	// Auto-load a .env file when present; real environment variables take
	// precedence.
	_ "github.com/joho/godotenv/autoload"
)

// Storage backends selectable via STORAGE_BACKEND.
const (
	BackendFilesystem = "filesystem"
	BackendGithub     = "github"
)

// GithubConfig holds the settings for the GitHub-backed content store.
type GithubConfig struct {
	Owner string
	Repo  string
	Token string
}

// Config is the centralized configuration for the server, populated from
// environment variables. Secrets are never hardcoded or defaulted.
type Config struct {
	Addr    string
	Backend string

	// DataDir is the local collection directory (filesystem backend);
	// ContentPath is the collection path inside the repository (github
	// backend).
	DataDir     string
	ContentPath string
	Github      GithubConfig

	AdminKey      string
	SessionSecret string
	SecureCookies bool

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// Load reads configuration from environment variables and validates that the
// selected backend has everything it needs.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:        getEnv("ADDR", ":8080"),
		Backend:     getEnv("STORAGE_BACKEND", BackendFilesystem),
		DataDir:     getEnv("DATA_DIR", "data/blogs"),
		ContentPath: getEnv("GITHUB_CONTENT_PATH", "data/blogs"),
		Github: GithubConfig{
			Owner: getEnv("GITHUB_OWNER", ""),
			Repo:  getEnv("GITHUB_REPO", ""),
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		AdminKey:         getEnv("ADMIN_SECRET_KEY", ""),
		SessionSecret:    getEnv("SESSION_SECRET", ""),
		SecureCookies:    getEnvBool("COOKIE_SECURE", false),
		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      time.Duration(getEnvInt("LOGIN_WINDOW_MINUTES", 15)) * time.Minute,
	}

	if cfg.AdminKey == "" {
		return nil, fmt.Errorf("ADMIN_SECRET_KEY is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	switch cfg.Backend {
	case BackendFilesystem:
	case BackendGithub:
		if cfg.Github.Owner == "" || cfg.Github.Repo == "" || cfg.Github.Token == "" {
			return nil, fmt.Errorf("github backend requires GITHUB_OWNER, GITHUB_REPO and GITHUB_TOKEN")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
