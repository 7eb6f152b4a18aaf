// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the admin session goes to the OS keychain.
//
// Values are layered: defaults, then config.json, then .env/.env.local and the
// process environment. Command-line flags are applied last by the cmd package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"moa/admin/internal/xdg"
)

// DefaultAPIBaseURL is used when neither the environment nor the config file name an API.
const DefaultAPIBaseURL = "https://api.myotherapp.com"

// Environment variables read by Resolve.
const (
	EnvAPIBaseURL  = "MOA_API_BASE_URL"
	EnvLogLevel    = "MOA_LOG_LEVEL"
	EnvConsoleAddr = "MOA_CONSOLE_ADDR"
	EnvTimeout     = "MOA_TIMEOUT"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIBaseURL     string `json:"api_url"`
	LogLevel       string `json:"log_level"`
	ConsoleAddr    string `json:"console_addr"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		LogLevel:       "info",
		ConsoleAddr:    "127.0.0.1:8787",
		TimeoutSeconds: 30,
	}
}

// Timeout returns the per-command timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Fields left empty
// in the file keep their default value.
func Load() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	var fromFile Config
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	return merge(c, fromFile), nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Resolve loads the config file and overlays .env files and the environment.
func Resolve() (Config, error) {
	c, err := Load()
	if err != nil {
		return c, err
	}
	// Missing .env files are fine.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
	return ApplyEnv(c)
}

// ApplyEnv overlays MOA_* environment variables onto c.
func ApplyEnv(c Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConsoleAddr)); v != "" {
		c.ConsoleAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return c, fmt.Errorf("invalid %s: %q", EnvTimeout, v)
		}
		c.TimeoutSeconds = secs
	}
	return c, nil
}

// setters maps config keys accepted by `moa-admin config set` to their field.
var setters = map[string]func(*Config, string) error{
	"api_url": func(c *Config, v string) error {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("api_url must start with http:// or https://")
		}
		c.APIBaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"log_level": func(c *Config, v string) error {
		switch v {
		case "debug", "info", "warn", "error":
			c.LogLevel = v
			return nil
		}
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	},
	"console_addr": func(c *Config, v string) error {
		c.ConsoleAddr = v
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer")
		}
		c.TimeoutSeconds = n
		return nil
	},
}

// Set updates a single key on c.
func Set(c *Config, key, value string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return fn(c, strings.TrimSpace(value))
}

// Keys lists the settable keys in stable order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func merge(base, over Config) Config {
	if over.APIBaseURL != "" {
		base.APIBaseURL = over.APIBaseURL
	}
	if over.LogLevel != "" {
		base.LogLevel = over.LogLevel
	}
	if over.ConsoleAddr != "" {
		base.ConsoleAddr = over.ConsoleAddr
	}
	if over.TimeoutSeconds > 0 {
		base.TimeoutSeconds = over.TimeoutSeconds
	}
	return base
}
