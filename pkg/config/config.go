package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	// Base URL of the marketplace REST backend.
	APIBaseURL string `yaml:"api_base_url"`

	// Session state written by the auth flow; this module only reads it.
	SessionFile string `yaml:"session_file"`

	// Guest cart persisted between runs when no session exists.
	GuestCartFile string `yaml:"guest_cart_file"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Port for the local stub backend.
	StubPort int `yaml:"stub_port"`
}

// Load reads configuration in ascending precedence: defaults, an optional
// YAML file (MARKETCART_CONFIG), a .env file, then process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:        "dev",
		LogLevel:      "info",
		APIBaseURL:    "http://localhost:5000/api",
		SessionFile:   defaultStatePath("session.json"),
		GuestCartFile: defaultStatePath("guest-cart.json"),
		HTTPTimeout:   15 * time.Second,
		StubPort:      5000,
	}

	if path := os.Getenv("MARKETCART_CONFIG"); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			applyFile(&cfg, raw)
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.APIBaseURL = getEnv("MARKETCART_API_URL", cfg.APIBaseURL)
	cfg.SessionFile = getEnv("MARKETCART_SESSION_FILE", cfg.SessionFile)
	cfg.GuestCartFile = getEnv("MARKETCART_GUEST_CART_FILE", cfg.GuestCartFile)
	cfg.HTTPTimeout = getEnvDuration("MARKETCART_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.StubPort = getEnvInt("MARKETCART_STUB_PORT", cfg.StubPort)

	return cfg
}

// fileConfig mirrors Config with the duration as a string so the YAML
// file can say "15s" instead of nanoseconds.
type fileConfig struct {
	AppEnv        string `yaml:"app_env"`
	LogLevel      string `yaml:"log_level"`
	APIBaseURL    string `yaml:"api_base_url"`
	SessionFile   string `yaml:"session_file"`
	GuestCartFile string `yaml:"guest_cart_file"`
	HTTPTimeout   string `yaml:"http_timeout"`
	StubPort      int    `yaml:"stub_port"`
}

func applyFile(cfg *Config, raw []byte) {
	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return
	}
	if f.AppEnv != "" {
		cfg.AppEnv = f.AppEnv
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.APIBaseURL != "" {
		cfg.APIBaseURL = f.APIBaseURL
	}
	if f.SessionFile != "" {
		cfg.SessionFile = f.SessionFile
	}
	if f.GuestCartFile != "" {
		cfg.GuestCartFile = f.GuestCartFile
	}
	if f.HTTPTimeout != "" {
		if d, err := time.ParseDuration(f.HTTPTimeout); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if f.StubPort != 0 {
		cfg.StubPort = f.StubPort
	}
}

func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".marketcart", name)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
