package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Account AccountConfig `yaml:"account"`
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
	Timing  TimingConfig  `yaml:"timing"`
}

type AccountConfig struct {
	// Preferred login identity; may be an email or a bare username.
	Email string `yaml:"email"`
}

type BackendConfig struct {
	// Chiche API base URL. If empty, read from env CHICHE_API_URL.
	BaseURL string `yaml:"baseURL"`
}

type StorageConfig struct {
	// Path of the local sqlite database holding the durable client state
	// (profile, follow edges, notifications). ":memory:" is accepted.
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// TimingConfig holds the UI timer delays, in milliseconds.
type TimingConfig struct {
	// Delay before the notifications tab clears its unread markers.
	NotificationReadDelayMS int `yaml:"notificationReadDelayMS"`
	// Lifetime of a toast message.
	ToastDurationMS int `yaml:"toastDurationMS"`
	// Delay of the simulated auto-reply in the demo conversation.
	AutoReplyDelayMS int `yaml:"autoReplyDelayMS"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Account: AccountConfig{Email: ""},
		Backend: BackendConfig{BaseURL: "https://chiche-server.onrender.com"},
		Storage: StorageConfig{DBPath: "./chiche.db"},
		Metrics: MetricsConfig{Addr: ""},
		Timing: TimingConfig{
			NotificationReadDelayMS: 1500,
			ToastDurationMS:         3000,
			AutoReplyDelayMS:        2000,
		},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = os.Getenv("CHICHE_API_URL")
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = os.Getenv("CHICHE_DB_PATH")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
	if v := os.Getenv("CHICHE_NOTIF_READ_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Timing.NotificationReadDelayMS = n
		}
	}
}

// Load reads a yaml config from path and resolves env fallbacks.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	if cfg.Backend.BaseURL == "" {
		return cfg, errors.New("backend.baseURL is required")
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = Default().Storage.DBPath
	}
	return cfg, nil
}

// Save writes the config as yaml to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
