package config

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ModuleSettings configures one module instance. Instances appear on the
// dashboard in the order they are listed in config.yaml.
type ModuleSettings struct {
	// Name is the instance identifier, unique within the config.
	Name string `yaml:"name"`
	// Module is the registered module type (weather, stocks, ...).
	Module string `yaml:"module"`
	// Params holds module-specific options (city, symbols, url, ...).
	Params map[string]string `yaml:"params"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// APIKey is resolved from APIKeyEnv at load time so module constructors
	// never read the environment themselves.
	APIKey string `yaml:"-"`
	// Timeout is the per-request timeout, copied from the global setting.
	Timeout time.Duration `yaml:"-"`
}

// Param returns a module parameter, or def if unset.
func (m ModuleSettings) Param(key, def string) string {
	if v, ok := m.Params[key]; ok && v != "" {
		return v
	}
	return def
}

// Config holds the application configuration.
type Config struct {
	Listen   string `yaml:"listen"`
	DBPath   string `yaml:"database"`
	BasePath string `yaml:"base_path"`
	PidFile  string `yaml:"pid_file"`
	LogFile  string `yaml:"log_file"`

	// RefreshInterval is the scheduler period in seconds.
	RefreshInterval int `yaml:"refresh_interval"`
	// RetentionHours controls how long fetch history is kept.
	RetentionHours int `yaml:"retention_hours"`
	// RequestTimeout is the per-request timeout for source clients, seconds.
	RequestTimeout int `yaml:"request_timeout"`

	// Modules is the ordered list of module instances.
	Modules []ModuleSettings `yaml:"modules"`

	// Parsed from command line (not YAML)
	ConfigPath string `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:9480",
		DBPath:          "homedash.db",
		BasePath:        "/",
		PidFile:         "homedash.pid",
		LogFile:         "homedash.log",
		RefreshInterval: 300,
		RetentionHours:  72,
		RequestTimeout:  10,
		ConfigPath:      "config.yaml",
	}
}

// Load reads configuration with priority: defaults < config.yaml < env vars < flags.
// It expects os.Args to already have the subcommand stripped (if any).
func Load() *Config {
	cfg := DefaultConfig()

	// 1) Pre-scan for -config flag before parsing (so we know which file to read)
	configPath := cfg.ConfigPath
	for i, arg := range os.Args[1:] {
		if arg == "-config" || arg == "--config" {
			if i+1 < len(os.Args)-1 {
				configPath = os.Args[i+2]
			}
		} else if strings.HasPrefix(arg, "-config=") || strings.HasPrefix(arg, "--config=") {
			configPath = strings.SplitN(arg, "=", 2)[1]
		}
	}

	// 2) Load YAML config file
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Printf("[config] warning: failed to parse %s: %v", configPath, err)
		} else {
			log.Printf("[config] loaded %s (%d modules)", configPath, len(cfg.Modules))
		}
	}
	cfg.ConfigPath = configPath

	// 3) Environment variables override YAML
	if v := os.Getenv("HOMEDASH_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("HOMEDASH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("HOMEDASH_BASE_PATH"); v != "" {
		cfg.BasePath = v
	}

	// 4) Flags override everything
	flag.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to config.yaml")
	flag.StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP listen address (host:port)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.BasePath, "base-path", cfg.BasePath, "Base URL path for reverse proxy")
	flag.StringVar(&cfg.PidFile, "pid-file", cfg.PidFile, "PID file path")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	flag.IntVar(&cfg.RefreshInterval, "interval", cfg.RefreshInterval, "Refresh interval in seconds")
	flag.Parse()

	cfg.BasePath = normalizeBasePath(cfg.BasePath)
	cfg.resolveModules()

	return cfg
}

// resolveModules fills per-instance fields that come from the environment or
// global settings, so the rest of the program only ever sees ModuleSettings.
func (c *Config) resolveModules() {
	timeout := time.Duration(c.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	for i := range c.Modules {
		m := &c.Modules[i]
		m.Timeout = timeout
		if m.APIKeyEnv != "" {
			m.APIKey = os.Getenv(m.APIKeyEnv)
			if m.APIKey == "" {
				log.Printf("[config] warning: module %s: %s is not set", m.Name, m.APIKeyEnv)
			}
		}
	}
}

// normalizeBasePath ensures the base path starts with "/" and has no trailing "/".
// Returns "/" for empty or root paths.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	return p
}
