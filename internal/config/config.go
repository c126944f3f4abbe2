package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const appName = "cardtrader"

// EnvPrefix prefixes environment overrides, e.g. CARDTRADER_PERCENTAGE=30.
const EnvPrefix = "CARDTRADER_"

// Default values written to a fresh config file.
const (
	DefaultPercentage = 20
	DefaultLogLevel   = "warn"
	DefaultTypeMarker = "EX"
)

// Config represents the application configuration
type Config struct {
	Database   string `toml:"database" koanf:"database"`
	ImagesDir  string `toml:"images_dir" koanf:"images_dir"`
	CacheDir   string `toml:"cache_dir" koanf:"cache_dir"`
	Percentage int    `toml:"percentage" koanf:"percentage"`
	LogLevel   string `toml:"log_level" koanf:"log_level"`
	TypeMarker string `toml:"type_marker" koanf:"type_marker"`
}

// flagKeys maps CLI flag names onto config keys where they differ.
var flagKeys = map[string]string{
	"images":    "images_dir",
	"percent":   "percentage",
	"log-level": "log_level",
	"cache-dir": "cache_dir",
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(envVar string, fallback ...string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...)
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	dataDir := filepath.Join(GetXDGDataHome(), appName)
	return &Config{
		Database:   filepath.Join(dataDir, "cards.db"),
		ImagesDir:  filepath.Join(dataDir, "images"),
		CacheDir:   filepath.Join(GetXDGCacheHome(), appName),
		Percentage: DefaultPercentage,
		LogLevel:   DefaultLogLevel,
		TypeMarker: DefaultTypeMarker,
	}
}

// Load builds the effective configuration.
// Precedence (highest to lowest): changed flags > env vars > config file > defaults.
// An empty cfgFile means the default location; a missing default file is fine.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"database":    defaults.Database,
		"images_dir":  defaults.ImagesDir,
		"cache_dir":   defaults.CacheDir,
		"percentage":  defaults.Percentage,
		"log_level":   defaults.LogLevel,
		"type_marker": defaults.TypeMarker,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := cfgFile != ""
	if !explicit {
		cfgFile = GetConfigFilePath()
	}
	if _, err := os.Stat(cfgFile); err == nil {
		values := map[string]interface{}{}
		if _, err := toml.DecodeFile(cfgFile, &values); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", cfgFile, err)
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfgFile, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	// CARDTRADER_IMAGES_DIR -> images_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make every search fail.
func (c *Config) Validate() error {
	if c.Percentage < 0 || c.Percentage > 100 {
		return fmt.Errorf("percentage must be between 0 and 100, got %d", c.Percentage)
	}
	if c.Database == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

// Init writes a config file with default values unless one already exists,
// and returns the path it used.
func Init(cfgFile string) (string, error) {
	if cfgFile == "" {
		cfgFile = GetConfigFilePath()
	}
	if _, err := os.Stat(cfgFile); err == nil {
		return cfgFile, nil
	}
	return cfgFile, Save(cfgFile, Defaults())
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// SetPercentage stores a new default band percentage in the config file.
func SetPercentage(cfgFile string, percentage int) error {
	if cfgFile == "" {
		cfgFile = GetConfigFilePath()
	}

	cfg := Defaults()
	if _, err := os.Stat(cfgFile); err == nil {
		if _, err := toml.DecodeFile(cfgFile, cfg); err != nil {
			return fmt.Errorf("error decoding config file: %w", err)
		}
	}

	cfg.Percentage = percentage
	if err := cfg.Validate(); err != nil {
		return err
	}
	return Save(cfgFile, cfg)
}
