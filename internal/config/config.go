// Package config resolves runtime settings from flags, PLATS_* environment
// variables, an optional config file, and defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tayloree/petits-plats/internal/logging"
	"github.com/tayloree/petits-plats/internal/recipe"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PLATS"

// Flag names bound to configuration keys.
const (
	FlagSource   = "source"
	FlagImages   = "images"
	FlagCacheTTL = "cache-ttl"
	FlagLogLevel = "log-level"
	FlagConfig   = "config"
)

// Config is the resolved runtime configuration.
type Config struct {
	Source          string        `mapstructure:"source"`
	ImageBase       string        `mapstructure:"images"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	LogLevel        string        `mapstructure:"log_level"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// RegisterFlags adds the configuration flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagSource, "", "Recipe source: URL, JSON file path, or empty for the bundled dataset")
	flags.String(FlagImages, recipe.DefaultImageBase, "Base path or URL for recipe images")
	flags.Duration(FlagCacheTTL, 5*time.Minute, "How long loaded recipes stay cached (0 disables)")
	flags.String(FlagLogLevel, logging.DefaultLevel, "Log level: debug, info, warn, error, off")
	flags.String(FlagConfig, "", "Config file (default: ./plats.yaml or $XDG_CONFIG_HOME/plats/plats.yaml)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source", "")
	v.SetDefault("images", recipe.DefaultImageBase)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("cleanup_interval", time.Minute)
	v.SetDefault("log_level", logging.DefaultLevel)
}

// Load resolves the configuration. flags may be nil; flags it carries take
// precedence over every other layer when the user set them.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindings := map[string]string{
			"source":    FlagSource,
			"images":    FlagImages,
			"cache_ttl": FlagCacheTTL,
			"log_level": FlagLogLevel,
		}
		for key, name := range bindings {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	file, err := readConfigFile(v, explicitConfigFile(flags))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = file
	cfg.Source = strings.TrimSpace(cfg.Source)
	if strings.TrimSpace(cfg.ImageBase) == "" {
		cfg.ImageBase = recipe.DefaultImageBase
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func explicitConfigFile(flags *pflag.FlagSet) string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" && (flags == nil || !flags.Changed(FlagConfig)) {
		return path
	}
	if flags == nil {
		return ""
	}
	path, _ := flags.GetString(FlagConfig)
	return strings.TrimSpace(path)
}

func readConfigFile(v *viper.Viper, explicit string) (string, error) {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("reading config %s: %w", explicit, err)
		}
		return v.ConfigFileUsed(), nil
	}

	v.SetConfigName("plats")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "plats"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}
