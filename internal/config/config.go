// Package config loads codepane settings from flags, CODEPANE_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "CODEPANE"
	appDirName = "codepane"
)

// Config is the resolved application configuration.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	Port            int           `mapstructure:"port"`
	DataDir         string        `mapstructure:"data"`
	KeysDir         string        `mapstructure:"keys-dir"`
	Identity        string        `mapstructure:"identity"`
	Recipient       string        `mapstructure:"recipient"`
	Watch           bool          `mapstructure:"watch"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	LogFile         string        `mapstructure:"log-file"` // "" disables file logging
}

// ListenAddr returns host:port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// EncryptionConfigured reports whether both key files are known.
func (c *Config) EncryptionConfigured() bool {
	return c.Identity != "" && c.Recipient != ""
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("addr", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("watch", true)
	v.SetDefault("refresh-interval", 5*time.Minute)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

// RegisterFlags adds the shared server flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("addr", "a", "localhost", "address to bind the server to")
	fs.IntP("port", "p", 8080, "port to run the server on")
	fs.StringP("data", "d", "", "directory holding snippets (default $XDG_DATA_HOME/codepane)")
	fs.StringP("keys-dir", "k", "", "directory for age keys (default <data>/keys)")
	fs.StringP("identity", "i", "", "age identity file used to decrypt .age snippets")
	fs.StringP("recipient", "r", "", "age recipients file used to encrypt new .age snippets")
	fs.Bool("watch", true, "watch the data directory and live reload pages")
	fs.Duration("refresh-interval", 5*time.Minute, "how often the snippet cache is refreshed")
	fs.String("log-file", "", `log file path (default <data>/service/codepane.log, "" disables)`)
}

// BindFlags binds every flag in fs that has a matching key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = errors.Join(err, bindErr)
		}
	})
	return err
}

// ReadConfigFile reads path, or the first codepane config found in the user
// config directory when path is empty. A missing default file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appDirName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load resolves the final configuration, filling in directory defaults.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if cfg.DataDir == "" {
		dataHome, err := xdgDataHome()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = filepath.Join(dataHome, appDirName)
	}

	if cfg.KeysDir == "" {
		cfg.KeysDir = filepath.Join(cfg.DataDir, "keys")
	}

	if cfg.Identity == "" && cfg.Recipient == "" {
		cfg.Identity, cfg.Recipient = defaultKeys(cfg.KeysDir)
	}

	if !v.IsSet("log-file") {
		cfg.LogFile = filepath.Join(cfg.DataDir, "service", "codepane.log")
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", cfg.Port)
	}
	if strings.ContainsAny(cfg.Addr, " ;&|$`<>\"'\\") {
		return fmt.Errorf("addr %q contains invalid characters", cfg.Addr)
	}
	if cfg.RefreshInterval <= 0 {
		return fmt.Errorf("refresh-interval must be positive, got %s", cfg.RefreshInterval)
	}
	return nil
}

// xdgDataHome returns $XDG_DATA_HOME or ~/.local/share.
func xdgDataHome() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine user home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// defaultKeys returns keys/key.txt and keys/key.pub when both exist.
func defaultKeys(keysDir string) (identity, recipient string) {
	identity = filepath.Join(keysDir, "key.txt")
	recipient = filepath.Join(keysDir, "key.pub")

	if _, err := os.Stat(identity); err != nil {
		return "", ""
	}
	if _, err := os.Stat(recipient); err != nil {
		return "", ""
	}
	return identity, recipient
}
