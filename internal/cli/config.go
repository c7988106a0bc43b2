package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/featuretable/pkg/errors"
	"github.com/matzehuels/featuretable/pkg/pipeline"
)

const configFileName = "config.toml"

// Config holds settings read from the TOML config file. Command-line flags
// take precedence over every field.
//
//	cache_dir  = "/var/cache/featuretable"
//	cache_ttl  = "72h"
//	redis_addr = "localhost:6379"
//	listen     = ":8080"
//	format     = "gff3"
type Config struct {
	CacheDir  string   `toml:"cache_dir"`
	CacheTTL  duration `toml:"cache_ttl"`
	RedisAddr string   `toml:"redis_addr"`
	Listen    string   `toml:"listen"`
	Format    string   `toml:"format"`
}

// duration decodes TOML strings such as "36h" or "90m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() Config {
	return Config{
		CacheTTL: duration{pipeline.DefaultTableTTL},
		Listen:   ":8080",
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultConfig(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Format != "" {
		if err := pipeline.ValidateFormat(cfg.Format); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
		}
	}
	if cfg.CacheTTL.Duration <= 0 {
		cfg.CacheTTL.Duration = pipeline.DefaultTableTTL
	}
	return cfg, nil
}

// configPath returns the default config file location
// ($XDG_CONFIG_HOME/featuretable/config.toml or ~/.config/featuretable/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}
