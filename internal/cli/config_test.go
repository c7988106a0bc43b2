package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/featuretable/pkg/cache"
	"github.com/matzehuels/featuretable/pkg/errors"
	"github.com/matzehuels/featuretable/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
cache_dir  = "/srv/cache"
cache_ttl  = "36h"
redis_addr = "localhost:6379"
listen     = "127.0.0.1:9000"
format     = "gff3"
`)
	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	want := Config{
		CacheDir:  "/srv/cache",
		CacheTTL:  duration{36 * time.Hour},
		RedisAddr: "localhost:6379",
		Listen:    "127.0.0.1:9000",
		Format:    "gff3",
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `format = "json"`), true)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.CacheTTL.Duration != pipeline.DefaultTableTTL {
		t.Errorf("defaults not kept: %+v", cfg)
	}

	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := loadConfig(missing, false); err != nil {
		t.Errorf("missing default config should be ignored: %v", err)
	}
	if _, err := loadConfig(missing, true); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit config error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", `format = `, errors.ErrCodeInvalidFormat},
		{"bad duration", `cache_ttl = "soon"`, errors.ErrCodeInvalidFormat},
		{"unknown key", `colour = "blue"`, errors.ErrCodeInvalidInput},
		{"bad format", `format = "bed"`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content), true)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	path, err := configPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-config", appName, configFileName); path != want {
		t.Errorf("configPath() = %q, want %q", path, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestKeyerScopesRedis(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if key := c.keyer(false).TableKey("h", cache.TableKeyOpts{}); strings.HasPrefix(key, appName) {
		t.Errorf("file cache key %q should not be scoped", key)
	}
	c.Config.RedisAddr = "localhost:6379"
	if key := c.keyer(false).TableKey("h", cache.TableKeyOpts{}); !strings.HasPrefix(key, appName+":tbl:") {
		t.Errorf("redis key %q should start with %q", key, appName+":tbl:")
	}
}
