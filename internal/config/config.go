// Package config loads pawtrail settings from a YAML or TOML file (chosen by
// extension) and PAWTRAIL_* environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/pawtrail/pkg/persistence/middleware"
	"github.com/aretw0/pawtrail/pkg/session"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "pawtrail.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the full host configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
	Restore    RestoreConfig    `mapstructure:"restore"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	HTTP       HTTPConfig       `mapstructure:"http"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Backend string       `mapstructure:"backend"`
	Dir     string       `mapstructure:"dir"`
	Redis   RedisConfig  `mapstructure:"redis"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RestoreConfig struct {
	Policy string `mapstructure:"policy"`
}

// EncryptionConfig holds base64-encoded AES-256 keys. An empty Key disables encryption.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".pawtrail/sessions",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			SQLite:  SQLiteConfig{Path: ".pawtrail/sessions.db"},
		},
		Restore: RestoreConfig{Policy: string(session.RestorePolicyFail)},
		HTTP:    HTTPConfig{Addr: ":8080"},
	}
}

// envKeys maps environment variables to their dotted config path.
var envKeys = map[string]string{
	"PAWTRAIL_LOG_LEVEL":      "log.level",
	"PAWTRAIL_STORE_BACKEND":  "store.backend",
	"PAWTRAIL_STORE_DIR":      "store.dir",
	"PAWTRAIL_REDIS_ADDR":     "store.redis.addr",
	"PAWTRAIL_REDIS_PASSWORD": "store.redis.password",
	"PAWTRAIL_REDIS_DB":       "store.redis.db",
	"PAWTRAIL_REDIS_PREFIX":   "store.redis.prefix",
	"PAWTRAIL_REDIS_TTL":      "store.redis.ttl",
	"PAWTRAIL_SQLITE_PATH":    "store.sqlite.path",
	"PAWTRAIL_RESTORE_POLICY": "restore.policy",
	"PAWTRAIL_ENCRYPTION_KEY": "encryption.key",
	"PAWTRAIL_HTTP_ADDR":      "http.addr",
}

// Load reads path (a missing file is not an error), applies environment
// overrides on top and validates the result. Files ending in .toml are read
// as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	raw := map[string]any{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := unmarshal(path, data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	for env, key := range envKeys {
		if v, ok := lookup(env); ok {
			setPath(raw, strings.Split(key, "."), v)
		}
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func unmarshal(path string, data []byte, raw *map[string]any) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, raw)
	}
	return yaml.Unmarshal(data, raw)
}

// setPath writes value at the nested key path, creating maps as needed.
func setPath(m map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// Validate checks values mapstructure cannot.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := session.ParseRestorePolicy(c.Restore.Policy); err != nil {
		return err
	}
	if _, _, err := c.Encryption.Middleware(); err != nil {
		return err
	}
	return nil
}

// RestorePolicy returns the parsed restore policy.
func (c *Config) RestorePolicy() session.RestorePolicy {
	p, _ := session.ParseRestorePolicy(c.Restore.Policy)
	return p
}

// Middleware decodes the keys and builds the encryption middleware.
// It reports false when no key is configured.
func (e EncryptionConfig) Middleware() (middleware.Middleware, bool, error) {
	if e.Key == "" {
		if len(e.FallbackKeys) > 0 {
			return nil, false, errors.New("encryption.fallback_keys set without encryption.key")
		}
		return nil, false, nil
	}

	active, err := decodeKey(e.Key)
	if err != nil {
		return nil, false, fmt.Errorf("encryption.key: %w", err)
	}
	fallback := make([][]byte, 0, len(e.FallbackKeys))
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, false, fmt.Errorf("encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}

	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	})
	if err != nil {
		return nil, false, err
	}
	return mw, true, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	return key, nil
}
