// Package config loads and validates client configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

const envPrefix = "AOC"

// ErrMissingCredential is returned when no session token is configured.
var ErrMissingCredential = errors.New("session must be set (AOC_SESSION)")

// Config captures all client configuration knobs loaded via Viper.
type Config struct {
	Session   string          `mapstructure:"session"`
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	UserAgent string          `mapstructure:"user_agent"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Transport TransportConfig `mapstructure:"transport"`
	History   HistoryConfig   `mapstructure:"history"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CacheConfig locates downloaded inputs.
type CacheConfig struct {
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	GCSPrefix string `mapstructure:"gcs_prefix"`
}

// TransportConfig bounds the TLS exchange. Zero disables a timeout.
type TransportConfig struct {
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
}

// HistoryConfig selects where submissions are recorded. An empty Path for the
// file provider resolves to submissions.jsonl inside the cache directory.
type HistoryConfig struct {
	Provider string `mapstructure:"provider"`
	Path     string `mapstructure:"path"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// MetricsConfig names the node-exporter textfile written on exit.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// HistoryPath returns the JSON-lines file used by the file provider.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.Cache.Dir, "submissions.jsonl")
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// History providers.
const (
	HistoryFile     = "file"
	HistoryMemory   = "memory"
	HistoryPostgres = "postgres"
	HistoryNone     = "none"
)

// Load builds a Config from disk, DefaultEnvFile and the environment.
func Load(path string) (Config, error) {
	return LoadFiles(path, DefaultEnvFile)
}

// LoadFiles is Load with an explicit dotenv file. A missing env file is
// ignored. Real environment variables win over the env file, which wins over
// the config file.
func LoadFiles(path, envFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnvFile(v, envFile); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnvFile overlays AOC_* entries from a dotenv file without touching the
// process environment.
func applyEnvFile(v *viper.Viper, envFile string) error {
	if envFile == "" {
		return nil
	}
	env, err := gotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read env file %s: %w", envFile, err)
	}
	for _, key := range v.AllKeys() {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if val, ok := env[name]; ok {
			v.Set(key, val)
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session", "")
	v.SetDefault("host", "adventofcode.com")
	v.SetDefault("port", 443)
	v.SetDefault("user_agent", "github.com/JakeFAU/aocbud")
	v.SetDefault("cache.dir", "aoc_inputs")
	v.SetDefault("cache.gcs_bucket", "")
	v.SetDefault("cache.gcs_prefix", "")
	v.SetDefault("transport.dial_timeout", "10s")
	v.SetDefault("transport.handshake_timeout", "10s")
	v.SetDefault("transport.read_timeout", "0s")
	v.SetDefault("history.provider", HistoryFile)
	v.SetDefault("history.path", "")
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.table", "submissions")
	v.SetDefault("history.max_conns", 2)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Session) == "" {
		return ErrMissingCredential
	}
	if c.Host == "" {
		return fmt.Errorf("host must be set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir must be set")
	}
	if c.Transport.DialTimeout < 0 || c.Transport.HandshakeTimeout < 0 || c.Transport.ReadTimeout < 0 {
		return fmt.Errorf("transport timeouts must be >= 0")
	}
	switch c.History.Provider {
	case HistoryFile, HistoryMemory, HistoryNone:
	case HistoryPostgres:
		if c.History.DSN == "" {
			return fmt.Errorf("history.dsn must be set when history.provider is postgres")
		}
	default:
		return fmt.Errorf("history.provider must be one of file, memory, postgres, none; got %q", c.History.Provider)
	}
	return nil
}
