package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/widgetkit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "widgetkit.json"

	// DefaultAddr is the default remote server address.
	DefaultAddr = ":8080"

	// DefaultReadTimeout is the default HTTP and websocket read timeout.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout is the default HTTP and websocket write timeout.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "widgetkit"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "widgetkit"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultSnapshotPrefix is the default object key prefix for snapshots.
	DefaultSnapshotPrefix = "snapshots/"
)

// Environment variables that override file settings.
const (
	EnvAddr     = "WIDGETKIT_ADDR"
	EnvLogLevel = "WIDGETKIT_LOG_LEVEL"
)

// Config represents widgetkit.json.
type Config struct {
	// Addr is the remote server listen address.
	Addr string `json:"addr,omitempty"`

	// ReadTimeout is a duration string such as "60s".
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout is a duration string such as "10s".
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// MetricsNamespace prefixes the Prometheus collectors.
	MetricsNamespace string `json:"metricsNamespace,omitempty"`

	// TracerName names the OpenTelemetry tracer.
	TracerName string `json:"tracerName,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Snapshot configures snapshot export.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SnapshotConfig configures where exported snapshots are stored.
type SnapshotConfig struct {
	// Bucket is the S3 bucket. Empty disables S3 export.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle addresses the bucket by path instead of by subdomain.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Addr:             DefaultAddr,
		ReadTimeout:      DefaultReadTimeout.String(),
		WriteTimeout:     DefaultWriteTimeout.String(),
		MetricsNamespace: DefaultMetricsNamespace,
		TracerName:       DefaultTracerName,
		LogLevel:         DefaultLogLevel,
		Snapshot: SnapshotConfig{
			Prefix: DefaultSnapshotPrefix,
		},
	}
}

// Load reads widgetkit.json from dir. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(dir string) (*Config, error) {
	if !Exists(dir) {
		cfg := New()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		e := errors.New("W005").Wrap(err)
		if os.IsNotExist(err) {
			e = e.WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, e
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("W005").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir walks up from startDir to the first directory holding
// widgetkit.json and loads it. Without one, it returns the defaults.
func LoadFromDir(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.New("W005").Wrap(err)
	}
	for {
		if Exists(dir) {
			return LoadFile(filepath.Join(dir, ConfigFileName))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Load(startDir)
		}
		dir = parent
	}
}

// Exists reports whether dir contains widgetkit.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("W005").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("W005").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	d := New()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.TracerName == "" {
		c.TracerName = d.TracerName
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Snapshot.Prefix == "" {
		c.Snapshot.Prefix = d.Snapshot.Prefix
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("W005").WithDetail("addr must not be empty")
	}
	for name, v := range map[string]string{"readTimeout": c.ReadTimeout, "writeTimeout": c.WriteTimeout} {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return errors.New("W005").
				WithDetail(name + " is not a valid duration: " + v).
				WithSuggestion(`Use a Go duration such as "30s"`)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Snapshot.Endpoint != "" && c.Snapshot.Bucket == "" {
		return errors.New("W005").WithDetail("snapshot.endpoint is set without snapshot.bucket")
	}
	return nil
}

// ReadTimeoutDuration returns ReadTimeout parsed, or the default.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return parseDuration(c.ReadTimeout, DefaultReadTimeout)
}

// WriteTimeoutDuration returns WriteTimeout parsed, or the default.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return parseDuration(c.WriteTimeout, DefaultWriteTimeout)
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, errors.New("W005").
			WithDetail("unknown logLevel " + c.LogLevel).
			WithSuggestion("Use debug, info, warn or error")
	}
	return level, nil
}

// HasSnapshotBucket reports whether S3 snapshot export is configured.
func (c *Config) HasSnapshotBucket() bool {
	return c.Snapshot.Bucket != ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
