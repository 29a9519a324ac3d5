// Package config loads tutorly settings: defaults, then a YAML file, then
// TUTORLY_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/tutorly/internal/llm"
	"github.com/abhisek/tutorly/internal/logging"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "tutorly.yaml"

// Duration is a time.Duration written as a string in YAML, e.g. "15s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the full settings tree.
type Config struct {
	LLM        llm.Config     `yaml:"llm"`
	Generation Generation     `yaml:"generation"`
	Server     Server         `yaml:"server"`
	Logging    logging.Config `yaml:"logging"`
	Store      Store          `yaml:"store"`
	Video      Video          `yaml:"video"`
}

// Generation bounds calls into the text-generation capability.
type Generation struct {
	// Timeout bounds one generation call including retries.
	Timeout Duration `yaml:"timeout"`

	// FreshnessConcurrency bounds parallel calls in content scans.
	FreshnessConcurrency int `yaml:"freshness_concurrency"`
}

type Server struct {
	Addr string `yaml:"addr"`

	// RateLimit is requests per second per client IP; zero disables it.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`

	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type Store struct {
	// Path is the SQLite file; empty uses store.DefaultDBPath.
	Path string `yaml:"path"`

	// Disabled turns off the audit store.
	Disabled bool `yaml:"disabled"`
}

type Video struct {
	// Catalog is a YAML catalog file; empty uses the embedded catalog.
	Catalog string `yaml:"catalog"`

	// TrustedChannels overrides the catalog's allowlist when set.
	TrustedChannels []string `yaml:"trusted_channels"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Generation: Generation{
			Timeout:              Duration(llm.DefaultTimeout),
			FreshnessConcurrency: 4,
		},
		Server: Server{
			Addr:            ":8080",
			RateLimit:       5,
			Burst:           10,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path reads DefaultFile when present; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	ApplyEnv(&cfg)
	cfg.LLM.Timeout = time.Duration(cfg.Generation.Timeout)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overlays TUTORLY_* variables onto cfg.
func ApplyEnv(cfg *Config) {
	llm.ApplyEnv(&cfg.LLM)
	if v := os.Getenv("TUTORLY_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generation.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("TUTORLY_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("TUTORLY_LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TUTORLY_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("TUTORLY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TUTORLY_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = f
		}
	}
}

// Validate checks values that would otherwise fail later and less clearly.
// Provider credentials are checked when the provider is built.
func (c Config) Validate() error {
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation.timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1 when rate limiting")
	}
	if c.Generation.FreshnessConcurrency < 1 {
		return fmt.Errorf("generation.freshness_concurrency must be at least 1")
	}
	return nil
}
