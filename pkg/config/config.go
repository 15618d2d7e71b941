// Package config loads octomap settings from a TOML file.
//
// A file may set any subset of the sections below; missing keys keep their
// defaults, unknown keys are an error:
//
//	[margins]
//	route = 0.5
//	edge  = 1
//	node  = 1
//
//	[resolve]
//	strategy = "hybrid"
//	max_displacement_passes = 200
//	correction_factor = 0.5
//	major_misalignment = true
//
//	[repair]
//	cost_threshold = 5
//	cycle_penalty  = 1000
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//	ttl        = "24h"
//	prefix     = "staging:"
//
//	[serve]
//	addr = ":8080"
//	read_timeout = "10s"
//
// CLI flags override file values; [Config.PipelineOptions] is the bridge
// between the two.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/cache"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

// FileName is the name of the config file in the user config directory.
const FileName = "config.toml"

// Serve defaults.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 2 * time.Minute
	DefaultMaxBodyBytes = 8 << 20
)

// Config is the contents of a config file.
type Config struct {
	Margins buffer.Margins `toml:"margins"`
	Resolve Resolve        `toml:"resolve"`
	Repair  Repair         `toml:"repair"`
	Cache   cache.Config   `toml:"cache"`
	Serve   Serve          `toml:"serve"`
}

// Resolve holds resolver settings.
type Resolve struct {
	Strategy              string  `toml:"strategy"`
	MaxScalePasses        int     `toml:"max_scale_passes"`
	MaxDisplacementPasses int     `toml:"max_displacement_passes"`
	CorrectionFactor      float64 `toml:"correction_factor"`
	MajorMisalignment     bool    `toml:"major_misalignment"`
	Workers               int     `toml:"workers"`
}

// Repair holds octilinear repair settings.
type Repair struct {
	CostThreshold float64 `toml:"cost_threshold"`
	CyclePenalty  float64 `toml:"cycle_penalty"`
}

// Serve holds HTTP API settings.
type Serve struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	Metrics      bool          `toml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Resolve: Resolve{Strategy: pipeline.DefaultStrategy},
		Cache:   cache.Config{Backend: cache.BackendFile, TTL: cache.DefaultTTL},
		Serve: Serve{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
			Metrics:      true,
		},
	}
}

// DefaultPath returns the per-user config file path, e.g.
// ~/.config/octomap/config.toml on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "octomap", FileName), nil
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.Wrap(oerrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, oerrors.Wrap(oerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault reads the file at [DefaultPath] if it exists and returns the
// defaults otherwise.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if oerrors.Is(err, oerrors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes TOML text over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, oerrors.Wrap(oerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return oerrors.New(oerrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
}

// Validate checks every section.
func (c *Config) Validate() error {
	opts := c.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return oerrors.Wrap(oerrors.ErrCodeInvalidConfig, err, "invalid resolver settings")
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return oerrors.New(oerrors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return oerrors.New(oerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Serve.ReadTimeout < 0 || c.Serve.WriteTimeout < 0 || c.Serve.MaxBodyBytes < 0 {
		return oerrors.New(oerrors.ErrCodeInvalidConfig, "serve timeouts and body limit must not be negative")
	}
	return nil
}

// PipelineOptions maps the resolver sections to pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Strategy:              c.Resolve.Strategy,
		Margins:               c.Margins,
		MaxScalePasses:        c.Resolve.MaxScalePasses,
		MaxDisplacementPasses: c.Resolve.MaxDisplacementPasses,
		CorrectionFactor:      c.Resolve.CorrectionFactor,
		MajorMisalignment:     c.Resolve.MajorMisalignment,
		CostThreshold:         c.Repair.CostThreshold,
		CyclePenalty:          c.Repair.CyclePenalty,
		Workers:               c.Resolve.Workers,
	}
}
