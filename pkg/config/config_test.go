package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/cache"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

const sample = `
[margins]
route = 0.5
edge  = 1
node  = 2

[resolve]
strategy = "hybrid"
max_displacement_passes = 200
correction_factor = 0.5
major_misalignment = true

[repair]
cost_threshold = 3

[cache]
backend    = "redis"
redis_addr = "localhost:6379"
ttl        = "24h"

[serve]
addr = ":9090"
read_timeout = "5s"
`

func TestParse(t *testing.T) {
	cfg, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Margins != (buffer.Margins{Route: 0.5, Edge: 1, Node: 2}) {
		t.Errorf("Margins = %+v", cfg.Margins)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Serve.Addr != ":9090" || cfg.Serve.ReadTimeout != 5*time.Second {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
	if cfg.Serve.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default %v", cfg.Serve.WriteTimeout, DefaultWriteTimeout)
	}

	opts := cfg.PipelineOptions()
	if opts.Strategy != pipeline.StrategyHybrid || opts.MaxDisplacementPasses != 200 ||
		opts.CorrectionFactor != 0.5 || !opts.MajorMisalignment || opts.CostThreshold != 3 {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
	if opts.CyclePenalty != 0 {
		t.Errorf("CyclePenalty = %v, want 0 until defaults apply", opts.CyclePenalty)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[margins\nroute = 1", ""},
		{"unknown key", "[margins]\nrout = 1", "margins.rout"},
		{"unknown section", "[render]\nscale = 2", "render"},
		{"bad strategy", "[resolve]\nstrategy = \"shuffle\"", ""},
		{"negative margin", "[margins]\nnode = -1", ""},
		{"bad backend", "[cache]\nbackend = \"memcached\"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !oerrors.Is(err, oerrors.ErrCodeInvalidConfig) {
				t.Fatalf("Parse() error = %v, want %s", err, oerrors.ErrCodeInvalidConfig)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Resolve.Strategy != pipeline.StrategyHybrid {
		t.Errorf("Strategy = %q", cfg.Resolve.Strategy)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !oerrors.Is(err, oerrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, oerrors.ErrCodeFileNotFound)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Resolve.Strategy != pipeline.DefaultStrategy || cfg.Serve.Addr != DefaultAddr {
		t.Errorf("Default() = %+v", cfg)
	}
}
