package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/octomap/pkg/observability"
)

func TestResolveMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnPass(ctx, "displace", 4)
	m.OnPass(ctx, "displace", 2)
	m.OnResolveComplete(ctx, "displace", 2, 0, time.Millisecond, nil)
	m.OnResolveComplete(ctx, "scale", 25, 3, time.Millisecond, nil)
	m.OnResolveComplete(ctx, "scale", 0, 0, 0, errors.New("boom"))

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"passes", m.ResolvePasses.WithLabelValues("displace"), 2},
		{"solved", m.Resolves.WithLabelValues("displace", "solved"), 1},
		{"unsolved", m.Resolves.WithLabelValues("scale", "unsolved"), 1},
		{"error", m.Resolves.WithLabelValues("scale", "error"), 1},
		{"remaining", m.Remaining.WithLabelValues("scale"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheAndAPIMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 512)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheHit(ctx, "layout")
	m.OnResponse(ctx, "POST", "/v1/resolve", 200, time.Millisecond)

	if got := testutil.ToFloat64(m.Cache.WithLabelValues("layout", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CacheBytes.WithLabelValues("layout")); got != 512 {
		t.Errorf("bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("POST", "/v1/resolve", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestTime); got != 1 {
		t.Errorf("request histograms = %d, want 1", got)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Register()
	if observability.Resolve() != m || observability.Cache() != m || observability.API() != m {
		t.Error("Register() did not install the hooks")
	}
}

func TestDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("second New() on one registry did not panic")
		}
	}()
	New(reg)
}
