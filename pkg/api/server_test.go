package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/octomap/pkg/cache"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/observability"
	"github.com/matzehuels/octomap/pkg/observability/prom"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

const overlapping = `{"stations": {"min_size": 20}, "nodes": [{"name": "a", "x": 0, "y": 0}, {"name": "b", "x": 10, "y": 0}], "edges": []}`

func newServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(New(pipeline.NewRunner(fc, nil, nil), opts))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp, raw
}

func TestResolve(t *testing.T) {
	ts := newServer(t, Options{})

	resp, body := post(t, ts, "/v1/resolve", `{"graph": `+overlapping+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var got ResolveResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Cached || !got.Layout.Solved || got.Passes != 1 {
		t.Errorf("response = %+v", got)
	}
	if got.RequestID == "" || got.RequestID != resp.Header.Get(RequestIDHeader) {
		t.Errorf("request id %q, header %q", got.RequestID, resp.Header.Get(RequestIDHeader))
	}
	for _, n := range got.Layout.Nodes {
		if n.Name == "b" && n.X != 20 {
			t.Errorf("b.x = %v, want 20", n.X)
		}
	}

	_, body = post(t, ts, "/v1/resolve", `{"graph": `+overlapping+`}`)
	var again ResolveResponse
	if err := json.Unmarshal(body, &again); err != nil {
		t.Fatal(err)
	}
	if !again.Cached || again.GraphHash != got.GraphHash {
		t.Errorf("second response cached = %v, hash %q vs %q", again.Cached, again.GraphHash, got.GraphHash)
	}
}

func TestResolveOptions(t *testing.T) {
	ts := newServer(t, Options{Defaults: pipeline.Options{Strategy: pipeline.StrategyScale}})

	_, body := post(t, ts, "/v1/resolve", `{"graph": `+overlapping+`}`)
	var def ResolveResponse
	if err := json.Unmarshal(body, &def); err != nil {
		t.Fatal(err)
	}
	if def.Layout.Strategy != "scale" {
		t.Errorf("default strategy = %q, want scale", def.Layout.Strategy)
	}

	_, body = post(t, ts, "/v1/resolve", `{"graph": `+overlapping+`, "options": {"strategy": "hybrid"}}`)
	var hybrid ResolveResponse
	if err := json.Unmarshal(body, &hybrid); err != nil {
		t.Fatal(err)
	}
	if hybrid.Layout.Strategy != "scale+displace" {
		t.Errorf("requested strategy = %q, want scale+displace", hybrid.Layout.Strategy)
	}
}

func TestConflicts(t *testing.T) {
	ts := newServer(t, Options{})

	resp, body := post(t, ts, "/v1/conflicts", `{"graph": `+overlapping+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var got ConflictsResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || got.Conflicts[0].Type != "NODE_NODE" || got.Conflicts[0].Distance != 10 {
		t.Errorf("response = %+v", got)
	}

	_, body = post(t, ts, "/v1/conflicts", `{"graph": {"nodes": [{"name": "a", "x": 0, "y": 0}], "edges": []}}`)
	if !strings.Contains(string(body), `"conflicts":[]`) {
		t.Errorf("empty listing = %s", body)
	}
}

func TestErrors(t *testing.T) {
	ts := newServer(t, Options{MaxBodyBytes: 512})

	tests := []struct {
		name   string
		body   string
		status int
		code   oerrors.Code
	}{
		{"not json", `{`, http.StatusBadRequest, oerrors.ErrCodeInvalidInput},
		{"no graph", `{}`, http.StatusBadRequest, oerrors.ErrCodeInvalidInput},
		{"unknown field", `{"graph": {}, "extra": 1}`, http.StatusBadRequest, oerrors.ErrCodeInvalidInput},
		{"bad graph", `{"graph": {"nodes": [], "edges": [{"from": "a", "to": "b"}]}}`, http.StatusBadRequest, oerrors.ErrCodeInvalidGraph},
		{"bad option", `{"graph": ` + overlapping + `, "options": {"strategy": "shuffle"}}`, http.StatusBadRequest, oerrors.ErrCodeInvalidInput},
		{"unknown option", `{"graph": ` + overlapping + `, "options": {"workers": 4}}`, http.StatusBadRequest, oerrors.ErrCodeInvalidInput},
		{"coincident", `{"graph": {"nodes": [{"name": "a", "x": 0, "y": 0}, {"name": "b", "x": 0, "y": 0}], "edges": []}}`, http.StatusUnprocessableEntity, oerrors.ErrCodeCoincidentNodes},
		{"too large", `{"graph": ` + strings.Repeat(" ", 1024) + `{}}`, http.StatusBadRequest, oerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, "/v1/resolve", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			var e ErrorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newServer(t, Options{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(RequestIDHeader, "abc")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "abc" {
		t.Errorf("%s = %q, want echo of abc", RequestIDHeader, got)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("/metrics without handler = %d, want 404", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := prom.New(reg)
	m.Register()
	defer observability.Reset()

	ts := newServer(t, Options{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})
	post(t, ts, "/v1/resolve", `{"graph": `+overlapping+`}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `route="/v1/resolve"`) {
		t.Errorf("metrics missing the resolve route:\n%s", out)
	}
}

type apiRecorder struct {
	observability.NoopAPIHooks
	mu     sync.Mutex
	routes []string
}

func (h *apiRecorder) OnResponse(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

func TestRoutePatternLabels(t *testing.T) {
	h := &apiRecorder{}
	observability.SetAPIHooks(h)
	defer observability.Reset()

	ts := newServer(t, Options{})
	post(t, ts, "/v1/conflicts", `{"graph": `+overlapping+`}`)

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) != 1 || h.routes[0] != "/v1/conflicts" {
		t.Errorf("routes = %v, want [/v1/conflicts]", h.routes)
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{oerrors.New(oerrors.ErrCodeInvalidGraph, "x"), http.StatusBadRequest},
		{oerrors.New(oerrors.ErrCodeCoincidentNodes, "x"), http.StatusUnprocessableEntity},
		{oerrors.New(oerrors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{context.Canceled, http.StatusServiceUnavailable},
		{oerrors.New(oerrors.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
