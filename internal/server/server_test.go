package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/internal/testutil"
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/sqlite"
)

func newTestServer(t *testing.T, lruSize int) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{LRUSize: lruSize, DefaultDialect: "sqlite", Logger: testutil.NewTestLogger(t)})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postParse(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(url+"/parse", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestParse(t *testing.T) {
	_, ts := newTestServer(t, 8)

	tests := []struct {
		name           string
		body           string
		wantStatus     int
		wantViolations int
		wantErr        string
	}{
		{
			name:       "valid sql with default dialect",
			body:       `{"sql": "SELECT a FROM t;"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "explicit dialect",
			body:       `{"sql": "SELECT 1", "dialect": "ansi", "code_only": true}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "unparsable",
			body:           `{"sql": "SELECT 1; this is not sql"}`,
			wantStatus:     http.StatusOK,
			wantViolations: 1,
		},
		{
			name:       "unknown dialect",
			body:       `{"sql": "SELECT 1", "dialect": "oracle"}`,
			wantStatus: http.StatusNotFound,
			wantErr:    "unknown dialect",
		},
		{
			name:       "malformed body",
			body:       `{"sql": `,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
		{
			name:       "unknown field",
			body:       `{"query": "SELECT 1"}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := postParse(t, ts.URL, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantErr != "" {
				assert.Contains(t, out["error"], tt.wantErr)
				return
			}
			assert.Contains(t, out["tree"], "file")
			violations, ok := out["violations"].([]any)
			require.True(t, ok, "violations must be a list")
			if tt.wantViolations > 0 {
				assert.GreaterOrEqual(t, len(violations), tt.wantViolations)
			} else {
				assert.Empty(t, violations)
			}
		})
	}
}

func TestParse_Cached(t *testing.T) {
	s, ts := newTestServer(t, 2)
	body := `{"sql": "SELECT a FROM t"}`

	_, first := postParse(t, ts.URL, body)
	assert.Equal(t, false, first["cached"])

	_, second := postParse(t, ts.URL, body)
	assert.Equal(t, true, second["cached"])
	assert.Equal(t, first["tree"], second["tree"])

	// code_only is part of the key.
	_, third := postParse(t, ts.URL, `{"sql": "SELECT a FROM t", "code_only": true}`)
	assert.Equal(t, false, third["cached"])

	assert.Equal(t, 2, s.cache.Len())
}

func TestParse_NoCache(t *testing.T) {
	_, ts := newTestServer(t, 0)
	body := `{"sql": "SELECT 1"}`

	postParse(t, ts.URL, body)
	_, out := postParse(t, ts.URL, body)
	assert.Equal(t, false, out["cached"])
}

func TestDialects(t *testing.T) {
	_, ts := newTestServer(t, 0)

	resp, err := http.Get(ts.URL + "/dialects")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []dialect.Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "ansi")
	assert.Contains(t, names, "sqlite")
}

func TestGrammar(t *testing.T) {
	_, ts := newTestServer(t, 0)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(t *testing.T, out map[string]any)
	}{
		{
			name:       "root rule",
			path:       "/grammar/sqlite/" + dialect.RootRule,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "file", out["type"])
				assert.NotEmpty(t, out["grammar"])
				assert.NotEmpty(t, out["refs"])
			},
		},
		{
			name:       "unknown rule",
			path:       "/grammar/sqlite/NoSuchSegment",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, out map[string]any) {
				assert.Contains(t, out["error"], "NoSuchSegment")
			},
		},
		{
			name:       "unknown dialect",
			path:       "/grammar/oracle/" + dialect.RootRule,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var out map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, 4)
	postParse(t, ts.URL, `{"sql": "SELECT 1"}`)
	postParse(t, ts.URL, `{"sql": "SELECT 1"}`)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	text := string(body)
	assert.Contains(t, text, `leapfluff_parses_total{dialect="sqlite",outcome="ok"} 1`)
	assert.Contains(t, text, "leapfluff_cache_hits_total 1")
	assert.Contains(t, text, "leapfluff_lru_entries 1")
	assert.Contains(t, text, "leapfluff_parse_duration_seconds")
}

func TestServeListener_Shutdown(t *testing.T) {
	s := New(Config{ShutdownTimeout: time.Second})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_BadAddr(t *testing.T) {
	err := New(Config{Addr: "not-an-address"}).Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on not-an-address")
}
