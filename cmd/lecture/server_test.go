package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alim08/econ_notes/pkg/config"
	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/metrics"
	"github.com/alim08/econ_notes/pkg/site"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	prev := logger.Log
	logger.Log = zaptest.NewLogger(t)
	t.Cleanup(func() { logger.Log = prev })

	s, err := site.Load(&config.Config{SampleCount: 20, ChartWidth: 800, ChartHeight: 400})
	if err != nil {
		t.Fatalf("site.Load: %v", err)
	}
	srv, err := NewServer(context.Background(), s)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, string(b)
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html", "Tutorial 03"},
		{"/docs/lecture", http.StatusOK, "text/html", "Lecture 3"},
		{"/docs/tutorial", http.StatusOK, "text/html", "Question 05"},
		{"/docs/nope", http.StatusNotFound, "text/plain", "document not found"},
		{"/charts/q1-market.svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"/charts/nope.svg", http.StatusNotFound, "text/plain", "chart not found"},
		{"/health", http.StatusOK, "application/json", `{"status":"healthy"}`},
		{"/ready", http.StatusOK, "application/json", `{"status":"ready"}`},
		{"/version", http.StatusOK, "application/json", `"version"`},
		{"/api/v1/charts", http.StatusOK, "application/json", `"q5-shift"`},
		{"/api/v1/charts/nope", http.StatusNotFound, "application/json", `"chart not found"`},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			resp, body := get(t, ts, c.path)
			if resp.StatusCode != c.status {
				t.Errorf("status = %d; want %d", resp.StatusCode, c.status)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, c.contentType) {
				t.Errorf("Content-Type = %q; want %q", ct, c.contentType)
			}
			if !strings.Contains(body, c.contains) {
				t.Errorf("body does not contain %q", c.contains)
			}
		})
	}
}

func TestChartsDrawnOnce(t *testing.T) {
	ok := metrics.ChartRenders.WithLabelValues("q4-shift", "ok")
	before := testutil.ToFloat64(ok)

	ts := newTestServer(t)
	for _, path := range []string{"/", "/docs/tutorial", "/charts/q4-shift.svg", "/charts/q4-shift.svg"} {
		if resp, _ := get(t, ts, path); resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
	}
	if got := testutil.ToFloat64(ok) - before; got != 1 {
		t.Errorf("q4-shift drawn %v times; want 1", got)
	}
}

func TestGetChart(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/charts/equilibrium")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			ID     string `json:"id"`
			Series []struct {
				Name   string `json:"name"`
				Points []struct {
					Q float64 `json:"Q"`
					P float64 `json:"P"`
				} `json:"points"`
			} `json:"series"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Data.ID != "equilibrium" || len(out.Data.Series) != 2 {
		t.Fatalf("unexpected body: %s", body)
	}
	for _, s := range out.Data.Series {
		for i := 1; i < len(s.Points); i++ {
			if s.Points[i].Q < s.Points[i-1].Q {
				t.Errorf("series %s not sorted by quantity", s.Name)
			}
		}
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := get(t, ts, "/health")
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID %q is not a uuid", resp.Header.Get("X-Request-ID"))
	}

	id := uuid.NewString()
	req, _ := http.NewRequest("GET", ts.URL+"/health", nil)
	req.Header.Set("X-Request-ID", id)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q; want %q", got, id)
	}
}
