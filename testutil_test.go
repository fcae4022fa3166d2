package suitefixtures

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
)

// loggedRequest is a single request served by the fake engine.
type loggedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// requestLog records every request the fake engine served, in order.
type requestLog struct {
	mu      sync.Mutex
	entries []loggedRequest
}

func (l *requestLog) add(entry loggedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *requestLog) list() []loggedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]loggedRequest(nil), l.entries...)
}

func (l *requestLog) count() int {
	return len(l.list())
}

// newFakeEngine starts an httptest server standing in for Elasticsearch
// and returns a client pointed at it plus the request log. Every response
// carries the product header the v8 client verifies. With a nil handler
// every request is acknowledged with a 200.
func newFakeEngine(t *testing.T, handler http.HandlerFunc) (*elasticsearch.Client, *requestLog) {
	t.Helper()

	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		log.add(loggedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if handler != nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
			handler(w, r)
			return
		}
		io.WriteString(w, `{"acknowledged":true}`)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{srv.URL},
	})
	require.NoError(t, err)

	return client, log
}

// newTestController builds a Controller wired to a fake engine.
func newTestController(t *testing.T, cfg *Config, handler http.HandlerFunc) (*Controller, *requestLog) {
	t.Helper()

	client, log := newFakeEngine(t, handler)
	c, err := New(cfg, WithClient(client))
	require.NoError(t, err)
	return c, log
}

// testConfig returns a minimal valid configuration.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Hosts = []Host{{Host: "localhost", Port: 9200}}
	return cfg
}

// failureRecorder captures assertion failures instead of failing the
// running test.
type failureRecorder struct {
	failures []string
	helped   bool
}

func (r *failureRecorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *failureRecorder) Helper() {
	r.helped = true
}
