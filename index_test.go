package suitefixtures

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanUpDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Indexes = []string{"orders"}

	c, log := newTestController(t, cfg, nil)

	require.NoError(t, c.CleanUp())
	assert.Equal(t, 0, log.count(), "cleanup without the flag is a no-op")
}

func TestCleanUpSpecificIndexes(t *testing.T) {
	cfg := testConfig()
	cfg.Cleanup = true
	cfg.Indexes = []string{"orders", "users"}

	c, log := newTestController(t, cfg, nil)
	require.NoError(t, c.CleanUp())

	requests := log.list()
	require.Len(t, requests, 2, "each configured index is deleted individually")
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/orders", requests[0].Path)
	assert.Equal(t, http.MethodDelete, requests[1].Method)
	assert.Equal(t, "/users", requests[1].Path)
}

func TestCleanUpAllIndexes(t *testing.T) {
	cfg := testConfig()
	cfg.Cleanup = true

	c, log := newTestController(t, cfg, nil)
	require.NoError(t, c.CleanUp())

	requests := log.list()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/_all", requests[0].Path)
}

func TestCleanUpStopsAtFirstFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Cleanup = true
	cfg.Indexes = []string{"orders", "users", "sessions"}

	c, log := newTestController(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users" {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"error":{"type":"security_exception"}}`)
			return
		}
		io.WriteString(w, `{"acknowledged":true}`)
	})

	err := c.CleanUp()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `deleting index "users"`)

	requests := log.list()
	require.Len(t, requests, 2, "deletion stops at the first error, later indexes stay untouched")
	assert.Equal(t, "/orders", requests[0].Path)
	assert.Equal(t, "/users", requests[1].Path)
}
