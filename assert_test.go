package suitefixtures

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// existsHandler answers existence probes with 200 for the given paths and
// 404 for everything else.
func existsHandler(present ...string) http.HandlerFunc {
	known := make(map[string]bool, len(present))
	for _, p := range present {
		known[p] = true
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !known[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestSeeDocumentExists(t *testing.T) {
	c, log := newTestController(t, testConfig(), existsHandler("/orders/_doc/42"))

	rec := &failureRecorder{}
	c.SeeDocumentExists(rec, "orders", "42")

	assert.Empty(t, rec.failures)
	assert.True(t, rec.helped)

	requests := log.list()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodHead, requests[0].Method)
	assert.Equal(t, "/orders/_doc/42", requests[0].Path)
}

func TestSeeDocumentExistsReportsMissing(t *testing.T) {
	c, _ := newTestController(t, testConfig(), existsHandler())

	rec := &failureRecorder{}
	c.SeeDocumentExists(rec, "orders", "42")

	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0], `"42"`)
	assert.Contains(t, rec.failures[0], `"orders"`)
}

func TestSeeDocumentAbsent(t *testing.T) {
	c, _ := newTestController(t, testConfig(), existsHandler())

	rec := &failureRecorder{}
	c.SeeDocumentAbsent(rec, "orders", "42")

	assert.Empty(t, rec.failures)
}

func TestSeeDocumentAbsentReportsPresent(t *testing.T) {
	c, _ := newTestController(t, testConfig(), existsHandler("/orders/_doc/42"))

	rec := &failureRecorder{}
	c.SeeDocumentAbsent(rec, "orders", "42")

	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0], `"42"`)
	assert.Contains(t, rec.failures[0], "absent")
}

func TestAssertionsAcceptIntegerIDs(t *testing.T) {
	c, log := newTestController(t, testConfig(), existsHandler("/testIndex/_doc/111"))

	rec := &failureRecorder{}
	c.SeeDocumentExists(rec, "testIndex", 111)

	assert.Empty(t, rec.failures)
	requests := log.list()
	require.Len(t, requests, 1)
	assert.Equal(t, "/testIndex/_doc/111", requests[0].Path)
}

func TestAssertionsReportEngineErrors(t *testing.T) {
	c, _ := newTestController(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := &failureRecorder{}
	c.SeeDocumentExists(rec, "orders", "42")

	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0], "checking document")
}
