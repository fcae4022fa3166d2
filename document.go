package suitefixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

// GetResult is the stored representation of a document as returned by the
// engine's get API: metadata plus the original body under Source.
type GetResult struct {
	Index       string          `json:"_index"`
	ID          string          `json:"_id"`
	Version     int64           `json:"_version"`
	SeqNo       int64           `json:"_seq_no"`
	PrimaryTerm int64           `json:"_primary_term"`
	Found       bool            `json:"found"`
	Source      json.RawMessage `json:"_source"`
}

// DecodeSource unmarshals the document body into v.
func (r *GetResult) DecodeSource(v any) error {
	return json.Unmarshal(r.Source, v)
}

// IndexResult is the engine's acknowledgement of a document write.
type IndexResult struct {
	Index       string `json:"_index"`
	ID          string `json:"_id"`
	Version     int64  `json:"_version"`
	Result      string `json:"result"`
	SeqNo       int64  `json:"_seq_no"`
	PrimaryTerm int64  `json:"_primary_term"`
}

// formatID coerces a string or integer document identifier into the form
// used on the wire.
func formatID(id any) string {
	return fmt.Sprintf("%v", id)
}

// FetchDocument retrieves the stored record for the document. A missing
// document is an error wrapping ErrNotFound, unlike the existence
// assertions which report through the test.
func (c *Controller) FetchDocument(index string, id any) (*GetResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return getDocument(c.ctx, c.client, index, formatID(id))
}

// InsertDocument writes (creates or overwrites) the document and then
// refreshes ALL indexes so the write is immediately visible to subsequent
// reads. The global refresh also makes pending writes in other indexes
// visible. Returns the engine's write acknowledgement.
func (c *Controller) InsertDocument(index string, id any, body any) (*IndexResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	result, err := indexDocument(c.ctx, c.client, index, formatID(id), body)
	if err != nil {
		return nil, err
	}

	if err := refreshIndexes(c.ctx, c.client); err != nil {
		return nil, err
	}
	return result, nil
}

// documentExists probes the engine for the document without fetching it.
func documentExists(ctx context.Context, client *elasticsearch.Client, index, id string) (bool, error) {
	res, err := client.Exists(index, id,
		client.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("checking document %q in %q: %w", id, index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}

	if err := checkResponse(res); err != nil {
		return false, fmt.Errorf("checking document %q in %q: %w", id, index, err)
	}
	return false, fmt.Errorf("checking document %q in %q: unexpected status %s", id, index, res.Status())
}

// getDocument fetches the full stored record for the document.
func getDocument(ctx context.Context, client *elasticsearch.Client, index, id string) (*GetResult, error) {
	res, err := client.Get(index, id,
		client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("getting document %q from %q: %w", id, index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("getting document %q from %q: %w", id, index, ErrNotFound)
	}
	if err := checkResponse(res); err != nil {
		return nil, fmt.Errorf("getting document %q from %q: %w", id, index, err)
	}

	var result GetResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding document %q from %q: %w", id, index, err)
	}
	return &result, nil
}

// indexDocument writes the document body under the given id.
func indexDocument(ctx context.Context, client *elasticsearch.Client, index, id string, body any) (*IndexResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling document %q for %q: %w", id, index, err)
	}

	res, err := client.Index(index, bytes.NewReader(payload),
		client.Index.WithDocumentID(id),
		client.Index.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("indexing document %q into %q: %w", id, index, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return nil, fmt.Errorf("indexing document %q into %q: %w", id, index, err)
	}

	var result IndexResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding index response for %q: %w", id, err)
	}
	return &result, nil
}
