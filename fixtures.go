package suitefixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"gopkg.in/yaml.v3"
)

// seedDocument is a single fixture document bound for an index.
type seedDocument struct {
	ID   string
	Body map[string]any
}

// SeedFixtures bulk-inserts fixture documents from a YAML file mapping
// index names to document lists:
//
//	users:
//	  - _id: 1
//	    name: Alice
//	  - name: Bob
//	orders:
//	  - _id: a17
//	    total: 12.50
//
// A document's _id key, when present, becomes its identifier and is
// stripped from the body; documents without one get engine-generated ids.
// The touched indexes are refreshed afterwards so the documents are
// immediately visible.
func (c *Controller) SeedFixtures(path string) error {
	if err := c.ready(); err != nil {
		return err
	}

	fixtures, err := parseFixtureFile(path)
	if err != nil {
		return fmt.Errorf("suitefixtures: %w", err)
	}

	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := bulkInsert(c.ctx, c.client, name, fixtures[name]); err != nil {
			return fmt.Errorf("suitefixtures: %w", err)
		}
	}

	if err := refreshIndexes(c.ctx, c.client, names...); err != nil {
		return fmt.Errorf("suitefixtures: %w", err)
	}
	return nil
}

// parseFixtureFile reads a YAML fixture file into per-index document
// lists, extracting _id fields.
func parseFixtureFile(path string) (map[string][]seedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file %q: %w", path, err)
	}

	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing fixture file %q: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("fixture file %q defines no indexes", path)
	}

	fixtures := make(map[string][]seedDocument, len(raw))
	for index, rawDocs := range raw {
		docs := make([]seedDocument, 0, len(rawDocs))
		for _, body := range rawDocs {
			doc := seedDocument{Body: body}
			if id, ok := body["_id"]; ok {
				doc.ID = formatID(id)
				delete(body, "_id")
			}
			docs = append(docs, doc)
		}
		fixtures[index] = docs
	}
	return fixtures, nil
}

// bulkInsert indexes the documents through a BulkIndexer, collecting
// per-item failures into a single error.
func bulkInsert(ctx context.Context, client *elasticsearch.Client, index string, docs []seedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	// One worker keeps the call sequential and the item order stable.
	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     client,
		Index:      index,
		NumWorkers: 1,
	})
	if err != nil {
		return fmt.Errorf("creating bulk indexer for %q: %w", index, err)
	}

	var itemErrors []string
	for _, doc := range docs {
		body, err := json.Marshal(doc.Body)
		if err != nil {
			return fmt.Errorf("marshaling fixture document for %q: %w", index, err)
		}

		item := esutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(body),
			OnFailure: func(_ context.Context, _ esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					itemErrors = append(itemErrors, err.Error())
				} else {
					itemErrors = append(itemErrors, fmt.Sprintf("[%d] %s: %s", res.Status, res.Error.Type, res.Error.Reason))
				}
			},
		}

		if doc.ID != "" {
			item.DocumentID = doc.ID
		}

		if err := indexer.Add(ctx, item); err != nil {
			return fmt.Errorf("adding fixture document to bulk indexer for %q: %w", index, err)
		}
	}

	if err := indexer.Close(ctx); err != nil {
		return fmt.Errorf("closing bulk indexer for %q: %w", index, err)
	}

	if len(itemErrors) > 0 {
		return fmt.Errorf("seeding %q: %s", index, strings.Join(itemErrors, "; "))
	}
	if stats := indexer.Stats(); stats.NumFailed > 0 {
		return fmt.Errorf("seeding %q: %d documents failed", index, stats.NumFailed)
	}
	return nil
}
