package suitefixtures

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// CleanUp deletes engine indexes according to the configuration. A no-op
// unless the cleanup flag is set. With an explicit index list, indexes
// are deleted in list order and the first failure stops the sequence —
// already-deleted indexes stay deleted, there is no rollback. Without a
// list, every index is deleted through a single wildcard call.
func (c *Controller) CleanUp() error {
	if !c.cfg.Cleanup {
		return nil
	}
	if err := c.ready(); err != nil {
		return err
	}

	if c.indexes.all {
		return deleteAllIndexes(c.ctx, c.client)
	}
	return deleteIndexes(c.ctx, c.client, c.indexes.names)
}

// deleteIndexes deletes the named indexes one by one, preserving order.
func deleteIndexes(ctx context.Context, client *elasticsearch.Client, names []string) error {
	for _, name := range names {
		res, err := client.Indices.Delete(
			[]string{name},
			client.Indices.Delete.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("deleting index %q: %w", name, err)
		}

		err = checkResponse(res)
		res.Body.Close()
		if err != nil {
			return fmt.Errorf("deleting index %q: %w", name, err)
		}
	}
	return nil
}

// deleteAllIndexes deletes every index via the _all wildcard.
func deleteAllIndexes(ctx context.Context, client *elasticsearch.Client) error {
	res, err := client.Indices.Delete(
		[]string{"_all"},
		client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("deleting all indexes: %w", err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("deleting all indexes: %w", err)
	}
	return nil
}

// refreshIndexes forces a refresh of the given indexes so recent writes
// become visible to reads. With no names it refreshes every index.
func refreshIndexes(ctx context.Context, client *elasticsearch.Client, names ...string) error {
	res, err := client.Indices.Refresh(
		client.Indices.Refresh.WithIndex(names...),
		client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("refreshing indexes: %w", err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("refreshing indexes: %w", err)
	}
	return nil
}
