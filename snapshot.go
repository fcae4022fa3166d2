package suitefixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// snapshotRepository is the ephemeral repository registration used during
// population. Registered immediately before a restore, deregistered
// immediately after; it never outlives a Populate call.
const snapshotRepository = "suitefixtures"

// Populate restores the configured snapshot. In strict order: register a
// filesystem snapshot repository at the configured path, restore the
// snapshot synchronously, deregister the repository. Deregistration runs
// even when the restore fails, so a failed restore cannot leak a stale
// registration that would shadow the next attempt; the restore error
// still wins over any deregistration error.
func (c *Controller) Populate() error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.cfg.SnapshotName == "" {
		return fmt.Errorf("suitefixtures: snapshot_name is not configured")
	}

	if err := createSnapshotRepository(c.ctx, c.client, snapshotRepository, c.cfg.snapshotLocation(), c.cfg.CompressedSnapshot); err != nil {
		return err
	}

	restoreErr := restoreSnapshot(c.ctx, c.client, snapshotRepository, c.cfg.SnapshotName)
	deleteErr := deleteSnapshotRepository(c.ctx, c.client, snapshotRepository)

	if restoreErr != nil {
		return restoreErr
	}
	return deleteErr
}

// createSnapshotRepository registers (or overwrites) a filesystem-backed
// snapshot repository.
func createSnapshotRepository(ctx context.Context, client *elasticsearch.Client, name, location string, compress bool) error {
	body, err := json.Marshal(map[string]any{
		"type": "fs",
		"settings": map[string]any{
			"location": location,
			"compress": compress,
		},
	})
	if err != nil {
		return fmt.Errorf("building repository settings: %w", err)
	}

	res, err := client.Snapshot.CreateRepository(name, bytes.NewReader(body),
		client.Snapshot.CreateRepository.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("registering snapshot repository %q: %w", name, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("registering snapshot repository %q: %w", name, err)
	}
	return nil
}

// restoreSnapshot restores the named snapshot, blocking until the engine
// reports completion.
func restoreSnapshot(ctx context.Context, client *elasticsearch.Client, repository, snapshot string) error {
	res, err := client.Snapshot.Restore(repository, snapshot,
		client.Snapshot.Restore.WithWaitForCompletion(true),
		client.Snapshot.Restore.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("restoring snapshot %q from %q: %w", snapshot, repository, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("restoring snapshot %q from %q: %w", snapshot, repository, err)
	}
	return nil
}

// deleteSnapshotRepository removes the repository registration. The
// snapshot data on disk is untouched.
func deleteSnapshotRepository(ctx context.Context, client *elasticsearch.Client, name string) error {
	res, err := client.Snapshot.DeleteRepository([]string{name},
		client.Snapshot.DeleteRepository.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("deregistering snapshot repository %q: %w", name, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("deregistering snapshot repository %q: %w", name, err)
	}
	return nil
}
