// Package suitefixtures wires Elasticsearch state management into test
// suite lifecycles. A Controller connects once per suite, optionally
// restores a snapshot before the suite or before each test, deletes
// indexes afterwards, and exposes assertion and fixture operations
// (existence checks, document fetch/insert, YAML seeding) to test code.
package suitefixtures

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
)

// populationMode is the snapshot population granularity, computed once at
// construction from the two populate flags. Per-test granularity wins when
// both flags are set, so population and cleanup always happen exactly once
// per layer.
type populationMode int

const (
	populateNever populationMode = iota
	populatePerSuite
	populatePerTest
)

func resolvePopulationMode(cfg *Config) populationMode {
	switch {
	case cfg.PopulateBeforeTest:
		return populatePerTest
	case cfg.PopulateBeforeSuite:
		return populatePerSuite
	default:
		return populateNever
	}
}

// Controller manages Elasticsearch state for a test suite. The host test
// runner drives it through the four lifecycle hooks; test code calls the
// assertion and fixture operations.
//
// A Controller issues only sequential, blocking calls and holds no state
// beyond its configuration and client, so sharing one across the
// sequentially-run tests of a suite is safe.
type Controller struct {
	cfg       *Config
	client    *elasticsearch.Client
	indexes   indexSelection
	mode      populationMode
	ctx       context.Context
	transport http.RoundTripper
	logger    elastictransport.Logger
}

// New creates a Controller for the given configuration. The connection is
// not established until SuiteStarted runs, unless a client is injected
// with WithClient.
func New(cfg *Config, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("suitefixtures: config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("suitefixtures: invalid config: %w", err)
	}

	c := &Controller{
		cfg:     cfg,
		indexes: cfg.indexSelection(),
		mode:    resolvePopulationMode(cfg),
		ctx:     context.Background(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("suitefixtures: applying option: %w", err)
		}
	}

	return c, nil
}

// connect builds the client from the configured hosts. A connection
// failure propagates untouched and aborts suite startup.
func (c *Controller) connect() error {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: c.cfg.addresses(),
		Transport: c.transport,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("suitefixtures: connecting: %w", err)
	}

	c.client = client
	return nil
}

// ready guards every operation that needs the connection.
func (c *Controller) ready() error {
	if c.client == nil {
		return errors.New("suitefixtures: not connected, SuiteStarted must run first")
	}
	return nil
}

// Client exposes the live Elasticsearch client for direct use by test
// code that needs operations beyond the fixture surface. Nil until
// SuiteStarted has run (or a client was injected).
func (c *Controller) Client() *elasticsearch.Client {
	return c.client
}

// SuiteStarted establishes the connection and, for per-suite population,
// restores the configured snapshot.
func (c *Controller) SuiteStarted() error {
	if c.client == nil {
		if err := c.connect(); err != nil {
			return err
		}
	}

	if c.mode == populatePerSuite {
		return c.Populate()
	}
	return nil
}

// TestStarted restores the configured snapshot when population runs at
// per-test granularity.
func (c *Controller) TestStarted() error {
	if c.mode == populatePerTest {
		return c.Populate()
	}
	return nil
}

// TestFinished cleans up after a test when population ran before it.
func (c *Controller) TestFinished() error {
	if c.mode == populatePerTest {
		return c.CleanUp()
	}
	return nil
}

// SuiteFinished cleans up at suite end when population ran at suite
// granularity.
func (c *Controller) SuiteFinished() error {
	if c.mode == populatePerSuite {
		return c.CleanUp()
	}
	return nil
}
