package suitefixtures

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
)

// Option configures the Controller.
type Option func(*Controller) error

// WithContext sets the default context for Elasticsearch operations.
// If not set, context.Background() is used.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) error {
		if ctx == nil {
			return errors.New("context must not be nil")
		}
		c.ctx = ctx
		return nil
	}
}

// WithClient injects an already-constructed client instead of connecting
// from the configured hosts. SuiteStarted skips connection setup when a
// client is present.
func WithClient(client *elasticsearch.Client) Option {
	return func(c *Controller) error {
		if client == nil {
			return errors.New("client must not be nil")
		}
		c.client = client
		return nil
	}
}

// WithTransport sets the HTTP transport used by the connection built in
// SuiteStarted. Ignored when a client is injected with WithClient.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Controller) error {
		c.transport = rt
		return nil
	}
}

// WithDebugLogger logs every request and response, including bodies, to w.
func WithDebugLogger(w io.Writer) Option {
	return func(c *Controller) error {
		c.logger = &elastictransport.TextLogger{
			Output:             w,
			EnableRequestBody:  true,
			EnableResponseBody: true,
		}
		return nil
	}
}
