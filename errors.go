package suitefixtures

import (
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ErrNotFound reports a document that does not exist in the engine.
// Returned (wrapped) by FetchDocument.
var ErrNotFound = errors.New("document not found")

// StatusError is an error-level response from the engine. It carries the
// HTTP status and the raw response body verbatim; no translation or
// recovery is attempted.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("elasticsearch error [%s]: %s", e.Status, e.Body)
}

// checkResponse turns an error-level API response into a *StatusError.
func checkResponse(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return &StatusError{
		StatusCode: res.StatusCode,
		Status:     res.Status(),
		Body:       string(body),
	}
}
