package suitefixtures

// TestingT is the minimal test-reporting surface the assertions need.
// *testing.T satisfies it, as does testify's TestingT.
type TestingT interface {
	Errorf(format string, args ...any)
}

type tHelper interface {
	Helper()
}

// SeeDocumentExists asserts that the document is present in the index.
// A mismatch or a transport failure is reported as a test failure; the
// assertion never returns an error.
func (c *Controller) SeeDocumentExists(t TestingT, index string, id any) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	docID := formatID(id)
	found, err := c.checkDocument(index, docID)
	if err != nil {
		t.Errorf("checking document %q in index %q: %v", docID, index, err)
		return
	}
	if !found {
		t.Errorf("expected document %q to exist in index %q, but it does not", docID, index)
	}
}

// SeeDocumentAbsent asserts that the document is not present in the index.
func (c *Controller) SeeDocumentAbsent(t TestingT, index string, id any) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	docID := formatID(id)
	found, err := c.checkDocument(index, docID)
	if err != nil {
		t.Errorf("checking document %q in index %q: %v", docID, index, err)
		return
	}
	if found {
		t.Errorf("expected document %q to be absent from index %q, but it exists", docID, index)
	}
}

func (c *Controller) checkDocument(index, id string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	return documentExists(c.ctx, c.client, index, id)
}
