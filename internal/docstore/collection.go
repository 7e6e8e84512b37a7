package docstore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Collection is a named set of documents backed by one append-only datafile.
// All operations are safe for concurrent use.
type Collection struct {
	name string

	mu     sync.RWMutex
	docs   []Document
	file   *dataFile
	schema *gojsonschema.Schema
}

func newCollection(name, path string) (*Collection, error) {
	file, err := openDataFile(path)
	if err != nil {
		return nil, err
	}

	c := &Collection{name: name, file: file}
	err = file.replay(func(payload []byte) error {
		doc, err := UnmarshalDocument(payload)
		if err != nil {
			return fmt.Errorf("failed to decode document in %s: %w", name, err)
		}
		c.docs = append(c.docs, doc)
		return nil
	})
	if err != nil {
		file.close()
		return nil, err
	}
	return c, nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// SetSchema compiles and installs a JSON schema validated on every insert.
// An empty schema string removes validation. The schema is not persisted;
// callers install it again after reopening the store.
func (c *Collection) SetSchema(schemaStr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if schemaStr == "" {
		c.schema = nil
		return nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaStr))
	if err != nil {
		return fmt.Errorf("invalid json schema: %w", err)
	}
	c.schema = schema
	return nil
}

// validateLocked checks doc against the installed schema. Caller holds mu.
func (c *Collection) validateLocked(doc Document) error {
	if c.schema == nil {
		return nil
	}

	result, err := c.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(errs, "; "))
	}
	return nil
}

// Insert stores a copy of doc, assigning a UUID identity when the document
// has none, and returns the identity.
func (c *Collection) Insert(doc Document) (string, error) {
	if doc == nil {
		return "", ErrNilDocument
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.insertLocked(doc)
	if err != nil {
		return "", err
	}
	if err := c.file.sync(); err != nil {
		return "", fmt.Errorf("failed to sync datafile: %w", err)
	}
	return id, nil
}

// InsertBatch stores copies of all docs under a single lock and a single
// datafile sync. It stops at the first failure and returns the identities
// inserted so far.
func (c *Collection) InsertBatch(docs []Document) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			return ids, ErrNilDocument
		}
		id, err := c.insertLocked(doc)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	if err := c.file.sync(); err != nil {
		return ids, fmt.Errorf("failed to sync datafile: %w", err)
	}
	return ids, nil
}

func (c *Collection) insertLocked(doc Document) (string, error) {
	stored := doc.Clone()
	id := stored.ensureID()

	if err := c.validateLocked(stored); err != nil {
		return "", err
	}

	payload, err := stored.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	if err := c.file.append(payload); err != nil {
		return "", err
	}
	c.docs = append(c.docs, stored)
	return id, nil
}

// DeleteAll removes every document and truncates the datafile.
func (c *Collection) DeleteAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.file.truncate(); err != nil {
		return err
	}
	c.docs = nil
	return nil
}

// Count returns the number of stored documents.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Find runs filter over a snapshot of the collection and returns a cursor
// whose documents are shaped by projection. The filter is validated here,
// before any document is touched.
func (c *Collection) Find(filter map[string]any, projection map[string]int) (*Cursor, error) {
	match, err := parseFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	c.mu.RLock()
	snapshot := make([]Document, len(c.docs))
	copy(snapshot, c.docs)
	c.mu.RUnlock()

	var it iterator = &sliceIterator{docs: snapshot}
	it = &filterIterator{source: it, match: match}
	it = &projectIterator{source: it, proj: projection}
	return &Cursor{source: it}, nil
}

func (c *Collection) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.close()
}
