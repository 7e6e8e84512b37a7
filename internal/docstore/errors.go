package docstore

import "errors"

var (
	// ErrCollectionNotFound is returned when a named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrStoreClosed is returned when an operation runs against a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrNilDocument is returned when a nil document is inserted.
	ErrNilDocument = errors.New("nil document")

	// ErrSchemaViolation is returned when a document fails the collection schema.
	ErrSchemaViolation = errors.New("document does not match collection schema")

	// ErrInvalidCollectionName is returned for names that cannot become filenames.
	ErrInvalidCollectionName = errors.New("invalid collection name")
)
