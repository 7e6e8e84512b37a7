// Package docstore is a small embedded document store: schemaless JSON
// documents grouped into named collections, filtered with Mongo-style
// operator maps, persisted in per-collection append-only datafiles.
package docstore

import (
	"encoding/json"

	"github.com/google/uuid"
)

// IDField is the reserved identity field of every stored document.
const IDField = "_id"

// Document is a schemaless record. Values follow encoding/json conventions,
// so numbers read back from disk are float64.
type Document map[string]any

// ID returns the document identity, or "" when unset.
func (d Document) ID() string {
	if id, ok := d[IDField].(string); ok {
		return id
	}
	return ""
}

// ensureID assigns a fresh UUID when the document has no identity yet and
// returns the final id.
func (d Document) ensureID() string {
	if id := d.ID(); id != "" {
		return id
	}
	id := uuid.NewString()
	d[IDField] = id
	return id
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}

// Marshal encodes the document as JSON.
func (d Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDocument decodes a JSON payload into a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d, nil
}
