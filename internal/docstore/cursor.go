package docstore

// iterator walks documents one at a time. The pipeline composes iterators
// the way the executor needs them: scan, filter, project, skip, limit.
type iterator interface {
	// Next advances to the next document, returning false when exhausted.
	Next() bool
	// Value returns the current document.
	Value() Document
}

// sliceIterator scans an in-memory snapshot of a collection.
type sliceIterator struct {
	docs []Document
	pos  int
}

func (it *sliceIterator) Next() bool {
	if it.pos >= len(it.docs) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Value() Document {
	return it.docs[it.pos-1]
}

// filterIterator passes through documents accepted by the matcher.
type filterIterator struct {
	source iterator
	match  matcher
}

func (it *filterIterator) Next() bool {
	for it.source.Next() {
		if it.match.Matches(it.source.Value()) {
			return true
		}
	}
	return false
}

func (it *filterIterator) Value() Document {
	return it.source.Value()
}

// projectIterator reshapes each document according to a projection map.
type projectIterator struct {
	source iterator
	proj   map[string]int
}

func (it *projectIterator) Next() bool {
	return it.source.Next()
}

func (it *projectIterator) Value() Document {
	return applyProjection(it.source.Value(), it.proj)
}

// skipIterator discards the first n documents.
type skipIterator struct {
	source  iterator
	n       int
	skipped bool
}

func (it *skipIterator) Next() bool {
	if !it.skipped {
		it.skipped = true
		for i := 0; i < it.n; i++ {
			if !it.source.Next() {
				return false
			}
		}
	}
	return it.source.Next()
}

func (it *skipIterator) Value() Document {
	return it.source.Value()
}

// limitIterator stops after n documents.
type limitIterator struct {
	source iterator
	n      int
	count  int
}

func (it *limitIterator) Next() bool {
	if it.count >= it.n {
		return false
	}
	if !it.source.Next() {
		return false
	}
	it.count++
	return true
}

func (it *limitIterator) Value() Document {
	return it.source.Value()
}

// applyProjection builds the output shape of one document. Any field mapped
// to 1 switches the projection to inclusion mode; otherwise every field is
// kept except those mapped to 0. The identity field obeys its own entry and
// is kept in inclusion mode only when explicitly included.
func applyProjection(doc Document, proj map[string]int) Document {
	if len(proj) == 0 {
		return doc.Clone()
	}

	include := false
	for field, mode := range proj {
		if field != IDField && mode == 1 {
			include = true
			break
		}
	}

	out := Document{}
	if include {
		for field, mode := range proj {
			if mode != 1 {
				continue
			}
			if v, ok := doc[field]; ok {
				out[field] = deepCopyValue(v)
			}
		}
		if mode, ok := proj[IDField]; ok && mode == 1 {
			if v, ok := doc[IDField]; ok {
				out[IDField] = deepCopyValue(v)
			}
		}
		return out
	}

	for field, v := range doc {
		if mode, ok := proj[field]; ok && mode == 0 {
			continue
		}
		out[field] = deepCopyValue(v)
	}
	return out
}

// Cursor is a lazy result set. Skip and Limit configure it before
// enumeration; All runs the pipeline and materializes every document.
type Cursor struct {
	source iterator

	skip     int
	hasSkip  bool
	limit    int
	hasLimit bool
}

// Skip drops the first n documents of the result set.
func (c *Cursor) Skip(n int) *Cursor {
	c.skip = n
	c.hasSkip = true
	return c
}

// Limit caps the result set at n documents.
func (c *Cursor) Limit(n int) *Cursor {
	c.limit = n
	c.hasLimit = true
	return c
}

// All materializes the remaining documents. Skip applies before limit
// regardless of the order the two were set in.
func (c *Cursor) All() []Document {
	it := c.source
	if c.hasSkip {
		it = &skipIterator{source: it, n: c.skip}
	}
	if c.hasLimit {
		it = &limitIterator{source: it, n: c.limit}
	}

	docs := []Document{}
	for it.Next() {
		docs = append(docs, it.Value())
	}
	return docs
}
