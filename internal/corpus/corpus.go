// Package corpus loads and holds the policy document collection.
// The corpus is built once at startup and is read-only afterwards, so it
// may be shared across concurrent queries without locking.
package corpus

import "github.com/sells-group/policyqa/internal/model"

// Corpus is the immutable ordered document collection the retriever
// scores against.
type Corpus struct {
	docs []model.Document
}

// New builds a Corpus over the given documents, preserving their order.
func New(docs []model.Document) *Corpus {
	return &Corpus{docs: docs}
}

// Documents returns the ordered document sequence. Callers must treat
// the returned slice as read-only.
func (c *Corpus) Documents() []model.Document {
	return c.docs
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int {
	return len(c.docs)
}
