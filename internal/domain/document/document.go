package document

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/kailas-cloud/simplerag/internal/domain"
)

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 163840 // 160KB

// Document is a piece of text plus the metadata it is filtered by.
// Values are immutable once built; the vector store owns them after Add.
type Document struct {
	id       string
	text     string
	metadata map[string]string
}

// New validates and creates a Document. An empty id gets a random UUID.
func New(id, text string, metadata map[string]string) (Document, error) {
	if text == "" {
		return Document{}, fmt.Errorf("text is required: %w", domain.ErrInvalidDocument)
	}
	if len(text) > MaxTextSize {
		return Document{}, fmt.Errorf("text too large (max %d bytes): %w", MaxTextSize, domain.ErrInvalidDocument)
	}
	for k := range metadata {
		if k == "" || k[0] == '_' {
			return Document{}, fmt.Errorf("metadata key %q is reserved: %w", k, domain.ErrInvalidDocument)
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	return Document{id: id, text: text, metadata: maps.Clone(metadata)}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Text returns the document text.
func (d *Document) Text() string { return d.text }

// Metadata returns a copy of the metadata.
func (d *Document) Metadata() map[string]string { return maps.Clone(d.metadata) }
