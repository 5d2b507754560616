package result

import "maps"

// ScoredMatch is a single hit returned by the vector store.
type ScoredMatch struct {
	id       string
	text     string
	score    *float64
	metadata map[string]string
}

// New creates a scored match. A nil score means the engine did not report one.
func New(id, text string, score *float64, metadata map[string]string) ScoredMatch {
	return ScoredMatch{id: id, text: text, score: score, metadata: metadata}
}

// ID returns the document identifier.
func (m *ScoredMatch) ID() string { return m.id }

// Text returns the document text.
func (m *ScoredMatch) Text() string { return m.text }

// Score returns the similarity score, or nil when absent.
func (m *ScoredMatch) Score() *float64 { return m.score }

// Metadata returns a copy of the document metadata.
func (m *ScoredMatch) Metadata() map[string]string { return maps.Clone(m.metadata) }
