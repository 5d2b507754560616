package vectorstore

import (
	"strings"

	"github.com/kailas-cloud/simplerag/internal/db"
	"github.com/kailas-cloud/simplerag/internal/domain/document"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
)

// toHash flattens a document and its vector into hash fields.
func toHash(doc *document.Document, vec []float32) map[string]string {
	meta := doc.Metadata()
	fields := make(map[string]string, len(meta)+2)
	for k, v := range meta {
		fields[k] = v
	}
	fields[fieldContent] = doc.Text()
	fields[fieldVector] = db.EncodeVector(vec)
	return fields
}

// fromEntry rebuilds a match from a KNN hit. A missing engine score stays nil.
func fromEntry(prefix string, e db.SearchEntry) result.ScoredMatch {
	meta := make(map[string]string, len(e.Fields))
	var text string
	for k, v := range e.Fields {
		switch k {
		case fieldContent:
			text = v
		case fieldVector:
		default:
			meta[k] = v
		}
	}
	return result.New(strings.TrimPrefix(e.Key, prefix), text, e.Score, meta)
}
