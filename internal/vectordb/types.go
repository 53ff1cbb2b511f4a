// internal/vectordb/types.go
// Package vectordb contains the canonical document model that every
// import/export convention is normalized to or from. Databases are
// immutable once built; "updating" one means building a new value.
package vectordb

import "time"

// DefaultDimension is used for databases with zero documents so an empty
// database still round-trips through export/import. It carries no semantic
// meaning until the database is populated.
const DefaultDimension = 384

// Metadata holds per-document descriptive fields.
type Metadata struct {
	Title     string `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt string `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// Document is the canonical representation of one embedded text record.
type Document struct {
	ID        string    `json:"id" bson:"id"`
	FileName  string    `json:"fileName" bson:"fileName"`
	Content   string    `json:"content" bson:"content"`
	Embedding []float32 `json:"embedding" bson:"embedding"`
	Metadata  Metadata  `json:"metadata" bson:"metadata"`
}

// Database is the canonical in-memory representation of a vector database.
type Database struct {
	Name      string     `json:"name" bson:"name"`
	CreatedAt string     `json:"createdAt" bson:"createdAt"`
	Dimension int        `json:"dimension" bson:"dimension"`
	Documents []Document `json:"documents" bson:"documents"`
}

// New builds a database from documents. Dimension is derived from the first
// document with a non-empty embedding, or DefaultDimension when empty.
func New(name string, docs []Document) *Database {
	if docs == nil {
		docs = []Document{}
	}
	return &Database{
		Name:      name,
		CreatedAt: Now(),
		Dimension: DimensionOf(docs),
		Documents: docs,
	}
}

// DimensionOf returns the embedding length of the first document that has
// one, or DefaultDimension if none do.
func DimensionOf(docs []Document) int {
	for _, d := range docs {
		if len(d.Embedding) > 0 {
			return len(d.Embedding)
		}
	}
	return DefaultDimension
}

// HasEmbeddings reports whether the database contains at least one document
// with a non-empty embedding.
func (db *Database) HasEmbeddings() bool {
	for _, d := range db.Documents {
		if len(d.Embedding) > 0 {
			return true
		}
	}
	return false
}

// Now returns the current time as an ISO-8601 string, the timestamp format
// used throughout the canonical model.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
