// internal/format/export.go
package format

import (
	"fmt"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// Export serializes a canonical database into the logical structure the
// target convention expects. It is pure: the input database is never
// mutated. Every non-canonical target additionally carries the canonical
// documents under the "_documents" side channel so a later import by this
// system round-trips without lossy reconstruction through the native shape.
func Export(db *vectordb.Database, target Format) (any, error) {
	switch target {
	case FormatCanonical:
		return db, nil
	case FormatChroma:
		return exportChroma(db), nil
	case FormatQdrant:
		return exportQdrant(db), nil
	case FormatPinecone:
		return exportPinecone(db), nil
	case FormatWeaviate:
		return exportWeaviate(db), nil
	case FormatMilvus:
		return exportMilvus(db), nil
	case FormatLanceDB:
		return exportLanceDB(db), nil
	case FormatDuckDB:
		return exportDuckDB(db), nil
	case FormatRedis:
		return exportRedis(db), nil
	}
	return nil, fmt.Errorf("unsupported export target %q (supported: %s)",
		target, formatNames(ExportTargets))
}

// sideChannel copies the documents slice so later appends by a caller can
// never alias the database's backing array.
func sideChannel(db *vectordb.Database) []vectordb.Document {
	docs := make([]vectordb.Document, len(db.Documents))
	copy(docs, db.Documents)
	return docs
}

func exportChroma(db *vectordb.Database) map[string]any {
	n := len(db.Documents)
	ids := make([]string, n)
	contents := make([]string, n)
	embeddings := make([][]float32, n)
	metadatas := make([]map[string]string, n)

	for i, d := range db.Documents {
		ids[i] = d.ID
		contents[i] = d.Content
		embeddings[i] = d.Embedding
		metadatas[i] = map[string]string{
			"fileName":  d.FileName,
			"title":     d.Metadata.Title,
			"createdAt": d.Metadata.CreatedAt,
		}
	}

	return map[string]any{
		"name":       db.Name,
		"createdAt":  db.CreatedAt,
		"ids":        ids,
		"documents":  contents,
		"embeddings": embeddings,
		"metadatas":  metadatas,
		"_documents": sideChannel(db),
	}
}

func exportQdrant(db *vectordb.Database) map[string]any {
	points := make([]map[string]any, len(db.Documents))
	for i, d := range db.Documents {
		points[i] = map[string]any{
			"id":     d.ID,
			"vector": d.Embedding,
			"payload": map[string]string{
				"content":    d.Content,
				"filename":   d.FileName,
				"title":      d.Metadata.Title,
				"created_at": d.Metadata.CreatedAt,
			},
		}
	}
	return map[string]any{
		"collection_name": db.Name,
		"createdAt":       db.CreatedAt,
		"points":          points,
		"_documents":      sideChannel(db),
	}
}

func exportPinecone(db *vectordb.Database) map[string]any {
	vectors := make([]map[string]any, len(db.Documents))
	for i, d := range db.Documents {
		vectors[i] = map[string]any{
			"id":     d.ID,
			"values": d.Embedding,
			"metadata": map[string]string{
				"content":    d.Content,
				"filename":   d.FileName,
				"title":      d.Metadata.Title,
				"created_at": d.Metadata.CreatedAt,
			},
		}
	}
	return map[string]any{
		"namespace":  db.Name,
		"createdAt":  db.CreatedAt,
		"vectors":    vectors,
		"_documents": sideChannel(db),
	}
}

func exportWeaviate(db *vectordb.Database) map[string]any {
	objects := make([]map[string]any, len(db.Documents))
	for i, d := range db.Documents {
		objects[i] = map[string]any{
			"id":     d.ID,
			"vector": d.Embedding,
			"properties": map[string]string{
				"content":    d.Content,
				"filename":   d.FileName,
				"title":      d.Metadata.Title,
				"created_at": d.Metadata.CreatedAt,
			},
		}
	}
	return map[string]any{
		"name":       db.Name,
		"createdAt":  db.CreatedAt,
		"objects":    objects,
		"_documents": sideChannel(db),
	}
}

func exportMilvus(db *vectordb.Database) map[string]any {
	n := len(db.Documents)
	ids := make([]string, n)
	embeddings := make([][]float32, n)
	contents := make([]string, n)
	filenames := make([]string, n)
	titles := make([]string, n)
	created := make([]string, n)

	for i, d := range db.Documents {
		ids[i] = d.ID
		embeddings[i] = d.Embedding
		contents[i] = d.Content
		filenames[i] = d.FileName
		titles[i] = d.Metadata.Title
		created[i] = d.Metadata.CreatedAt
	}

	return map[string]any{
		"collection_name": db.Name,
		"createdAt":       db.CreatedAt,
		"fields": []map[string]any{
			{"name": "id", "data": ids},
			{"name": "embedding", "data": embeddings},
			{"name": "content", "data": contents},
			{"name": "filename", "data": filenames},
			{"name": "title", "data": titles},
			{"name": "created_at", "data": created},
		},
		"_documents": sideChannel(db),
	}
}

func exportLanceDB(db *vectordb.Database) map[string]any {
	rows := make([]map[string]any, len(db.Documents))
	for i, d := range db.Documents {
		rows[i] = map[string]any{
			"id":         d.ID,
			"vector":     d.Embedding,
			"content":    d.Content,
			"filename":   d.FileName,
			"title":      d.Metadata.Title,
			"created_at": d.Metadata.CreatedAt,
		}
	}
	return map[string]any{
		"name":      db.Name,
		"createdAt": db.CreatedAt,
		"schema": map[string]any{
			"fields": []map[string]string{
				{"name": "id", "type": "string"},
				{"name": "vector", "type": fmt.Sprintf("fixed_size_list<float>[%d]", db.Dimension)},
				{"name": "content", "type": "string"},
				{"name": "filename", "type": "string"},
				{"name": "title", "type": "string"},
				{"name": "created_at", "type": "string"},
			},
		},
		"data":       rows,
		"_documents": sideChannel(db),
	}
}

// exportDuckDB is a write-only column-store rendering with an explicit
// schema block, intended for offline inspection rather than native ingestion.
func exportDuckDB(db *vectordb.Database) map[string]any {
	n := len(db.Documents)
	ids := make([]string, n)
	embeddings := make([][]float32, n)
	contents := make([]string, n)
	filenames := make([]string, n)
	titles := make([]string, n)
	created := make([]string, n)

	for i, d := range db.Documents {
		ids[i] = d.ID
		embeddings[i] = d.Embedding
		contents[i] = d.Content
		filenames[i] = d.FileName
		titles[i] = d.Metadata.Title
		created[i] = d.Metadata.CreatedAt
	}

	return map[string]any{
		"table":     db.Name,
		"createdAt": db.CreatedAt,
		"schema": []map[string]string{
			{"column": "id", "type": "VARCHAR"},
			{"column": "embedding", "type": fmt.Sprintf("FLOAT[%d]", db.Dimension)},
			{"column": "content", "type": "VARCHAR"},
			{"column": "filename", "type": "VARCHAR"},
			{"column": "title", "type": "VARCHAR"},
			{"column": "created_at", "type": "VARCHAR"},
		},
		"columns": map[string]any{
			"id":         ids,
			"embedding":  embeddings,
			"content":    contents,
			"filename":   filenames,
			"title":      titles,
			"created_at": created,
		},
		"_documents": sideChannel(db),
	}
}

// exportRedis is a write-only key-value rendering: one entry per document
// keyed as <database>:doc:<id>.
func exportRedis(db *vectordb.Database) map[string]any {
	entries := make(map[string]any, len(db.Documents))
	for _, d := range db.Documents {
		key := fmt.Sprintf("%s:doc:%s", db.Name, d.ID)
		entries[key] = map[string]any{
			"content":    d.Content,
			"filename":   d.FileName,
			"title":      d.Metadata.Title,
			"created_at": d.Metadata.CreatedAt,
			"embedding":  d.Embedding,
		}
	}
	return map[string]any{
		"name":       db.Name,
		"createdAt":  db.CreatedAt,
		"entries":    entries,
		"_documents": sideChannel(db),
	}
}
