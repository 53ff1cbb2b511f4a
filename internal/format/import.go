// internal/format/import.go
package format

import (
	"fmt"
	"log/slog"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// handler pairs a structural predicate with a pure converter. Handlers are
// evaluated in priority order and the first match wins; a payload could
// coincidentally satisfy several shapes, so the order is a deliberate
// tie-break, not an optimization.
type handler struct {
	format  Format
	detect  func(raw any) bool
	convert func(raw any, ts string) []vectordb.Document
}

// importHandlers is the shape-priority list. Adding a store convention is a
// one-entry registration here plus its converter.
var importHandlers = []handler{
	{FormatCanonical, detectCanonical, convertCanonical},
	{FormatChroma, detectChroma, convertChroma},
	{FormatEnriched, detectEnriched, convertEnriched},
	{FormatQdrant, detectQdrant, convertQdrant},
	{FormatPinecone, detectPinecone, convertPinecone},
	{FormatWeaviate, detectWeaviate, convertWeaviate},
	{FormatMilvus, detectMilvus, convertMilvus},
	{FormatLanceDB, detectLanceDB, convertLanceDB},
	{FormatFAISS, detectFAISS, convertFAISS},
	{FormatArray, detectArray, convertArray},
}

// Detect reports which known convention the payload matches.
func Detect(raw any) (Format, bool) {
	if _, ok := asDatabase(raw); ok {
		return FormatCanonical, true
	}
	for _, h := range importHandlers {
		if h.detect(raw) {
			return h.format, true
		}
	}
	return "", false
}

// Importer normalizes raw decoded payloads into canonical databases.
type Importer struct {
	log *slog.Logger
}

// NewImporter creates an importer. A nil logger falls back to slog.Default.
func NewImporter(log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{log: log}
}

// Import detects the payload's convention and converts it into a canonical
// database. sourceName is used when the payload carries no name of its own.
// Records without a usable embedding are skipped; a handler yielding zero
// documents is still a successful (empty) import. Only total structural
// non-recognition is an error.
func (im *Importer) Import(raw any, sourceName string) (*vectordb.Database, error) {
	if db, ok := asDatabase(raw); ok {
		return im.passThrough(db), nil
	}

	for _, h := range importHandlers {
		if !h.detect(raw) {
			continue
		}

		ts := vectordb.Now()
		docs := im.filterDimension(h.convert(raw, ts))
		db := &vectordb.Database{
			Name:      importName(raw, sourceName),
			CreatedAt: importCreatedAt(raw, ts),
			Dimension: vectordb.DimensionOf(docs),
			Documents: docs,
		}
		im.log.Info("imported database",
			"format", string(h.format),
			"name", db.Name,
			"documents", len(db.Documents),
			"dimension", db.Dimension)
		return db, nil
	}

	return nil, fmt.Errorf("%w: considered %s",
		vectordb.ErrUnrecognizedFormat, formatNames(ImportFormats()))
}

// filterDimension drops documents whose embedding length differs from the
// database dimension, which is set by the first embedded document. A
// mixed-length document would score zero against every query yet still
// occupy a result slot.
func (im *Importer) filterDimension(docs []vectordb.Document) []vectordb.Document {
	dim := vectordb.DimensionOf(docs)
	out := make([]vectordb.Document, 0, len(docs))
	for _, d := range docs {
		if len(d.Embedding) != dim {
			im.log.Debug("skipping document with mismatched embedding",
				"id", d.ID, "length", len(d.Embedding), "dimension", dim)
			continue
		}
		out = append(out, d)
	}
	return out
}

// passThrough re-applies the per-record embedding and dimension filters to
// an already canonical database and recomputes its dimension.
func (im *Importer) passThrough(db *vectordb.Database) *vectordb.Database {
	docs := make([]vectordb.Document, 0, len(db.Documents))
	for _, d := range db.Documents {
		if len(d.Embedding) == 0 {
			im.log.Debug("skipping document without embedding", "id", d.ID)
			continue
		}
		docs = append(docs, d)
	}
	docs = im.filterDimension(docs)
	out := &vectordb.Database{
		Name:      db.Name,
		CreatedAt: db.CreatedAt,
		Dimension: vectordb.DimensionOf(docs),
		Documents: docs,
	}
	if out.CreatedAt == "" {
		out.CreatedAt = vectordb.Now()
	}
	return out
}

func asDatabase(raw any) (*vectordb.Database, bool) {
	switch db := raw.(type) {
	case *vectordb.Database:
		return db, db != nil
	case vectordb.Database:
		return &db, true
	}
	return nil, false
}

func importName(raw any, fallback string) string {
	if m, ok := asMap(raw); ok {
		if name := stringField(m, []string{"name", "collection_name", "namespace", "table"}); name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "imported"
}

func importCreatedAt(raw any, ts string) string {
	if m, ok := asMap(raw); ok {
		if created := stringField(m, createdAtFields); created != "" {
			return created
		}
	}
	return ts
}

// ImportFormats returns the conventions Import recognizes, in detection order.
func ImportFormats() []Format {
	formats := make([]Format, len(importHandlers))
	for i, h := range importHandlers {
		formats[i] = h.format
	}
	return formats
}

// newDocument applies the canonical per-field defaults: synthesized IDs and
// file names for sources that lack them, title falling back to the file
// name, and createdAt falling back to import time.
func newDocument(i int, id, fileName, content, title, createdAt string, emb []float32, ts string) vectordb.Document {
	if id == "" {
		id = fmt.Sprintf("doc_%d", i)
	}
	if fileName == "" {
		fileName = fmt.Sprintf("document_%d", i)
	}
	if title == "" {
		title = fileName
	}
	if createdAt == "" {
		createdAt = ts
	}
	return vectordb.Document{
		ID:        id,
		FileName:  fileName,
		Content:   content,
		Embedding: emb,
		Metadata:  vectordb.Metadata{Title: title, CreatedAt: createdAt},
	}
}

// --- shape 1: canonical -----------------------------------------------------

func detectCanonical(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	docs, ok := asSlice(m["documents"])
	if !ok {
		return false
	}
	if len(docs) == 0 {
		// An empty canonical export is only recognizable by its dimension field.
		_, hasDim := m["dimension"]
		return hasDim
	}
	first, ok := asMap(docs[0])
	if !ok {
		return false
	}
	_, hasEmb := first["embedding"]
	return hasEmb
}

func convertCanonical(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	raws, _ := asSlice(m["documents"])

	docs := make([]vectordb.Document, 0, len(raws))
	for i, el := range raws {
		rec, ok := asMap(el)
		if !ok {
			continue
		}
		emb := floatVector(rec["embedding"])
		if len(emb) == 0 {
			continue
		}
		meta, _ := asMap(rec["metadata"])
		var title, created string
		if meta != nil {
			title = stringField(meta, titleFields)
			created = stringField(meta, createdAtFields)
		}
		docs = append(docs, newDocument(i,
			stringField(rec, idFields),
			stringField(rec, fileNameFields),
			stringField(rec, contentFields),
			title, created, emb, ts))
	}
	return docs
}

// --- shape 2: chroma (parallel arrays) ---------------------------------------

func detectChroma(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	if _, ok := asSlice(m["ids"]); !ok {
		return false
	}
	if _, ok := asSlice(m["embeddings"]); !ok {
		return false
	}
	_, hasDocs := asSlice(m["documents"])
	_, hasAlt := asSlice(m["_documents"])
	return hasDocs || hasAlt
}

func convertChroma(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	ids, _ := asSlice(m["ids"])
	embs, _ := asSlice(m["embeddings"])
	contents, _ := asSlice(m["documents"])
	if contents == nil {
		contents, _ = asSlice(m["_documents"])
	}
	metas, _ := asSlice(m["metadatas"])

	docs := make([]vectordb.Document, 0, len(ids))
	for i := range ids {
		emb := floatVector(index(embs, i))
		if len(emb) == 0 {
			continue
		}
		var fileName, title, created string
		if meta := indexMap(metas, i); meta != nil {
			fileName = stringField(meta, fileNameFields)
			title = stringField(meta, titleFields)
			created = stringField(meta, createdAtFields)
		}
		docs = append(docs, newDocument(i,
			stringOf(ids[i]),
			fileName,
			contentOf(index(contents, i)),
			title, created, emb, ts))
	}
	return docs
}

// --- shape 3: enriched side-channel ------------------------------------------

func detectEnriched(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	v, ok := m["_documents"]
	if !ok {
		return false
	}
	_, ok = canonicalDocs(v)
	return ok
}

func convertEnriched(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	docs, _ := canonicalDocs(m["_documents"])
	for i := range docs {
		docs[i] = newDocument(i,
			docs[i].ID, docs[i].FileName, docs[i].Content,
			docs[i].Metadata.Title, docs[i].Metadata.CreatedAt,
			docs[i].Embedding, ts)
	}
	return docs
}

// --- shape 4: qdrant (points/payload) ----------------------------------------

func detectQdrant(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	points, ok := asSlice(m["points"])
	if !ok {
		return false
	}
	if len(points) == 0 {
		return true
	}
	p, ok := asMap(points[0])
	if !ok {
		return false
	}
	_, hasVec := p["vector"]
	return hasVec
}

func convertQdrant(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	points, _ := asSlice(m["points"])

	docs := make([]vectordb.Document, 0, len(points))
	for i, el := range points {
		p, ok := asMap(el)
		if !ok {
			continue
		}
		emb := floatVector(p["vector"])
		if len(emb) == 0 {
			continue
		}
		var content, fileName, title, created string
		if payload, ok := asMap(p["payload"]); ok {
			content = stringField(payload, contentFields)
			fileName = stringField(payload, fileNameFields)
			title = stringField(payload, titleFields)
			created = stringField(payload, createdAtFields)
		}
		docs = append(docs, newDocument(i,
			stringField(p, idFields), fileName, content, title, created, emb, ts))
	}
	return docs
}

// --- shape 5: pinecone (vectors/values) --------------------------------------

func detectPinecone(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	vectors, ok := asSlice(m["vectors"])
	if !ok {
		return false
	}
	if len(vectors) == 0 {
		return true
	}
	v, ok := asMap(vectors[0])
	if !ok {
		return false
	}
	_, hasValues := v["values"]
	return hasValues
}

func convertPinecone(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	vectors, _ := asSlice(m["vectors"])

	docs := make([]vectordb.Document, 0, len(vectors))
	for i, el := range vectors {
		v, ok := asMap(el)
		if !ok {
			continue
		}
		emb := floatVector(v["values"])
		if len(emb) == 0 {
			continue
		}
		var content, fileName, title, created string
		if meta, ok := asMap(v["metadata"]); ok {
			content = stringField(meta, contentFields)
			fileName = stringField(meta, fileNameFields)
			title = stringField(meta, titleFields)
			created = stringField(meta, createdAtFields)
		}
		docs = append(docs, newDocument(i,
			stringField(v, idFields), fileName, content, title, created, emb, ts))
	}
	return docs
}

// --- shape 6: weaviate (objects/properties) ----------------------------------

func detectWeaviate(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	objects, ok := asSlice(m["objects"])
	if !ok {
		return false
	}
	if len(objects) == 0 {
		return true
	}
	o, ok := asMap(objects[0])
	if !ok {
		return false
	}
	if _, hasVec := o["vector"]; hasVec {
		return true
	}
	add, ok := asMap(o["_additional"])
	if !ok {
		return false
	}
	_, hasVec := add["vector"]
	return hasVec
}

func convertWeaviate(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	objects, _ := asSlice(m["objects"])

	docs := make([]vectordb.Document, 0, len(objects))
	for i, el := range objects {
		o, ok := asMap(el)
		if !ok {
			continue
		}
		add, _ := asMap(o["_additional"])

		emb := floatVector(o["vector"])
		if len(emb) == 0 && add != nil {
			emb = floatVector(add["vector"])
		}
		if len(emb) == 0 {
			continue
		}

		id := stringField(o, idFields)
		if id == "" && add != nil {
			id = stringField(add, idFields)
		}

		var content, fileName, title, created string
		if props, ok := asMap(o["properties"]); ok {
			content = stringField(props, contentFields)
			fileName = stringField(props, fileNameFields)
			title = stringField(props, titleFields)
			created = stringField(props, createdAtFields)
		}
		docs = append(docs, newDocument(i, id, fileName, content, title, created, emb, ts))
	}
	return docs
}

// --- shape 7: milvus (column descriptors) ------------------------------------

func detectMilvus(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	fields, ok := asSlice(m["fields"])
	if !ok {
		return false
	}
	if len(fields) == 0 {
		return true
	}
	f, ok := asMap(fields[0])
	if !ok {
		return false
	}
	_, hasName := f["name"]
	_, hasData := f["data"]
	return hasName && hasData
}

func convertMilvus(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	fields, _ := asSlice(m["fields"])

	// Pivot the column descriptors into named columns.
	columns := make(map[string][]any)
	for _, el := range fields {
		f, ok := asMap(el)
		if !ok {
			continue
		}
		name := stringField(f, []string{"name"})
		if data, ok := asSlice(f["data"]); ok && name != "" {
			columns[name] = data
		}
	}

	embCol := columns["embedding"]
	if embCol == nil {
		embCol = columns["vector"]
	}

	docs := make([]vectordb.Document, 0, len(embCol))
	for i := range embCol {
		emb := floatVector(embCol[i])
		if len(emb) == 0 {
			continue
		}
		docs = append(docs, newDocument(i,
			stringOf(index(columns["id"], i)),
			stringOf(index(columns["filename"], i)),
			stringOf(index(columns["content"], i)),
			stringOf(index(columns["title"], i)),
			stringOf(index(columns["created_at"], i)),
			emb, ts))
	}
	return docs
}

// --- shape 8: lancedb (rows + schema) ----------------------------------------

func detectLanceDB(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	if _, ok := asSlice(m["data"]); !ok {
		return false
	}
	_, hasSchema := m["schema"]
	return hasSchema
}

func convertLanceDB(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	rows, _ := asSlice(m["data"])

	docs := make([]vectordb.Document, 0, len(rows))
	for i, el := range rows {
		row, ok := asMap(el)
		if !ok {
			continue
		}
		emb := floatVector(row["vector"])
		if len(emb) == 0 {
			emb = floatVector(row["embedding"])
		}
		if len(emb) == 0 {
			continue
		}
		docs = append(docs, newDocument(i,
			stringField(row, idFields),
			stringField(row, fileNameFields),
			stringField(row, contentFields),
			stringField(row, titleFields),
			stringField(row, createdAtFields),
			emb, ts))
	}
	return docs
}

// --- shape 9: faiss (2D embeddings + sidecar metadata) ------------------------

func detectFAISS(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	if _, ok := asSlice(m["embeddings"]); !ok {
		return false
	}
	// Chroma also has a top-level embeddings array; the sidecar metadata
	// object is what distinguishes this shape.
	_, hasMeta := asMap(m["metadata"])
	return hasMeta
}

func convertFAISS(raw any, ts string) []vectordb.Document {
	m, _ := asMap(raw)
	embs, _ := asSlice(m["embeddings"])
	meta, _ := asMap(m["metadata"])
	contents, _ := asSlice(meta["documents"])
	metas, _ := asSlice(meta["metadatas"])

	docs := make([]vectordb.Document, 0, len(embs))
	for i := range embs {
		emb := floatVector(embs[i])
		if len(emb) == 0 {
			continue
		}
		var id, fileName, title, created string
		if rec := indexMap(metas, i); rec != nil {
			id = stringField(rec, idFields)
			fileName = stringField(rec, fileNameFields)
			title = stringField(rec, titleFields)
			created = stringField(rec, createdAtFields)
		}
		docs = append(docs, newDocument(i,
			id, fileName, contentOf(index(contents, i)), title, created, emb, ts))
	}
	return docs
}

// --- shape 10: generic bare array ---------------------------------------------

func detectArray(raw any) bool {
	arr, ok := asSlice(raw)
	if !ok || len(arr) == 0 {
		return false
	}
	el, ok := asMap(arr[0])
	if !ok {
		return false
	}
	_, found := firstPresent(el, vectorFields)
	return found
}

func convertArray(raw any, ts string) []vectordb.Document {
	arr, _ := asSlice(raw)

	docs := make([]vectordb.Document, 0, len(arr))
	for i, el := range arr {
		rec, ok := asMap(el)
		if !ok {
			continue
		}
		v, _ := firstPresent(rec, vectorFields)
		emb := floatVector(v)
		if len(emb) == 0 {
			continue
		}

		fileName := stringField(rec, fileNameFields)
		title := stringField(rec, titleFields)
		created := stringField(rec, createdAtFields)
		if meta, ok := asMap(rec["metadata"]); ok {
			if fileName == "" {
				fileName = stringField(meta, fileNameFields)
			}
			if title == "" {
				title = stringField(meta, titleFields)
			}
			if created == "" {
				created = stringField(meta, createdAtFields)
			}
		}
		docs = append(docs, newDocument(i,
			stringField(rec, idFields), fileName,
			stringField(rec, contentFields), title, created, emb, ts))
	}
	return docs
}
