//go:build cgo

// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// SQLite implements Store using SQLite with sqlite-vec
type SQLite struct {
	conn *sql.DB
}

// NewSQLite creates a new SQLite store
func NewSQLite(path string) (*SQLite, error) {
	sqlite_vec.Auto()

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS databases (
			name TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			dimension INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			db_name TEXT NOT NULL REFERENCES databases(name),
			doc_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			content TEXT NOT NULL,
			title TEXT,
			doc_created_at TEXT,
			embedding TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_db ON documents(db_name);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

// vecTable derives the per-database virtual table name. Dimensions vary
// between databases, so each saved database gets its own vec0 table. The
// hex encoding keeps arbitrary names SQL-safe without mapping distinct
// names to the same table.
func vecTable(name string) string {
	return "vec_" + hex.EncodeToString([]byte(name))
}

func (s *SQLite) Save(ctx context.Context, db *vectordb.Database) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE db_name = ?`, db.Name); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO databases (name, created_at, dimension) VALUES (?, ?, ?)`,
		db.Name, db.CreatedAt, db.Dimension,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert database: %w", err)
	}

	vt := vecTable(db.Name)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, vt)); err != nil {
		return fmt.Errorf("failed to drop vector table: %w", err)
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE VIRTUAL TABLE %s USING vec0(doc_rowid INTEGER PRIMARY KEY, embedding FLOAT[%d])`,
		vt, db.Dimension,
	))
	if err != nil {
		return fmt.Errorf("failed to create vector table: %w", err)
	}

	for _, doc := range db.Documents {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO documents (db_name, doc_id, file_name, content, title, doc_created_at, embedding)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			db.Name, doc.ID, doc.FileName, doc.Content,
			doc.Metadata.Title, doc.Metadata.CreatedAt, mustJSON(doc.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}

		rowid, err := result.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (doc_rowid, embedding) VALUES (?, ?)`, vt),
			rowid, mustJSON(doc.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert embedding for %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) Load(ctx context.Context, name string) (*vectordb.Database, error) {
	db := &vectordb.Database{Name: name}
	err := s.conn.QueryRowContext(ctx,
		`SELECT created_at, dimension FROM databases WHERE name = ?`, name,
	).Scan(&db.CreatedAt, &db.Dimension)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("database %q: %w", name, vectordb.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	docs, err := s.queryDocuments(ctx,
		`SELECT doc_id, file_name, content, title, doc_created_at, embedding
		 FROM documents WHERE db_name = ? ORDER BY rowid`, name)
	if err != nil {
		return nil, err
	}
	db.Documents = docs
	return db, nil
}

func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT name FROM databases ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE db_name = ?`, name); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM databases WHERE name = ?`, name)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("database %q: %w", name, vectordb.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, vecTable(name))); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLite) Search(ctx context.Context, name string, embedding []float32, limit int) ([]vectordb.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	query := fmt.Sprintf(`
		SELECT d.doc_id, d.file_name, d.content, d.title, d.doc_created_at, d.embedding
		FROM documents d
		JOIN %s v ON d.rowid = v.doc_rowid
		WHERE d.db_name = ?
		ORDER BY vec_distance_cosine(v.embedding, ?)
		LIMIT ?
	`, vecTable(name))

	return s.queryDocuments(ctx, query, name, mustJSON(embedding), limit)
}

func (s *SQLite) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]vectordb.Document, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []vectordb.Document
	for rows.Next() {
		var d vectordb.Document
		var title, createdAt sql.NullString
		var embeddingJSON string

		if err := rows.Scan(&d.ID, &d.FileName, &d.Content, &title, &createdAt, &embeddingJSON); err != nil {
			return nil, err
		}

		if title.Valid {
			d.Metadata.Title = title.String
		}
		if createdAt.Valid {
			d.Metadata.CreatedAt = createdAt.String
		}
		if err := json.Unmarshal([]byte(embeddingJSON), &d.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s: %w", d.ID, err)
		}

		docs = append(docs, d)
	}

	return docs, rows.Err()
}

func mustJSON(embedding []float32) string {
	data, err := json.Marshal(embedding)
	if err != nil {
		// []float32 cannot fail to marshal
		panic(err)
	}
	return string(data)
}
