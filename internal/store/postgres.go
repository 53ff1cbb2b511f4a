package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// Postgres implements Store using PostgreSQL with pgvector
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres store
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return p, nil
}

func (p *Postgres) initSchema(ctx context.Context) error {
	// The embedding column carries no fixed dimension because saved
	// databases come from different models. That rules out an hnsw index,
	// so ordering by <=> scans; acceptable for interchange-sized corpora.
	schema := `
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS databases (
			name TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			dimension INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			seq SERIAL PRIMARY KEY,
			db_name TEXT NOT NULL REFERENCES databases(name) ON DELETE CASCADE,
			doc_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			content TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			doc_created_at TEXT NOT NULL DEFAULT '',
			embedding vector
		);

		CREATE INDEX IF NOT EXISTS idx_documents_db ON documents(db_name);
	`
	_, err := p.pool.Exec(ctx, schema)
	return err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Save(ctx context.Context, db *vectordb.Database) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO databases (name, created_at, dimension) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET created_at = $2, dimension = $3`,
		db.Name, db.CreatedAt, db.Dimension,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert database: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE db_name = $1`, db.Name); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	for _, doc := range db.Documents {
		_, err = tx.Exec(ctx,
			`INSERT INTO documents (db_name, doc_id, file_name, content, title, doc_created_at, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			db.Name, doc.ID, doc.FileName, doc.Content,
			doc.Metadata.Title, doc.Metadata.CreatedAt, pgvector.NewVector(doc.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (p *Postgres) Load(ctx context.Context, name string) (*vectordb.Database, error) {
	db := &vectordb.Database{Name: name}
	err := p.pool.QueryRow(ctx,
		`SELECT created_at, dimension FROM databases WHERE name = $1`, name,
	).Scan(&db.CreatedAt, &db.Dimension)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("database %q: %w", name, vectordb.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	docs, err := p.queryDocuments(ctx,
		`SELECT doc_id, file_name, content, title, doc_created_at, embedding
		 FROM documents WHERE db_name = $1 ORDER BY seq`, name)
	if err != nil {
		return nil, err
	}
	db.Documents = docs
	return db, nil
}

func (p *Postgres) List(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT name FROM databases ORDER BY name`)
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

func (p *Postgres) Delete(ctx context.Context, name string) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM databases WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("database %q: %w", name, vectordb.ErrNotFound)
	}
	return nil
}

func (p *Postgres) Search(ctx context.Context, name string, embedding []float32, limit int) ([]vectordb.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT doc_id, file_name, content, title, doc_created_at, embedding
		FROM documents
		WHERE db_name = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	return p.queryDocuments(ctx, query, name, pgvector.NewVector(embedding), limit)
}

func (p *Postgres) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]vectordb.Document, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []vectordb.Document
	for rows.Next() {
		var d vectordb.Document
		var vec pgvector.Vector

		err := rows.Scan(&d.ID, &d.FileName, &d.Content, &d.Metadata.Title, &d.Metadata.CreatedAt, &vec)
		if err != nil {
			return nil, err
		}
		d.Embedding = vec.Slice()

		docs = append(docs, d)
	}

	return docs, rows.Err()
}
