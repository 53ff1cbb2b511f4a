package store

import (
	"context"
	"fmt"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// Store defines the interface for database persistence backends.
// Save replaces any previously saved database with the same name.
type Store interface {
	Save(ctx context.Context, db *vectordb.Database) error
	Load(ctx context.Context, name string) (*vectordb.Database, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Search(ctx context.Context, name string, embedding []float32, limit int) ([]vectordb.Document, error)
	Close() error
}

// Config holds store configuration
type Config struct {
	Driver string // "sqlite", "postgres", "mongodb"

	// SQLite
	SQLitePath string

	// Postgres
	PostgresDSN string

	// MongoDB
	MongoDBURI      string
	MongoDBDatabase string
}

// New creates a Store implementation based on config
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		return NewSQLite(cfg.SQLitePath)

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres DSN is required")
		}
		return NewPostgres(ctx, cfg.PostgresDSN)

	case "mongodb":
		if cfg.MongoDBURI == "" {
			return nil, fmt.Errorf("mongodb URI is required")
		}
		if cfg.MongoDBDatabase == "" {
			cfg.MongoDBDatabase = "vecbridge"
		}
		return NewMongoDB(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)

	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
