//go:build !cgo

package store

import (
	"context"
	"fmt"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// SQLite is a stub for non-CGO builds
type SQLite struct{}

var errNoCGO = fmt.Errorf("SQLite store requires CGO (build with CGO_ENABLED=1)")

// NewSQLite returns an error in non-CGO builds
func NewSQLite(path string) (*SQLite, error) {
	return nil, errNoCGO
}

func (s *SQLite) Save(ctx context.Context, db *vectordb.Database) error {
	return errNoCGO
}

func (s *SQLite) Load(ctx context.Context, name string) (*vectordb.Database, error) {
	return nil, errNoCGO
}

func (s *SQLite) List(ctx context.Context) ([]string, error) {
	return nil, errNoCGO
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	return errNoCGO
}

func (s *SQLite) Search(ctx context.Context, name string, embedding []float32, limit int) ([]vectordb.Document, error) {
	return nil, errNoCGO
}

func (s *SQLite) Close() error {
	return nil
}
