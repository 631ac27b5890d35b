// Package sqlite implements the repository on a single SQLite database file.
// AUTOINCREMENT guarantees that IDs of deleted facts are never reassigned.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/secmon-lab/factbase/pkg/domain/interfaces"
)

//go:embed schema.sql
var schemaSQL string

type SQLite struct {
	db   *sql.DB
	fact *factRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens (and creates if needed) the database at path and applies the schema
func New(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, goerr.New("sqlite database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect sqlite database", goerr.V("path", path))
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to apply schema", goerr.V("path", path))
	}

	return &SQLite{
		db:   db,
		fact: newFactRepository(db),
	}, nil
}

func (s *SQLite) Fact() interfaces.FactRepository {
	return s.fact
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
