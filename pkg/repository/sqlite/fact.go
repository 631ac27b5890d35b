package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/domain/model"
)

type factRepository struct {
	db *sql.DB
}

func newFactRepository(db *sql.DB) *factRepository {
	return &factRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFact(row rowScanner) (*model.Fact, error) {
	var (
		id        int64
		text      string
		createdAt string
	)
	if err := row.Scan(&id, &text, &createdAt); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid created_at", goerr.V(model.FactIDKey, id))
	}

	return &model.Fact{
		ID:        model.FactID(id),
		Text:      text,
		CreatedAt: ts,
	}, nil
}

func (r *factRepository) Create(ctx context.Context, fact *model.Fact) (*model.Fact, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO facts (text, created_at) VALUES (?, ?)`,
		fact.Text, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert fact")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get inserted fact ID")
	}

	return &model.Fact{
		ID:        model.FactID(id),
		Text:      fact.Text,
		CreatedAt: now,
	}, nil
}

func (r *factRepository) Get(ctx context.Context, id model.FactID) (*model.Fact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, text, created_at FROM facts WHERE id = ?`, int64(id))

	fact, err := scanFact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "fact not found", goerr.V(model.FactIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get fact", goerr.V(model.FactIDKey, id))
	}

	return fact, nil
}

// maxIDsPerQuery keeps each IN list well below SQLite's bound parameter limit
const maxIDsPerQuery = 500

func (r *factRepository) GetMany(ctx context.Context, ids []model.FactID) ([]*model.Fact, error) {
	if len(ids) == 0 {
		return r.List(ctx)
	}

	seen := make(map[model.FactID]struct{}, len(ids))
	unique := make([]model.FactID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	facts := []*model.Fact{}
	for start := 0; start < len(unique); start += maxIDsPerQuery {
		chunk := unique[start:min(start+maxIDsPerQuery, len(unique))]

		placeholders := make([]string, len(chunk))
		args := make([]any, len(chunk))
		for i, id := range chunk {
			placeholders[i] = "?"
			args[i] = int64(id)
		}

		query := `SELECT id, text, created_at FROM facts WHERE id IN (` +
			strings.Join(placeholders, ",") + `)`

		found, err := r.query(ctx, query, args...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get facts", goerr.V("id_count", len(ids)))
		}
		facts = append(facts, found...)
	}

	sort.Slice(facts, func(i, j int) bool {
		return facts[i].ID < facts[j].ID
	})
	return facts, nil
}

func (r *factRepository) List(ctx context.Context) ([]*model.Fact, error) {
	facts, err := r.query(ctx, `SELECT id, text, created_at FROM facts ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list facts")
	}
	return facts, nil
}

func (r *factRepository) query(ctx context.Context, query string, args ...any) ([]*model.Fact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query facts")
	}
	defer rows.Close()

	facts := []*model.Fact{}
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan fact")
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate facts")
	}

	return facts, nil
}

func (r *factRepository) Delete(ctx context.Context, id model.FactID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facts WHERE id = ?`, int64(id))
	if err != nil {
		return goerr.Wrap(err, "failed to delete fact", goerr.V(model.FactIDKey, id))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to get affected rows", goerr.V(model.FactIDKey, id))
	}
	if n == 0 {
		return goerr.Wrap(ErrNotFound, "fact not found", goerr.V(model.FactIDKey, id))
	}

	return nil
}
