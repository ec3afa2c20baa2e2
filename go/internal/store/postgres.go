package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/mafia/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Schema is the DDL for the documents table.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection  TEXT        NOT NULL,
    id          TEXT        NOT NULL,
    data        JSONB       NOT NULL DEFAULT '{}'::jsonb,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, id)
)`

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type queries struct {
	db DBTX
}

func (q *queries) getDocument(ctx context.Context, collection, id string, forUpdate bool) (Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var data pqtype.NullRawMessage
	if err := q.db.QueryRowContext(ctx, query, collection, id).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(collection, id)
		}
		return nil, fmt.Errorf("select %s/%s: %w", collection, id, err)
	}
	doc := Document{}
	if err := sqlutil.FromNullRawMessage(data, &doc); err != nil {
		return nil, err
	}
	doc[IDField] = id
	return doc, nil
}

func (q *queries) insertDocument(ctx context.Context, collection, id string, doc Document) error {
	data, err := sqlutil.ToNullRawMessage(withoutID(doc))
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
		collection, id, data)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (q *queries) replaceData(ctx context.Context, collection, id string, doc Document) error {
	data, err := sqlutil.ToNullRawMessage(withoutID(doc))
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx,
		`UPDATE documents SET data = $3, updated_at = now() WHERE collection = $1 AND id = $2`,
		collection, id, data)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Postgres is a DocumentStore backed by a single jsonb table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open lib/pq connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the documents table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	q := &queries{db: p.db}
	return q.getDocument(ctx, collection, id, false)
}

func (p *Postgres) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	stored := doc.Clone()
	if stored.ID() == "" {
		stored[IDField] = uuid.NewString()
	}
	q := &queries{db: p.db}
	if err := q.insertDocument(ctx, collection, stored.ID(), stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update reads the row FOR UPDATE and writes the merged document in one transaction.
func (p *Postgres) Update(ctx context.Context, collection, id string, patch Document) (Document, error) {
	var merged Document
	err := sqlutil.Run(ctx, p.db,
		func(tx *sql.Tx) *queries { return &queries{db: tx} },
		func(q *queries) error {
			current, err := q.getDocument(ctx, collection, id, true)
			if err != nil {
				return err
			}
			for k, v := range patch {
				if k == IDField {
					continue
				}
				current[k] = v
			}
			if err := q.replaceData(ctx, collection, id, current); err != nil {
				return err
			}
			merged = current
			return nil
		})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func withoutID(doc Document) Document {
	out := doc.Clone()
	delete(out, IDField)
	return out
}
