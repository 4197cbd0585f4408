// Package pgstore backs docstore.Store with a single Postgres JSONB table.
// Writes fire pg_notify so subscribers can re-read their snapshot; deployments
// that want Mongo semantics instead use the mongostore package.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
)

const notifyChannel = "docstore_changes"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	doc        JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func Connect(ctx context.Context, dsn string, log *zap.Logger) (*Store, func(), error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return &Store{pool: pool, log: log}, pool.Close, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Doc, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection=$1 AND id=$2`, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.Doc{}, false, nil
	}
	if err != nil {
		return docstore.Doc{}, false, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return docstore.Doc{}, false, err
	}
	return docstore.Doc{ID: id, Data: data}, true, nil
}

func (s *Store) Query(ctx context.Context, collection, field string, equals any) ([]docstore.Doc, error) {
	match, err := json.Marshal(map[string]any{field: equals})
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection=$1 AND doc @> $2 ORDER BY id`,
		collection, match)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []docstore.Doc
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data := map[string]any{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		out = append(out, docstore.Doc{ID: id, Data: data})
	}
	return out, rows.Err()
}

func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	q := `INSERT INTO documents (collection, id, doc) VALUES ($1,$2,$3)
	      ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc`
	if merge {
		q = `INSERT INTO documents (collection, id, doc) VALUES ($1,$2,$3)
		     ON CONFLICT (collection, id) DO UPDATE SET doc = documents.doc || EXCLUDED.doc`
	}
	if _, err := s.pool.Exec(ctx, q, collection, id, raw); err != nil {
		return err
	}
	return s.notify(ctx, collection)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx,
		`UPDATE documents SET doc = doc || $3 WHERE collection=$1 AND id=$2`,
		collection, id, raw)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return docstore.ErrNoDocument
	}
	return s.notify(ctx, collection)
}

func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1,$2,$3)`,
		collection, id, raw); err != nil {
		return "", err
	}
	return id, s.notify(ctx, collection)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id); err != nil {
		return err
	}
	return s.notify(ctx, collection)
}

func (s *Store) notify(ctx context.Context, collection string) error {
	_, err := s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection)
	return err
}

// Subscribe holds one dedicated connection on LISTEN and re-queries the
// filtered snapshot after each notification for this collection.
func (s *Store) Subscribe(ctx context.Context, collection string, filter *docstore.Filter) (<-chan []docstore.Doc, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel); err != nil {
		conn.Release()
		return nil, err
	}

	ch := make(chan []docstore.Doc, 16)
	emit := func() {
		docs, err := s.snapshot(ctx, collection, filter)
		if err != nil {
			s.log.Warn("pgstore: snapshot query failed",
				zap.String("collection", collection), zap.Error(err))
			return
		}
		select {
		case ch <- docs:
		default:
		}
	}

	go func() {
		defer close(ch)
		defer conn.Release()
		emit()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Warn("pgstore: listen loop closed", zap.Error(err))
				}
				return
			}
			if n.Payload == collection {
				emit()
			}
		}
	}()
	return ch, nil
}

func (s *Store) snapshot(ctx context.Context, collection string, filter *docstore.Filter) ([]docstore.Doc, error) {
	if filter != nil {
		return s.Query(ctx, collection, filter.Field, filter.Equals)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection=$1 ORDER BY id`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []docstore.Doc
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data := map[string]any{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		out = append(out, docstore.Doc{ID: id, Data: data})
	}
	return out, rows.Err()
}
