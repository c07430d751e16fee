// Package pgstore keeps the calendar collection in Postgres: one JSONB
// row per item. Drop-in alternative to the Redis backend for squads
// that already run a Postgres instance.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/remote"
)

const (
	upsertSQL = `
		INSERT INTO calendar_items (id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`
	deleteSQL = `DELETE FROM calendar_items WHERE id = $1`
)

// Collection implements remote.Collection on a pgx connection pool.
type Collection struct {
	pool  *pgxpool.Pool
	chunk int
}

// New connects, verifies the connection and ensures the schema.
// chunkSize caps how many operations one batch carries; values below 1
// use the default.
func New(ctx context.Context, databaseURL string, chunkSize int) (*Collection, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, remote.Unavailable("connect to postgres", err)
	}

	if chunkSize < 1 {
		chunkSize = remote.DefaultChunkSize
	}
	c := &Collection{pool: pool, chunk: chunkSize}

	if err := c.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return c, nil
}

// ensureSchema creates the items table when it is missing.
func (c *Collection) ensureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendar_items (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_calendar_items_date ON calendar_items ((doc->>'date'));
	`

	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create calendar_items table: %w", err)
	}
	return nil
}

// FetchAll reads the whole collection in one query.
func (c *Collection) FetchAll(ctx context.Context) ([]domain.CalendarItem, error) {
	rows, err := c.pool.Query(ctx, `SELECT doc FROM calendar_items`)
	if err != nil {
		return nil, remote.Unavailable("fetch item documents", err)
	}
	defer rows.Close()

	items := make([]domain.CalendarItem, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, remote.Unavailable("scan item document", err)
		}
		var item domain.CalendarItem
		if err := json.Unmarshal(raw, &item); err != nil {
			// Skip documents that couldn't be decoded
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, remote.Unavailable("read item documents", err)
	}

	return items, nil
}

// Create writes a new document. An empty item ID gets one assigned.
func (c *Collection) Create(ctx context.Context, item domain.CalendarItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal item %s: %w", item.ID, err)
	}

	if _, err := c.pool.Exec(ctx, upsertSQL, item.ID, data); err != nil {
		return "", remote.Unavailable("create item", err)
	}

	return item.ID, nil
}

// Update overwrites the document for id in full.
func (c *Collection) Update(ctx context.Context, id string, item domain.CalendarItem) error {
	item.ID = id
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", id, err)
	}

	tag, err := c.pool.Exec(ctx, `UPDATE calendar_items SET doc = $2, updated_at = now() WHERE id = $1`, id, data)
	if err != nil {
		return remote.Unavailable("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item %s: %w", id, remote.ErrNotFound)
	}

	return nil
}

// Delete removes the document for id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, deleteSQL, id)
	if err != nil {
		return remote.Unavailable("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete item %s: %w", id, remote.ErrNotFound)
	}

	return nil
}

// BatchWrite applies the operations in chunks. Each chunk runs inside
// one transaction, so it lands atomically; chunks after a failed one
// are not attempted. Creates and updates are upserts here, batch
// callers reconcile existence themselves.
func (c *Collection) BatchWrite(ctx context.Context, ops []remote.Op) error {
	for n, chunk := range remote.ChunkOps(ops, c.chunk) {
		if err := c.writeChunk(ctx, chunk); err != nil {
			return remote.Unavailable(fmt.Sprintf("write batch chunk %d", n), err)
		}
	}
	return nil
}

func (c *Collection) writeChunk(ctx context.Context, chunk []remote.Op) error {
	b := &pgx.Batch{}
	for _, op := range chunk {
		switch op.Kind {
		case remote.OpCreate, remote.OpUpdate:
			item := op.Item
			if op.ID != "" {
				item.ID = op.ID
			}
			if item.ID == "" {
				item.ID = uuid.New().String()
			}
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("failed to marshal item %s: %w", item.ID, err)
			}
			b.Queue(upsertSQL, item.ID, data)
		case remote.OpDelete:
			b.Queue(deleteSQL, op.ID)
		default:
			return fmt.Errorf("unknown batch op kind %q", op.Kind)
		}
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	br := tx.SendBatch(ctx, b)
	var execErr error
	for range b.Len() {
		if _, err := br.Exec(); err != nil {
			execErr = err
			break
		}
	}
	if err := br.Close(); err != nil && execErr == nil {
		execErr = err
	}
	if execErr != nil {
		_ = tx.Rollback(ctx)
		return execErr
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Ping reports whether Postgres answers.
func (c *Collection) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return remote.Unavailable("ping postgres", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Collection) Close() {
	c.pool.Close()
}
