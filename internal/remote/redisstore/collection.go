// Package redisstore keeps the calendar collection in Redis: one JSON
// document per item plus a set of all item IDs for enumeration.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/remote"
)

// Collection implements remote.Collection on a Redis client.
type Collection struct {
	client *redis.Client
	chunk  int
}

// New wraps an already connected client. chunkSize caps how many
// operations one pipeline carries; values below 1 use the default.
func New(client *redis.Client, chunkSize int) *Collection {
	if chunkSize < 1 {
		chunkSize = remote.DefaultChunkSize
	}
	return &Collection{
		client: client,
		chunk:  chunkSize,
	}
}

// FetchAll reads the whole collection in two round trips: one SMEMBERS
// for the ID set, one MGET for the documents.
func (c *Collection) FetchAll(ctx context.Context) ([]domain.CalendarItem, error) {
	ids, err := c.client.SMembers(ctx, AllItemsKey()).Result()
	if err != nil {
		return nil, remote.Unavailable("fetch item ids", err)
	}

	if len(ids) == 0 {
		return []domain.CalendarItem{}, nil
	}

	keys := make([]string, len(ids))
	for n, id := range ids {
		keys[n] = ItemKey(id)
	}

	docs, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, remote.Unavailable("fetch item documents", err)
	}

	items := make([]domain.CalendarItem, 0, len(docs))
	for _, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// Dangling set member, the document was deleted underneath.
			continue
		}
		var item domain.CalendarItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			// Skip documents that couldn't be decoded
			continue
		}
		items = append(items, item)
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

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, ItemKey(item.ID), data, 0)
		pipe.SAdd(ctx, AllItemsKey(), item.ID)
		return nil
	})
	if err != nil {
		return "", remote.Unavailable("create item", err)
	}

	return item.ID, nil
}

// Update overwrites the document for id in full.
func (c *Collection) Update(ctx context.Context, id string, item domain.CalendarItem) error {
	exists, err := c.client.Exists(ctx, ItemKey(id)).Result()
	if err != nil {
		return remote.Unavailable("check item", err)
	}
	if exists == 0 {
		return fmt.Errorf("update item %s: %w", id, remote.ErrNotFound)
	}

	item.ID = id
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", id, err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, ItemKey(id), data, 0)
		pipe.SAdd(ctx, AllItemsKey(), id)
		return nil
	})
	if err != nil {
		return remote.Unavailable("update item", err)
	}

	return nil
}

// Delete removes the document for id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, ItemKey(id))
		pipe.SRem(ctx, AllItemsKey(), id)
		return nil
	})
	if err != nil {
		return remote.Unavailable("delete item", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("delete item %s: %w", id, remote.ErrNotFound)
	}

	return nil
}

// batchEntry is one pre-marshaled batch operation.
type batchEntry struct {
	id     string
	data   []byte
	delete bool
}

// BatchWrite applies the operations in chunks. Each chunk runs as one
// MULTI/EXEC pipeline, so it lands atomically; chunks after a failed
// one are not attempted. Creates and updates are upserts here, batch
// callers reconcile existence themselves.
func (c *Collection) BatchWrite(ctx context.Context, ops []remote.Op) error {
	for n, chunk := range remote.ChunkOps(ops, c.chunk) {
		// Marshal everything up front so encoding problems never abort
		// a half-applied pipeline.
		entries := make([]batchEntry, 0, len(chunk))
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
				entries = append(entries, batchEntry{id: item.ID, data: data})
			case remote.OpDelete:
				entries = append(entries, batchEntry{id: op.ID, delete: true})
			default:
				return fmt.Errorf("unknown batch op kind %q", op.Kind)
			}
		}

		_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, e := range entries {
				if e.delete {
					pipe.Del(ctx, ItemKey(e.id))
					pipe.SRem(ctx, AllItemsKey(), e.id)
					continue
				}
				pipe.Set(ctx, ItemKey(e.id), e.data, 0)
				pipe.SAdd(ctx, AllItemsKey(), e.id)
			}
			return nil
		})
		if err != nil {
			return remote.Unavailable(fmt.Sprintf("write batch chunk %d", n), err)
		}
	}

	return nil
}

// Ping reports whether Redis answers.
func (c *Collection) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return remote.Unavailable("ping redis", err)
	}
	return nil
}
