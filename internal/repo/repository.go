// Package repo holds the authoritative in-memory calendar for the
// process and mediates every read and write around it.
//
// The remote collection bills by the read, so the repository is built
// to avoid remote reads: a full fetch happens only on a cold start
// with no usable snapshot, or on an explicit refresh. Mutations write
// remotely first, then update memory from what was sent, without ever
// reading back.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sidelinehq/courtside/internal/cache"
	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/remote"
)

// DefaultRemoteTimeout bounds every remote call made by the repository.
const DefaultRemoteTimeout = 15 * time.Second

// SyncSource says where the in-memory calendar last came from.
const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// PartialBatchError reports a bulk write that only partly landed: the
// chunks before the failure are durable, the rest never left.
type PartialBatchError struct {
	Succeeded int
	Failed    int
	Err       error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("batch write partially failed: %d written, %d not written: %v", e.Succeeded, e.Failed, e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }

// Stats is a point-in-time snapshot of repository state and read
// economy, surfaced by the status endpoint.
type Stats struct {
	Items         int       `json:"items"`
	RemoteFetches int64     `json:"remoteFetches"`
	CacheHits     int64     `json:"cacheHits"`
	LastSyncedAt  time.Time `json:"lastSyncedAt,omitzero"`
	SyncSource    string    `json:"syncSource,omitempty"`
}

// Options tunes a Repository. The zero value is fine.
type Options struct {
	// RemoteTimeout bounds each remote call. Default: DefaultRemoteTimeout.
	RemoteTimeout time.Duration
	// ChunkSize caps operations per batch chunk. Default: remote.DefaultChunkSize.
	ChunkSize int
	// Now is swapped by tests.
	Now func() time.Time
}

// Repository keeps the calendar in memory, synced write-through to the
// remote collection and snapshotted to the local cache.
//
// Reads are served from a published slice that is replaced wholesale
// on every mutation and never modified in place. Callers holding a
// slice from Items can therefore detect change by comparing slice
// identity, and must treat the contents as read-only.
type Repository struct {
	collection remote.Collection
	snapshots  *cache.Store
	saver      *cache.Saver
	log        logger.Logger
	timeout    time.Duration
	chunk      int
	now        func() time.Time

	mu        sync.RWMutex
	published []domain.CalendarItem
	byID      map[string]int // ID -> index into published
	syncedAt  time.Time
	source    string

	remoteFetches atomic.Int64
	cacheHits     atomic.Int64
}

func New(collection remote.Collection, snapshots *cache.Store, saver *cache.Saver, log logger.Logger, opts Options) *Repository {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = remote.DefaultChunkSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Repository{
		collection: collection,
		snapshots:  snapshots,
		saver:      saver,
		log:        log,
		timeout:    opts.RemoteTimeout,
		chunk:      opts.ChunkSize,
		now:        opts.Now,
		published:  []domain.CalendarItem{},
		byID:       map[string]int{},
	}
}

// ─────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────

// LoadAll populates memory. Without force, a fresh snapshot satisfies
// the load with zero remote calls; otherwise the whole collection is
// fetched once and the snapshot rewritten with a fresh timestamp.
//
// On remote failure the previous in-memory state stays exactly as it
// was, so a failed refresh never costs the squad their calendar.
func (r *Repository) LoadAll(ctx context.Context, force bool) error {
	if !force {
		// Push any pending debounced save out first, so the read below
		// never serves a snapshot older than the last published state.
		if err := r.saver.Flush(); err != nil {
			r.log.Warn("cache flush before load failed", logger.Error(err))
		}
		if items, age, ok := r.snapshots.Load(); ok {
			r.cacheHits.Add(1)
			r.replaceAll(items, SourceCache)
			r.log.Info("calendar loaded from cache",
				logger.Int("items", len(items)),
				logger.Duration("age", age))
			return nil
		}
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.collection.FetchAll(rctx)
	if err != nil {
		return fmt.Errorf("failed to load calendar: %w", err)
	}
	r.remoteFetches.Add(1)

	published := r.replaceAll(items, SourceRemote)
	r.scheduleSave(published)
	if err := r.saver.Flush(); err != nil {
		// Cache trouble never fails a load that the remote served.
		r.log.Warn("cache save after remote fetch failed", logger.Error(err))
	}

	r.log.Info("calendar loaded from remote collection",
		logger.Int("items", len(items)),
		logger.Bool("forced", force))
	return nil
}

// replaceAll swaps the whole published calendar.
func (r *Repository) replaceAll(items []domain.CalendarItem, source string) []domain.CalendarItem {
	next := domain.CloneItems(items)
	if next == nil {
		next = []domain.CalendarItem{}
	}
	sortItems(next)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishLocked(next)
	r.syncedAt = r.now()
	r.source = source
	return next
}

// publishLocked installs next as the published slice. Callers hold mu.
func (r *Repository) publishLocked(next []domain.CalendarItem) {
	r.published = next
	r.byID = make(map[string]int, len(next))
	for n := range next {
		r.byID[next[n].ID] = n
	}
}

// ─────────────────────────────────────────────────────────────────
// Reads (memory only, never remote)
// ─────────────────────────────────────────────────────────────────

// Items returns the published calendar, sorted by date then order.
// The slice is replaced, never mutated, on writes: compare identity to
// detect change, and do not modify the contents.
func (r *Repository) Items() []domain.CalendarItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.published
}

// ItemsOn returns the items of one calendar day, in order.
func (r *Repository) ItemsOn(date string) []domain.CalendarItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.CalendarItem, 0)
	for _, it := range r.published {
		if it.Date == date {
			items = append(items, it)
		}
	}
	return items
}

// Get returns the item with the given ID.
func (r *Repository) Get(id string) (domain.CalendarItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return domain.CalendarItem{}, false
	}
	return r.published[n], true
}

// Sponsored returns the sponsored entries in calendar order.
func (r *Repository) Sponsored() []domain.CalendarItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.SponsoredItems(r.published)
}

// Stats reports the read-economy counters.
func (r *Repository) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{
		Items:         len(r.published),
		RemoteFetches: r.remoteFetches.Load(),
		CacheHits:     r.cacheHits.Load(),
		LastSyncedAt:  r.syncedAt,
		SyncSource:    r.source,
	}
}

// ─────────────────────────────────────────────────────────────────
// Mutations (validate, write remote, then reflect in memory)
// ─────────────────────────────────────────────────────────────────

// Add validates and stores a new item. The remote collection assigns
// the ID when the item carries none. Memory is updated from what was
// written, not from a read-back.
func (r *Repository) Add(ctx context.Context, item domain.CalendarItem) (domain.CalendarItem, error) {
	item = item.Clone()
	r.applyDefaults(&item)
	if item.Order == 0 {
		item.Order = r.nextOrder(item.Date)
	}
	if err := item.Validate(); err != nil {
		return domain.CalendarItem{}, err
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	id, err := r.collection.Create(rctx, item)
	if err != nil {
		return domain.CalendarItem{}, err
	}
	item.ID = id

	if err := ctx.Err(); err != nil {
		// The write landed remotely, but the caller is gone. Leave
		// memory alone; the next refresh reconciles.
		return domain.CalendarItem{}, fmt.Errorf("caller gone before local apply: %w", err)
	}

	r.mu.Lock()
	next := cloneSlice(r.published)
	next = append(next, item)
	sortItems(next)
	r.publishLocked(next)
	r.mu.Unlock()

	r.scheduleSave(next)
	return item, nil
}

// Update validates and overwrites an existing item in full.
func (r *Repository) Update(ctx context.Context, id string, item domain.CalendarItem) (domain.CalendarItem, error) {
	current, ok := r.Get(id)
	if !ok {
		return domain.CalendarItem{}, fmt.Errorf("update item %s: %w", id, remote.ErrNotFound)
	}

	item = item.Clone()
	item.ID = id
	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = r.now()
	if item.Status == "" {
		item.Status = domain.StatusPlanned
	}
	normalizeObligations(item.Obligations)
	if err := item.Validate(); err != nil {
		return domain.CalendarItem{}, err
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.collection.Update(rctx, id, item); err != nil {
		return domain.CalendarItem{}, err
	}

	if err := ctx.Err(); err != nil {
		return domain.CalendarItem{}, fmt.Errorf("caller gone before local apply: %w", err)
	}

	r.mu.Lock()
	next := cloneSlice(r.published)
	if n, ok := r.byID[id]; ok {
		next[n] = item
	} else {
		// Deleted concurrently; the remote write resurrected it.
		next = append(next, item)
	}
	sortItems(next)
	r.publishLocked(next)
	r.mu.Unlock()

	r.scheduleSave(next)
	return item, nil
}

// Delete removes an item. Remote deletion is idempotent: an item that
// is already gone remotely still gets dropped from memory.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, ok := r.Get(id); !ok {
		return fmt.Errorf("delete item %s: %w", id, remote.ErrNotFound)
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.collection.Delete(rctx, id); err != nil && !errors.Is(err, remote.ErrNotFound) {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("caller gone before local apply: %w", err)
	}

	r.mu.Lock()
	next := make([]domain.CalendarItem, 0, len(r.published))
	for _, it := range r.published {
		if it.ID != id {
			next = append(next, it)
		}
	}
	r.publishLocked(next)
	r.mu.Unlock()

	r.scheduleSave(next)
	return nil
}

// Reorder rewrites the order of one day. orderedIDs must list exactly
// the items of that date; positions become orders 0..n-1. Only the
// items whose order actually changes are written, in one batch.
func (r *Repository) Reorder(ctx context.Context, date string, orderedIDs []string) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return &domain.ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
	}

	onDate := r.ItemsOn(date)
	if len(orderedIDs) != len(onDate) {
		return &domain.ValidationError{
			Field:  "order",
			Reason: fmt.Sprintf("expected %d ids for %s, got %d", len(onDate), date, len(orderedIDs)),
		}
	}
	byID := make(map[string]domain.CalendarItem, len(onDate))
	for _, it := range onDate {
		byID[it.ID] = it
	}

	now := r.now()
	changed := make([]domain.CalendarItem, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for pos, id := range orderedIDs {
		it, ok := byID[id]
		if !ok || seen[id] {
			return &domain.ValidationError{Field: "order", Reason: fmt.Sprintf("id %s is not an item of %s", id, date)}
		}
		seen[id] = true
		if it.Order == pos {
			continue
		}
		it = it.Clone()
		it.Order = pos
		it.UpdatedAt = now
		changed = append(changed, it)
	}

	if len(changed) == 0 {
		return nil
	}

	ops := make([]remote.Op, len(changed))
	for n, it := range changed {
		ops[n] = remote.Op{Kind: remote.OpUpdate, ID: it.ID, Item: it}
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.collection.BatchWrite(rctx, ops); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("caller gone before local apply: %w", err)
	}

	r.mu.Lock()
	next := cloneSlice(r.published)
	for _, it := range changed {
		if n, ok := r.byID[it.ID]; ok {
			next[n] = it
		}
	}
	sortItems(next)
	r.publishLocked(next)
	r.mu.Unlock()

	r.scheduleSave(next)
	return nil
}

// BulkImport validates and creates many items at once, chunked so the
// store never sees an oversized batch. Chunks are written in order;
// when one fails, everything before it is kept (remotely and in
// memory) and a *PartialBatchError reports the split. Returns the
// items that were written.
func (r *Repository) BulkImport(ctx context.Context, items []domain.CalendarItem) ([]domain.CalendarItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	prepared := make([]domain.CalendarItem, len(items))
	nextSlot := make(map[string]int)
	for n, item := range items {
		item = item.Clone()
		r.applyDefaults(&item)
		if item.ID == "" {
			// Pre-assigned so memory can be updated without reading back.
			item.ID = uuid.New().String()
		}
		if item.Order == 0 {
			// Same-day imports stack after each other, not on one slot.
			if _, seen := nextSlot[item.Date]; !seen {
				nextSlot[item.Date] = r.nextOrder(item.Date)
			}
			item.Order = nextSlot[item.Date]
			nextSlot[item.Date]++
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", n, err)
		}
		prepared[n] = item
	}

	ops := make([]remote.Op, len(prepared))
	for n, item := range prepared {
		ops[n] = remote.Op{Kind: remote.OpCreate, ID: item.ID, Item: item}
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	written := 0
	var batchErr error
	for _, chunk := range remote.ChunkOps(ops, r.chunk) {
		if err := r.collection.BatchWrite(rctx, chunk); err != nil {
			batchErr = err
			break
		}
		written += len(chunk)
	}

	imported := prepared[:written]
	if written > 0 {
		if ctx.Err() == nil {
			r.mu.Lock()
			next := cloneSlice(r.published)
			next = append(next, domain.CloneItems(imported)...)
			sortItems(next)
			r.publishLocked(next)
			r.mu.Unlock()
			r.scheduleSave(next)
		}
	}

	if batchErr != nil {
		if written == 0 {
			return nil, batchErr
		}
		return imported, &PartialBatchError{
			Succeeded: written,
			Failed:    len(prepared) - written,
			Err:       batchErr,
		}
	}
	return imported, nil
}

// ─────────────────────────────────────────────────────────────────
// Obligation edits
// ─────────────────────────────────────────────────────────────────

// mutateObligations applies fn to a copy of the item's obligations and
// stores the result through the usual write-then-reflect path.
func (r *Repository) mutateObligations(ctx context.Context, id string, fn func(map[string]domain.Obligation) (map[string]domain.Obligation, error)) (domain.CalendarItem, error) {
	current, ok := r.Get(id)
	if !ok {
		return domain.CalendarItem{}, fmt.Errorf("edit obligations of %s: %w", id, remote.ErrNotFound)
	}

	obs, err := fn(current.Obligations)
	if err != nil {
		return domain.CalendarItem{}, err
	}

	next := current.Clone()
	next.Obligations = obs
	return r.Update(ctx, id, next)
}

// SetObligation adds or replaces a deliverable kind on an item.
func (r *Repository) SetObligation(ctx context.Context, id, kind string, required int) (domain.CalendarItem, error) {
	return r.mutateObligations(ctx, id, func(obs map[string]domain.Obligation) (map[string]domain.Obligation, error) {
		return domain.SetObligation(obs, kind, required)
	})
}

// DeleteObligation removes a deliverable kind from an item.
func (r *Repository) DeleteObligation(ctx context.Context, id, kind string) (domain.CalendarItem, error) {
	return r.mutateObligations(ctx, id, func(obs map[string]domain.Obligation) (map[string]domain.Obligation, error) {
		return domain.DeleteObligation(obs, kind)
	})
}

// AddPost records a delivered post under an obligation.
func (r *Repository) AddPost(ctx context.Context, id, kind, url string) (domain.CalendarItem, error) {
	return r.mutateObligations(ctx, id, func(obs map[string]domain.Obligation) (map[string]domain.Obligation, error) {
		return domain.AddPost(obs, kind, url, r.now())
	})
}

// AddPostURL attaches another platform URL to a recorded post.
func (r *Repository) AddPostURL(ctx context.Context, id, kind, postID, url string) (domain.CalendarItem, error) {
	return r.mutateObligations(ctx, id, func(obs map[string]domain.Obligation) (map[string]domain.Obligation, error) {
		return domain.AddPostURL(obs, kind, postID, url, r.now())
	})
}

// DeletePostURL removes a URL occurrence from a recorded post.
func (r *Repository) DeletePostURL(ctx context.Context, id, kind, postID, url string) (domain.CalendarItem, error) {
	return r.mutateObligations(ctx, id, func(obs map[string]domain.Obligation) (map[string]domain.Obligation, error) {
		return domain.DeletePostURL(obs, kind, postID, url)
	})
}

// ─────────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────────

// applyDefaults fills what a new item may omit. Order stays untouched
// here: Add and BulkImport slot it differently.
func (r *Repository) applyDefaults(item *domain.CalendarItem) {
	now := r.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = domain.StatusPlanned
	}
	normalizeObligations(item.Obligations)
}

// nextOrder slots a new item after everything already on its day.
func (r *Repository) nextOrder(date string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	next := 0
	for _, it := range r.published {
		if it.Date == date && it.Order >= next {
			next = it.Order + 1
		}
	}
	return next
}

func (r *Repository) scheduleSave(published []domain.CalendarItem) {
	r.saver.Schedule(published)
}

func normalizeObligations(obs map[string]domain.Obligation) {
	for kind, o := range obs {
		for n := range o.Posts {
			o.Posts[n] = domain.NormalizePost(o.Posts[n])
		}
		obs[kind] = o
	}
}

// sortItems orders the calendar by day, then in-day order, then ID so
// ties are stable across processes.
func sortItems(items []domain.CalendarItem) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Date != items[b].Date {
			return items[a].Date < items[b].Date
		}
		if items[a].Order != items[b].Order {
			return items[a].Order < items[b].Order
		}
		return items[a].ID < items[b].ID
	})
}

func cloneSlice(items []domain.CalendarItem) []domain.CalendarItem {
	next := make([]domain.CalendarItem, len(items))
	copy(next, items)
	return next
}
