// Package sync implements the local-first reconciliation of the three remote
// resources (profile, dossier status, form progress). Cached snapshots are
// served eagerly on load; refreshes run concurrently per resource and settle
// independently, so one failed fetch never disturbs the other rows.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/repositories/cache"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/logging"
)

// ErrSuperseded marks a refresh whose result arrived after a newer refresh
// started. Its payload is discarded; the row keeps whatever the newer
// generation writes.
var ErrSuperseded = errors.New("refresh superseded by a newer one")

// ResourceFetcher fetches the server payload for one resource kind.
// *api.Client satisfies it.
type ResourceFetcher interface {
	FetchResource(ctx context.Context, kind models.ResourceKind) (json.RawMessage, error)
}

// Snapshot is the local view of all cached resources. Kinds that have never
// been fetched are absent.
type Snapshot map[models.ResourceKind]models.CacheEntry

// RefreshResult records the outcome of one refresh per resource kind; a nil
// error means the row was overwritten with fresh data.
type RefreshResult map[models.ResourceKind]error

// Subscriber is notified with the fresh entry each time a resource's row is
// overwritten.
type Subscriber func(kind models.ResourceKind, entry models.CacheEntry)

type Engine struct {
	fetcher ResourceFetcher
	repo    cache.Repository
	log     logging.Logger

	// gen tags each refresh; writes from superseded generations are dropped.
	gen atomic.Int64

	// refreshMu serializes refreshes so concurrent calls cannot interleave
	// partial writes to the same row.
	refreshMu sync.Mutex

	subMu sync.RWMutex
	subs  []Subscriber
}

func NewEngine(fetcher ResourceFetcher, repo cache.Repository, log logging.Logger) *Engine {
	return &Engine{fetcher: fetcher, repo: repo, log: log}
}

// Subscribe registers fn for change notifications. Subscribers are invoked
// synchronously from the refreshing goroutine and should return quickly.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *Engine) notify(kind models.ResourceKind, entry models.CacheEntry) {
	e.subMu.RLock()
	subs := e.subs
	e.subMu.RUnlock()
	for _, fn := range subs {
		fn(kind, entry)
	}
}

// Load reads all cached rows eagerly, before any network traffic, so callers
// always have something to show. A missing or unreadable row is simply
// absent from the snapshot; a corrupt store is a cache miss, never fatal.
func (e *Engine) Load(ctx context.Context) Snapshot {
	snap := make(Snapshot, len(models.ResourceKinds()))
	for _, kind := range models.ResourceKinds() {
		entry, err := e.repo.Get(ctx, kind)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				e.log.Warn(ctx, "cache row unreadable, treating as miss", "kind", kind, "error", err)
			}
			continue
		}
		snap[kind] = *entry
	}
	return snap
}

// Refresh fetches all three resources concurrently and applies each outcome
// independently: a success overwrites that resource's row and notifies
// subscribers, a failure leaves the stale-but-valid entry untouched. Safe to
// call while a previous refresh is in flight; the newer call supersedes it
// and the older generation's late results are discarded.
func (e *Engine) Refresh(ctx context.Context) RefreshResult {
	gen := e.gen.Add(1)

	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	var mu sync.Mutex
	result := make(RefreshResult, len(models.ResourceKinds()))

	g := new(errgroup.Group)
	for _, kind := range models.ResourceKinds() {
		g.Go(func() error {
			err := e.refreshOne(ctx, gen, kind)
			mu.Lock()
			result[kind] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (e *Engine) refreshOne(ctx context.Context, gen int64, kind models.ResourceKind) error {
	payload, err := e.fetcher.FetchResource(ctx, kind)
	if err != nil {
		e.log.Warn(ctx, "resource refresh failed, keeping cached entry", "kind", kind, "error", err)
		return err
	}

	if e.gen.Load() != gen {
		e.log.Debug(ctx, "discarding superseded refresh result", "kind", kind, "generation", gen)
		return ErrSuperseded
	}

	entry := models.CacheEntry{Payload: payload, FetchedAt: time.Now().UTC()}
	if err := e.repo.Upsert(ctx, kind, entry); err != nil {
		e.log.Error(ctx, "cache write failed", "kind", kind, "error", err)
		return err
	}

	e.notify(kind, entry)
	return nil
}
