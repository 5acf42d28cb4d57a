// Package cache persists the last-known snapshot of each remote resource in
// the local SQLite store: one single-row table per resource kind.
package cache

import (
	"context"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
)

type Repository interface {
	// Get returns the cached entry for kind, or common.ErrNotFound when the
	// row has never been written.
	Get(ctx context.Context, kind models.ResourceKind) (*models.CacheEntry, error)

	// Upsert writes the entry for kind. An entry older than the stored one
	// is discarded: the row's timestamp is monotonically non-decreasing.
	Upsert(ctx context.Context, kind models.ResourceKind, entry models.CacheEntry) error

	// Clear wipes all cached rows (e.g. on logout of a different account).
	Clear(ctx context.Context) error
}
