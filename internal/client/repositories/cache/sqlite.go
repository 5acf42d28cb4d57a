package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/dbx"
)

// isoLayout is a fixed-width UTC layout so stored timestamps compare
// correctly both in Go and lexicographically in SQL.
const isoLayout = "2006-01-02T15:04:05.000Z"

// kindTables whitelists the table backing each resource kind. Table names
// are never interpolated from caller input.
var kindTables = map[models.ResourceKind]string{
	models.ResourceProfile:       "profile",
	models.ResourceDossierStatus: "dossier_status",
	models.ResourceFormProgress:  "form_progress",
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func tableFor(kind models.ResourceKind) (string, error) {
	t, ok := kindTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown resource kind: %s", kind)
	}
	return t, nil
}

// Get reads the single row of kind's table. A missing row yields
// common.ErrNotFound; an unparseable timestamp is reported the same way so
// a corrupt store degrades to a cache miss for the caller.
func (r *SQLiteRepository) Get(ctx context.Context, kind models.ResourceKind) (*models.CacheEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT json_payload, iso_timestamp FROM %s WHERE id = 1`, table)

	var payload []byte
	var ts string
	if err := r.db.QueryRowContext(ctx, query).Scan(&payload, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s cache row: %w", kind, err)
	}

	fetchedAt, err := time.Parse(isoLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("corrupt %s cache timestamp %q: %w", kind, ts, common.ErrNotFound)
	}

	return &models.CacheEntry{Payload: payload, FetchedAt: fetchedAt}, nil
}

// Upsert writes kind's row in place. The conflict clause only applies the
// update when the incoming timestamp is not older than the stored one, so a
// late write from a superseded refresh can never roll the row back.
func (r *SQLiteRepository) Upsert(ctx context.Context, kind models.ResourceKind, entry models.CacheEntry) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, json_payload, iso_timestamp)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			json_payload = excluded.json_payload,
			iso_timestamp = excluded.iso_timestamp
		WHERE excluded.iso_timestamp >= %s.iso_timestamp
	`, table, table)

	_, err = r.db.ExecContext(ctx, query, []byte(entry.Payload), entry.FetchedAt.UTC().Format(isoLayout))
	if err != nil {
		return fmt.Errorf("failed to upsert %s cache row: %w", kind, err)
	}
	return nil
}

// Clear wipes all three cache tables.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	for kind, table := range kindTables {
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("failed to clear %s cache: %w", kind, err)
		}
	}
	return nil
}
