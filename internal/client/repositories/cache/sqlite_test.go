package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"profile", "dossier_status", "form_progress"} {
		_, err = db.Exec(`
CREATE TABLE ` + table + ` (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  json_payload BLOB NOT NULL,
  iso_timestamp TEXT NOT NULL
);
`)
		require.NoError(t, err)
	}

	return db
}

func TestGet_MissingRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), models.ResourceProfile)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpsert_InsertAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	fetchedAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	entry := models.CacheEntry{
		Payload:   json.RawMessage(`{"nom":"Durand"}`),
		FetchedAt: fetchedAt,
	}
	require.NoError(t, r.Upsert(ctx, models.ResourceProfile, entry))

	got, err := r.Get(ctx, models.ResourceProfile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nom":"Durand"}`, string(got.Payload))
	assert.True(t, got.FetchedAt.Equal(fetchedAt))
}

func TestUpsert_UpdatesInPlace(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, models.ResourceDossierStatus,
		models.CacheEntry{Payload: json.RawMessage(`{"statut":"incomplet"}`), FetchedAt: t0}))
	require.NoError(t, r.Upsert(ctx, models.ResourceDossierStatus,
		models.CacheEntry{Payload: json.RawMessage(`{"statut":"valide"}`), FetchedAt: t0.Add(time.Minute)}))

	got, err := r.Get(ctx, models.ResourceDossierStatus)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statut":"valide"}`, string(got.Payload))
	assert.True(t, got.FetchedAt.After(t0))

	// still a single row
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM dossier_status`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpsert_DiscardsOlderTimestamp(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	fresh := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, models.ResourceFormProgress,
		models.CacheEntry{Payload: json.RawMessage(`{"etape":5}`), FetchedAt: fresh}))

	// A write from a superseded refresh arrives late with an older timestamp.
	require.NoError(t, r.Upsert(ctx, models.ResourceFormProgress,
		models.CacheEntry{Payload: json.RawMessage(`{"etape":3}`), FetchedAt: fresh.Add(-time.Hour)}))

	got, err := r.Get(ctx, models.ResourceFormProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"etape":5}`, string(got.Payload))
	assert.True(t, got.FetchedAt.Equal(fresh))
}

func TestGet_CorruptTimestampIsAMiss(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := db.Exec(`INSERT INTO profile (id, json_payload, iso_timestamp) VALUES (1, '{}', 'garbage')`)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), models.ResourceProfile)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGet_UnknownKind(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), models.ResourceKind("bogus"))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, kind := range models.ResourceKinds() {
		require.NoError(t, r.Upsert(ctx, kind,
			models.CacheEntry{Payload: json.RawMessage(`{}`), FetchedAt: now}))
	}

	require.NoError(t, r.Clear(ctx))

	for _, kind := range models.ResourceKinds() {
		_, err := r.Get(ctx, kind)
		assert.ErrorIs(t, err, common.ErrNotFound)
	}
}
