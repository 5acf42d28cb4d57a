// Package cli implements the interactive command-line surface of the
// inscription client. The screens of the mobile app are out of scope; the
// REPL is the thin UI collaborator that drives the document and sync core.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	_ "modernc.org/sqlite"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/api"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/config"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/registry"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/repositories/cache"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/session"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/store"
	syncx "github.com/McleanServices/MiageAppInscription-sub000/internal/client/sync"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/upload"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/logging"
)

// App wires the client components together. The session is constructed once
// and handed to every dependent explicitly; nothing reaches it through
// package-level state.
type App struct {
	config   *config.Config
	log      logging.Logger
	reader   *bufio.Reader
	db       *sql.DB
	session  *session.Session
	api      *api.Client
	uploads  *upload.Manager
	registry *registry.Registry
	engine   *syncx.Engine
	email    string
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sess := session.New(cfg.APIBaseURL, cfg.RequestTimeout, log)
	apiClient := api.New(sess, log)
	reg := registry.New(apiClient, cfg.DownloadsDir, log)
	engine := syncx.NewEngine(apiClient, cache.NewSQLiteRepository(db), log)

	app := &App{
		config:   cfg,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		db:       db,
		session:  sess,
		api:      apiClient,
		registry: reg,
		engine:   engine,
	}
	app.uploads = upload.NewManager(upload.NewLocalPicker(app.promptPath), apiClient, reg, log)

	// Background refreshes settle silently; the structured log is the only
	// place their landing is visible.
	engine.Subscribe(func(kind models.ResourceKind, entry models.CacheEntry) {
		log.Debug(ctx, "resource settled", "kind", kind, "fetched_at", entry.FetchedAt)
	})

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

// promptPath asks the user for the file to put into a slot. An empty line
// cancels the selection.
func (a *App) promptPath(ctx context.Context, slot models.Slot) (string, error) {
	return GetSimpleText(a.reader,
		"Chemin du fichier pour \""+string(slot)+"\" (ligne vide pour annuler)", os.Stdout)
}

func (a *App) Close() error {
	return a.db.Close()
}
