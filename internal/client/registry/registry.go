// Package registry tracks the user's server-confirmed documents: listing,
// slot filtering, download to disk, and deletion. The in-memory list is a
// read-through cache invalidated after any mutating action.
package registry

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/filex"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/logging"
)

// APIClient is the backend surface the registry needs. *api.Client satisfies it.
type APIClient interface {
	ListDocuments(ctx context.Context) ([]models.StoredDocument, error)
	DownloadDocument(ctx context.Context, id int64, w io.Writer) error
	DeleteDocument(ctx context.Context, id int64) error
}

type Registry struct {
	api          APIClient
	downloadsDir string
	log          logging.Logger

	mu      sync.Mutex
	docs    []models.StoredDocument
	fetched bool
}

func New(api APIClient, downloadsDir string, log logging.Logger) *Registry {
	return &Registry{api: api, downloadsDir: downloadsDir, log: log}
}

// FetchDocuments refetches the full document list from the server and
// replaces the cached view.
func (r *Registry) FetchDocuments(ctx context.Context) ([]models.StoredDocument, error) {
	docs, err := r.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	r.mu.Lock()
	r.docs = docs
	r.fetched = true
	r.mu.Unlock()

	return docs, nil
}

// Documents returns the cached list, fetching once if no fetch happened yet.
func (r *Registry) Documents(ctx context.Context) ([]models.StoredDocument, error) {
	r.mu.Lock()
	if r.fetched {
		docs := r.docs
		r.mu.Unlock()
		return docs, nil
	}
	r.mu.Unlock()
	return r.FetchDocuments(ctx)
}

// ByType filters the last fetched list by slot. It is a pure filter: no
// network traffic.
func (r *Registry) ByType(slot models.Slot) []models.StoredDocument {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.StoredDocument
	for _, d := range r.docs {
		if d.Type == slot {
			out = append(out, d)
		}
	}
	return out
}

// Invalidate drops the cached list so the next read refetches. Called after
// any mutating action (upload, delete).
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.docs = nil
	r.fetched = false
	r.mu.Unlock()
}

// Download fetches a document's bytes and writes them under the downloads
// directory as filename. The destination path is returned.
func (r *Registry) Download(ctx context.Context, id int64, filename string) (string, error) {
	dir, err := filex.EnsureSubDir(r.downloadsDir)
	if err != nil {
		return "", err
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(r.api.DownloadDocument(ctx, id, pw))
	}()

	dst, err := filex.WriteFile(dir, filename, pr)
	if err != nil {
		return "", fmt.Errorf("save document %d: %w", id, err)
	}

	r.log.Info(ctx, "document downloaded", "id", id, "path", dst)
	return dst, nil
}

// Delete removes a document on the server and invalidates the cached list.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	if err := r.api.DeleteDocument(ctx, id); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}
