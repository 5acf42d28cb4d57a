package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/filex"
)

// PathSource supplies the path of the file to upload for a slot, e.g. by
// prompting the user. Returning an empty path means the selection was
// cancelled.
type PathSource func(ctx context.Context, slot models.Slot) (string, error)

// LocalPicker is the CLI's stand-in for a platform file chooser: it resolves
// a user-supplied path into a PickedFile with name, MIME type and size.
type LocalPicker struct {
	source PathSource
}

func NewLocalPicker(source PathSource) *LocalPicker {
	return &LocalPicker{source: source}
}

func (p *LocalPicker) Pick(ctx context.Context, slot models.Slot) (*models.PickedFile, error) {
	path, err := p.source(ctx, slot)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, common.ErrPickCancelled
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mimeType, err := filex.DetectMimeType(path)
	if err != nil {
		return nil, err
	}

	return &models.PickedFile{
		URI:       path,
		Name:      filepath.Base(path),
		MimeType:  mimeType,
		SizeBytes: fi.Size(),
	}, nil
}
