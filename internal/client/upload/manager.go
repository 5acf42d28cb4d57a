// Package upload implements the per-slot document upload pipeline:
// pick, validate against the slot policy, upload, and retry on failure.
// Each slot's task lives in its own map entry, so concurrent uploads into
// different slots never observe each other's state.
package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/logging"
)

// Picker is the platform file chooser. Pick returns the selected file, or
// common.ErrPickCancelled when the user aborts the selection.
type Picker interface {
	Pick(ctx context.Context, slot models.Slot) (*models.PickedFile, error)
}

// Uploader submits one picked file into a slot and returns the
// server-assigned document id. *api.Client satisfies it.
type Uploader interface {
	UploadDocument(ctx context.Context, file models.PickedFile, slot models.Slot, commentaire string) (int64, error)
}

// DocumentSink is told when a slot gained a confirmed document, so the
// registry refetches its list.
type DocumentSink interface {
	Invalidate()
}

type Manager struct {
	picker   Picker
	uploader Uploader
	sink     DocumentSink
	log      logging.Logger

	mu    sync.Mutex
	tasks map[models.Slot]*models.UploadTask
}

func NewManager(picker Picker, uploader Uploader, sink DocumentSink, log logging.Logger) *Manager {
	return &Manager{
		picker:   picker,
		uploader: uploader,
		sink:     sink,
		log:      log,
		tasks:    make(map[models.Slot]*models.UploadTask),
	}
}

// Task returns a snapshot of the slot's current task. Slots that never
// started an upload report an idle task.
func (m *Manager) Task(slot models.Slot) models.UploadTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[slot]; ok {
		return *t
	}
	return models.UploadTask{Slot: slot, State: models.TaskIdle}
}

// Reset abandons the slot's task and returns it to idle.
func (m *Manager) Reset(slot models.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, slot)
}

func (m *Manager) setState(slot models.Slot, mutate func(*models.UploadTask)) models.UploadTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[slot]
	if !ok {
		t = &models.UploadTask{Slot: slot, State: models.TaskIdle}
		m.tasks[slot] = t
	}
	mutate(t)
	return *t
}

// PickAndUpload runs the full pipeline for one slot: invoke the picker,
// validate the selection client-side against the slot policy (fail fast,
// before any network call), then upload. Cancellation of the picker returns
// the slot to idle with no side effects. On success the registry is
// invalidated so its next fetch reflects the new document.
func (m *Manager) PickAndUpload(ctx context.Context, slot models.Slot, commentaire string) (models.UploadTask, error) {
	policy, ok := models.PolicyFor(slot)
	if !ok {
		return models.UploadTask{}, fmt.Errorf("unknown document slot: %s", slot)
	}

	m.setState(slot, func(t *models.UploadTask) {
		t.State = models.TaskPicking
		t.Message = ""
		t.LastError = ""
	})

	file, err := m.picker.Pick(ctx, slot)
	if err != nil {
		if errors.Is(err, common.ErrPickCancelled) {
			m.Reset(slot)
			return models.UploadTask{Slot: slot, State: models.TaskIdle}, nil
		}
		task := m.setState(slot, func(t *models.UploadTask) {
			t.State = models.TaskFailed
			t.LastError = err.Error()
		})
		return task, err
	}

	m.setState(slot, func(t *models.UploadTask) {
		t.State = models.TaskValidating
		t.File = file
		t.Commentary = commentaire
	})

	if err := policy.Validate(*file); err != nil {
		task := m.setState(slot, func(t *models.UploadTask) {
			t.State = models.TaskFailed
			t.LastError = err.Error()
		})
		return task, err
	}

	return m.upload(ctx, slot)
}

// Retry resubmits the exact same file/slot pair of a failed task. The end
// state is observably identical to a first-time success; the server stays
// the authority on true idempotency.
func (m *Manager) Retry(ctx context.Context, slot models.Slot) (models.UploadTask, error) {
	m.mu.Lock()
	t, ok := m.tasks[slot]
	if !ok || t.State != models.TaskFailed || t.File == nil {
		m.mu.Unlock()
		return m.Task(slot), fmt.Errorf("no failed upload to retry for slot %s", slot)
	}
	m.mu.Unlock()

	return m.upload(ctx, slot)
}

func (m *Manager) upload(ctx context.Context, slot models.Slot) (models.UploadTask, error) {
	task := m.setState(slot, func(t *models.UploadTask) {
		t.State = models.TaskUploading
	})

	file := *task.File

	// Transient transport failures are retried with a short backoff before
	// the task is surfaced as failed. Server rejections are not retried.
	var id int64
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var uploadErr error
		id, uploadErr = m.uploader.UploadDocument(ctx, file, slot, task.Commentary)
		if uploadErr == nil {
			return nil
		}
		var srvErr *common.ServerError
		if errors.As(uploadErr, &srvErr) ||
			errors.Is(uploadErr, common.ErrAuthRequired) ||
			errors.Is(uploadErr, common.ErrSessionExpired) {
			return uploadErr
		}
		return retry.RetryableError(uploadErr)
	})

	if err != nil {
		m.log.Warn(ctx, "upload failed", "slot", slot, "file", file.Name, "error", err)
		failed := m.setState(slot, func(t *models.UploadTask) {
			t.State = models.TaskFailed
			t.LastError = err.Error()
		})
		return failed, err
	}

	success := m.setState(slot, func(t *models.UploadTask) {
		t.State = models.TaskSuccess
		t.LastError = ""
		t.Message = fmt.Sprintf("%s envoyé avec succès", file.Name)
	})

	if m.sink != nil {
		m.sink.Invalidate()
	}

	m.log.Info(ctx, "upload succeeded", "slot", slot, "file", file.Name, "id", id)
	return success, nil
}
