package cli

import (
	"context"
	"os"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
)

func (a *App) Upload(ctx context.Context, slot models.Slot) error {
	if _, ok := models.PolicyFor(slot); !ok {
		printlnFn("Type de document inconnu:", string(slot))
		a.Slots()
		return nil
	}

	// The server does not enforce one document per slot; warn, don't block.
	if existing := a.registry.ByType(slot); len(existing) > 0 {
		printlnFn("Attention: un document existe déjà pour ce type.")
	}

	commentaire, err := GetSimpleText(a.reader, "Commentaire (optionnel)", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.uploads.PickAndUpload(ctx, slot, commentaire)
	a.reportTask(task, err)
	return err
}

func (a *App) Retry(ctx context.Context, slot models.Slot) error {
	task, err := a.uploads.Retry(ctx, slot)
	a.reportTask(task, err)
	return err
}

func (a *App) reportTask(task models.UploadTask, err error) {
	switch task.State {
	case models.TaskSuccess:
		printlnFn(task.Message)
	case models.TaskFailed:
		printlnFn("Échec de l'envoi:", task.LastError)
		printlnFn("Utilisez 'retry " + string(task.Slot) + "' pour réessayer avec le même fichier.")
	case models.TaskIdle:
		if err == nil {
			printlnFn("Sélection annulée.")
		}
	}
}

// Tasks prints the upload state of every slot that has one.
func (a *App) Tasks(ctx context.Context) error {
	for _, slot := range models.Slots() {
		task := a.uploads.Task(slot)
		if task.State == models.TaskIdle {
			continue
		}
		line := string(slot) + ": " + string(task.State)
		if task.File != nil {
			line += " (" + task.File.Name + ")"
		}
		if task.LastError != "" {
			line += " — " + task.LastError
		}
		printlnFn(line)
	}
	return nil
}

// Slots prints the known document types.
func (a *App) Slots() {
	printlnFn("Types de documents:")
	for _, slot := range models.Slots() {
		printlnFn("  -", string(slot))
	}
}
