package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	syncx "github.com/McleanServices/MiageAppInscription-sub000/internal/client/sync"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
)

var resourceLabels = map[models.ResourceKind]string{
	models.ResourceProfile:       "Profil",
	models.ResourceDossierStatus: "Statut du dossier",
	models.ResourceFormProgress:  "Avancement du formulaire",
}

// Status shows the cached snapshot immediately, then refreshes and shows
// what changed. The cached view is never blanked by a failed refresh.
func (a *App) Status(ctx context.Context) error {
	a.showSnapshot(a.engine.Load(ctx))

	result := a.engine.Refresh(ctx)
	for _, kind := range models.ResourceKinds() {
		if err := result[kind]; err != nil {
			if errors.Is(err, common.ErrAuthRequired) {
				printlnFn("Connectez-vous pour actualiser", resourceLabels[kind])
				continue
			}
			printlnFn("Actualisation échouée pour", resourceLabels[kind]+":", err.Error(),
				"(données locales conservées)")
		}
	}
	return nil
}

// Refresh reconciles all three resources with the server, reporting each
// outcome independently.
func (a *App) Refresh(ctx context.Context) error {
	result := a.engine.Refresh(ctx)
	for _, kind := range models.ResourceKinds() {
		if err := result[kind]; err != nil {
			printlnFn(resourceLabels[kind]+":", "échec —", err.Error())
		} else {
			printlnFn(resourceLabels[kind]+":", "à jour")
		}
	}
	return nil
}

func (a *App) showSnapshot(snap syncx.Snapshot) {
	for _, kind := range models.ResourceKinds() {
		entry, ok := snap[kind]
		if !ok {
			printlnFn(resourceLabels[kind] + ": aucune donnée locale")
			continue
		}
		printlnFn(fmt.Sprintf("%s (au %s): %s",
			resourceLabels[kind],
			entry.FetchedAt.Local().Format("02/01/2006 15:04"),
			string(entry.Payload)))
	}
}

// refreshQuietly runs a background reconciliation; failures only reach the
// structured log, never the terminal.
func (a *App) refreshQuietly(ctx context.Context) {
	result := a.engine.Refresh(ctx)
	for kind, err := range result {
		if err != nil {
			a.log.Debug(ctx, "background refresh failed", "kind", kind, "error", err)
		}
	}
}
