package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) Docs(ctx context.Context) error {
	docs, err := a.registry.FetchDocuments(ctx)
	if err != nil {
		printlnFn("Erreur:", err.Error())
		return err
	}

	if len(docs) == 0 {
		printlnFn("Aucun document envoyé.")
		return nil
	}

	for _, d := range docs {
		line := fmt.Sprintf("#%d  %-18s  %s  (%s)",
			d.ID, d.Type, d.FileName, d.CreatedAt.Format("02/01/2006 15:04"))
		if d.Commentary != "" {
			line += "  — " + d.Commentary
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) Download(ctx context.Context, idArg, filename string) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		printlnFn("Identifiant invalide:", idArg)
		return err
	}

	path, err := a.registry.Download(ctx, id, filename)
	if err != nil {
		printlnFn("Erreur:", err.Error())
		return err
	}

	printlnFn("Document enregistré:", path)
	return nil
}

func (a *App) Delete(ctx context.Context, idArg string) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		printlnFn("Identifiant invalide:", idArg)
		return err
	}

	if err := a.registry.Delete(ctx, id); err != nil {
		printlnFn("Erreur:", err.Error())
		return err
	}

	printlnFn("Document supprimé.")
	// The cached list was invalidated; refetch so the next ByType is accurate.
	_, err = a.registry.FetchDocuments(ctx)
	return err
}
