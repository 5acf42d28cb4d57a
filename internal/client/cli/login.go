package cli

import (
	"context"
	"os"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/repositories/cache"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/dbx"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Adresse e-mail", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.SignIn(ctx, email, password); err != nil {
		// The server's own message (e.g. "Mot de passe incorrect") is shown
		// as-is; the session stays unset.
		printlnFn("Connexion échouée:", err.Error())
		return err
	}

	a.email = email
	printlnFn("Connexion réussie")

	// Local-first: show whatever the cache holds right away, then reconcile
	// with the server in the background.
	a.showSnapshot(a.engine.Load(ctx))
	go a.refreshQuietly(context.WithoutCancel(ctx))

	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut()
	a.email = ""
	a.registry.Invalidate()

	// Wipe the cached snapshot in one transaction so a later sign-in with a
	// different account never sees this user's data.
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return cache.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		a.log.Warn(ctx, "error clearing local cache", "error", err)
	}

	printlnFn("Déconnecté")
	return nil
}
