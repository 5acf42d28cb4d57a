package cli

import (
	"context"
	"os"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/api"
)

func (a *App) Register(ctx context.Context) error {
	nom, err := GetSimpleText(a.reader, "Nom", os.Stdout)
	if err != nil {
		return err
	}
	prenom, err := GetSimpleText(a.reader, "Prénom", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Adresse e-mail", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	captcha, err := GetSimpleText(a.reader, "Jeton captcha", os.Stdout)
	if err != nil {
		return err
	}

	reg := api.Registration{
		Nom:          nom,
		Prenom:       prenom,
		Email:        email,
		MotDePasse:   password,
		Role:         "candidat",
		Type:         "etudiant",
		CaptchaToken: captcha,
	}

	if err := a.api.SignUp(ctx, reg); err != nil {
		// E.g. "Email déjà utilisé" on 409. The user stays on this screen.
		printlnFn("Inscription échouée:", err.Error())
		return err
	}

	printlnFn("Compte créé. Vous pouvez maintenant vous connecter.")
	return nil
}
