package cli

import (
	"bufio"
	"context"
	"os"
)

func (a *App) getStatus() string {
	if a.email != "" {
		return "(" + a.email + ")"
	}
	return ""
}

// Run shows the locally cached snapshot first (the terminal never waits on
// the network to display something), then enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Bienvenue sur l'application d'inscription MIAGE (tapez 'help')")
	a.showSnapshot(a.engine.Load(ctx))

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
