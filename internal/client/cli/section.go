package cli

import "context"

// Section fetches one dossier section directly from the server and prints
// its raw JSON. Unlike the three synced resources, sections are not cached
// locally.
func (a *App) Section(ctx context.Context, name string) error {
	payload, err := a.api.FetchSection(ctx, name)
	if err != nil {
		printlnFn("Erreur:", err.Error())
		return err
	}
	printlnFn(string(payload))
	return nil
}
