package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Register(ctx context.Context) error
	Status(ctx context.Context) error
	Refresh(ctx context.Context) error
	Section(ctx context.Context, name string) error
	Docs(ctx context.Context) error
	Upload(ctx context.Context, slot models.Slot) error
	Retry(ctx context.Context, slot models.Slot) error
	Tasks(ctx context.Context) error
	Download(ctx context.Context, id, filename string) error
	Delete(ctx context.Context, id string) error
	Slots()
}

// runREPL starts a simple read–eval–print loop for the inscription CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("miage %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, refresh, section <nom>, docs, upload <type>, retry <type>, tasks, download <id> <fichier>, delete <id>, slots, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "section":
			if len(args) != 1 {
				printlnFn("Usage: section <personal-info|contact-info|academic-background|experiences>")
				continue
			}
			_ = a.Section(ctx, args[0])

		case "docs":
			_ = a.Docs(ctx)

		case "upload":
			if len(args) != 1 {
				printlnFn("Usage: upload <type de document>")
				a.Slots()
				continue
			}
			_ = a.Upload(ctx, models.Slot(args[0]))

		case "retry":
			if len(args) != 1 {
				printlnFn("Usage: retry <type de document>")
				continue
			}
			_ = a.Retry(ctx, models.Slot(args[0]))

		case "tasks":
			_ = a.Tasks(ctx)

		case "download":
			if len(args) != 2 {
				printlnFn("Usage: download <id> <nom de fichier>")
				continue
			}
			_ = a.Download(ctx, args[0], args[1])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "slots":
			a.Slots()

		case "exit", "quit":
			printlnFn("Au revoir !")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
