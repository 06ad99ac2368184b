package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Toggle(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Attach(ctx context.Context, paths []string) error
	Submit(ctx context.Context) error
	Cancel(ctx context.Context) error
	Reload(ctx context.Context) error
	Sequence(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  show                  show the profile (or the draft while editing)
  edit | toggle         start editing (toggle also leaves edit mode)
  set <field> [value]   change a draft field: name, title, company, description, phone, country
  attach <file...>      queue images for upload (.gif, .jpg, .png, .svg)
  submit                validate, upload images and save
  cancel                drop the draft and queued images
  reload                fetch the profile again
  sequence [list]       longest run of consecutive numbers in a comma-separated list
  exit | quit           leave the program`

// runREPL reads one command per line from reader and dispatches it to a.
// promptFn returns the prompt to print before each read; an empty prompt is
// not printed. The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		if p := promptFn(); p != "" {
			printlnFn(p)
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "show", "view":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "toggle":
			_ = a.Toggle(ctx)

		case "set":
			_ = a.Set(ctx, args)

		case "attach", "drop":
			_ = a.Attach(ctx, args)

		case "submit", "save":
			_ = a.Submit(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "reload":
			_ = a.Reload(ctx)

		case "sequence", "seq":
			_ = a.Sequence(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
