package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/config"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/services"
	"github.com/dmitrijs2005/gophprofile/internal/client/upload"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// profileService is the part of services.ProfileController the CLI drives.
type profileService interface {
	Load(ctx context.Context) error
	Edit() error
	Cancel() error
	Toggle() error
	SetField(f models.Field, value string) error
	Drop(files []upload.Source) ([]upload.Source, error)
	Submit(ctx context.Context) error
	Snapshot() services.Snapshot
}

type App struct {
	config   *config.Config
	profiles profileService
	log      logging.Logger
	reader   *bufio.Reader

	outMu       sync.Mutex
	out         io.Writer
	interactive bool
	progress    map[string]int

	closers []func() error
}

// NewApp opens the stores named in c and builds the profile controller.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	repos, err := client.InitDatabase(ctx, c.DatabaseDSN, c.ConnectTimeout)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store, err := client.InitBlobStore(ctx, c)
	if err != nil {
		logger.Error(ctx, "error initializing blob store", "error", err)
		_ = repos.Close()
		return nil, err
	}

	a := &App{
		config:      c,
		log:         logger,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: isTerminal(int(os.Stdin.Fd())),
		closers:     []func() error{repos.Close},
	}
	a.profiles = services.NewProfileController(c.ProfileKey, repos.Profiles, store,
		services.WithNamePrefix(c.ImagePrefix),
		services.WithLogger(logger),
		services.WithProgressObserver(a.printProgress),
	)

	return a, nil
}

// Run loads the profile and serves commands until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}()

	a.println("Profile CLI (type 'help' for commands)")
	_ = a.Reload(ctx)

	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// prompt is empty when stdin is not a terminal so piped sessions stay clean.
func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	return fmt.Sprintf("profile (%s)>", a.profiles.Snapshot().Mode)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// printProgress reports each upload at most once per 10% step and on every
// final state. It is called from upload goroutines.
func (a *App) printProgress(p upload.Progress) {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	if a.progress == nil {
		a.progress = make(map[string]int)
	}
	step := int(p.Percent()) / 10
	if last, seen := a.progress[p.Name]; seen && last == step && p.State == upload.StateRunning {
		return
	}
	a.progress[p.Name] = step
	if p.State != upload.StateRunning {
		delete(a.progress, p.Name)
	}

	fmt.Fprintf(a.out, "Upload %s is %.0f%% done (%s)\n", p.Name, p.Percent(), p.State)
}
