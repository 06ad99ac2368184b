// Package services contains the client-side workflow that edits the profile
// record and publishes its images.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/upload"
	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/google/uuid"
)

// ProfileRepository is the document store the controller reads from and
// writes to.
type ProfileRepository interface {
	Get(ctx context.Context, key string) (*models.Profile, error)
	Replace(ctx context.Context, key string, p *models.Profile) error
}

type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
	ModeSubmitting
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	case ModeSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Snapshot is a copy of the controller state. Modifying it has no effect on
// the controller.
type Snapshot struct {
	Mode     Mode
	Loading  bool
	Profile  models.Profile
	Draft    models.Profile
	Pending  []upload.Source
	Rejected []upload.Source
}

func (s Snapshot) Busy() bool        { return s.Mode == ModeSubmitting || s.Loading }
func (s Snapshot) Editing() bool     { return s.Mode == ModeEditing }
func (s Snapshot) HasPending() bool  { return len(s.Pending) > 0 }
func (s Snapshot) HasRejected() bool { return len(s.Rejected) > 0 }

type Option func(*ProfileController)

// WithIDGenerator replaces the unique suffix generator used for blob names.
func WithIDGenerator(fn func() string) Option {
	return func(c *ProfileController) { c.newID = fn }
}

// WithNamePrefix sets the prefix every blob name starts with.
func WithNamePrefix(prefix string) Option {
	return func(c *ProfileController) { c.prefix = prefix }
}

// WithProgressObserver receives every upload progress event. It is called
// from upload goroutines.
func WithProgressObserver(fn func(upload.Progress)) Option {
	return func(c *ProfileController) { c.observe = fn }
}

// WithListener is called with a fresh snapshot after every state change.
func WithListener(fn func(Snapshot)) Option {
	return func(c *ProfileController) { c.listener = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *ProfileController) { c.log = l }
}

// ProfileController owns the view/edit/submit state of one profile record.
//
// Mutating calls are rejected with ErrBusy while a fetch or a submit is
// outstanding, so a draft can never change under an in-flight upload or write.
// The lock is never held across repository or upload calls.
type ProfileController struct {
	key      string
	repo     ProfileRepository
	uploader upload.Uploader

	log      logging.Logger
	newID    func() string
	prefix   string
	observe  func(upload.Progress)
	listener func(Snapshot)

	mu       sync.Mutex
	mode     Mode
	loading  bool
	profile  models.Profile
	draft    models.Profile
	pending  []upload.Source
	rejected []upload.Source
}

func NewProfileController(key string, repo ProfileRepository, uploader upload.Uploader, opts ...Option) *ProfileController {
	c := &ProfileController{
		key:      key,
		repo:     repo,
		uploader: uploader,
		log:      logging.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("profile_key", key)
	return c
}

func (c *ProfileController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ProfileController) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:     c.mode,
		Loading:  c.loading,
		Profile:  c.profile.Clone(),
		Draft:    c.draft.Clone(),
		Pending:  slices.Clone(c.pending),
		Rejected: slices.Clone(c.rejected),
	}
}

func (c *ProfileController) notify(s Snapshot) {
	if c.listener != nil {
		c.listener(s)
	}
}

// unlockAndNotify releases the lock and reports the state captured under it.
func (c *ProfileController) unlockAndNotify() {
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(s)
}

// Load reads the record. A missing record is not an error: the profile stays
// empty. Any other failure also leaves an empty profile and is returned
// wrapped in ErrFetchFailed. Load is only allowed while viewing; other
// mutating calls get ErrBusy until the fetch returns.
func (c *ProfileController) Load(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireMode(ModeViewing); err != nil {
		c.mu.Unlock()
		return err
	}
	c.loading = true
	c.unlockAndNotify()

	p, err := c.repo.Get(ctx, c.key)

	c.mu.Lock()
	c.loading = false
	switch {
	case err == nil && p != nil:
		c.profile = p.Clone()
	case err == nil:
		c.profile = models.Profile{}
	case errors.Is(err, common.ErrorNotFound):
		c.log.Debug(ctx, "profile not found, starting empty")
		c.profile = models.Profile{}
		err = nil
	default:
		c.log.Warn(ctx, "fetch profile failed", "error", err)
		c.profile = models.Profile{}
		err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	c.unlockAndNotify()
	return err
}

// Edit copies the persisted record into a fresh draft.
func (c *ProfileController) Edit() error {
	c.mu.Lock()
	if err := c.requireMode(ModeViewing); err != nil {
		c.mu.Unlock()
		return err
	}
	c.draft = c.profile.Clone()
	c.pending = nil
	c.rejected = nil
	c.mode = ModeEditing
	c.unlockAndNotify()
	return nil
}

// Cancel discards the draft and queued files without persisting anything.
func (c *ProfileController) Cancel() error {
	c.mu.Lock()
	if err := c.requireMode(ModeEditing); err != nil {
		c.mu.Unlock()
		return err
	}
	c.resetSessionLocked()
	c.unlockAndNotify()
	return nil
}

// Toggle switches between viewing and editing. Leaving edit mode this way
// discards the draft.
func (c *ProfileController) Toggle() error {
	switch c.Snapshot().Mode {
	case ModeViewing:
		return c.Edit()
	case ModeEditing:
		return c.Cancel()
	default:
		return ErrBusy
	}
}

// SetField changes one draft field. Values are validated on submit.
func (c *ProfileController) SetField(f models.Field, value string) error {
	c.mu.Lock()
	if err := c.requireMode(ModeEditing); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.draft.Set(f, value); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndNotify()
	return nil
}

// Drop queues the accepted files behind any already pending ones. The
// rejected files replace the previous rejection list and are returned.
func (c *ProfileController) Drop(files []upload.Source) ([]upload.Source, error) {
	c.mu.Lock()
	if err := c.requireMode(ModeEditing); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	accepted, rejected := PartitionFiles(files)
	c.pending = append(c.pending, accepted...)
	c.rejected = rejected
	c.unlockAndNotify()
	return slices.Clone(rejected), nil
}

// Submit validates the draft, uploads pending files concurrently and
// replaces the stored record with the draft. On success the controller
// returns to viewing. On any failure it returns to editing with the draft
// kept; a failed write also keeps the already uploaded image URLs in the
// draft so a retry does not upload again.
func (c *ProfileController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireMode(ModeEditing); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.draft.Validate(); err != nil {
		c.mu.Unlock()
		c.log.Info(ctx, "submit rejected", "error", err)
		return err
	}
	record := c.draft.Clone()
	pending := slices.Clone(c.pending)
	c.mode = ModeSubmitting
	c.unlockAndNotify()

	if len(pending) > 0 {
		urls, err := c.uploadAll(ctx, pending)
		if err != nil {
			c.log.Error(ctx, "upload failed", "files", len(pending), "error", err)
			c.returnToEditing(nil)
			return fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
		record.ImageURLs = urls
	}

	if err := c.repo.Replace(ctx, c.key, &record); err != nil {
		c.log.Error(ctx, "save profile failed", "error", err)
		var uploaded []string
		if len(pending) > 0 {
			uploaded = record.ImageURLs
		}
		c.returnToEditing(uploaded)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	c.mu.Lock()
	c.profile = record
	c.resetSessionLocked()
	c.log.Info(ctx, "profile saved", "images", len(record.ImageURLs))
	c.unlockAndNotify()
	return nil
}

func (c *ProfileController) uploadAll(ctx context.Context, files []upload.Source) ([]string, error) {
	jobs := make([]upload.Job, len(files))
	for i, f := range files {
		jobs[i] = upload.Job{
			Name:   c.prefix + f.Name() + "-" + c.newID(),
			Source: f,
		}
	}

	return upload.UploadAll(ctx, c.uploader, jobs, func(p upload.Progress) {
		c.log.Debug(ctx, "upload progress",
			"name", p.Name,
			"percent", fmt.Sprintf("%.0f", p.Percent()),
			"state", p.State)
		if c.observe != nil {
			c.observe(p)
		}
	})
}

// returnToEditing leaves the submitting state. Non-nil uploaded URLs are
// moved into the draft and the pending queue is cleared.
func (c *ProfileController) returnToEditing(uploaded []string) {
	c.mu.Lock()
	if uploaded != nil {
		c.draft.ImageURLs = slices.Clone(uploaded)
		c.pending = nil
	}
	c.mode = ModeEditing
	c.unlockAndNotify()
}

func (c *ProfileController) resetSessionLocked() {
	c.draft = models.Profile{}
	c.pending = nil
	c.rejected = nil
	c.mode = ModeViewing
}

func (c *ProfileController) requireMode(want Mode) error {
	if c.loading {
		return ErrBusy
	}
	if c.mode == want {
		return nil
	}
	switch {
	case c.mode == ModeSubmitting:
		return ErrBusy
	case want == ModeEditing:
		return ErrNotEditing
	default:
		return ErrAlreadyEditing
	}
}
