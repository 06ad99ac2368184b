package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/services"
	"github.com/dmitrijs2005/gophprofile/internal/client/upload"
	"github.com/dmitrijs2005/gophprofile/internal/filex"
)

func (a *App) Show(ctx context.Context) error {
	s := a.profiles.Snapshot()

	if s.Mode == services.ModeViewing {
		a.println(formatProfile(s.Profile))
		return nil
	}

	a.printf("Draft (%s):\n%s\n", s.Mode, formatProfile(s.Draft))
	for _, f := range s.Pending {
		a.println("Queued:", f.Name())
	}
	a.printRejected(s.Rejected)
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	if err := a.profiles.Edit(); err != nil {
		a.reportError(err)
		return err
	}
	a.println("Editing. Use set and attach, then submit or cancel.")
	return nil
}

func (a *App) Toggle(ctx context.Context) error {
	if err := a.profiles.Toggle(); err != nil {
		a.reportError(err)
		return err
	}
	if a.profiles.Snapshot().Editing() {
		a.println("Editing. Use set and attach, then submit or cancel.")
	} else {
		a.println("Changes discarded.")
	}
	return nil
}

// Set takes the field name and, optionally, the value from args. Missing
// parts are asked for; the description is read as multiple lines.
func (a *App) Set(ctx context.Context, args []string) error {
	var err error
	if len(args) == 0 {
		args, err = GetList(a.reader, "Field (name, title, company, description, phone, country)", a.out)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
	}

	field, err := models.ParseField(args[0])
	if err != nil {
		a.reportError(err)
		return err
	}

	var value string
	switch {
	case len(args) > 1:
		value = strings.Join(args[1:], " ")
	case field == models.FieldDescription:
		value, err = GetMultiline(a.reader, "Description", a.out)
	default:
		value, err = GetSimpleText(a.reader, "New "+string(field), a.out)
	}
	if err != nil {
		return err
	}

	if err := a.profiles.SetField(field, value); err != nil {
		a.reportError(err)
		return err
	}
	return nil
}

// Attach queues local files for upload. Unreadable paths are reported and
// skipped; files of unsupported types are listed in a banner.
func (a *App) Attach(ctx context.Context, paths []string) error {
	var err error
	if len(paths) == 0 {
		paths, err = GetList(a.reader, "Image files (separated by spaces)", a.out)
		if err != nil {
			return err
		}
	}

	files := make([]upload.Source, 0, len(paths))
	for _, p := range paths {
		f, err := filex.OpenLocal(p)
		if err != nil {
			a.println("Cannot read", p+":", err)
			continue
		}
		files = append(files, f)
	}

	rejected, err := a.profiles.Drop(files)
	if err != nil {
		a.reportError(err)
		return err
	}

	if n := len(files) - len(rejected); n > 0 {
		a.printf("Queued %d image(s).\n", n)
	}
	a.printRejected(rejected)
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	if a.config != nil && a.config.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.SubmitTimeout)
		defer cancel()
	}

	if err := a.profiles.Submit(ctx); err != nil {
		a.reportError(err)
		return err
	}
	a.println("Profile saved.")
	return a.Show(ctx)
}

func (a *App) Cancel(ctx context.Context) error {
	if err := a.profiles.Cancel(); err != nil {
		a.reportError(err)
		return err
	}
	a.println("Changes discarded.")
	return nil
}

// Reload fetches the record again. A failed fetch is reported and the empty
// profile is shown.
func (a *App) Reload(ctx context.Context) error {
	err := a.profiles.Load(ctx)
	if err != nil {
		a.reportError(err)
		if !errors.Is(err, services.ErrFetchFailed) {
			return err
		}
	}
	_ = a.Show(ctx)
	return err
}

func (a *App) printRejected(rejected []upload.Source) {
	for _, f := range rejected {
		a.println(services.RejectionMessage(f))
	}
}

func (a *App) reportError(err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		a.println("Please fix the following and submit again:")
		for _, p := range verr.Problems {
			a.println("  -", p)
		}
	case errors.Is(err, services.ErrBusy):
		a.println("Please wait, the profile is busy.")
	case errors.Is(err, services.ErrNotEditing):
		a.println("Not editing. Type 'edit' first.")
	case errors.Is(err, services.ErrAlreadyEditing):
		a.println("Already editing. Submit or cancel first.")
	case errors.Is(err, services.ErrFetchFailed):
		a.println("Could not load the profile, showing an empty one:", err)
	default:
		a.println("Error:", err)
	}
}

func formatProfile(p models.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name:        %s\n", p.Name)
	fmt.Fprintf(&b, "Title:       %s\n", p.Title)
	fmt.Fprintf(&b, "Company:     %s\n", p.Company)
	fmt.Fprintf(&b, "Description: %s\n", strings.ReplaceAll(p.Description, "\n", "\n             "))
	fmt.Fprintf(&b, "Phone:       %s\n", formatPhone(p.CountryCode, p.Phone))

	avatar := p.Avatar()
	if avatar == "" {
		avatar = "(none)"
	}
	fmt.Fprintf(&b, "Avatar:      %s", avatar)

	if len(p.ImageURLs) > 1 {
		b.WriteString("\nImages:")
		for _, u := range p.ImageURLs {
			fmt.Fprintf(&b, "\n  %s", u)
		}
	}
	return b.String()
}

func formatPhone(countryCode, phone string) string {
	cc := strings.TrimPrefix(countryCode, "+")
	switch {
	case cc == "":
		return phone
	case phone == "":
		return "+" + cc
	default:
		return "+" + cc + " " + phone
	}
}
