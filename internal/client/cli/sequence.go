package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/sequence"
)

// Sequence prints the longest run of consecutive numbers. The list may be
// passed as arguments (spaces around commas are fine) or typed at a prompt.
func (a *App) Sequence(ctx context.Context, args []string) error {
	text := strings.Join(args, "")
	if len(args) == 0 {
		var err error
		text, err = GetSimpleText(a.reader, "Numbers separated by commas", a.out)
		if err != nil {
			return err
		}
	}

	a.printf("Highest Sequence: %d contiguous numbers\n", sequence.LongestRun(text))
	return nil
}
