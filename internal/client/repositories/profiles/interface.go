// Package profiles is the document store for profile records. A record is
// addressed by a single key and is always read and written whole.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

type Repository interface {
	// Get returns the record stored under key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) (*models.Profile, error)
	// Replace overwrites the record under key, image list included.
	Replace(ctx context.Context, key string, p *models.Profile) error
}
