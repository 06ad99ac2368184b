package client

import (
	"context"

	"github.com/dmitrijs2005/gophprofile/internal/client/blobstore"
	"github.com/dmitrijs2005/gophprofile/internal/client/config"
)

var newS3Store = blobstore.NewS3Store

// InitBlobStore builds the image store from the S3 settings in cfg.
func InitBlobStore(ctx context.Context, cfg *config.Config) (*blobstore.S3Store, error) {
	return newS3Store(ctx, blobstore.Config{
		Region:     cfg.S3Region,
		AccessKey:  cfg.S3RootUser,
		SecretKey:  cfg.S3RootPassword,
		Endpoint:   cfg.S3BaseEndpoint,
		Bucket:     cfg.S3Bucket,
		PublicURL:  cfg.S3PublicURL,
		PresignTTL: cfg.PresignTTL,
	})
}
