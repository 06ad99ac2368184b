package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/upload"
)

// AllowedContentTypes are the image types accepted for upload.
var AllowedContentTypes = map[string]bool{
	"image/gif":     true,
	"image/jpeg":    true,
	"image/png":     true,
	"image/svg+xml": true,
}

// IsAllowed reports whether the content type (parameters ignored) is an
// accepted image type.
func IsAllowed(contentType string) bool {
	ct, _, _ := strings.Cut(contentType, ";")
	return AllowedContentTypes[strings.ToLower(strings.TrimSpace(ct))]
}

// PartitionFiles splits files into accepted and rejected, keeping input order.
func PartitionFiles(files []upload.Source) (accepted, rejected []upload.Source) {
	for _, f := range files {
		if f == nil {
			continue
		}
		if IsAllowed(f.ContentType()) {
			accepted = append(accepted, f)
		} else {
			rejected = append(rejected, f)
		}
	}
	return accepted, rejected
}

// RejectionMessage is the banner line shown for an unsupported file.
func RejectionMessage(f upload.Source) string {
	return fmt.Sprintf("\"%s\" is not supported. File type must be .gif, .jpg, .png or .svg.", f.Name())
}
