package policies

import (
	"context"
	"io"
)

// PhotoUploader stores binary content and returns its public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
