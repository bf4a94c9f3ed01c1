// Package source resolves image references for the CLI insert command. A
// reference is either a plain filesystem path or an s3://bucket/key URL.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/hoperedemption/imgfs/internal/config"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// Source fetches raw image bytes by key.
type Source interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

const s3Scheme = "s3://"

// Fetch resolves ref through the matching driver and returns the image
// bytes.
func Fetch(ctx context.Context, cfg *config.Config, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, s3Scheme) {
		rest := strings.TrimPrefix(ref, s3Scheme)
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("%w: malformed S3 reference %q", imgfserr.ErrInvalidFilename, ref)
		}
		src, err := NewS3(cfg, bucket)
		if err != nil {
			return nil, err
		}
		return src.GetObject(ctx, key)
	}

	return Local{}.GetObject(ctx, ref)
}
