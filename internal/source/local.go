package source

import (
	"context"
	"fmt"
	"os"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// Local reads image files from the filesystem.
type Local struct{}

func (Local) GetObject(_ context.Context, key string) ([]byte, error) {
	info, err := os.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file not found: %s", imgfserr.ErrIO, key)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", imgfserr.ErrIO, key, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", imgfserr.ErrInvalidFilename, key)
	}

	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", imgfserr.ErrIO, key, err)
	}
	return data, nil
}
