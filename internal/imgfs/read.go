package imgfs

import (
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// Read returns the JPEG payload of the entry named name at the requested
// resolution, materializing a missing derived resolution first.
func (s *Store) Read(name string, res Resolution) ([]byte, error) {
	if !res.valid() {
		return nil, fmt.Errorf("%w: %s", imgfserr.ErrInvalidArgument, res)
	}

	for i := range s.Metadata {
		if s.Metadata[i].ID() != name {
			continue
		}

		if err := s.lazyResize(res, uint32(i)); err != nil {
			return nil, err
		}

		entry := s.Metadata[i]
		return s.readPayload(entry.Offset[res], entry.Size[res])
	}

	return nil, fmt.Errorf("%w: %q", imgfserr.ErrImageNotFound, name)
}
