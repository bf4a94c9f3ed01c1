package imgfs

import (
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// dedup checks the freshly populated slot index against every other valid
// slot. A name collision is fatal. A content (SHA) collision aliases the
// existing heap bytes: offsets and sizes for all resolutions are copied over.
// When no content match exists, Offset[ResOrig] is forced to zero so the
// caller knows the payload still has to be appended.
//
// The scan is linear over the whole table; no index is maintained.
func (s *Store) dedup(index uint32) error {
	if index >= s.Header.MaxFiles || !s.Metadata[index].Valid() {
		return fmt.Errorf("%w: slot %d", imgfserr.ErrImageNotFound, index)
	}

	entry := s.Metadata[index]
	aliased := false

	for i := range s.Metadata {
		other := &s.Metadata[i]
		if uint32(i) == index || !other.Valid() {
			continue
		}
		if other.ImgID == entry.ImgID {
			return fmt.Errorf("%w: %q", imgfserr.ErrDuplicateID, entry.ID())
		}
		if other.SHA == entry.SHA {
			entry.Offset = other.Offset
			entry.Size = other.Size
			aliased = true
		}
	}

	if !aliased {
		entry.Offset[ResOrig] = 0
	}
	s.Metadata[index] = entry

	return nil
}
