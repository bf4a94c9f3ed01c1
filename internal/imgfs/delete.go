package imgfs

import (
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

// Delete invalidates the entry named name. Only the slot's validity flag and
// the header change; the heap keeps the payload bytes so aliased entries
// pointing at the same content stay readable.
func (s *Store) Delete(name string) error {
	for i := range s.Metadata {
		if s.Metadata[i].ID() != name {
			continue
		}
		if !s.Metadata[i].Valid() {
			return fmt.Errorf("%w: %q", imgfserr.ErrImageNotFound, name)
		}
		index := uint32(i)

		entry := s.Metadata[i]
		entry.IsValid = Empty
		if err := s.writeMetadata(index, entry); err != nil {
			return err
		}

		header := s.Header
		header.Version++
		header.NbFiles--
		if err := s.writeHeader(header); err != nil {
			return err
		}

		s.Metadata[i] = entry
		s.Header = header

		logger.Debugf("[Store] Deleted %q, version %d, %d files left",
			name, header.Version, header.NbFiles)

		return nil
	}

	return fmt.Errorf("%w: %q", imgfserr.ErrImageNotFound, name)
}
