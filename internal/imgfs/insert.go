package imgfs

import (
	"crypto/sha256"
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

// Insert stores data under name in the first empty slot. Content already
// present under another name is aliased instead of appended; an existing name
// is rejected. On any failure the slot is restored from a backup and the
// store stays observationally unchanged, except that an already appended
// payload may survive as unreferenced heap bytes.
func (s *Store) Insert(data []byte, name string) error {
	if len(name) == 0 || len(name) > MaxImgID {
		return fmt.Errorf("%w: %q", imgfserr.ErrInvalidImgID, name)
	}
	if s.Header.NbFiles >= s.Header.MaxFiles {
		return imgfserr.ErrImgFSFull
	}

	for i := range s.Metadata {
		if s.Metadata[i].Valid() {
			continue
		}
		index := uint32(i)
		backup := s.Metadata[i]

		entry := Metadata{}
		entry.SetID(name)
		entry.SHA = sha256.Sum256(data)
		entry.Size[ResOrig] = uint32(len(data))

		width, height, err := s.codec.Resolution(data)
		if err != nil {
			return err
		}
		entry.OrigRes[0] = width
		entry.OrigRes[1] = height
		entry.IsValid = NonEmpty

		s.Metadata[i] = entry
		if err := s.dedup(index); err != nil {
			s.Metadata[i] = backup
			return err
		}
		entry = s.Metadata[i]

		if entry.Offset[ResOrig] == 0 {
			offset, err := s.appendPayload(data)
			if err != nil {
				s.Metadata[i] = backup
				return err
			}
			entry.Offset[ResOrig] = offset
			s.Metadata[i] = entry
		}

		header := s.Header
		header.NbFiles++
		header.Version++

		if err := s.writeMetadata(index, entry); err != nil {
			s.Metadata[i] = backup
			return err
		}
		if err := s.writeHeader(header); err != nil {
			// The slot was already persisted as valid; put the backup back on disk.
			_ = s.writeMetadata(index, backup)
			s.Metadata[i] = backup
			return err
		}
		s.Header = header

		logger.Debugf("[Store] Inserted %q: %d bytes, %dx%d, version %d",
			name, len(data), width, height, header.Version)

		return nil
	}

	return imgfserr.ErrImgFSFull
}
