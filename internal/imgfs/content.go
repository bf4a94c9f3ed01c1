package imgfs

import (
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

// lazyResize materializes the res variant of slot index if it does not exist
// yet: the original payload is read back, thumbnailed to the configured
// bounds, appended to the heap, and the slot's metadata entry is rewritten in
// place. The header is untouched; filling a resolution is a cache fill, not a
// mutation, so the store version does not change.
func (s *Store) lazyResize(res Resolution, index uint32) error {
	if !res.valid() {
		return fmt.Errorf("%w: %s", imgfserr.ErrInvalidArgument, res)
	}
	if index >= s.Header.MaxFiles || !s.Metadata[index].Valid() {
		return fmt.Errorf("%w: slot %d", imgfserr.ErrInvalidImgID, index)
	}
	if res == ResOrig {
		return nil
	}

	entry := s.Metadata[index]
	if entry.Offset[res] != 0 && entry.Size[res] != 0 {
		return nil
	}

	maxW := s.Header.ResizedRes[2*res]
	maxH := s.Header.ResizedRes[2*res+1]

	orig, err := s.readPayload(entry.Offset[ResOrig], entry.Size[ResOrig])
	if err != nil {
		return err
	}

	resized, err := s.codec.Thumbnail(orig, maxW, maxH)
	if err != nil {
		return err
	}

	offset, err := s.appendPayload(resized)
	if err != nil {
		return err
	}

	entry.Offset[res] = offset
	entry.Size[res] = uint32(len(resized))

	if err := s.writeMetadata(index, entry); err != nil {
		return err
	}
	s.Metadata[index] = entry

	logger.Debugf("[Store] Materialized %s of %q: %d bytes at offset %d",
		res, entry.ID(), entry.Size[res], offset)

	return nil
}
