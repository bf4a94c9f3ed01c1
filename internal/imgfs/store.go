// Package imgfs implements the single-file image store: a fixed header, a
// fixed-size metadata table and an append-only heap of JPEG payloads.
// Derived resolutions are materialized lazily on read.
//
// Store methods are not safe for concurrent use. The HTTP service layer
// serializes every call under a single mutex.
package imgfs

import (
	"fmt"
	"io"
	"os"

	"github.com/hoperedemption/imgfs/internal/imaging"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

// Store is the in-memory handle of an open imgFS file: the file itself plus a
// copy of the header and the whole metadata table, kept synchronized with
// disk on every mutation.
type Store struct {
	file     *os.File
	Header   Header
	Metadata []Metadata
	codec    imaging.Codec
}

// Create writes a fresh store at path: a header carrying MaxFiles and
// ResizedRes from tpl (name forced to CatTxt, version and file count zero),
// followed by MaxFiles zeroed metadata entries. An existing file is
// truncated.
func Create(path string, tpl Header, codec imaging.Codec) (*Store, error) {
	var header Header
	copy(header.Name[:], CatTxt)
	header.MaxFiles = tpl.MaxFiles
	header.ResizedRes = tpl.ResizedRes

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", imgfserr.ErrIO, path, err)
	}

	metadata := make([]Metadata, header.MaxFiles)

	buf := make([]byte, 0, HeaderSize+int(header.MaxFiles)*MetadataSize)
	hb := header.encode()
	buf = append(buf, hb[:]...)
	for i := range metadata {
		mb := metadata[i].encode()
		buf = append(buf, mb[:]...)
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: write store layout: %v", imgfserr.ErrIO, err)
	}

	logger.Infof("[Store] Created %s: %d slots written", path, header.MaxFiles)

	return &Store{file: f, Header: header, Metadata: metadata, codec: codec}, nil
}

// Open reads the header and the full metadata table of the store at path.
// With writable false the file is opened read-only and mutating operations
// will fail with an I/O error.
func Open(path string, writable bool, codec imaging.Codec) (*Store, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", imgfserr.ErrIO, path, err)
	}

	hb := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, hb); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: read header: %v", imgfserr.ErrIO, err)
	}
	header, err := decodeHeader(hb)
	if err != nil {
		f.Close()
		return nil, err
	}

	if header.MaxFiles == 0 || header.MaxFiles > maxFilesCap || header.NbFiles > header.MaxFiles {
		f.Close()
		return nil, fmt.Errorf("%w: max_files=%d nb_files=%d", imgfserr.ErrMaxFiles,
			header.MaxFiles, header.NbFiles)
	}

	table := make([]byte, int(header.MaxFiles)*MetadataSize)
	if _, err := io.ReadFull(f, table); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: read metadata table: %v", imgfserr.ErrIO, err)
	}

	metadata := make([]Metadata, header.MaxFiles)
	for i := range metadata {
		m, err := decodeMetadata(table[i*MetadataSize:])
		if err != nil {
			f.Close()
			return nil, err
		}
		metadata[i] = m
	}

	return &Store{file: f, Header: header, Metadata: metadata, codec: codec}, nil
}

// Close closes the store file and drops the metadata table. It is idempotent
// and safe on a zero Store.
func (s *Store) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.Metadata = nil
	if err != nil {
		return fmt.Errorf("%w: close: %v", imgfserr.ErrIO, err)
	}
	return nil
}

// writeHeader rewrites the header at offset 0 from h (not from s.Header, so
// callers can commit memory state only after the write succeeded).
func (s *Store) writeHeader(h Header) error {
	b := h.encode()
	if _, err := s.file.WriteAt(b[:], 0); err != nil {
		return fmt.Errorf("%w: write header: %v", imgfserr.ErrIO, err)
	}
	return nil
}

// writeMetadata persists one metadata entry at its slot.
func (s *Store) writeMetadata(index uint32, m Metadata) error {
	b := m.encode()
	if _, err := s.file.WriteAt(b[:], metadataOffset(index)); err != nil {
		return fmt.Errorf("%w: write metadata slot %d: %v", imgfserr.ErrIO, index, err)
	}
	return nil
}

// appendPayload writes data at the end of the file and returns the offset it
// was written at.
func (s *Store) appendPayload(data []byte) (uint64, error) {
	off, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: seek heap end: %v", imgfserr.ErrIO, err)
	}
	if _, err := s.file.Write(data); err != nil {
		return 0, fmt.Errorf("%w: append payload: %v", imgfserr.ErrIO, err)
	}
	return uint64(off), nil
}

// readPayload reads size bytes at offset from the heap.
func (s *Store) readPayload(offset uint64, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := s.file.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("%w: read payload at %d: %v", imgfserr.ErrIO, offset, err)
	}
	return buf, nil
}
