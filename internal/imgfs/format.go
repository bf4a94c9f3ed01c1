package imgfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// On-disk layout: one Header at offset 0, then exactly MaxFiles Metadata
// entries, then the append-only heap of raw JPEG payloads addressed by the
// metadata offsets. All multi-byte fields are little-endian.

const (
	// CatTxt is the fixed store name written into every header.
	CatTxt = "EPFL ImgFS 2024"

	// MaxName is the maximum length of the store name.
	MaxName = 31

	// MaxImgID is the maximum length of an image id.
	MaxImgID = 127

	// SHALen is the length of an image content hash.
	SHALen = 32

	// Slot validity markers.
	Empty    uint16 = 0
	NonEmpty uint16 = 1

	// HeaderSize is the encoded size of Header.
	HeaderSize = 64

	// MetadataSize is the encoded size of one Metadata entry.
	MetadataSize = 208

	// maxFilesCap bounds MaxFiles accepted from a file on open.
	maxFilesCap = 1 << 20
)

// Resolution selects one of the three image variants stored per entry.
type Resolution int

const (
	ResThumb Resolution = iota
	ResSmall
	ResOrig

	// NbRes is the number of resolutions.
	NbRes = 3
)

// ParseResolution maps the user-facing resolution names to their values.
// It accepts "thumb"/"thumbnail", "small" and "orig"/"original".
func ParseResolution(s string) (Resolution, bool) {
	switch s {
	case "thumb", "thumbnail":
		return ResThumb, true
	case "small":
		return ResSmall, true
	case "orig", "original":
		return ResOrig, true
	}
	return 0, false
}

func (r Resolution) String() string {
	switch r {
	case ResThumb:
		return "thumb"
	case ResSmall:
		return "small"
	case ResOrig:
		return "orig"
	}
	return fmt.Sprintf("resolution(%d)", int(r))
}

func (r Resolution) valid() bool { return r >= ResThumb && r <= ResOrig }

// Header is the store header written once at offset 0 and rewritten on every
// mutation.
type Header struct {
	Name       [MaxName + 1]byte
	Version    uint32
	NbFiles    uint32
	MaxFiles   uint32
	ResizedRes [2 * (NbRes - 1)]uint16 // thumb w, thumb h, small w, small h
	Unused32   uint32
	Unused64   uint64
}

// StoreName returns the header name up to its NUL terminator.
func (h *Header) StoreName() string { return cstr(h.Name[:]) }

// ThumbRes returns the configured thumbnail bounds.
func (h *Header) ThumbRes() (w, h2 uint16) {
	return h.ResizedRes[2*ResThumb], h.ResizedRes[2*ResThumb+1]
}

// SmallRes returns the configured small-image bounds.
func (h *Header) SmallRes() (w, h2 uint16) {
	return h.ResizedRes[2*ResSmall], h.ResizedRes[2*ResSmall+1]
}

func (h *Header) encode() [HeaderSize]byte {
	var b [HeaderSize]byte
	copy(b[0:], h.Name[:])
	binary.LittleEndian.PutUint32(b[32:], h.Version)
	binary.LittleEndian.PutUint32(b[36:], h.NbFiles)
	binary.LittleEndian.PutUint32(b[40:], h.MaxFiles)
	for i, r := range h.ResizedRes {
		binary.LittleEndian.PutUint16(b[44+2*i:], r)
	}
	binary.LittleEndian.PutUint32(b[52:], h.Unused32)
	binary.LittleEndian.PutUint64(b[56:], h.Unused64)
	return b
}

func decodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("%w: short header (%d bytes)", imgfserr.ErrIO, len(b))
	}
	copy(h.Name[:], b[0:32])
	h.Version = binary.LittleEndian.Uint32(b[32:])
	h.NbFiles = binary.LittleEndian.Uint32(b[36:])
	h.MaxFiles = binary.LittleEndian.Uint32(b[40:])
	for i := range h.ResizedRes {
		h.ResizedRes[i] = binary.LittleEndian.Uint16(b[44+2*i:])
	}
	h.Unused32 = binary.LittleEndian.Uint32(b[52:])
	h.Unused64 = binary.LittleEndian.Uint64(b[56:])
	return h, nil
}

// Metadata is one fixed slot of the metadata table.
type Metadata struct {
	ImgID    [MaxImgID + 1]byte
	SHA      [SHALen]byte
	OrigRes  [2]uint32 // width, height of the stored original
	Size     [NbRes]uint32
	Offset   [NbRes]uint64
	IsValid  uint16
	Unused16 uint16
}

// ID returns the image id up to its NUL terminator.
func (m *Metadata) ID() string { return cstr(m.ImgID[:]) }

// SetID stores id as the slot's image id. id must fit in MaxImgID bytes.
func (m *Metadata) SetID(id string) {
	m.ImgID = [MaxImgID + 1]byte{}
	copy(m.ImgID[:MaxImgID], id)
}

// Valid reports whether the slot holds a live entry.
func (m *Metadata) Valid() bool { return m.IsValid == NonEmpty }

func (m *Metadata) encode() [MetadataSize]byte {
	var b [MetadataSize]byte
	copy(b[0:], m.ImgID[:])
	copy(b[128:], m.SHA[:])
	binary.LittleEndian.PutUint32(b[160:], m.OrigRes[0])
	binary.LittleEndian.PutUint32(b[164:], m.OrigRes[1])
	for i, s := range m.Size {
		binary.LittleEndian.PutUint32(b[168+4*i:], s)
	}
	for i, o := range m.Offset {
		binary.LittleEndian.PutUint64(b[180+8*i:], o)
	}
	binary.LittleEndian.PutUint16(b[204:], m.IsValid)
	binary.LittleEndian.PutUint16(b[206:], m.Unused16)
	return b
}

func decodeMetadata(b []byte) (Metadata, error) {
	var m Metadata
	if len(b) < MetadataSize {
		return m, fmt.Errorf("%w: short metadata entry (%d bytes)", imgfserr.ErrIO, len(b))
	}
	copy(m.ImgID[:], b[0:128])
	copy(m.SHA[:], b[128:160])
	m.OrigRes[0] = binary.LittleEndian.Uint32(b[160:])
	m.OrigRes[1] = binary.LittleEndian.Uint32(b[164:])
	for i := range m.Size {
		m.Size[i] = binary.LittleEndian.Uint32(b[168+4*i:])
	}
	for i := range m.Offset {
		m.Offset[i] = binary.LittleEndian.Uint64(b[180+8*i:])
	}
	m.IsValid = binary.LittleEndian.Uint16(b[204:])
	m.Unused16 = binary.LittleEndian.Uint16(b[206:])
	return m, nil
}

// metadataOffset returns the file offset of slot index.
func metadataOffset(index uint32) int64 {
	return HeaderSize + int64(index)*MetadataSize
}

// cstr interprets b as a NUL-terminated string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
