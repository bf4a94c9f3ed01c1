package imgfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodedSizes(t *testing.T) {
	var h Header
	var m Metadata
	assert.Len(t, h.encode(), HeaderSize)
	assert.Len(t, m.encode(), MetadataSize)
}

func TestHeaderRoundTrip(t *testing.T) {
	var h Header
	copy(h.Name[:], CatTxt)
	h.Version = 7
	h.NbFiles = 3
	h.MaxFiles = 10
	h.ResizedRes = [4]uint16{64, 64, 256, 256}

	b := h.encode()
	got, err := decodeHeader(b[:])
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, CatTxt, got.StoreName())

	w, hh := got.ThumbRes()
	assert.Equal(t, uint16(64), w)
	assert.Equal(t, uint16(64), hh)
	w, hh = got.SmallRes()
	assert.Equal(t, uint16(256), w)
	assert.Equal(t, uint16(256), hh)
}

func TestHeaderDecodeShort(t *testing.T) {
	_, err := decodeHeader(make([]byte, HeaderSize-1))
	assert.Error(t, err)
}

func TestMetadataRoundTrip(t *testing.T) {
	var m Metadata
	m.SetID("pic1")
	for i := range m.SHA {
		m.SHA[i] = byte(i)
	}
	m.OrigRes = [2]uint32{1200, 800}
	m.Size = [NbRes]uint32{120, 0, 54321}
	m.Offset = [NbRes]uint64{3000, 0, 2144}
	m.IsValid = NonEmpty

	b := m.encode()
	got, err := decodeMetadata(b[:])
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, "pic1", got.ID())
	assert.True(t, got.Valid())
}

func TestSetIDTruncatesPrevious(t *testing.T) {
	var m Metadata
	m.SetID("a-much-longer-identifier")
	m.SetID("x")
	assert.Equal(t, "x", m.ID())
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in   string
		want Resolution
		ok   bool
	}{
		{"thumb", ResThumb, true},
		{"thumbnail", ResThumb, true},
		{"small", ResSmall, true},
		{"orig", ResOrig, true},
		{"original", ResOrig, true},
		{"huge", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseResolution(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestMetadataOffset(t *testing.T) {
	assert.Equal(t, int64(HeaderSize), metadataOffset(0))
	assert.Equal(t, int64(HeaderSize+5*MetadataSize), metadataOffset(5))
}
