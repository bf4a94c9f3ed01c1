// Package imaging is the boundary to the JPEG codec. The storage engine only
// needs two operations: query the pixel resolution of an encoded image, and
// produce a bounded JPEG thumbnail. Both are expressed as the Codec interface
// so the engine never calls libvips itself; since the interface lives in this
// package, importing it still links libvips.
package imaging

import (
	"fmt"

	"github.com/cshum/vipsgen/vips"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// Codec decodes and re-encodes JPEG images held fully in memory.
type Codec interface {
	// Resolution returns the pixel width and height of the encoded image.
	Resolution(data []byte) (width, height uint32, err error)

	// Thumbnail decodes data, shrinks it to fit within maxWidth x maxHeight
	// while preserving the aspect ratio, and re-encodes it as JPEG. Images
	// already within bounds are re-encoded without enlargement.
	Thumbnail(data []byte, maxWidth, maxHeight uint16) ([]byte, error)
}

// jpegQuality is the encoding quality for derived images.
const jpegQuality = 75

// VipsCodec implements Codec on top of libvips.
type VipsCodec struct{}

func NewVipsCodec() *VipsCodec { return &VipsCodec{} }

// Startup initializes libvips. Call once per process before using VipsCodec.
func Startup() {
	vips.Startup(nil)
}

// Shutdown releases libvips resources.
func Shutdown() {
	vips.Shutdown()
}

func (c *VipsCodec) Resolution(data []byte) (uint32, uint32, error) {
	img, err := vips.NewImageFromBuffer(data, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: load image: %v", imgfserr.ErrImgLib, err)
	}
	defer img.Close()

	return uint32(img.Width()), uint32(img.Height()), nil
}

func (c *VipsCodec) Thumbnail(data []byte, maxWidth, maxHeight uint16) ([]byte, error) {
	img, err := vips.NewThumbnailBuffer(data, int(maxWidth), &vips.ThumbnailBufferOptions{
		Height: int(maxHeight),
		Size:   vips.SizeDown,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: thumbnail: %v", imgfserr.ErrImgLib, err)
	}
	defer img.Close()

	out, err := img.JpegsaveBuffer(&vips.JpegsaveBufferOptions{Q: jpegQuality})
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg encode: %v", imgfserr.ErrImgLib, err)
	}
	return out, nil
}
