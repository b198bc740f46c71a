// Package imaging holds the in-memory image representation the nodes
// exchange with storage: normalized float32 RGB buffers plus an inverted
// alpha mask, converted to and from 8-bit PNG bytes.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
)

// Image is a W*H*3 interleaved RGB buffer with values in [0,1].
type Image struct {
	Width  int
	Height int
	Pix    []float32
}

// Mask is a W*H float32 buffer holding inverted alpha: transparent = 1.
type Mask struct {
	Width  int
	Height int
	Pix    []float32
}

// NewImage allocates a zeroed image.
func NewImage(w, h int) Image {
	return Image{Width: w, Height: h, Pix: make([]float32, w*h*3)}
}

// ZeroMask returns the all-zero mask used for sources without an alpha
// channel.
func ZeroMask(w, h int) Mask {
	return Mask{Width: w, Height: h, Pix: make([]float32, w*h)}
}

// ToNRGBA converts the float buffer to an opaque 8-bit image, clipping
// values outside [0,1].
func (img Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			si := (y*img.Width + x) * 3
			di := out.PixOffset(x, y)
			out.Pix[di+0] = clip8(img.Pix[si+0])
			out.Pix[di+1] = clip8(img.Pix[si+1])
			out.Pix[di+2] = clip8(img.Pix[si+2])
			out.Pix[di+3] = 0xff
		}
	}
	return out
}

func clip8(v float32) uint8 {
	s := v * 255
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s + 0.5)
}

// Decode decodes PNG or JPEG bytes into the normalized representation.
// EXIF orientation is applied, 16-bit and grayscale modes are normalized
// to 8-bit RGB, and the alpha channel (when the source has one) becomes
// the inverted mask. PNG text chunks are returned alongside.
func Decode(data []byte) (Image, Mask, map[string]string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, Mask{}, nil, fmt.Errorf("decode image: %w", err)
	}

	hasAlpha := alphaBanded(src)
	nrgba := toNRGBA(src)
	nrgba = applyOrientation(nrgba, orientationOf(data))

	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	img := NewImage(w, h)
	mask := ZeroMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := nrgba.PixOffset(x, y)
			di := (y*w + x) * 3
			img.Pix[di+0] = float32(nrgba.Pix[si+0]) / 255
			img.Pix[di+1] = float32(nrgba.Pix[si+1]) / 255
			img.Pix[di+2] = float32(nrgba.Pix[si+2]) / 255
			if hasAlpha {
				mask.Pix[y*w+x] = 1 - float32(nrgba.Pix[si+3])/255
			}
		}
	}

	var text map[string]string
	if format == "png" {
		text, _ = ExtractText(data)
	}
	return img, mask, text, nil
}

// alphaBanded reports whether the decoded type carries an alpha band.
func alphaBanded(m image.Image) bool {
	switch m.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		return true
	}
	return false
}

func toNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n
	}
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), m, b.Min, draw.Src)
	return out
}

// orientationOf reads the EXIF orientation tag, defaulting to 1.
func orientationOf(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// applyOrientation undoes the EXIF orientation so the pixel buffer reads
// top-left first.
func applyOrientation(m *image.NRGBA, orientation int) *image.NRGBA {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	var out *image.NRGBA
	switch orientation {
	case 2: // mirrored horizontally
		out = remap(m, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
	case 3: // rotated 180
		out = remap(m, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4: // mirrored vertically
		out = remap(m, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
	case 5: // mirrored then rotated 270 CW
		out = remap(m, h, w, func(x, y int) (int, int) { return y, x })
	case 6: // rotated 90 CW
		out = remap(m, h, w, func(x, y int) (int, int) { return y, h - 1 - x })
	case 7: // mirrored then rotated 90 CW
		out = remap(m, h, w, func(x, y int) (int, int) { return w - 1 - y, h - 1 - x })
	case 8: // rotated 270 CW
		out = remap(m, h, w, func(x, y int) (int, int) { return w - 1 - y, x })
	default:
		return m
	}
	return out
}

// remap builds a dw*dh image whose pixel (x,y) comes from src at the
// coordinates the mapping returns.
func remap(src *image.NRGBA, dw, dh int, at func(x, y int) (int, int)) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			sx, sy := at(x, y)
			copy(out.Pix[out.PixOffset(x, y):], src.Pix[src.PixOffset(sx, sy):src.PixOffset(sx, sy)+4])
		}
	}
	return out
}
