package libcodabar

import (
	"image"
	"image/color"

	"github.com/ericlevine/libcodabar/bitutil"
)

// ImageLuminanceSource is a LuminanceSource over a greyscale copy of a Go
// image.Image.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource converts img to 8-bit luminance using
// (306*R + 601*G + 117*B + 0x200) >> 10. Fully transparent pixels read as
// white, since card scans with an alpha channel put the card on a
// transparent background.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	if g, ok := img.(*image.Gray); ok {
		return NewGrayImageLuminanceSource(g)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			luminances[y*w+x] = luminance(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

func luminance(c color.Color) byte {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return 0xFF
	}
	r8, g8, b8 := r>>8, g>>8, b>>8
	return byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
}

// NewGrayImageLuminanceSource creates a LuminanceSource from a *image.Gray,
// copying its pixels without conversion.
func NewGrayImageLuminanceSource(img *image.Gray) *ImageLuminanceSource {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(luminances[y*w:(y+1)*w], img.Pix[off:off+w])
	}
	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	copy(row, s.luminances[y*s.width:(y+1)*s.width])
	return row
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int {
	return s.height
}

// RotateCounterClockwise returns a copy rotated 90 degrees counterclockwise,
// turning a card photographed upright into horizontal scanlines.
func (s *ImageLuminanceSource) RotateCounterClockwise() *ImageLuminanceSource {
	w, h := s.height, s.width
	rotated := make([]byte, w*h)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			rotated[(s.width-1-x)*w+y] = s.luminances[y*s.width+x]
		}
	}
	return &ImageLuminanceSource{luminances: rotated, width: w, height: h}
}

// BitMatrixToImage converts a rendered BitMatrix to a greyscale image with
// black bars on white.
func BitMatrixToImage(matrix *bitutil.BitMatrix) *image.Gray {
	w, h := matrix.Width(), matrix.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
