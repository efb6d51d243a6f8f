package oned

import (
	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

// Reader adapts a RowDecoder to libcodabar.Reader by sweeping image rows
// with DecodeOneD.
type Reader struct {
	decoder RowDecoder
}

// NewReader creates a Reader that decodes rows with decoder.
func NewReader(decoder RowDecoder) *Reader {
	return &Reader{decoder: decoder}
}

// NewLibraryCodabarImageReader creates a Reader for library Codabar.
func NewLibraryCodabarImageReader() *Reader {
	return NewReader(NewLibraryCodabarReader())
}

// DecodeRow delegates to the wrapped RowDecoder.
func (r *Reader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *libcodabar.DecodeOptions) (*libcodabar.Result, error) {
	return r.decoder.DecodeRow(rowNumber, row, opts)
}

// Decode decodes a 1D barcode from the given image.
func (r *Reader) Decode(image *libcodabar.BinaryBitmap, opts *libcodabar.DecodeOptions) (*libcodabar.Result, error) {
	return DecodeOneD(image, r.decoder, opts)
}

var (
	_ RowDecoder        = (*Reader)(nil)
	_ libcodabar.Reader = (*Reader)(nil)
)
