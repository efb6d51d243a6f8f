package libcodabar

import (
	"fmt"

	"github.com/ericlevine/libcodabar/bitutil"
)

// MultiFormatWriter selects the registered Writer for the requested format.
type MultiFormatWriter struct{}

// NewMultiFormatWriter creates a new multi-format writer.
func NewMultiFormatWriter() *MultiFormatWriter {
	return &MultiFormatWriter{}
}

type writerFactory func() Writer

var writerFactories = map[Format]writerFactory{}

// RegisterWriter registers a writer factory for the given format.
func RegisterWriter(format Format, factory func() Writer) {
	writerFactories[format] = factory
}

// Encode encodes the given contents into a barcode of the specified format.
func (w *MultiFormatWriter) Encode(contents string, format Format, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error) {
	factory, ok := writerFactories[format]
	if !ok {
		return nil, fmt.Errorf("no writer registered for format %s: %w", format, ErrWriter)
	}
	return factory().Encode(contents, format, width, height, opts)
}

// Encode encodes contents with the writer registered for format.
func Encode(contents string, format Format, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error) {
	return NewMultiFormatWriter().Encode(contents, format, width, height, opts)
}

// Decode decodes a barcode from the given BinaryBitmap with every reader
// allowed by opts.
func Decode(image *BinaryBitmap, opts *DecodeOptions) (*Result, error) {
	return NewMultiFormatReader().Decode(image, opts)
}
