// Package libcodabar decodes the library flavour of Codabar found on patron
// and item cards: a start guard, 14 digits ending in a mod-10 check digit,
// and a stop guard.
package libcodabar

import (
	"time"

	"github.com/ericlevine/libcodabar/bitutil"
)

// Format represents a barcode format.
type Format int

const (
	FormatUnknown Format = iota
	FormatCodabar
)

// String returns the name of the barcode format.
func (f Format) String() string {
	switch f {
	case FormatCodabar:
		return "CODABAR"
	default:
		return "UNKNOWN"
	}
}

// ResultMetadataKey identifies a type of metadata about a barcode result.
type ResultMetadataKey int

const (
	MetadataOther ResultMetadataKey = iota
	MetadataOrientation
	MetadataSymbologyIdentifier
)

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y float64
}

// Result encapsulates the result of decoding a barcode.
type Result struct {
	Text      string
	Points    []ResultPoint
	Format    Format
	Metadata  map[ResultMetadataKey]interface{}
	Timestamp time.Time
}

// NewResult creates a new Result with the given text, points and format.
func NewResult(text string, points []ResultPoint, format Format) *Result {
	return &Result{
		Text:      text,
		Points:    points,
		Format:    format,
		Metadata:  make(map[ResultMetadataKey]interface{}),
		Timestamp: time.Now(),
	}
}

// PutMetadata adds a metadata key/value pair.
func (r *Result) PutMetadata(key ResultMetadataKey, value interface{}) {
	r.Metadata[key] = value
}

// BinaryBitmap is the binarized view of an image that row decoders scan.
type BinaryBitmap struct {
	binarizer Binarizer
}

// NewBinaryBitmap creates a new BinaryBitmap from the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int {
	return b.binarizer.Width()
}

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int {
	return b.binarizer.Height()
}

// BlackRow returns row y binarized. The row argument is reused when large
// enough.
func (b *BinaryBitmap) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	return b.binarizer.BlackRow(y, row)
}
