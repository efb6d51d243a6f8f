package libcodabar

// DecodeOptions configures barcode decoding behavior.
type DecodeOptions struct {
	// TryHarder scans every row of the image instead of a sparse sample
	// around the middle.
	TryHarder bool

	// PossibleFormats limits which formats to look for.
	PossibleFormats []Format
}

// Reader decodes barcodes from a BinaryBitmap.
type Reader interface {
	// Decode attempts to decode a barcode from the image.
	Decode(image *BinaryBitmap, opts *DecodeOptions) (*Result, error)
}
