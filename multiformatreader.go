package libcodabar

import (
	"fmt"
	"sort"
)

// MultiFormatReader selects registered Reader implementations by format and
// tries them in sequence.
type MultiFormatReader struct {
	readers []Reader
}

// NewMultiFormatReader creates a new multi-format reader. Readers are built
// lazily from the options passed to the first Decode call.
func NewMultiFormatReader() *MultiFormatReader {
	return &MultiFormatReader{}
}

// Decode attempts to decode a barcode from the given image using the
// registered readers for opts.PossibleFormats, or all of them.
func (r *MultiFormatReader) Decode(image *BinaryBitmap, opts *DecodeOptions) (*Result, error) {
	if r.readers == nil {
		r.readers = buildReaders(opts)
	}
	for _, reader := range r.readers {
		result, err := reader.Decode(image, opts)
		if err == nil {
			return result, nil
		}
	}
	return nil, ErrNotFound
}

// DecodeWithFormat attempts to decode a barcode of the given format.
func (r *MultiFormatReader) DecodeWithFormat(image *BinaryBitmap, format Format, opts *DecodeOptions) (*Result, error) {
	formatOpts := DecodeOptions{}
	if opts != nil {
		formatOpts = *opts
	}
	formatOpts.PossibleFormats = []Format{format}
	for _, reader := range buildReaders(&formatOpts) {
		result, err := reader.Decode(image, &formatOpts)
		if err == nil {
			return result, nil
		}
	}
	return nil, fmt.Errorf("no barcode of format %s found: %w", format, ErrNotFound)
}

// Reset drops the readers built by the previous Decode call.
func (r *MultiFormatReader) Reset() {
	r.readers = nil
}

type readerFactory func(opts *DecodeOptions) Reader

var readerFactories = map[Format]readerFactory{}

// RegisterReader registers a reader factory for the given format. Format
// packages call it from init.
func RegisterReader(format Format, factory func(opts *DecodeOptions) Reader) {
	readerFactories[format] = factory
}

func buildReaders(opts *DecodeOptions) []Reader {
	var readers []Reader
	if opts != nil {
		for _, f := range opts.PossibleFormats {
			if factory, ok := readerFactories[f]; ok {
				readers = append(readers, factory(opts))
			}
		}
	}
	if len(readers) > 0 {
		return readers
	}

	formats := make([]Format, 0, len(readerFactories))
	for f := range readerFactories {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	for _, f := range formats {
		readers = append(readers, readerFactories[f](opts))
	}
	return readers
}
