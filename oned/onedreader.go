// Package oned reads and writes the library Codabar linear symbology.
package oned

import (
	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

// RowDecoder decodes a single row of a 1D barcode. Implementations keep no
// state between calls.
type RowDecoder interface {
	// DecodeRow attempts to decode a barcode from a single row.
	DecodeRow(rowNumber int, row *bitutil.BitArray, opts *libcodabar.DecodeOptions) (*libcodabar.Result, error)
}

// DecodeOneD decodes a 1D barcode from an image by scanning rows from the
// middle outward. It tries each row forward and reversed.
func DecodeOneD(image *libcodabar.BinaryBitmap, decoder RowDecoder, opts *libcodabar.DecodeOptions) (*libcodabar.Result, error) {
	width := image.Width()
	height := image.Height()
	row := bitutil.NewBitArray(width)

	tryHarder := opts != nil && opts.TryHarder
	rowStep := height >> 5
	if tryHarder {
		rowStep = height >> 8
	}
	rowStep = max(rowStep, 1)

	maxLines := 15
	if tryHarder {
		maxLines = height
	}

	middle := height / 2
	for x := 0; x < maxLines; x++ {
		rowStepsAboveOrBelow := (x + 1) / 2
		rowNumber := middle - rowStep*rowStepsAboveOrBelow
		if x&0x01 == 0 {
			rowNumber = middle + rowStep*rowStepsAboveOrBelow
		}
		if rowNumber < 0 || rowNumber >= height {
			break
		}

		var err error
		row, err = image.BlackRow(rowNumber, row)
		if err != nil {
			continue
		}

		for attempt := 0; attempt < 2; attempt++ {
			if attempt == 1 {
				row.Reverse()
			}
			result, err := decoder.DecodeRow(rowNumber, row, opts)
			if err != nil {
				continue
			}
			if attempt == 1 {
				result.PutMetadata(libcodabar.MetadataOrientation, 180)
				for i := range result.Points {
					result.Points[i].X = float64(width) - result.Points[i].X - 1
				}
			}
			return result, nil
		}
	}
	return nil, libcodabar.ErrNotFound
}

// RecordPattern records the widths of successive runs of black and white
// pixels in a row, starting at the given position. The last run may be cut
// short by the end of the row.
func RecordPattern(row *bitutil.BitArray, start int, counters []int) error {
	numCounters := len(counters)
	for i := range counters {
		counters[i] = 0
	}
	end := row.Size()
	if start >= end {
		return libcodabar.ErrNotFound
	}
	isWhite := !row.Get(start)
	counterPosition := 0
	i := start
	for ; i < end; i++ {
		if row.Get(i) != isWhite {
			counters[counterPosition]++
			continue
		}
		counterPosition++
		if counterPosition == numCounters {
			break
		}
		counters[counterPosition] = 1
		isWhite = !isWhite
	}
	if !(counterPosition == numCounters || (counterPosition == numCounters-1 && i == end)) {
		return libcodabar.ErrNotFound
	}
	return nil
}
