package oned

import (
	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

// LibraryCodabarReader decodes library Codabar rows. It has no fields and is
// safe for concurrent use.
type LibraryCodabarReader struct{}

// NewLibraryCodabarReader creates a new library Codabar reader.
func NewLibraryCodabarReader() *LibraryCodabarReader {
	return &LibraryCodabarReader{}
}

// DecodeRow decodes a library Codabar symbol from a single row. Every failure
// is reported as libcodabar.ErrNotFound. opts is ignored.
func (r *LibraryCodabarReader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *libcodabar.DecodeOptions) (*libcodabar.Result, error) {
	guardStart, guardEnd, err := findLibraryCodabarStart(row)
	if err != nil {
		return nil, err
	}

	end := row.Size()
	nextStart := row.GetNextSet(guardStart)
	lastStart := nextStart
	var counters [libraryCodabarElements]int
	decoded := make([]byte, 0, libraryCodabarPayloadLength+2)

	// There is no fixed stop pattern, so characters are read until the row
	// runs out of bars.
	for nextStart < end {
		if err := RecordPattern(row, nextStart, counters[:]); err != nil {
			return nil, err
		}
		c, ok := classifyLibraryCodabar(counters[:])
		if !ok {
			return nil, libcodabar.ErrNotFound
		}
		decoded = append(decoded, c)
		lastStart = nextStart
		nextStart = row.GetNextSet(nextStart + sumCounters(counters[:]))
	}

	// At least half the width of the last character must be blank after it,
	// unless the blank runs off the end of the row.
	lastPatternSize := sumCounters(counters[:])
	whiteSpaceAfterEnd := nextStart - lastStart - lastPatternSize
	if nextStart != end && whiteSpaceAfterEnd < lastPatternSize/2 {
		return nil, libcodabar.ErrNotFound
	}

	if len(decoded) < 2 {
		return nil, libcodabar.ErrNotFound
	}
	startChar := decoded[0]
	if !isLibraryCodabarGuard(startChar) {
		return nil, libcodabar.ErrNotFound
	}
	// The first repeat of the start guard closes the symbol; anything
	// decoded past it is trailing noise.
	for k := 1; k < len(decoded)-1; k++ {
		if decoded[k] == startChar {
			decoded = decoded[:k+1]
			break
		}
	}
	if len(decoded) != libraryCodabarPayloadLength+2 {
		return nil, libcodabar.ErrNotFound
	}

	payload := string(decoded[1 : len(decoded)-1])
	if !ValidLibraryCodabarCheckDigit(payload) {
		return nil, libcodabar.ErrNotFound
	}

	left := float64(guardStart+guardEnd) / 2
	right := float64(nextStart+lastStart) / 2
	res := libcodabar.NewResult(
		payload,
		[]libcodabar.ResultPoint{
			{X: left, Y: float64(rowNumber)},
			{X: right, Y: float64(rowNumber)},
		},
		libcodabar.FormatCodabar,
	)
	res.PutMetadata(libcodabar.MetadataSymbologyIdentifier, "]F0")
	return res, nil
}

// findLibraryCodabarStart returns the bounds [start, end) of the first
// seven-element group that reads as a guard character and has blank space
// of at least half its width before it. The row edge does not count as
// blank space.
func findLibraryCodabarStart(row *bitutil.BitArray) (int, int, error) {
	width := row.Size()
	rowOffset := row.GetNextSet(0)

	var counters [libraryCodabarElements]int
	counterPosition := 0
	patternStart := rowOffset
	isWhite := false
	patternLength := len(counters)

	for i := rowOffset; i < width; i++ {
		if row.Get(i) != isWhite {
			counters[counterPosition]++
			continue
		}
		if counterPosition == patternLength-1 {
			if c, ok := classifyLibraryCodabar(counters[:]); ok && isLibraryCodabarGuard(c) {
				quietZone := (i - patternStart) / 2
				if patternStart >= quietZone && row.IsRange(patternStart-quietZone, patternStart, false) {
					return patternStart, i, nil
				}
			}
			patternStart += counters[0] + counters[1]
			copy(counters[:], counters[2:])
			counters[patternLength-2] = 0
			counters[patternLength-1] = 0
			counterPosition--
		} else {
			counterPosition++
		}
		counters[counterPosition] = 1
		isWhite = !isWhite
	}
	return 0, 0, libcodabar.ErrNotFound
}

func sumCounters(counters []int) int {
	total := 0
	for _, c := range counters {
		total += c
	}
	return total
}

var _ RowDecoder = (*LibraryCodabarReader)(nil)
