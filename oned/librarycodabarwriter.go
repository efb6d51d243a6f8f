package oned

import (
	"fmt"
	"strings"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

// LibraryCodabarWriter encodes library Codabar symbols with configurable
// narrow and wide element widths in pixels.
type LibraryCodabarWriter struct {
	narrow int
	wide   int
}

// NewLibraryCodabarWriter creates a writer with one-pixel narrow and
// two-pixel wide elements.
func NewLibraryCodabarWriter() *LibraryCodabarWriter {
	return &LibraryCodabarWriter{narrow: 1, wide: 2}
}

// NewLibraryCodabarWriterWithWidths creates a writer with the given element
// widths. wide must be greater than narrow.
func NewLibraryCodabarWriterWithWidths(narrow, wide int) (*LibraryCodabarWriter, error) {
	if narrow < 1 || wide <= narrow {
		return nil, fmt.Errorf("invalid element widths %d/%d: %w", narrow, wide, libcodabar.ErrWriter)
	}
	return &LibraryCodabarWriter{narrow: narrow, wide: wide}, nil
}

// Encode encodes contents into a BitMatrix. See EncodeContents for the
// accepted contents.
func (w *LibraryCodabarWriter) Encode(contents string, format libcodabar.Format, width, height int, opts *libcodabar.EncodeOptions) (*bitutil.BitMatrix, error) {
	if format != libcodabar.FormatCodabar {
		return nil, fmt.Errorf("can only encode CODABAR, but got %s: %w", format, libcodabar.ErrWriter)
	}
	code, err := w.EncodeContents(contents)
	if err != nil {
		return nil, err
	}
	return RenderOneDCode(code, width, height, encodeMargin(opts)*w.narrow), nil
}

// EncodeContents returns the bar pattern for contents, without quiet zones.
// contents is 13 digits (the check digit is appended) or 14 digits ending in
// a correct check digit, optionally wrapped in guard characters; A is used
// on both ends when no guards are given.
func (w *LibraryCodabarWriter) EncodeContents(contents string) ([]bool, error) {
	symbol, err := normalizeLibraryCodabar(contents)
	if err != nil {
		return nil, err
	}
	return encodeLibraryCodabarSymbol(symbol, w.narrow, w.wide)
}

// LibraryCodabarPayload returns the 14-digit payload that EncodeContents
// would encode for contents, with guards stripped and the check digit in
// place.
func LibraryCodabarPayload(contents string) (string, error) {
	symbol, err := normalizeLibraryCodabar(contents)
	if err != nil {
		return "", err
	}
	return symbol[1 : len(symbol)-1], nil
}

// encodeLibraryCodabarSymbol lays out symbol character by character with a
// narrow space between characters. It does no structural validation.
func encodeLibraryCodabarSymbol(symbol string, narrow, wide int) ([]bool, error) {
	var patterns [][libraryCodabarElements]int
	total := 0
	for i := 0; i < len(symbol); i++ {
		enc, ok := libraryCodabarEncoding(symbol[i])
		if !ok {
			return nil, fmt.Errorf("cannot encode %q: %w", symbol[i], libcodabar.ErrWriter)
		}
		var pattern [libraryCodabarElements]int
		for e := range pattern {
			pattern[e] = narrow
			if (enc>>uint(libraryCodabarElements-1-e))&1 == 1 {
				pattern[e] = wide
			}
			total += pattern[e]
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) > 1 {
		total += (len(patterns) - 1) * narrow
	}

	result := make([]bool, total)
	pos := 0
	for i := range patterns {
		pos += AppendPattern(result, pos, patterns[i][:], true)
		if i < len(patterns)-1 {
			pos += narrow
		}
	}
	return result, nil
}

// normalizeLibraryCodabar returns contents with guards on both ends and the
// check digit in place.
func normalizeLibraryCodabar(contents string) (string, error) {
	upper := strings.ToUpper(contents)
	if len(upper) < 2 {
		return "", fmt.Errorf("contents too short: %q: %w", contents, libcodabar.ErrWriter)
	}
	startGuard, stopGuard := upper[0], upper[len(upper)-1]
	startsGuarded := isLibraryCodabarGuard(startGuard)
	endsGuarded := isLibraryCodabarGuard(stopGuard)
	data := upper
	switch {
	case startsGuarded && endsGuarded:
		data = upper[1 : len(upper)-1]
	case startsGuarded || endsGuarded:
		return "", fmt.Errorf("invalid start/end guards: %q: %w", contents, libcodabar.ErrWriter)
	default:
		startGuard, stopGuard = 'A', 'A'
	}

	if err := CheckNumeric(data); err != nil {
		return "", err
	}
	switch len(data) {
	case libraryCodabarPayloadLength - 1:
		check, _ := LibraryCodabarCheckDigit(data)
		data += string(check)
	case libraryCodabarPayloadLength:
		if !ValidLibraryCodabarCheckDigit(data) {
			return "", fmt.Errorf("incorrect check digit in %q: %w", contents, libcodabar.ErrWriter)
		}
	default:
		return "", fmt.Errorf("need %d or %d digits, got %d: %w",
			libraryCodabarPayloadLength-1, libraryCodabarPayloadLength, len(data), libcodabar.ErrWriter)
	}
	return string(startGuard) + data + string(stopGuard), nil
}

var _ libcodabar.Writer = (*LibraryCodabarWriter)(nil)
