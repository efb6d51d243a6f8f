package libcodabar

import "errors"

var (
	// ErrNotFound is returned whenever a row or image does not hold a
	// decodable library Codabar symbol. It covers a missing guard, an
	// unclassifiable character, a short quiet zone, a wrong length and a
	// check digit mismatch alike.
	ErrNotFound = errors.New("barcode not found")

	// ErrWriter is returned when contents cannot be encoded.
	ErrWriter = errors.New("writer error")
)
