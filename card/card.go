// Package card interprets the 14-digit payload of a library card barcode.
//
// The payload is laid out as
//
//	K IIII SSSSSSSS C
//
// where K is the kind (2 for a patron card, 3 for an item), IIII the
// institution number, SSSSSSSS the serial within the institution and C the
// check digit.
package card

import (
	"errors"
	"fmt"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/oned"
)

// ErrInvalidID is returned for payloads that are not library card ids.
var ErrInvalidID = errors.New("invalid library card id")

// Kind says what a card id labels.
type Kind int

const (
	KindUnknown Kind = iota
	KindPatron
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindPatron:
		return "patron"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

const (
	payloadLength     = 14
	institutionLength = 4
	serialLength      = 8
)

// ID is a parsed library card payload.
type ID struct {
	Kind        Kind
	Institution string
	Serial      string
	CheckDigit  byte
}

// Parse splits a payload into its fields. The payload must be 14 digits
// with a correct check digit and a kind digit of 2 or 3.
func Parse(payload string) (ID, error) {
	if len(payload) != payloadLength {
		return ID{}, fmt.Errorf("%w: want %d digits, got %d", ErrInvalidID, payloadLength, len(payload))
	}
	if !oned.ValidLibraryCodabarCheckDigit(payload) {
		return ID{}, fmt.Errorf("%w: check digit mismatch in %q", ErrInvalidID, payload)
	}

	var kind Kind
	switch payload[0] {
	case '2':
		kind = KindPatron
	case '3':
		kind = KindItem
	default:
		return ID{}, fmt.Errorf("%w: kind digit %q", ErrInvalidID, payload[0])
	}
	return ID{
		Kind:        kind,
		Institution: payload[1 : 1+institutionLength],
		Serial:      payload[1+institutionLength : 1+institutionLength+serialLength],
		CheckDigit:  payload[payloadLength-1],
	}, nil
}

// FromResult parses the text of a decoded library Codabar result.
func FromResult(r *libcodabar.Result) (ID, error) {
	if r == nil || r.Format != libcodabar.FormatCodabar {
		return ID{}, fmt.Errorf("%w: not a Codabar result", ErrInvalidID)
	}
	return Parse(r.Text)
}

// Payload reassembles the 14-digit payload.
func (id ID) Payload() string {
	kind := byte('2')
	if id.Kind == KindItem {
		kind = '3'
	}
	return string(kind) + id.Institution + id.Serial + string(id.CheckDigit)
}

func (id ID) String() string {
	return fmt.Sprintf("%s %s/%s", id.Kind, id.Institution, id.Serial)
}
