package oned

import "math"

// Library Codabar is the Codabar profile printed on library patron and item
// cards: a guard character, 13 data digits, a mod-10 check digit and a
// closing guard.

const libraryCodabarAlphabet = "0123456789-$:/.+ABCDTN"

// libraryCodabarCharacterEncodings holds one wide/narrow mask per alphabet
// symbol. The first of the seven elements is the most significant of the
// seven low bits; a set bit is a wide element. T and N reuse the masks of C
// and D, and lookups return the first match, so decoding never yields them.
var libraryCodabarCharacterEncodings = [len(libraryCodabarAlphabet)]int{
	0x003, 0x006, 0x009, 0x060, 0x012, 0x042, 0x021, 0x024, 0x030, 0x048, // 0-9
	0x00c, 0x018, 0x045, 0x051, 0x054, 0x015, // -$:/.+
	0x01a, 0x029, 0x00b, 0x00e, // ABCD
	0x00b, 0x00e, // TN
}

const (
	libraryCodabarElements      = 7
	libraryCodabarPayloadLength = 14
)

var libraryCodabarGuards = [...]byte{'A', 'B', 'C', 'D', 'T', 'N'}

func isLibraryCodabarGuard(c byte) bool {
	for _, g := range libraryCodabarGuards {
		if c == g {
			return true
		}
	}
	return false
}

// libraryCodabarEncoding returns the wide/narrow mask for c.
func libraryCodabarEncoding(c byte) (int, bool) {
	for i := 0; i < len(libraryCodabarAlphabet); i++ {
		if libraryCodabarAlphabet[i] == c {
			return libraryCodabarCharacterEncodings[i], true
		}
	}
	return 0, false
}

func libraryCodabarSymbol(pattern int) (byte, bool) {
	for i, enc := range libraryCodabarCharacterEncodings {
		if enc == pattern {
			return libraryCodabarAlphabet[i], true
		}
	}
	return 0, false
}

// classifyLibraryCodabar maps the seven run widths of one character to its
// symbol. No absolute width decides wide from narrow: the cut point sweeps
// down from the widest run to the narrowest, and the first cut that leaves
// two or three wide elements forming a known mask wins. The last cut marks
// everything wider than the narrowest run as wide, which is what separates
// one-pixel narrow from two-pixel wide elements.
func classifyLibraryCodabar(counters []int) (byte, bool) {
	numCounters := len(counters)
	minCounter := math.MaxInt
	maxCounter := 0
	for _, c := range counters {
		minCounter = min(minCounter, c)
		maxCounter = max(maxCounter, c)
	}

	for threshold := maxCounter; threshold >= minCounter; threshold-- {
		wideCounters := 0
		pattern := 0
		for i, c := range counters {
			if c > threshold {
				pattern |= 1 << uint(numCounters-1-i)
				wideCounters++
			}
		}
		if wideCounters != 2 && wideCounters != 3 {
			continue
		}
		if c, ok := libraryCodabarSymbol(pattern); ok {
			return c, true
		}
	}
	return 0, false
}

// LibraryCodabarCheckDigit computes the check digit for data. Digits at even
// offsets count once; digits at odd offsets are doubled, less nine when the
// double exceeds nine. It returns false if data holds a non-digit.
func LibraryCodabarCheckDigit(data string) (byte, bool) {
	total := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		digit := int(c - '0')
		if i%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		total += digit
	}
	remainder := total % 10
	if remainder == 0 {
		return '0', true
	}
	return byte('0' + 10 - remainder), true
}

// ValidLibraryCodabarCheckDigit reports whether the last character of
// payload is the check digit of the characters before it.
func ValidLibraryCodabarCheckDigit(payload string) bool {
	if len(payload) < 2 {
		return false
	}
	last := len(payload) - 1
	want, ok := LibraryCodabarCheckDigit(payload[:last])
	return ok && payload[last] == want
}
