package oned

import (
	"fmt"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

const defaultOneDMargin = 10 // quiet zone in narrow modules

// RenderOneDCode renders a 1D barcode pattern as a BitMatrix with margin
// blank pixels of the pattern's own scale on each side, then scales it up by
// the largest whole multiple that fits width.
func RenderOneDCode(code []bool, width, height, margin int) *bitutil.BitMatrix {
	inputWidth := len(code)
	fullWidth := inputWidth + 2*margin
	width = max(width, fullWidth)
	height = max(height, 1)

	multiple := max(width/fullWidth, 1)
	leftPadding := (width - inputWidth*multiple) / 2

	output := bitutil.NewBitMatrix(width, height)
	for inputX := 0; inputX < inputWidth; {
		if !code[inputX] {
			inputX++
			continue
		}
		runEnd := inputX
		for runEnd < inputWidth && code[runEnd] {
			runEnd++
		}
		output.SetRegion(leftPadding+inputX*multiple, 0, (runEnd-inputX)*multiple, height)
		inputX = runEnd
	}
	return output
}

// AppendPattern appends a pattern of bars/spaces to a boolean array.
// If startColor is true, the first element is a bar (black); otherwise space (white).
// Returns the total width appended.
func AppendPattern(target []bool, pos int, pattern []int, startColor bool) int {
	color := startColor
	numAdded := 0
	for _, p := range pattern {
		for j := 0; j < p; j++ {
			target[pos] = color
			pos++
			numAdded++
		}
		color = !color
	}
	return numAdded
}

// CheckNumeric validates that a string contains only digits.
func CheckNumeric(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("contents contain non-digit character %q: %w", s[i], libcodabar.ErrWriter)
		}
	}
	return nil
}

func encodeMargin(opts *libcodabar.EncodeOptions) int {
	if opts != nil && opts.Margin != nil && *opts.Margin >= 0 {
		return *opts.Margin
	}
	return defaultOneDMargin
}
