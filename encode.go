package libcodabar

import "github.com/ericlevine/libcodabar/bitutil"

// EncodeOptions configures barcode encoding behavior.
type EncodeOptions struct {
	// Margin specifies the quiet zone on each side, in narrow modules.
	// Nil selects the writer's default.
	Margin *int
}

// Writer encodes data into a barcode.
type Writer interface {
	// Encode encodes the given contents into a barcode.
	Encode(contents string, format Format, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error)
}
