package binarizer

import (
	"errors"
	"strings"
	"testing"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/oned"
)

// shadedSymbol renders a library Codabar symbol whose right half is in
// shadow: bars and spaces there are 40 and 180 instead of 0 and 255.
func shadedSymbol(t *testing.T, height int) (rowSource, string) {
	t.Helper()
	writer, err := oned.NewLibraryCodabarWriterWithWidths(2, 5)
	if err != nil {
		t.Fatal(err)
	}
	code, err := writer.EncodeContents("2123400012345")
	if err != nil {
		t.Fatal(err)
	}

	const quiet = 24
	width := len(code) + 2*quiet
	var want strings.Builder
	lum := make([]byte, width)
	for x := 0; x < width; x++ {
		bar := x >= quiet && x < quiet+len(code) && code[x-quiet]
		shadow := x >= width/2
		switch {
		case bar && shadow:
			lum[x] = 40
		case bar:
			lum[x] = 0
		case shadow:
			lum[x] = 180
		default:
			lum[x] = 255
		}
		if bar {
			want.WriteByte('X')
		} else {
			want.WriteByte('.')
		}
	}
	rows := make([][]byte, height)
	for y := range rows {
		rows[y] = lum
	}
	return rowSource{rows: rows}, want.String()
}

func TestHybridShadedSymbol(t *testing.T) {
	source, want := shadedSymbol(t, 48)
	h := NewHybrid(source)
	for _, y := range []int{0, 20, 47} {
		row, err := h.BlackRow(y, nil)
		if err != nil {
			t.Fatalf("BlackRow(%d): %v", y, err)
		}
		if got := row.String(); got != want {
			t.Errorf("BlackRow(%d) =\n%s\nwant\n%s", y, got, want)
		}
	}

	row, _ := h.BlackRow(20, nil)
	result, err := oned.NewLibraryCodabarImageReader().DecodeRow(20, row, nil)
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if result.Text != "21234000123453" {
		t.Errorf("decoded %q", result.Text)
	}
}

func TestHybridSmallImageFallsBack(t *testing.T) {
	picture := "....XXXX....XX..XXXXXX......"
	lum := make([]byte, len(picture))
	for i, ch := range picture {
		if ch == 'X' {
			lum[i] = 20
		} else {
			lum[i] = 230
		}
	}
	h := NewHybrid(rowSource{rows: [][]byte{lum, lum}})
	row, err := h.BlackRow(1, nil)
	if err != nil {
		t.Fatalf("BlackRow: %v", err)
	}
	if got := row.String(); got != picture {
		t.Errorf("BlackRow = %q, want %q", got, picture)
	}
}

func TestHybridOutOfRange(t *testing.T) {
	source, _ := shadedSymbol(t, 48)
	h := NewHybrid(source)
	if _, err := h.BlackRow(48, nil); !errors.Is(err, libcodabar.ErrNotFound) {
		t.Errorf("out of range row error = %v, want ErrNotFound", err)
	}
}
