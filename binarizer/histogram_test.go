package binarizer

import (
	"errors"
	"testing"

	libcodabar "github.com/ericlevine/libcodabar"
)

type rowSource struct {
	rows [][]byte
}

func (s rowSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= len(s.rows) {
		return nil
	}
	if len(row) < len(s.rows[y]) {
		row = make([]byte, len(s.rows[y]))
	}
	copy(row, s.rows[y])
	return row
}

func (s rowSource) Width() int  { return len(s.rows[0]) }
func (s rowSource) Height() int { return len(s.rows) }

func TestGlobalHistogramBlackRow(t *testing.T) {
	picture := "....XXXX....XX..XXXXXX......"
	lum := make([]byte, len(picture))
	for i, ch := range picture {
		if ch == 'X' {
			lum[i] = 20
		} else {
			lum[i] = 230
		}
	}
	g := NewGlobalHistogram(rowSource{rows: [][]byte{lum}})
	row, err := g.BlackRow(0, nil)
	if err != nil {
		t.Fatalf("BlackRow: %v", err)
	}
	if got := row.String(); got != picture {
		t.Errorf("BlackRow = %q, want %q", got, picture)
	}
}

func TestGlobalHistogramLowContrastRow(t *testing.T) {
	lum := make([]byte, 50)
	for i := range lum {
		lum[i] = 120
		if i%2 == 1 {
			lum[i] = 136
		}
	}
	g := NewGlobalHistogram(rowSource{rows: [][]byte{lum}})
	if _, err := g.BlackRow(0, nil); !errors.Is(err, libcodabar.ErrNotFound) {
		t.Errorf("low contrast row error = %v, want ErrNotFound", err)
	}
}

func TestGlobalHistogramOutOfRange(t *testing.T) {
	g := NewGlobalHistogram(rowSource{rows: [][]byte{{0, 255, 0}}})
	if _, err := g.BlackRow(5, nil); !errors.Is(err, libcodabar.ErrNotFound) {
		t.Errorf("out of range row error = %v, want ErrNotFound", err)
	}
}
