// Package binarizer turns luminance rows into bar/space rows.
package binarizer

import (
	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// GlobalHistogram picks one black point per row from that row's luminance
// histogram and sharpens the row before thresholding. It suits printed
// cards under even light, which is what a single scanline decoder expects.
//
// A GlobalHistogram reuses scratch buffers and must not be shared between
// goroutines.
type GlobalHistogram struct {
	source     libcodabar.LuminanceSource
	luminances []byte
	buckets    [luminanceBuckets]int
}

// NewGlobalHistogram creates a new GlobalHistogram binarizer.
func NewGlobalHistogram(source libcodabar.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() libcodabar.LuminanceSource {
	return g.source
}

// Width returns the image width.
func (g *GlobalHistogram) Width() int { return g.source.Width() }

// Height returns the image height.
func (g *GlobalHistogram) Height() int { return g.source.Height() }

// BlackRow binarizes row y. It returns libcodabar.ErrNotFound when the row has
// no usable contrast.
func (g *GlobalHistogram) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := g.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}

	if len(g.luminances) < width {
		g.luminances = make([]byte, width)
	}
	g.buckets = [luminanceBuckets]int{}
	lum := g.source.Row(y, g.luminances)
	if lum == nil {
		return nil, libcodabar.ErrNotFound
	}
	for x := 0; x < width; x++ {
		g.buckets[lum[x]>>luminanceShift]++
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(lum[x]) < blackPoint {
				row.Set(x)
			}
		}
		return row, nil
	}
	// A [-1 4 -1]/2 kernel sharpens edges blurred by the camera.
	left, center := int(lum[0]), int(lum[1])
	for x := 1; x < width-1; x++ {
		right := int(lum[x+1])
		if (center*4-left-right)/2 < blackPoint {
			row.Set(x)
		}
		left, center = center, right
	}
	return row, nil
}

// estimateBlackPoint finds the deepest valley between the two tallest,
// well separated histogram peaks.
func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	for x, count := range buckets {
		if count > buckets[firstPeak] {
			firstPeak = x
		}
		maxBucketCount = max(maxBucketCount, count)
	}

	secondPeak := 0
	secondPeakScore := 0
	for x, count := range buckets {
		dist := x - firstPeak
		if score := count * dist * dist; score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}
	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, libcodabar.ErrNotFound
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}
	return bestValley << luminanceShift, nil
}
