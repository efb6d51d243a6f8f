package binarizer

import (
	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds each pixel against the black points of the 8x8 blocks
// around it. It reads cards photographed under a lamp or in partial shadow,
// where one black point per row puts the bright end of the symbol on the
// wrong side. Images smaller than 40x40 fall back to GlobalHistogram.
//
// The thresholded image is computed on the first BlackRow call and kept, so
// a Hybrid must not be shared between goroutines.
type Hybrid struct {
	GlobalHistogram
	matrix *bitutil.BitMatrix
}

// NewHybrid creates a new Hybrid binarizer.
func NewHybrid(source libcodabar.LuminanceSource) *Hybrid {
	return &Hybrid{
		GlobalHistogram: *NewGlobalHistogram(source),
	}
}

// BlackRow returns row y of the locally thresholded image.
func (h *Hybrid) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width, height := h.Width(), h.Height()
	if width < minimumDimension || height < minimumDimension {
		return h.GlobalHistogram.BlackRow(y, row)
	}
	if y < 0 || y >= height {
		return nil, libcodabar.ErrNotFound
	}
	if h.matrix == nil {
		h.matrix = h.threshold(width, height)
	}
	return h.matrix.Row(y, row), nil
}

func (h *Hybrid) threshold(width, height int) *bitutil.BitMatrix {
	luminances := make([]byte, width*height)
	for y := 0; y < height; y++ {
		h.source.Row(y, luminances[y*width:(y+1)*width])
	}

	subWidth := width >> blockSizePower
	if (width & blockSizeMask) != 0 {
		subWidth++
	}
	subHeight := height >> blockSizePower
	if (height & blockSizeMask) != 0 {
		subHeight++
	}
	blackPoints := calculateBlackPoints(luminances, subWidth, subHeight, width, height)

	matrix := bitutil.NewBitMatrix(width, height)
	calculateThresholdForBlock(luminances, subWidth, subHeight, width, height, blackPoints, matrix)
	return matrix
}

// calculateThresholdForBlock thresholds every block against the average
// black point of the 5x5 blocks centred on it.
func calculateThresholdForBlock(luminances []byte, subWidth, subHeight, width, height int,
	blackPoints [][]int, matrix *bitutil.BitMatrix) {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	for y := 0; y < subHeight; y++ {
		yoffset := min(y<<blockSizePower, maxYOffset)
		top := cap3(y, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoffset := min(x<<blockSizePower, maxXOffset)
			left := cap3(x, subWidth-3)
			sum := 0
			for z := -2; z <= 2; z++ {
				blackRow := blackPoints[top+z]
				sum += blackRow[left-2] + blackRow[left-1] + blackRow[left] + blackRow[left+1] + blackRow[left+2]
			}
			thresholdBlock(luminances, xoffset, yoffset, sum/25, width, matrix)
		}
	}
}

func cap3(value, max int) int {
	if value < 2 {
		return 2
	}
	if value > max {
		return max
	}
	return value
}

func thresholdBlock(luminances []byte, xoffset, yoffset, threshold, stride int, matrix *bitutil.BitMatrix) {
	for y, offset := 0, yoffset*stride+xoffset; y < blockSize; y, offset = y+1, offset+stride {
		for x := 0; x < blockSize; x++ {
			if int(luminances[offset+x]) <= threshold {
				matrix.Set(xoffset+x, yoffset+y)
			}
		}
	}
}

// calculateBlackPoints computes one black point per block. A flat block,
// such as the quiet zone or the inside of a wide bar, borrows its
// neighbours' black point when that is brighter than the block's darkest
// pixel.
func calculateBlackPoints(luminances []byte, subWidth, subHeight, width, height int) [][]int {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	blackPoints := make([][]int, subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, subWidth)
	}

	for y := 0; y < subHeight; y++ {
		yoffset := min(y<<blockSizePower, maxYOffset)
		for x := 0; x < subWidth; x++ {
			xoffset := min(x<<blockSizePower, maxXOffset)
			sum := 0
			mn := 0xFF
			mx := 0
			for yy, offset := 0, yoffset*width+xoffset; yy < blockSize; yy, offset = yy+1, offset+width {
				for xx := 0; xx < blockSize; xx++ {
					pixel := int(luminances[offset+xx])
					sum += pixel
					mn = min(mn, pixel)
					mx = max(mx, pixel)
				}
				// Once contrast is established, finish the sum without tracking range.
				if mx-mn > minDynamicRange {
					for yy, offset = yy+1, offset+width; yy < blockSize; yy, offset = yy+1, offset+width {
						for xx := 0; xx < blockSize; xx++ {
							sum += int(luminances[offset+xx])
						}
					}
				}
			}

			average := sum >> (blockSizePower * 2)
			if mx-mn <= minDynamicRange {
				average = mn / 2
				if y > 0 && x > 0 {
					averageNeighborBlackPoint :=
						(blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if mn < averageNeighborBlackPoint {
						average = averageNeighborBlackPoint
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints
}
