// Package qastats summarizes QA band contents and measures the effect of
// a dilation pass, for reporting by the command-line tools.
package qastats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"landsatqa/pkg/classqa"
	"landsatqa/pkg/pixelqa"
	"landsatqa/pkg/raster"
)

// Coverage is the fraction of non-fill pixels carrying a condition,
// together with the fill fraction of the whole raster. Fractions are in
// [0, 1].
type Coverage struct {
	// TotalPixels is the raster size in pixels
	TotalPixels int

	// FillFraction is the fraction of all pixels that are fill
	FillFraction float64

	// ConditionFraction is the fraction of non-fill pixels carrying the
	// summarized condition
	ConditionFraction float64
}

// BitCoverage computes the coverage of one bit in a pixel QA raster
func BitCoverage(r *raster.Uint16, bit int) Coverage {
	var fill, flagged int
	for _, v := range r.Pix {
		if pixelqa.IsFill(v) {
			fill++
			continue
		}
		if pixelqa.HasBit(v, bit) {
			flagged++
		}
	}
	return coverage(len(r.Pix), fill, flagged)
}

// ClassCoverage computes the coverage of one class value in a class QA
// raster
func ClassCoverage(r *raster.Uint8, class uint8) Coverage {
	var fill, flagged int
	for _, v := range r.Pix {
		if classqa.IsFill(v) {
			fill++
			continue
		}
		if v == class {
			flagged++
		}
	}
	return coverage(len(r.Pix), fill, flagged)
}

func coverage(total, fill, flagged int) Coverage {
	c := Coverage{TotalPixels: total}
	if total > 0 {
		c.FillFraction = float64(fill) / float64(total)
	}
	if nonFill := total - fill; nonFill > 0 {
		c.ConditionFraction = float64(flagged) / float64(nonFill)
	}
	return c
}

// Impact reports how a dilation pass changed the footprint of the target
// condition.
type Impact struct {
	// PixelsBefore and PixelsAfter count pixels carrying the condition
	PixelsBefore int
	PixelsAfter  int

	// PixelsAdded is the number of pixels that gained the condition
	PixelsAdded int

	// GrowthPercent is PixelsAdded relative to PixelsBefore, as a
	// percentage. Zero when the condition was absent from the input.
	GrowthPercent float64

	// RowMean and RowStdDev summarize the distribution of per-row
	// condition coverage in the dilated raster, indicating how evenly
	// the condition is spread across the scene
	RowMean   float64
	RowStdDev float64
}

// BitImpact measures a bit dilation by comparing the rasters before and
// after the pass
func BitImpact(before, after *raster.Uint16, bit int) (Impact, error) {
	if !before.SameShape(after) {
		return Impact{}, fmt.Errorf("raster shapes differ: %dx%d vs %dx%d",
			before.Rows, before.Cols, after.Rows, after.Cols)
	}
	match := func(v uint16) bool { return pixelqa.HasBit(v, bit) }
	return impactUint16(before, after, match), nil
}

// ClassImpact measures a class dilation by comparing the rasters before
// and after the pass
func ClassImpact(before, after *raster.Uint8, class uint8) (Impact, error) {
	if !before.SameShape(after) {
		return Impact{}, fmt.Errorf("raster shapes differ: %dx%d vs %dx%d",
			before.Rows, before.Cols, after.Rows, after.Cols)
	}

	var im Impact
	rowFractions := make([]float64, after.Rows)
	for row := 0; row < after.Rows; row++ {
		base := row * after.Cols
		rowCount := 0
		for col := 0; col < after.Cols; col++ {
			if before.Pix[base+col] == class {
				im.PixelsBefore++
			}
			if after.Pix[base+col] == class {
				im.PixelsAfter++
				rowCount++
			}
		}
		rowFractions[row] = float64(rowCount) / float64(after.Cols)
	}
	finishImpact(&im, rowFractions)
	return im, nil
}

func impactUint16(before, after *raster.Uint16, match func(uint16) bool) Impact {
	var im Impact
	rowFractions := make([]float64, after.Rows)
	for row := 0; row < after.Rows; row++ {
		base := row * after.Cols
		rowCount := 0
		for col := 0; col < after.Cols; col++ {
			if match(before.Pix[base+col]) {
				im.PixelsBefore++
			}
			if match(after.Pix[base+col]) {
				im.PixelsAfter++
				rowCount++
			}
		}
		rowFractions[row] = float64(rowCount) / float64(after.Cols)
	}
	finishImpact(&im, rowFractions)
	return im
}

func finishImpact(im *Impact, rowFractions []float64) {
	im.PixelsAdded = im.PixelsAfter - im.PixelsBefore
	if im.PixelsBefore > 0 {
		im.GrowthPercent = 100 * float64(im.PixelsAdded) / float64(im.PixelsBefore)
	}
	im.RowMean, im.RowStdDev = stat.MeanStdDev(rowFractions, nil)
}
