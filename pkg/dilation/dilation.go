// Package dilation grows a selected quality condition across a QA raster
// using a square search window. For every pixel, if the target condition is
// present anywhere within the window (Chebyshev distance <= the search
// distance, clipped at the raster edges), the output pixel also carries the
// condition; otherwise the input pixel passes through unchanged.
//
// A 3-pixel distance searches a 7x7 window centered on the pixel:
//
//	1, 1, 1, 1, 1, 1, 1
//	1, 1, 1, 1, 1, 1, 1
//	1, 1, 1, 1, 1, 1, 1
//	1, 1, 1, T, 1, 1, 1
//	1, 1, 1, 1, 1, 1, 1
//	1, 1, 1, 1, 1, 1, 1
//	1, 1, 1, 1, 1, 1, 1
//
// Each output row depends only on the input raster, so rows are processed
// in parallel across a worker pool. The result is identical to a serial
// row-by-row scan.
package dilation

import (
	"fmt"
	"runtime"
	"sync"

	"landsatqa/pkg/classqa"
	"landsatqa/pkg/pixelqa"
	"landsatqa/pkg/raster"
)

// Params controls a dilation pass
type Params struct {
	// Distance is the search distance from the current pixel, in pixels.
	// Zero means the window is just the pixel itself and the output
	// equals the input.
	Distance int

	// NumWorkers is the number of goroutines used to process rows.
	// Zero or negative selects runtime.NumCPU().
	NumWorkers int
}

func (p Params) workers(nrows int) int {
	n := p.NumWorkers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > nrows {
		n = nrows
	}
	return n
}

// forEachRow runs fn over every row index using the configured worker
// pool. Rows are split into contiguous ranges, one range per worker.
func forEachRow(nrows int, p Params, fn func(row int)) {
	numWorkers := p.workers(nrows)
	rowsPerWorker := (nrows + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(startRow int) {
			defer wg.Done()
			endRow := startRow + rowsPerWorker
			if endRow > nrows {
				endRow = nrows
			}
			for row := startRow; row < endRow; row++ {
				fn(row)
			}
		}(w * rowsPerWorker)
	}
	wg.Wait()
}

// DilateBit produces a dilated copy of the bit-packed pixel QA raster for
// one selected bit. Fill pixels pass through untouched. When the cloud bit
// is dilated, the clear and cloud shadow bits are cleared on every dilated
// pixel so the output never flags a pixel as both cloud and clear (or cloud
// and cloud shadow); snow and water are left on. There is no cleanup policy
// for any other bit, so any other target is a simple dilation.
func DilateBit(in *raster.Uint16, bit int, p Params) (*raster.Uint16, error) {
	if !pixelqa.DilatableBit(bit) {
		return nil, fmt.Errorf("bit %d is not a dilatable single-bit QA condition", bit)
	}
	if p.Distance < 0 {
		return nil, fmt.Errorf("invalid search distance %d: must be >= 0", p.Distance)
	}

	out, err := raster.NewUint16(in.Rows, in.Cols)
	if err != nil {
		return nil, err
	}

	targetMask := uint16(1) << uint(bit)

	// Start from an all-ones cleaning mask and clear the bits that would
	// contradict a cloud dilation.
	cleaningMask := ^uint16(0)
	if bit == pixelqa.BitCloud {
		cleaningMask &^= 1 << pixelqa.BitClear
		cleaningMask &^= 1 << pixelqa.BitCloudShadow
	}

	nrows, ncols := in.Rows, in.Cols
	distance := p.Distance

	forEachRow(nrows, p, func(row int) {
		startRow := row - distance
		endRow := row + distance
		rowIndex := row * ncols

		for col := 0; col < ncols; col++ {
			outIndex := rowIndex + col

			// Fill pixels are never modified
			if pixelqa.IsFill(in.Pix[outIndex]) {
				out.Pix[outIndex] = in.Pix[outIndex]
				continue
			}

			startCol := col - distance
			endCol := col + distance

			found := false
			for windowRow := startRow; windowRow <= endRow && !found; windowRow++ {
				if windowRow < 0 || windowRow > nrows-1 {
					continue
				}
				windowRowIndex := windowRow * ncols

				for windowCol := startCol; windowCol <= endCol; windowCol++ {
					if windowCol < 0 || windowCol > ncols-1 {
						continue
					}
					if in.Pix[windowRowIndex+windowCol]&targetMask != 0 {
						found = true
						break
					}
				}
			}

			if found {
				out.Pix[outIndex] = (in.Pix[outIndex] | targetMask) & cleaningMask
			} else {
				out.Pix[outIndex] = in.Pix[outIndex]
			}
		}
	})

	return out, nil
}

// DilateClass produces a dilated copy of the class QA raster for one
// selected class value. Fill pixels pass through untouched, and dilating
// the fill value itself is rejected. No cleanup policy is needed: the
// class encoding has no independent sub-fields to contradict.
func DilateClass(in *raster.Uint8, class uint8, p Params) (*raster.Uint8, error) {
	if class == classqa.Fill {
		return nil, fmt.Errorf("class %d is the fill value and cannot be dilated", class)
	}
	if p.Distance < 0 {
		return nil, fmt.Errorf("invalid search distance %d: must be >= 0", p.Distance)
	}

	out, err := raster.NewUint8(in.Rows, in.Cols)
	if err != nil {
		return nil, err
	}

	nrows, ncols := in.Rows, in.Cols
	distance := p.Distance

	forEachRow(nrows, p, func(row int) {
		startRow := row - distance
		endRow := row + distance
		rowIndex := row * ncols

		for col := 0; col < ncols; col++ {
			outIndex := rowIndex + col

			// Fill pixels are never modified
			if in.Pix[outIndex] == classqa.Fill {
				out.Pix[outIndex] = classqa.Fill
				continue
			}

			// Quick check the current pixel
			if in.Pix[outIndex] == class {
				out.Pix[outIndex] = class
				continue
			}

			startCol := col - distance
			endCol := col + distance

			found := false
			for windowRow := startRow; windowRow <= endRow && !found; windowRow++ {
				if windowRow < 0 || windowRow > nrows-1 {
					continue
				}
				windowRowIndex := windowRow * ncols

				for windowCol := startCol; windowCol <= endCol; windowCol++ {
					if windowCol < 0 || windowCol > ncols-1 {
						continue
					}
					if in.Pix[windowRowIndex+windowCol] == class {
						found = true
						break
					}
				}
			}

			if found {
				out.Pix[outIndex] = class
			} else {
				out.Pix[outIndex] = in.Pix[outIndex]
			}
		}
	})

	return out, nil
}
