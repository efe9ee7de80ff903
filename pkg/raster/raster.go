// Package raster provides 2D views over flat row-major pixel buffers for
// the QA bands. Construction is bounds-checked; the hot loops in the
// dilation code index the Pix slice directly.
package raster

import (
	"fmt"
)

// Uint16 is a rectangular grid of 16-bit pixel codes stored as a flat
// row-major buffer. It backs the bit-packed pixel QA band.
type Uint16 struct {
	// Rows and Cols are the raster dimensions in pixels
	Rows, Cols int

	// Pix holds Rows*Cols pixel codes in row-major order
	Pix []uint16
}

// Uint8 is a rectangular grid of 8-bit pixel codes stored as a flat
// row-major buffer. It backs the class-coded QA band.
type Uint8 struct {
	// Rows and Cols are the raster dimensions in pixels
	Rows, Cols int

	// Pix holds Rows*Cols pixel codes in row-major order
	Pix []uint8
}

// checkDims validates raster dimensions before any buffer is touched
func checkDims(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("invalid raster dimensions %dx%d: rows and columns must be positive", rows, cols)
	}
	return nil
}

// NewUint16 allocates a zeroed rows x cols 16-bit raster
func NewUint16(rows, cols int) (*Uint16, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	return &Uint16{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint16, rows*cols),
	}, nil
}

// NewUint8 allocates a zeroed rows x cols 8-bit raster
func NewUint8(rows, cols int) (*Uint8, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	return &Uint8{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint8, rows*cols),
	}, nil
}

// WrapUint16 wraps an existing buffer without copying. The buffer length
// must match the declared dimensions exactly.
func WrapUint16(pix []uint16, rows, cols int) (*Uint16, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	if len(pix) != rows*cols {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d raster (%d pixels)",
			len(pix), rows, cols, rows*cols)
	}
	return &Uint16{Rows: rows, Cols: cols, Pix: pix}, nil
}

// WrapUint8 wraps an existing buffer without copying. The buffer length
// must match the declared dimensions exactly.
func WrapUint8(pix []uint8, rows, cols int) (*Uint8, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	if len(pix) != rows*cols {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d raster (%d pixels)",
			len(pix), rows, cols, rows*cols)
	}
	return &Uint8{Rows: rows, Cols: cols, Pix: pix}, nil
}

// At returns the pixel code at (row, col)
func (r *Uint16) At(row, col int) uint16 {
	return r.Pix[row*r.Cols+col]
}

// Set stores a pixel code at (row, col)
func (r *Uint16) Set(row, col int, v uint16) {
	r.Pix[row*r.Cols+col] = v
}

// At returns the pixel code at (row, col)
func (r *Uint8) At(row, col int) uint8 {
	return r.Pix[row*r.Cols+col]
}

// Set stores a pixel code at (row, col)
func (r *Uint8) Set(row, col int, v uint8) {
	r.Pix[row*r.Cols+col] = v
}

// SameShape reports whether two 16-bit rasters have identical dimensions
func (r *Uint16) SameShape(o *Uint16) bool {
	return r.Rows == o.Rows && r.Cols == o.Cols
}

// SameShape reports whether two 8-bit rasters have identical dimensions
func (r *Uint8) SameShape(o *Uint8) bool {
	return r.Rows == o.Rows && r.Cols == o.Cols
}
