package dilation

import (
	"testing"

	"landsatqa/pkg/classqa"
	"landsatqa/pkg/pixelqa"
	"landsatqa/pkg/raster"
)

const (
	clearBit = uint16(1) << pixelqa.BitClear
	cloudBit = uint16(1) << pixelqa.BitCloud
	snowBit  = uint16(1) << pixelqa.BitSnow
	fillBit  = uint16(1) << pixelqa.BitFill
)

// newBitRaster builds a rows x cols bit-packed raster filled with a value
func newBitRaster(t *testing.T, rows, cols int, fill uint16) *raster.Uint16 {
	t.Helper()
	pix := make([]uint16, rows*cols)
	for i := range pix {
		pix[i] = fill
	}
	r, err := raster.WrapUint16(pix, rows, cols)
	if err != nil {
		t.Fatalf("Failed to build test raster: %v", err)
	}
	return r
}

// newClassRaster builds a rows x cols class raster filled with a value
func newClassRaster(t *testing.T, rows, cols int, fill uint8) *raster.Uint8 {
	t.Helper()
	pix := make([]uint8, rows*cols)
	for i := range pix {
		pix[i] = fill
	}
	r, err := raster.WrapUint8(pix, rows, cols)
	if err != nil {
		t.Fatalf("Failed to build test raster: %v", err)
	}
	return r
}

// TestDilateBitCloudCleanup verifies cloud dilation on a 5x5 all-clear
// raster with a single cloud pixel in the center: distance 1 must set the
// cloud bit and clear the clear bit on the 3x3 block around the center,
// and leave everything else untouched.
func TestDilateBitCloudCleanup(t *testing.T) {
	in := newBitRaster(t, 5, 5, clearBit)
	in.Set(2, 2, clearBit|cloudBit)

	out, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			v := out.At(row, col)
			inBlock := row >= 1 && row <= 3 && col >= 1 && col <= 3

			if inBlock {
				if !pixelqa.IsCloud(v) {
					t.Errorf("Expected cloud bit set at (%d,%d), got %#04x", row, col, v)
				}
				if pixelqa.IsClear(v) {
					t.Errorf("Expected clear bit cleared at (%d,%d), got %#04x", row, col, v)
				}
				if pixelqa.IsCloudShadow(v) {
					t.Errorf("Expected cloud shadow bit cleared at (%d,%d), got %#04x", row, col, v)
				}
			} else {
				if v != in.At(row, col) {
					t.Errorf("Expected pixel (%d,%d) unchanged, got %#04x want %#04x",
						row, col, v, in.At(row, col))
				}
			}
		}
	}
}

// TestDilateBitCloudClearsShadow verifies that a pixel flagged cloud
// shadow in the input loses the shadow flag when it gains the dilated
// cloud bit.
func TestDilateBitCloudClearsShadow(t *testing.T) {
	in := newBitRaster(t, 3, 3, clearBit)
	in.Set(0, 0, cloudBit)
	in.Set(0, 1, uint16(1)<<pixelqa.BitCloudShadow)

	out, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	v := out.At(0, 1)
	if !pixelqa.IsCloud(v) {
		t.Errorf("Expected cloud bit set at (0,1), got %#04x", v)
	}
	if pixelqa.IsCloudShadow(v) {
		t.Errorf("Expected cloud shadow bit cleared at (0,1), got %#04x", v)
	}
}

// TestDilateBitNonCloudNoCleanup verifies that dilating a bit other than
// cloud never clears the clear or cloud shadow bits present in the input.
func TestDilateBitNonCloudNoCleanup(t *testing.T) {
	in := newBitRaster(t, 3, 3, clearBit)
	in.Set(1, 1, clearBit|snowBit)

	out, err := DilateBit(in, pixelqa.BitSnow, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v := out.At(row, col)
			if !pixelqa.IsSnow(v) {
				t.Errorf("Expected snow bit set at (%d,%d), got %#04x", row, col, v)
			}
			if !pixelqa.IsClear(v) {
				t.Errorf("Expected clear bit preserved at (%d,%d), got %#04x", row, col, v)
			}
		}
	}
}

// TestDilateBitDistanceZero verifies that a zero search distance is an
// identity transform.
func TestDilateBitDistanceZero(t *testing.T) {
	in := newBitRaster(t, 4, 4, clearBit)
	in.Set(1, 2, clearBit|cloudBit)
	in.Set(3, 0, fillBit)

	out, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 0, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	for i, v := range out.Pix {
		if v != in.Pix[i] {
			t.Errorf("Expected pixel %d unchanged for distance 0, got %#04x want %#04x",
				i, v, in.Pix[i])
		}
	}
}

// TestDilateBitFillInvariance verifies fill pixels pass through untouched
// even when a cloud sits right next to them.
func TestDilateBitFillInvariance(t *testing.T) {
	in := newBitRaster(t, 3, 3, clearBit)
	in.Set(1, 1, cloudBit)
	in.Set(1, 0, fillBit)
	in.Set(0, 2, fillBit|clearBit)

	out, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 2, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	if got := out.At(1, 0); got != fillBit {
		t.Errorf("Expected fill pixel (1,0) unchanged, got %#04x", got)
	}
	if got := out.At(0, 2); got != fillBit|clearBit {
		t.Errorf("Expected fill pixel (0,2) unchanged, got %#04x", got)
	}
}

// TestDilateBitWindowSkipsOutOfBounds verifies boundary correctness: a
// cloud in a corner dilates into the clipped window without indexing
// outside the raster, and reaches only in-bounds neighbors.
func TestDilateBitWindowSkipsOutOfBounds(t *testing.T) {
	in := newBitRaster(t, 4, 4, clearBit)
	in.Set(0, 0, cloudBit)

	out, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			wantCloud := row <= 1 && col <= 1
			if gotCloud := pixelqa.IsCloud(out.At(row, col)); gotCloud != wantCloud {
				t.Errorf("Corner dilation at (%d,%d): cloud=%v, want %v",
					row, col, gotCloud, wantCloud)
			}
		}
	}
}

// TestDilateBitMonotonicity verifies that enlarging the distance only adds
// flagged pixels, never removes them.
func TestDilateBitMonotonicity(t *testing.T) {
	in := newBitRaster(t, 8, 8, clearBit)
	in.Set(1, 6, cloudBit)
	in.Set(5, 2, clearBit|cloudBit)
	in.Set(7, 7, fillBit)

	small, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit distance=1 failed: %v", err)
	}
	large, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 3, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateBit distance=3 failed: %v", err)
	}

	for i := range small.Pix {
		if pixelqa.IsCloud(small.Pix[i]) && !pixelqa.IsCloud(large.Pix[i]) {
			t.Errorf("Pixel %d flagged at distance 1 but not at distance 3", i)
		}
	}
}

// TestDilateBitParallelMatchesSerial verifies the row-parallel execution
// is bit-identical to a single-worker scan.
func TestDilateBitParallelMatchesSerial(t *testing.T) {
	in := newBitRaster(t, 16, 11, clearBit)
	// Scatter some conditions around, including fill
	in.Set(0, 10, cloudBit)
	in.Set(3, 3, clearBit|cloudBit)
	in.Set(8, 0, fillBit)
	in.Set(12, 7, cloudBit|snowBit)
	in.Set(15, 5, uint16(1)<<pixelqa.BitCloudShadow)

	serial, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 2, NumWorkers: 1})
	if err != nil {
		t.Fatalf("Serial DilateBit failed: %v", err)
	}
	parallel, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 2, NumWorkers: 5})
	if err != nil {
		t.Fatalf("Parallel DilateBit failed: %v", err)
	}

	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Errorf("Pixel %d differs between serial (%#04x) and parallel (%#04x)",
				i, serial.Pix[i], parallel.Pix[i])
		}
	}
}

// TestDilateBitRejectsInvalidTargets verifies that confidence sub-bits,
// reserved bits and negative distances are rejected before any
// computation.
func TestDilateBitRejectsInvalidTargets(t *testing.T) {
	in := newBitRaster(t, 2, 2, clearBit)

	for _, bit := range []int{-1, 6, 7, 8, 9, 11, 15, 16} {
		if _, err := DilateBit(in, bit, Params{Distance: 1}); err == nil {
			t.Errorf("Expected error for target bit %d, got none", bit)
		}
	}

	if _, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: -1}); err == nil {
		t.Errorf("Expected error for negative distance, got none")
	}
}

// TestDilateClassCorner verifies the concrete corner scenario: an 8x8
// all-clear class raster with one cloud pixel at (0,0) dilated with
// distance 2 must produce cloud for rows 0-2, cols 0-2 only.
func TestDilateClassCorner(t *testing.T) {
	in := newClassRaster(t, 8, 8, classqa.Clear)
	in.Set(0, 0, classqa.Cloud)

	out, err := DilateClass(in, classqa.Cloud, Params{Distance: 2, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateClass failed: %v", err)
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			want := uint8(classqa.Clear)
			if row <= 2 && col <= 2 {
				want = classqa.Cloud
			}
			if got := out.At(row, col); got != want {
				t.Errorf("Corner dilation at (%d,%d): got %d, want %d", row, col, got, want)
			}
		}
	}
}

// TestDilateClassSelfMatch verifies that a pixel already carrying the
// target class keeps it for any distance, including zero.
func TestDilateClassSelfMatch(t *testing.T) {
	for _, distance := range []int{0, 1, 4} {
		in := newClassRaster(t, 5, 5, classqa.Clear)
		in.Set(2, 2, classqa.Snow)

		out, err := DilateClass(in, classqa.Snow, Params{Distance: distance, NumWorkers: 1})
		if err != nil {
			t.Fatalf("DilateClass distance=%d failed: %v", distance, err)
		}
		if got := out.At(2, 2); got != classqa.Snow {
			t.Errorf("Expected self-match preserved at distance %d, got %d", distance, got)
		}
	}
}

// TestDilateClassDistanceZero verifies that a zero search distance is an
// identity transform for the class dilation as well.
func TestDilateClassDistanceZero(t *testing.T) {
	in := newClassRaster(t, 4, 4, classqa.Clear)
	in.Set(0, 1, classqa.Cloud)
	in.Set(2, 3, classqa.Water)
	in.Set(3, 3, classqa.Fill)

	out, err := DilateClass(in, classqa.Cloud, Params{Distance: 0, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateClass failed: %v", err)
	}

	for i, v := range out.Pix {
		if v != in.Pix[i] {
			t.Errorf("Expected pixel %d unchanged for distance 0, got %d want %d",
				i, v, in.Pix[i])
		}
	}
}

// TestDilateClassFillInvariance verifies fill pixels never take on the
// dilated class.
func TestDilateClassFillInvariance(t *testing.T) {
	in := newClassRaster(t, 3, 3, classqa.Clear)
	in.Set(1, 1, classqa.Cloud)
	in.Set(1, 2, classqa.Fill)

	out, err := DilateClass(in, classqa.Cloud, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateClass failed: %v", err)
	}

	if got := out.At(1, 2); got != classqa.Fill {
		t.Errorf("Expected fill pixel unchanged, got %d", got)
	}
	// The non-fill neighbors all gain the class
	if got := out.At(0, 0); got != classqa.Cloud {
		t.Errorf("Expected (0,0) dilated to cloud, got %d", got)
	}
}

// TestDilateClassOtherClassesOverwritten verifies the full-value
// overwrite: a water pixel inside the window becomes the target class.
func TestDilateClassOtherClassesOverwritten(t *testing.T) {
	in := newClassRaster(t, 3, 3, classqa.Clear)
	in.Set(1, 1, classqa.Cloud)
	in.Set(0, 1, classqa.Water)

	out, err := DilateClass(in, classqa.Cloud, Params{Distance: 1, NumWorkers: 1})
	if err != nil {
		t.Fatalf("DilateClass failed: %v", err)
	}

	if got := out.At(0, 1); got != classqa.Cloud {
		t.Errorf("Expected water pixel overwritten with cloud, got %d", got)
	}
}

// TestDilateClassRejectsInvalidRequests verifies fill targets and negative
// distances are rejected.
func TestDilateClassRejectsInvalidRequests(t *testing.T) {
	in := newClassRaster(t, 2, 2, classqa.Clear)

	if _, err := DilateClass(in, classqa.Fill, Params{Distance: 1}); err == nil {
		t.Errorf("Expected error when dilating the fill class, got none")
	}
	if _, err := DilateClass(in, classqa.Cloud, Params{Distance: -2}); err == nil {
		t.Errorf("Expected error for negative distance, got none")
	}
}

// TestDilateClassParallelMatchesSerial verifies worker count does not
// change the class dilation result.
func TestDilateClassParallelMatchesSerial(t *testing.T) {
	in := newClassRaster(t, 13, 9, classqa.Clear)
	in.Set(0, 0, classqa.Cloud)
	in.Set(6, 4, classqa.Cloud)
	in.Set(12, 8, classqa.Fill)
	in.Set(3, 7, classqa.Snow)

	serial, err := DilateClass(in, classqa.Cloud, Params{Distance: 2, NumWorkers: 1})
	if err != nil {
		t.Fatalf("Serial DilateClass failed: %v", err)
	}
	parallel, err := DilateClass(in, classqa.Cloud, Params{Distance: 2, NumWorkers: 4})
	if err != nil {
		t.Fatalf("Parallel DilateClass failed: %v", err)
	}

	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Errorf("Pixel %d differs between serial (%d) and parallel (%d)",
				i, serial.Pix[i], parallel.Pix[i])
		}
	}
}

// TestDilateDoesNotModifyInput verifies the input raster is only borrowed
// for reading.
func TestDilateDoesNotModifyInput(t *testing.T) {
	in := newBitRaster(t, 4, 4, clearBit)
	in.Set(2, 2, cloudBit)
	before := make([]uint16, len(in.Pix))
	copy(before, in.Pix)

	if _, err := DilateBit(in, pixelqa.BitCloud, Params{Distance: 1, NumWorkers: 2}); err != nil {
		t.Fatalf("DilateBit failed: %v", err)
	}

	for i := range before {
		if in.Pix[i] != before[i] {
			t.Errorf("Input pixel %d modified by dilation", i)
		}
	}
}
