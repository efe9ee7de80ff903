package envi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestHeaderString verifies the rendered header carries the fields ENVI
// expects for a raw QA band.
func TestHeaderString(t *testing.T) {
	h := Header{
		Description: "level-2 pixel quality band",
		Samples:     300,
		Lines:       200,
		DataType:    DataTypeUint16,
	}

	out := h.String()
	for _, want := range []string{
		"ENVI\n",
		"description = {level-2 pixel quality band}",
		"samples = 300",
		"lines = 200",
		"bands = 1",
		"data type = 12",
		"interleave = bsq",
		"byte order = 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected header to contain %q, got:\n%s", want, out)
		}
	}
}

// TestWriteValidation verifies bad dimensions and data types are rejected
func TestWriteValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "band.hdr")

	bad := Header{Samples: 0, Lines: 10, DataType: DataTypeUint8}
	if err := bad.Write(path); err == nil {
		t.Errorf("Expected error for zero samples")
	}

	bad = Header{Samples: 10, Lines: 10, DataType: 99}
	if err := bad.Write(path); err == nil {
		t.Errorf("Expected error for unknown data type code")
	}

	good := Header{Samples: 10, Lines: 10, DataType: DataTypeUint8}
	if err := good.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected header file written: %v", err)
	}
}

// TestHeaderPath verifies .hdr naming for plain and compressed bands
func TestHeaderPath(t *testing.T) {
	tests := []struct {
		band string
		want string
	}{
		{"scene_pixel_qa.img", "scene_pixel_qa.hdr"},
		{"scene_pixel_qa.img.gz", "scene_pixel_qa.hdr"},
		{"band", "band.hdr"},
	}
	for _, tc := range tests {
		if got := HeaderPath(tc.band); got != tc.want {
			t.Errorf("HeaderPath(%q): expected %q, got %q", tc.band, tc.want, got)
		}
	}
}
