// Package envi writes the ENVI header files that accompany the raw binary
// QA bands, so the bands can be opened directly by ENVI-aware software.
package envi

import (
	"fmt"
	"os"
	"strings"
)

// ENVI data type codes for the pixel encodings the QA bands use
const (
	DataTypeUint8  = 1
	DataTypeUint16 = 12
)

// Header holds the fields written to an ENVI .hdr file
type Header struct {
	// Description is free text describing the band
	Description string

	// Samples and Lines are the raster dimensions (columns, rows)
	Samples int
	Lines   int

	// DataType is the ENVI data type code (1 = uint8, 12 = uint16)
	DataType int
}

// valid ENVI data types for QA bands
func validDataType(dt int) bool {
	return dt == DataTypeUint8 || dt == DataTypeUint16
}

// String renders the header in the ENVI text format. QA bands are always
// single-band, band-sequential, little-endian with no header offset.
func (h *Header) String() string {
	var b strings.Builder
	b.WriteString("ENVI\n")
	fmt.Fprintf(&b, "description = {%s}\n", h.Description)
	fmt.Fprintf(&b, "samples = %d\n", h.Samples)
	fmt.Fprintf(&b, "lines = %d\n", h.Lines)
	b.WriteString("bands = 1\n")
	b.WriteString("header offset = 0\n")
	b.WriteString("file type = ENVI Standard\n")
	fmt.Fprintf(&b, "data type = %d\n", h.DataType)
	b.WriteString("interleave = bsq\n")
	b.WriteString("byte order = 0\n")
	return b.String()
}

// Write validates the header and writes it to path
func (h *Header) Write(path string) error {
	if h.Samples <= 0 || h.Lines <= 0 {
		return fmt.Errorf("invalid header dimensions %dx%d", h.Lines, h.Samples)
	}
	if !validDataType(h.DataType) {
		return fmt.Errorf("invalid ENVI data type code %d", h.DataType)
	}
	if err := os.WriteFile(path, []byte(h.String()), 0644); err != nil {
		return fmt.Errorf("writing ENVI header %s: %w", path, err)
	}
	return nil
}

// HeaderPath derives the .hdr filename for a band file, stripping any
// .gz and .img suffixes.
func HeaderPath(bandFile string) string {
	name := strings.TrimSuffix(bandFile, ".gz")
	name = strings.TrimSuffix(name, ".img")
	return name + ".hdr"
}
