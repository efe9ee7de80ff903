package raster

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// The ESPA raw binary format is a flat dump of the pixel buffer with no
// header; dimensions travel separately in the XML metadata. 16-bit bands
// are little-endian (ENVI byte order 0).

// openBandReader opens a band file for reading, transparently decompressing
// gzip-compressed bands (.gz suffix).
func openBandReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening band file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip band file %s: %w", path, err)
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}

// ReadUint16 reads a rows x cols little-endian 16-bit band from path
func ReadUint16(path string, rows, cols int) (*Uint16, error) {
	r, err := NewUint16(rows, cols)
	if err != nil {
		return nil, err
	}

	src, err := openBandReader(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	buf := make([]byte, 2*rows*cols)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("reading %d pixels from %s: %w", rows*cols, path, err)
	}
	for i := range r.Pix {
		r.Pix[i] = uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
	}
	return r, nil
}

// ReadUint8 reads a rows x cols 8-bit band from path
func ReadUint8(path string, rows, cols int) (*Uint8, error) {
	r, err := NewUint8(rows, cols)
	if err != nil {
		return nil, err
	}

	src, err := openBandReader(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := io.ReadFull(src, r.Pix); err != nil {
		return nil, fmt.Errorf("reading %d pixels from %s: %w", rows*cols, path, err)
	}
	return r, nil
}

// writeBand writes the encoded pixel buffer to path through a temp file in
// the same directory, renaming into place only on success. A failed write
// never leaves a partial band behind.
func writeBand(path string, encode func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp band file: %w", err)
	}
	tmpName := tmp.Name()

	var w io.Writer
	var gz *gzip.Writer
	bw := bufio.NewWriter(tmp)
	w = bw
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(bw)
		w = gz
	}

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := encode(w); err != nil {
		return fail(fmt.Errorf("writing band data: %w", err))
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fail(fmt.Errorf("finishing gzip stream: %w", err))
		}
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("flushing band data: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp band file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing band file %s: %w", path, err)
	}
	return nil
}

// Write writes the raster to path as little-endian 16-bit pixels
func (r *Uint16) Write(path string) error {
	return writeBand(path, func(w io.Writer) error {
		buf := make([]byte, 2*len(r.Pix))
		for i, v := range r.Pix {
			buf[2*i] = byte(v)
			buf[2*i+1] = byte(v >> 8)
		}
		_, err := w.Write(buf)
		return err
	})
}

// Write writes the raster to path as 8-bit pixels
func (r *Uint8) Write(path string) error {
	return writeBand(path, func(w io.Writer) error {
		_, err := w.Write(r.Pix)
		return err
	})
}
