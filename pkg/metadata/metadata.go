// Package metadata reads and updates the subset of the ESPA internal
// metadata XML that the QA tools need: the band list. Each band entry
// names the file holding the band, its data type and dimensions, and
// descriptive metadata such as bitmap descriptions and production date.
package metadata

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// Data types declared for a band in the XML
const (
	DataTypeUint8  = "UINT8"
	DataTypeUint16 = "UINT16"
	DataTypeInt16  = "INT16"
)

// Metadata is the parsed ESPA internal metadata document
type Metadata struct {
	XMLName xml.Name   `xml:"espa_metadata"`
	Version string     `xml:"version,attr,omitempty"`
	Global  GlobalMeta `xml:"global_metadata"`
	Bands   []Band     `xml:"bands>band"`

	// path the document was parsed from, used for in-place updates
	path string
}

// GlobalMeta holds the scene-level metadata fields the QA tools consult
type GlobalMeta struct {
	Satellite       string `xml:"satellite"`
	Instrument      string `xml:"instrument"`
	AcquisitionDate string `xml:"acquisition_date"`
}

// Band describes one band of the product
type Band struct {
	Product   string `xml:"product,attr"`
	Source    string `xml:"source,attr,omitempty"`
	Name      string `xml:"name,attr"`
	Category  string `xml:"category,attr"`
	DataType  string `xml:"data_type,attr"`
	NLines    int    `xml:"nlines,attr"`
	NSamps    int    `xml:"nsamps,attr"`
	FillValue int    `xml:"fill_value,attr"`

	ShortName      string     `xml:"short_name"`
	LongName       string     `xml:"long_name"`
	FileName       string     `xml:"file_name"`
	PixelSize      *PixelSize `xml:"pixel_size,omitempty"`
	DataUnits      string     `xml:"data_units,omitempty"`
	Bitmap         *Bitmap    `xml:"bitmap_description,omitempty"`
	AppVersion     string     `xml:"app_version,omitempty"`
	ProductionDate string     `xml:"production_date,omitempty"`
}

// PixelSize is the ground size of one pixel
type PixelSize struct {
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Units string  `xml:"units,attr"`
}

// Bitmap lists the meaning of each bit in a bit-packed band
type Bitmap struct {
	Bits []BitDescription `xml:"bit"`
}

// BitDescription documents one bit of a bit-packed band
type BitDescription struct {
	Num         int    `xml:"num,attr"`
	Description string `xml:",chardata"`
}

// Parse reads and parses an ESPA metadata XML file
func Parse(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	meta := &Metadata{path: path}
	if err := xml.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("parsing metadata file %s: %w", path, err)
	}
	if len(meta.Bands) == 0 {
		return nil, fmt.Errorf("metadata file %s declares no bands", path)
	}
	return meta, nil
}

// Path returns the file the metadata was parsed from
func (m *Metadata) Path() string {
	return m.path
}

// FindBand returns a copy of the band with the given name and category.
// Band file names in the XML are relative to the XML file's directory;
// the returned copy's FileName is resolved against it. The stored band
// list keeps its relative paths so a later rewrite leaves them intact.
func (m *Metadata) FindBand(name, category string) (*Band, error) {
	for i := range m.Bands {
		if m.Bands[i].Name == name && m.Bands[i].Category == category {
			b := m.Bands[i]
			if !filepath.IsAbs(b.FileName) {
				b.FileName = filepath.Join(filepath.Dir(m.path), b.FileName)
			}
			return &b, nil
		}
	}
	return nil, fmt.Errorf("band %q (category %q) not found in %s", name, category, m.path)
}

// AppendBand adds a band to the document and rewrites the XML file. The
// write goes through a temp file and rename so a failure leaves the
// original metadata intact.
func (m *Metadata) AppendBand(b Band) error {
	m.Bands = append(m.Bands, b)

	out, err := xml.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	out = append([]byte(xml.Header), out...)
	out = append(out, '\n')

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp metadata file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp metadata file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing metadata file %s: %w", m.path, err)
	}
	return nil
}
