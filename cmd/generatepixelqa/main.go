package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"landsatqa/pkg/envi"
	"landsatqa/pkg/level1"
	"landsatqa/pkg/metadata"
	"landsatqa/pkg/pixelqa"
	"landsatqa/pkg/raster"
)

const appVersion = "generate_pixel_qa_1.0.0"

// sensorFromSatellite maps the satellite name in the global metadata to
// the Level-1 QA sensor family
func sensorFromSatellite(satellite string) (level1.Sensor, error) {
	switch satellite {
	case "LANDSAT_4", "LANDSAT_5", "LANDSAT_7":
		return level1.SensorL47, nil
	case "LANDSAT_8":
		return level1.SensorL8, nil
	}
	return 0, fmt.Errorf("unsupported satellite %q", satellite)
}

func main() {
	// Parse command line arguments
	xmlFile := flag.String("xml", "", "Input ESPA XML metadata file")
	flag.Parse()

	// Validate inputs
	if *xmlFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	meta, err := metadata.Parse(*xmlFile)
	if err != nil {
		log.Fatalf("Failed to parse metadata: %v", err)
	}

	sensor, err := sensorFromSatellite(meta.Global.Satellite)
	if err != nil {
		log.Fatalf("Failed to determine the sensor family: %v", err)
	}

	// Locate the Level-1 QA band
	l1Band, err := meta.FindBand("bqa", "qa")
	if err != nil {
		log.Fatalf("Failed to locate the Level-1 QA band: %v", err)
	}
	if l1Band.DataType != metadata.DataTypeUint16 {
		log.Fatalf("Expecting UINT16 data type for the Level-1 QA band, got %s; please check the input XML file", l1Band.DataType)
	}

	fmt.Printf("Generating pixel QA from %s (%dx%d)\n",
		l1Band.FileName, l1Band.NLines, l1Band.NSamps)

	l1, err := raster.ReadUint16(l1Band.FileName, l1Band.NLines, l1Band.NSamps)
	if err != nil {
		log.Fatalf("Failed to read the Level-1 QA band: %v", err)
	}

	// Generate the pixel QA band
	qa, err := pixelqa.Generate(l1, sensor)
	if err != nil {
		log.Fatalf("Failed to generate the pixel QA band: %v", err)
	}

	// The pixel QA band lives next to the XML file, named after it
	qaFile := strings.TrimSuffix(*xmlFile, filepath.Ext(*xmlFile)) + "_pixel_qa.img"
	if err := qa.Write(qaFile); err != nil {
		log.Fatalf("Failed to write the pixel QA band: %v", err)
	}

	// Write the ENVI header alongside the band
	hdr := envi.Header{
		Description: "Level-2 pixel quality band",
		Samples:     qa.Cols,
		Lines:       qa.Rows,
		DataType:    envi.DataTypeUint16,
	}
	if err := hdr.Write(envi.HeaderPath(qaFile)); err != nil {
		log.Fatalf("Failed to write the ENVI header: %v", err)
	}

	// Append the new band to the XML metadata
	band := metadata.Band{
		Product:        "level2_qa",
		Source:         "level1",
		Name:           "pixel_qa",
		Category:       "qa",
		DataType:       metadata.DataTypeUint16,
		NLines:         qa.Rows,
		NSamps:         qa.Cols,
		FillValue:      1 << pixelqa.BitFill,
		ShortName:      l1Band.ShortName + "PQA",
		LongName:       "level-2 pixel quality band",
		FileName:       filepath.Base(qaFile),
		PixelSize:      l1Band.PixelSize,
		DataUnits:      "quality/feature classification",
		Bitmap:         pixelQABitmap(sensor),
		AppVersion:     appVersion,
		ProductionDate: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
	if err := meta.AppendBand(band); err != nil {
		log.Fatalf("Failed to append the pixel QA band to the metadata: %v", err)
	}

	fmt.Printf("Pixel QA band written to %s\n", qaFile)
}

// pixelQABitmap documents the pixel QA bits for the XML metadata. The
// cirrus confidence and terrain occlusion bits only exist for Landsat 8.
func pixelQABitmap(sensor level1.Sensor) *metadata.Bitmap {
	descriptions := []string{
		"fill",
		"clear",
		"water",
		"cloud shadow",
		"snow",
		"cloud",
		"cloud confidence",
		"cloud confidence",
		"unused",
		"unused",
		"unused",
	}
	if sensor == level1.SensorL8 {
		descriptions[8] = "cirrus confidence"
		descriptions[9] = "cirrus confidence"
		descriptions[10] = "terrain occlusion"
	}

	bm := &metadata.Bitmap{}
	for i, d := range descriptions {
		bm.Bits = append(bm.Bits, metadata.BitDescription{Num: i, Description: d})
	}
	return bm
}
