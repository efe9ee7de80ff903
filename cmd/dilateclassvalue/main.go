package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"landsatqa/pkg/classqa"
	"landsatqa/pkg/config"
	"landsatqa/pkg/dilation"
	"landsatqa/pkg/metadata"
	"landsatqa/pkg/qastats"
	"landsatqa/pkg/raster"
)

func main() {
	// Parse command line arguments
	xmlFile := flag.String("xml", "", "Input ESPA XML metadata file")
	value := flag.Int("value", -1, "Class value to dilate (0=clear, 1=water, 2=cloud shadow, 3=snow, 4=cloud)")
	distance := flag.Int("distance", -1, "Search distance from the current pixel (default: from config)")
	cores := flag.Int("cores", 0, "Number of CPU cores to use (default: from config)")
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	stats := flag.Bool("stats", false, "Report coverage and dilation impact")
	flag.Parse()

	// Validate inputs
	if *xmlFile == "" || *value < 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *value > 255 || uint8(*value) == classqa.Fill {
		log.Fatalf("Class value %d cannot be dilated", *value)
	}
	class := uint8(*value)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *distance < 0 {
		*distance = cfg.Processing.DefaultDistance
	}
	if *cores <= 0 {
		*cores = cfg.Processing.NumCores
	}
	if cfg.Output.ReportStats {
		*stats = true
	}

	// Locate the class QA band via the XML metadata
	meta, err := metadata.Parse(*xmlFile)
	if err != nil {
		log.Fatalf("Failed to parse metadata: %v", err)
	}

	band, err := meta.FindBand("level2_qa", "qa")
	if err != nil {
		log.Fatalf("Failed to locate the class QA band: %v", err)
	}
	if band.DataType != metadata.DataTypeUint8 {
		log.Fatalf("Expecting UINT8 data type for the class QA band, got %s; please check the input XML file", band.DataType)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Dilating class %s (%d) of %s with distance %d using %d cores\n",
			classqa.ClassName(class), class, band.FileName, *distance, *cores)
	}

	// Read the band into memory
	input, err := raster.ReadUint8(band.FileName, band.NLines, band.NSamps)
	if err != nil {
		log.Fatalf("Failed to read the class QA band: %v", err)
	}

	// Run the dilation
	startTime := time.Now()
	output, err := dilation.DilateClass(input, class, dilation.Params{
		Distance:   *distance,
		NumWorkers: *cores,
	})
	if err != nil {
		log.Fatalf("Dilation failed: %v", err)
	}

	// Write the dilated band back in place
	if err := output.Write(band.FileName); err != nil {
		log.Fatalf("Failed to write the dilated band: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Dilation completed in %.2f seconds\n", time.Since(startTime).Seconds())
	}

	if *stats {
		impact, err := qastats.ClassImpact(input, output, class)
		if err != nil {
			log.Fatalf("Failed to compute dilation impact: %v", err)
		}
		cov := qastats.ClassCoverage(output, class)

		fmt.Printf("\nDilation impact for class %s:\n", classqa.ClassName(class))
		fmt.Printf("  Pixels before: %d\n", impact.PixelsBefore)
		fmt.Printf("  Pixels after: %d\n", impact.PixelsAfter)
		fmt.Printf("  Pixels added: %d (%.2f%% growth)\n", impact.PixelsAdded, impact.GrowthPercent)
		fmt.Printf("  Per-row coverage: mean %.4f, stddev %.4f\n", impact.RowMean, impact.RowStdDev)
		fmt.Printf("  Fill fraction: %.4f\n", cov.FillFraction)
		fmt.Printf("  Condition coverage (non-fill): %.4f\n", cov.ConditionFraction)
	}
}
