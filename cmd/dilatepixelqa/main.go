package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"landsatqa/pkg/config"
	"landsatqa/pkg/dilation"
	"landsatqa/pkg/metadata"
	"landsatqa/pkg/pixelqa"
	"landsatqa/pkg/qastats"
	"landsatqa/pkg/raster"
)

func main() {
	// Parse command line arguments
	xmlFile := flag.String("xml", "", "Input ESPA XML metadata file")
	bit := flag.Int("bit", -1, "QA bit to dilate (0=fill, 1=clear, 2=water, 3=cloud shadow, 4=snow, 5=cloud, 10=terrain occlusion)")
	distance := flag.Int("distance", -1, "Search distance from the current pixel (default: from config)")
	cores := flag.Int("cores", 0, "Number of CPU cores to use (default: from config)")
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	stats := flag.Bool("stats", false, "Report coverage and dilation impact")
	flag.Parse()

	// Validate inputs
	if *xmlFile == "" || *bit < 0 {
		flag.Usage()
		os.Exit(1)
	}

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

	if !pixelqa.DilatableBit(*bit) {
		log.Fatalf("Bit %d is not a dilatable single-bit QA condition", *bit)
	}

	// Locate the pixel QA band via the XML metadata
	meta, err := metadata.Parse(*xmlFile)
	if err != nil {
		log.Fatalf("Failed to parse metadata: %v", err)
	}

	band, err := meta.FindBand("pixel_qa", "qa")
	if err != nil {
		log.Fatalf("Failed to locate the pixel QA band: %v", err)
	}
	if band.DataType != metadata.DataTypeUint16 {
		log.Fatalf("Expecting UINT16 data type for the pixel QA band, got %s; please check the input XML file", band.DataType)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Dilating %s (bit %d) of %s with distance %d using %d cores\n",
			pixelqa.BitName(*bit), *bit, band.FileName, *distance, *cores)
	}

	// Read the band into memory
	input, err := raster.ReadUint16(band.FileName, band.NLines, band.NSamps)
	if err != nil {
		log.Fatalf("Failed to read the pixel QA band: %v", err)
	}

	// Run the dilation
	startTime := time.Now()
	output, err := dilation.DilateBit(input, *bit, dilation.Params{
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
		impact, err := qastats.BitImpact(input, output, *bit)
		if err != nil {
			log.Fatalf("Failed to compute dilation impact: %v", err)
		}
		cov := qastats.BitCoverage(output, *bit)

		fmt.Printf("\nDilation impact for %s:\n", pixelqa.BitName(*bit))
		fmt.Printf("  Pixels before: %d\n", impact.PixelsBefore)
		fmt.Printf("  Pixels after: %d\n", impact.PixelsAfter)
		fmt.Printf("  Pixels added: %d (%.2f%% growth)\n", impact.PixelsAdded, impact.GrowthPercent)
		fmt.Printf("  Per-row coverage: mean %.4f, stddev %.4f\n", impact.RowMean, impact.RowStdDev)
		fmt.Printf("  Fill fraction: %.4f\n", cov.FillFraction)
		fmt.Printf("  Condition coverage (non-fill): %.4f\n", cov.ConditionFraction)
	}
}
