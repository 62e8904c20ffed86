package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"volshade/internal/volume"
	"volshade/pkg/config"
	"volshade/pkg/histogram"
	"volshade/pkg/panel"
	"volshade/pkg/preview"
	"volshade/pkg/scalar"
	"volshade/pkg/transfer"
)

func main() {
	// Parse command line arguments
	paramsPath := flag.String("params", "", "Transfer function parameters JSON file (default: built-in ramp)")
	configPath := flag.String("config", "volshade.yaml", "YAML configuration file")
	dtypeName := flag.String("dtype", "", "Voxel data type, overrides the configured one")
	outPath := flag.String("out", "preview.jpg", "Output preview image filename")
	volumeSize := flag.Int("size", 64, "Edge length of the synthetic demo volume in voxels")
	lutPath := flag.String("lut", "", "Optional file to dump the rasterized lookup table bytes")
	withHistogram := flag.Bool("histogram", true, "Render the demo volume's CDF backdrop behind the plot")
	flag.Parse()

	// Validate inputs
	if *volumeSize < 1 || *outPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	typeName := cfg.Data.Type
	if *dtypeName != "" {
		typeName = *dtypeName
	}
	dt, err := scalar.ParseDataType(typeName)
	if err != nil {
		log.Fatalf("Invalid data type: %v", err)
	}

	defaultColor, err := config.ParseColor(cfg.Panel.DefaultColor)
	if err != nil {
		log.Fatalf("Invalid default color: %v", err)
	}
	background, err := config.ParseColor(cfg.Preview.Background)
	if err != nil {
		log.Fatalf("Invalid background color: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("VOLSHADE - TRANSFER FUNCTION SYNTHESIS FOR VOLUMETRIC DATA")
	fmt.Println("================================")

	lookupSize := cfg.Data.LookupTableSize
	if lookupSize == 0 {
		lookupSize = transfer.DefaultLookupSize(dt)
	}

	// Build the transfer function from the parameters file, or seed the
	// default ramp in the configured color.
	var tf *transfer.TransferFunction
	if *paramsPath != "" {
		data, err := os.ReadFile(*paramsPath)
		if err != nil {
			log.Fatalf("Failed to read parameters file: %v", err)
		}
		params, err := transfer.ParseParameters(dt, data)
		if err != nil {
			log.Fatalf("Failed to parse parameters: %v", err)
		}
		params.DefaultColor = defaultColor
		tf = transfer.NewFromParameters(dt, params, lookupSize)
	} else {
		tf = transfer.New(dt, lookupSize)
		tf.SetDefaultColor(defaultColor)
		tf.GenerateDefaultControlPoints(scalar.Interval{}, scalar.Interval{})
	}

	// Synthesize the demo volume and sample it in the data type's domain
	fmt.Println("Synthesizing demo volume...")
	startTime := time.Now()
	vol, err := volume.Synthesize(*volumeSize, *volumeSize, *volumeSize, 0)
	if err != nil {
		log.Fatalf("Volume synthesis failed: %v", err)
	}
	samples := vol.Samples(dt)

	// Accumulate the histogram across the transfer function's window
	hist, err := histogram.Compute(samples, cfg.Histogram.Bins, tf.Window())
	if err != nil {
		log.Fatalf("Histogram computation failed: %v", err)
	}

	var backdrop []byte
	if *withHistogram {
		backdrop, err = hist.BackdropRow(cfg.Preview.Width)
		if err != nil {
			log.Fatalf("Backdrop row computation failed: %v", err)
		}
	}

	// Render the panel preview
	geom := panel.BuildPlotGeometry(tf.ControlPoints(), tf.Window())

	r, g, b := background.RGB255()
	opts := preview.Options{
		Width:        cfg.Preview.Width,
		Height:       cfg.Preview.Height,
		StripHeight:  cfg.Preview.StripHeight,
		MarkerRadius: cfg.Preview.MarkerRadius,
		Background:   color.RGBA{R: r, G: g, B: b, A: 255},
		Backdrop:     backdrop,
		LineColor:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
	img, err := preview.Render(tf, geom, opts)
	if err != nil {
		log.Fatalf("Preview rendering failed: %v", err)
	}
	if err := preview.Save(img, *outPath); err != nil {
		log.Fatalf("Failed to save preview: %v", err)
	}
	elapsed := time.Since(startTime)

	// Dump the raw lookup table if requested
	if *lutPath != "" {
		if err := os.WriteFile(*lutPath, tf.Lookup().Bytes(), 0644); err != nil {
			log.Fatalf("Failed to write lookup table: %v", err)
		}
		fmt.Printf("Lookup table bytes written to: %s\n", *lutPath)
	}

	fmt.Printf("\nPreview rendered in %.2f seconds!\n", elapsed.Seconds())
	fmt.Printf("Output image saved to: %s\n\n", *outPath)

	fmt.Printf("Transfer function summary:\n")
	fmt.Printf("==========================\n")
	fmt.Printf("Data type: %s\n", dt)
	fmt.Printf("Control points: %d\n", tf.ControlPoints().Len())
	if data, err := json.Marshal(tf.Window()); err == nil {
		fmt.Printf("Window: %s\n", data)
	}
	fmt.Printf("Lookup table entries: %d\n", tf.Lookup().Size())
	fmt.Printf("Voxels sampled: %.0f\n", hist.Total())

	if cfg.Output.Verbose {
		fmt.Println("\nPanel interaction settings:")
		fmt.Printf("- Minimum grab distance: %.3f of panel width\n", cfg.Panel.MinGrabFraction)
		fmt.Printf("- Border snap band: %.3f of panel width\n", cfg.Panel.BorderSnapFraction)
		fmt.Printf("- Wheel zoom divisor: %.0f\n", cfg.Panel.WheelZoomDivisor)

		if suggested, err := histogram.SuggestWindow(dt, samples, cfg.Histogram.TailFraction); err == nil {
			if data, err := json.Marshal(suggested); err == nil {
				fmt.Printf("\nSuggested window from the data distribution: %s\n", data)
			}
		}
	}
}
