// Package main provides a one-shot command-line extraction: it builds a
// single request, runs the pipeline, and writes the series as CSV.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.ngs.io/currents-api/internal/adapter/source"
	"go.ngs.io/currents-api/internal/usecase"
)

func main() {
	mainPath := flag.String("main", "", "Path to the circulation model NetCDF file (required)")
	anglePath := flag.String("angle", "", "Path to the grid-angle NetCDF file (required)")
	lat := flag.Float64("lat", 0, "Latitude in decimal degrees")
	lon := flag.Float64("lon", 0, "Longitude in decimal degrees")
	depth := flag.Float64("depth", 0, "Depth in meters (default: surface)")
	startStr := flag.String("start", "", "Window start, RFC3339 (required)")
	endStr := flag.String("end", "", "Window end, RFC3339 (required)")
	timeUnits := flag.String("time-units", usecase.DefaultTimeUnits, "CF-style time axis units")
	maxDist := flag.Float64("max-cell-distance", 0.25, "Nearest-cell acceptance threshold in degrees (<=0 disables)")
	retries := flag.Uint64("retries", 3, "Retry attempts for transient fetch failures")
	flag.Parse()

	if *mainPath == "" || *anglePath == "" || *startStr == "" || *endStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	start, err := time.Parse(time.RFC3339, *startStr)
	if err != nil {
		log.Fatalf("Invalid -start: %v", err)
	}
	end, err := time.Parse(time.RFC3339, *endStr)
	if err != nil {
		log.Fatalf("Invalid -end: %v", err)
	}

	cfg := usecase.DefaultConfig()
	cfg.MaxCellDistanceDeg = *maxDist
	cfg.TimeUnits = *timeUnits

	mainSource := source.WithRetry(source.NewNetCDF(*mainPath), *retries, 200*time.Millisecond)
	angleSource := source.WithRetry(source.NewNetCDF(*anglePath), *retries, 200*time.Millisecond)

	extractor, err := usecase.NewExtractor(mainSource, angleSource, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize extractor: %v", err)
	}

	req := usecase.ExtractionRequest{
		Start:  start.UTC(),
		End:    end.UTC(),
		Lat:    *lat,
		Lon:    *lon,
		DepthM: *depth,
	}

	result, err := extractor.Execute(context.Background(), req)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	log.Printf("Resolved cell (%d, %d) at (%.4f, %.4f), %s mode, angle %.4f rad",
		result.Cell.I, result.Cell.J, result.CellLat, result.CellLon, result.Mode, result.AngleRad)

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"time", "u_ms", "v_ms"}); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}
	for _, s := range result.Series {
		record := []string{
			s.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(s.U, 'f', 4, 64),
			strconv.FormatFloat(s.V, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}

	fmt.Fprintf(os.Stderr, "%d samples written\n", len(result.Series))
}
