// Command seriesdump loads one hourly workbook, normalizes it and dumps
// the series to CSV. Useful for eyeballing an input file before a run.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	mdapp "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/application"
	mddomain "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
	mdexcel "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/infrastructure/excel"
)

func main() {
	var (
		file = flag.String("file", "", "workbook path (required)")
		kind = flag.String("kind", "market", "series kind: market, redispatch or carbon")
		tz   = flag.String("tz", "Europe/Berlin", "local timezone for hour keys")
		out  = flag.String("out", "", "output CSV path (default stdout)")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *file == "" {
		logger.Fatal("seriesdump: -file is required")
	}

	var (
		spec mdexcel.SeriesSpec
		zone mddomain.Zone
	)
	switch *kind {
	case "market":
		spec, zone = mdexcel.MarketSpec(), mddomain.ZoneLocal
	case "redispatch":
		spec, zone = mdexcel.RedispatchSpec(), mddomain.ZoneLocal
	case "carbon":
		spec, zone = mdexcel.CarbonSpec(), mddomain.ZoneUTC
	default:
		logger.Fatalf("seriesdump: unknown kind %q", *kind)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		logger.Fatalf("seriesdump: load timezone %s: %v", *tz, err)
	}

	points, err := mdexcel.LoadSeriesPoints(*file, spec)
	if err != nil {
		logger.Fatalf("seriesdump: load %s: %v", *file, err)
	}

	normalizer, err := mdapp.NewSeriesNormalizer(loc, logger)
	if err != nil {
		logger.Fatalf("seriesdump: %v", err)
	}
	series, stats, err := normalizer.Normalize(*kind, points, zone)
	if err != nil {
		logger.Fatalf("seriesdump: normalize: %v", err)
	}
	logger.Printf("seriesdump: %s: rows=%d parsed=%d dropped=%d overwrites=%d",
		*kind, stats.Rows, stats.Parsed, stats.Dropped(), stats.Overwrites)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatalf("seriesdump: create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeCSV(w, series); err != nil {
		logger.Fatalf("seriesdump: write csv: %v", err)
	}
}

func writeCSV(w *os.File, series *mddomain.HourlySeries) error {
	keys := series.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"hour", "value"}); err != nil {
		return err
	}
	for _, key := range keys {
		value, _ := series.Value(key)
		record := []string{string(key), strconv.FormatFloat(value, 'f', -1, 64)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
