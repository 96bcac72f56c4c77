// Package excel loads hourly series workbooks into raw rows for the
// normalizer. The specs mirror the published exports: the price files
// carry nine preamble rows above the header, the carbon-mix file starts
// with the header.
package excel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/application"
)

// ErrColumnNotFound is returned when a required column is missing from
// the header row.
var ErrColumnNotFound = errors.New("marketdata excel: column not found")

// SeriesSpec describes where one hourly series lives inside a workbook.
type SeriesSpec struct {
	Sheet     string
	HeaderRow int

	TimestampColumn string
	// ValueColumn matches the value header exactly; when empty,
	// ValueColumnContains matches a header carrying all fragments.
	// The carbon-mix value header carries special characters, so it is
	// located by partial match.
	ValueColumn         string
	ValueColumnContains []string
}

// MarketSpec locates the wholesale market price series.
func MarketSpec() SeriesSpec {
	return SeriesSpec{
		Sheet:           "Großhandelspreise",
		HeaderRow:       9,
		TimestampColumn: "Datum von",
		ValueColumn:     "Deutschland/Luxemburg [€/MWh]",
	}
}

// RedispatchSpec locates the balancing energy price series.
func RedispatchSpec() SeriesSpec {
	return SeriesSpec{
		Sheet:           "Ausgleichsenergie",
		HeaderRow:       9,
		TimestampColumn: "Datum von",
		ValueColumn:     "Preis [€/MWh]",
	}
}

// CarbonSpec locates the grid carbon intensity series (UTC stamped).
func CarbonSpec() SeriesSpec {
	return SeriesSpec{
		Sheet:               "DE_2024_hourly",
		HeaderRow:           0,
		TimestampColumn:     "Datetime (UTC)",
		ValueColumnContains: []string{"Carbon intensity", "direct"},
	}
}

// LoadSeriesPoints reads one series workbook into raw rows. Cell
// values stay untouched strings; parsing and zone handling belong to
// the normalizer.
func LoadSeriesPoints(path string, spec SeriesSpec) ([]application.RawPoint, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(spec.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", spec.Sheet, err)
	}
	if len(rows) <= spec.HeaderRow {
		return nil, fmt.Errorf("sheet %s: no header row at index %d", spec.Sheet, spec.HeaderRow)
	}

	header := rows[spec.HeaderRow]
	tsIdx, ok := findColumn(header, spec.TimestampColumn, nil)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, spec.TimestampColumn)
	}
	valueIdx, ok := findColumn(header, spec.ValueColumn, spec.ValueColumnContains)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, describeValueColumn(spec))
	}

	points := make([]application.RawPoint, 0, len(rows)-spec.HeaderRow-1)
	for _, row := range rows[spec.HeaderRow+1:] {
		ts := cell(row, tsIdx)
		value := cell(row, valueIdx)
		if ts == "" && value == "" {
			continue
		}
		points = append(points, application.RawPoint{Timestamp: ts, Value: value})
	}
	return points, nil
}

func findColumn(header []string, exact string, contains []string) (int, bool) {
	for i, name := range header {
		name = strings.TrimSpace(name)
		if exact != "" && name == exact {
			return i, true
		}
		if exact == "" && len(contains) > 0 && containsAll(name, contains) {
			return i, true
		}
	}
	return 0, false
}

func containsAll(name string, fragments []string) bool {
	for _, fragment := range fragments {
		if !strings.Contains(name, fragment) {
			return false
		}
	}
	return true
}

func describeValueColumn(spec SeriesSpec) string {
	if spec.ValueColumn != "" {
		return spec.ValueColumn
	}
	return strings.Join(spec.ValueColumnContains, "+")
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
