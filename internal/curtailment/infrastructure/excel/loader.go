// Package excel loads the curtailment event export into raw rows for
// the sanitizer.
package excel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/application"
)

// Column headers of the grid operator's curtailment export.
const (
	columnStart    = "Start"
	columnEnd      = "Ende"
	columnDuration = "Dauer (Min)"
	columnLevel    = "Stufe (%)"
	columnPlant    = "Anlagenschlüssel"
)

// ErrColumnNotFound is returned when a required column is missing from
// the header row.
var ErrColumnNotFound = errors.New("curtailment excel: column not found")

// LoadCurtailmentRows reads the curtailment export into raw rows.
// The source's "Stufe (%)" column is the *remaining* capacity level;
// it is converted here to the curtailment level (100 - stufe) so the
// core only ever sees the curtailment fraction. An unparsable stufe is
// read as 0, i.e. full curtailment, matching the source convention
// that an omitted stufe means the plant was fully shut down.
func LoadCurtailmentRows(path string) ([]application.RawEvent, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: empty", sheet)
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnStart, columnEnd, columnLevel, columnPlant} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, required)
		}
	}
	durationIdx, hasDuration := columns[columnDuration]

	events := make([]application.RawEvent, 0, len(rows)-1)
	for _, row := range rows[1:] {
		start := cell(row, columns[columnStart])
		end := cell(row, columns[columnEnd])
		if start == "" && end == "" {
			continue
		}

		duration := ""
		if hasDuration {
			duration = cell(row, durationIdx)
		}
		events = append(events, application.RawEvent{
			PlantID:               cell(row, columns[columnPlant]),
			Start:                 start,
			End:                   end,
			StatedDurationMinutes: duration,
			LevelPercent:          curtailmentLevel(cell(row, columns[columnLevel])),
		})
	}
	return events, nil
}

func curtailmentLevel(stufe string) float64 {
	stufe = strings.ReplaceAll(stufe, ",", ".")
	remaining, err := strconv.ParseFloat(stufe, 64)
	if err != nil || remaining < 0 {
		remaining = 0
	}
	if remaining > 100 {
		remaining = 100
	}
	return 100 - remaining
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
