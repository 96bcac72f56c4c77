package excel

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeCurtailmentWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{"Anlagenschlüssel", "Start", "Ende", "Dauer (Min)", "Stufe (%)"}
	for col, value := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, value)
	}
	for rowIdx, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	path := filepath.Join(t.TempDir(), "curtailment.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadCurtailmentRows(t *testing.T) {
	path := writeCurtailmentWorkbook(t, [][]any{
		{"plant-1", "05.03.2024 10:00", "05.03.2024 10:30", "30", "60"},
		{"plant-1", "06.03.2024 08:00", "06.03.2024 09:00", "60", "0"},
	})

	rows, err := LoadCurtailmentRows(path)
	if err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.PlantID != "plant-1" || first.Start != "05.03.2024 10:00" || first.End != "05.03.2024 10:30" {
		t.Fatalf("unexpected row: %+v", first)
	}
	// Stufe 60 means 60% remaining, so 40% curtailed.
	if math.Abs(first.LevelPercent-40) > 1e-9 {
		t.Fatalf("expected 40%% curtailment, got %.2f", first.LevelPercent)
	}
	// Stufe 0 means a full shutdown.
	if math.Abs(rows[1].LevelPercent-100) > 1e-9 {
		t.Fatalf("expected 100%% curtailment, got %.2f", rows[1].LevelPercent)
	}
}

func TestLoadCurtailmentRowsUnparsableStufeMeansShutdown(t *testing.T) {
	path := writeCurtailmentWorkbook(t, [][]any{
		{"plant-1", "05.03.2024 10:00", "05.03.2024 10:30", "30", ""},
	})

	rows, err := LoadCurtailmentRows(path)
	if err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].LevelPercent != 100 {
		t.Fatalf("expected full curtailment for missing stufe, got %.2f", rows[0].LevelPercent)
	}
}

func TestLoadCurtailmentRowsMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "Start")
	_ = f.SetCellValue(sheet, "B1", "Ende")

	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	if _, err := LoadCurtailmentRows(path); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}
