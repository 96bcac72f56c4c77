package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/application"
)

// BuildReportPDF renders a minimal PDF for an analysis run.
func BuildReportPDF(run *application.RunResult, ranAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Curtailment Impact Analysis")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Plant: %s", run.Config.PlantID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Capacity: %.1f MW", run.Config.TurbineCapacityMW))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Compensation rate: %.1f%%", run.Config.CompensationRate*100))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", ranAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range reportRows(run) {
		pdf.CellFormat(90, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, row.value, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders a minimal XLSX for an analysis run, one
// summary sheet and one diagnostics sheet.
func BuildReportXLSX(run *application.RunResult, ranAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	diagnosticsSheet := "diagnostics"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(diagnosticsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Curtailment Impact Analysis")
	_ = f.SetCellValue(summarySheet, "A2", "Generated")
	_ = f.SetCellValue(summarySheet, "B2", ranAt.Format(time.RFC3339))
	for i, row := range reportRows(run) {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+4), row.label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+4), row.value)
	}

	diag := run.Diagnostics()
	diagRows := []struct {
		label string
		value int
	}{
		{"Parse failures", diag.ParseFailures},
		{"Invalid time ranges", diag.InvalidRanges},
		{"Filtered out", diag.FilteredOut},
		{"Zero-level drops", diag.ZeroLevelDrops},
		{"Duration mismatches", diag.DurationMismatches},
		{"Missing market hours", diag.MissingMarketHours},
		{"Missing redispatch hours", diag.MissingRedispatchHours},
		{"Missing carbon hours", diag.MissingCarbonHours},
	}
	for i, row := range diagRows {
		_ = f.SetCellValue(diagnosticsSheet, fmt.Sprintf("A%d", i+1), row.label)
		_ = f.SetCellValue(diagnosticsSheet, fmt.Sprintf("B%d", i+1), row.value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type reportRow struct {
	label string
	value string
}

func reportRows(run *application.RunResult) []reportRow {
	result := run.Result
	return []reportRow{
		{"Total curtailed energy (MWh)", fmt.Sprintf("%.2f", result.TotalCurtailedEnergyMWh)},
		{"Total missed revenue (EUR)", fmt.Sprintf("%.2f", result.TotalMissedRevenue)},
		{"Compensation paid (EUR)", fmt.Sprintf("%.2f", result.TotalCompensation)},
		{"Total redispatch cost (EUR)", fmt.Sprintf("%.2f", result.TotalRedispatchCost)},
		{"Total economic impact (EUR)", fmt.Sprintf("%.2f", result.TotalEconomicImpact)},
		{"Total CO2 emissions (tonnes)", fmt.Sprintf("%.2f", result.TotalCO2Tonnes)},
		{"Number of events", fmt.Sprintf("%d", result.EventCount)},
		{"Processed events", fmt.Sprintf("%d", result.ProcessedEventCount)},
		{"Total duration (minutes)", fmt.Sprintf("%.0f", result.TotalDurationMinutes)},
		{"Average energy per event (MWh)", fmt.Sprintf("%.2f", result.AverageEnergyPerEventMWh)},
		{"Capacity factor loss (%)", fmt.Sprintf("%.4f", result.CapacityFactorLossPercent)},
		{"Average price during curtailment (EUR/MWh)", fmt.Sprintf("%.2f", result.AveragePriceDuringCurtailment)},
	}
}
