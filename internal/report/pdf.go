// Package report renders sizing results for humans.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/fleetretrofit/hprtu/internal/rtu"
	"github.com/fleetretrofit/hprtu/internal/sizing"
)

// WritePDF renders one unit's sizing report: rated capacities, the stage
// tables for both modes, backup heat, and the full rationale.
func WritePDF(w io.Writer, res rtu.UnitResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Heat Pump RTU Sizing - %s", res.Name))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Sizing branch: %s", res.Sizing.Branch))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Rated cooling: %.1f kW (%.1f tons)",
		res.Sizing.RatedCoolingCapW/1000, sizing.WToTons(res.Sizing.RatedCoolingCapW)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Rated heating: %.1f kW (%.1f tons)",
		res.Sizing.RatedHeatingCapW/1000, sizing.WToTons(res.Sizing.RatedHeatingCapW)))
	pdf.Ln(6)
	if res.Sizing.ShortfallW > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Rated heating shortfall: %.1f kW (covered by backup heat)",
			res.Sizing.ShortfallW/1000))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Backup heat: %s, %.1f kW", res.BackupFuel, res.BackupCapacityW/1000))
	pdf.Ln(10)

	stageTable(pdf, "Heating stages", res.HeatingStages)
	stageTable(pdf, "Cooling stages", res.CoolingStages)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Sizing rationale")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range res.Rationale {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	return pdf.Output(w)
}

func stageTable(pdf *gofpdf.Fpdf, title string, stages [4]sizing.Stage) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 9)
	headers := []string{"Stage", "Capacity (kW)", "Airflow (m3/s)", "Enabled"}
	widths := []float64{20, 40, 40, 25}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, st := range stages {
		enabled := "yes"
		if !st.Enabled {
			enabled = "no"
		}
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", st.Index), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%.2f", st.CapacityW/1000), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.3f", st.AirflowM3s), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, enabled, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}
