package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/sludge"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type Input struct {
	Title   string              `json:"title"`
	Author  string              `json:"author"`
	Notes   string              `json:"notes"`
	PHClass refdata.PHClass     `json:"ph_class"`
	Sources []blend.SourceEntry `json:"sources"`
}

type Handler struct {
	Eng *blend.Engine
}

// Generate evaluates the submitted blend, estimates its sludge output and
// streams the combined assessment as a PDF attachment.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Blend Assessment Report"
	}
	if input.PHClass == "" {
		input.PHClass = refdata.Alkaline
	}
	if err := blend.ValidateSources(input.Sources); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.Eng.Evaluate(input.Sources, input.PHClass)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sl, err := sludge.Estimate(h.Eng.Store(), input.Sources)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Escalation profile: %s", input.PHClass))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Water Sources")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range input.Sources {
		pdf.Cell(0, 5, fmt.Sprintf("%s - %.2f L", s.Type, s.VolumeL))
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, fmt.Sprintf("Total volume: %.2f L", res.TotalVolumeL))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Hydrogen producible: %.2f kg", res.TotalVolumeL/refdata.WaterPerKgH2))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Overall status: %s", res.OverallStatus))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Safety score: %.2f", res.SafetyScore))
	pdf.Ln(5)
	if res.WorstAnalyte != "" {
		pdf.Cell(0, 5, fmt.Sprintf("Limiting analyte: %s", res.WorstAnalyte))
		pdf.Ln(5)
	}
	if res.RequiredDilution > 1 {
		pdf.Cell(0, 5, fmt.Sprintf("Required dilution: %.2fx (about %.1f L of purified water)",
			res.RequiredDilution, res.PureWaterNeededL))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 6, "Analyte", "1", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, "Blend, mg/L", "1", 0, "R", false, 0, "")
	pdf.CellFormat(32, 6, "Final, mg/L", "1", 0, "R", false, 0, "")
	pdf.CellFormat(32, 6, "Limit, mg/L", "1", 0, "R", false, 0, "")
	pdf.CellFormat(28, 6, "Status", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, a := range refdata.AnalyteOrder {
		ar, ok := res.AnalyteResults[a]
		if !ok {
			continue
		}
		pdf.CellFormat(45, 6, string(a), "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 6, fmt.Sprintf("%.4f", ar.BlendConcentration), "1", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, fmt.Sprintf("%.4f", ar.FinalConcentration), "1", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, fmt.Sprintf("%.4f", ar.EscalationLevel), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, string(ar.Status), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Sludge estimate: %.3f kg", sl.TotalKg))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, e := range sl.Breakdown {
		mass := "no sampled yield"
		if e.MassKg != nil {
			mass = fmt.Sprintf("%.3f kg", *e.MassKg)
		}
		pdf.Cell(0, 5, fmt.Sprintf("%s (%.2f L): %s", e.Type, e.VolumeL, mass))
		pdf.Ln(5)
	}
	if sl.UnknownCount > 0 {
		pdf.Cell(0, 5, fmt.Sprintf("%d source(s) without a sampled yield rate are excluded from the total.", sl.UnknownCount))
		pdf.Ln(5)
	}

	if input.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"blend-report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
