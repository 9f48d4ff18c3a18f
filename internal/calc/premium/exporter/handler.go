package exporter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/optimizer"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type Handler struct {
	Eng *blend.Engine
}

const (
	summarySheet = "Summary"
	analyteSheet = "Top Blend"
)

// Optimize runs the combination search and streams the ranked results as an
// XLSX workbook: a summary sheet with one row per candidate and a second
// sheet with the analyte breakdown of the best blend.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizer.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	sum, err := optimizer.Run(h.Eng, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", summarySheet)

	f.SetCellValue(summarySheet, "A1", "H2 target (kg)")
	f.SetCellValue(summarySheet, "B1", req.H2TargetKg)
	f.SetCellValue(summarySheet, "A2", "Required volume (L)")
	f.SetCellValue(summarySheet, "B2", sum.RequiredVolumeL)
	f.SetCellValue(summarySheet, "A3", "Combinations checked")
	f.SetCellValue(summarySheet, "B3", sum.CombinationsChecked)
	f.SetCellValue(summarySheet, "A4", "Safe / escalation")
	f.SetCellValue(summarySheet, "B4", fmt.Sprintf("%d / %d", sum.SafeCount, sum.EscalationCount))

	headers := []string{
		"Rank", "Status", "Sources", "Total volume (L)", "H2 producible (kg)",
		"Safety score", "Worst analyte", "Required dilution", "Pure water needed (L)",
	}
	const headerRow = 6
	for col, hd := range headers {
		f.SetCellValue(summarySheet, cell(col+1, headerRow), hd)
	}
	for i, c := range sum.Results {
		row := headerRow + 1 + i
		f.SetCellValue(summarySheet, cell(1, row), i+1)
		f.SetCellValue(summarySheet, cell(2, row), string(c.OverallStatus))
		f.SetCellValue(summarySheet, cell(3, row), combinationLabel(c.Sources))
		f.SetCellValue(summarySheet, cell(4, row), c.TotalVolumeL)
		f.SetCellValue(summarySheet, cell(5, row), c.H2ProducibleKg)
		f.SetCellValue(summarySheet, cell(6, row), c.SafetyScore)
		f.SetCellValue(summarySheet, cell(7, row), string(c.WorstAnalyte))
		f.SetCellValue(summarySheet, cell(8, row), c.RequiredDilution)
		f.SetCellValue(summarySheet, cell(9, row), c.PureWaterNeededL)
	}

	if len(sum.Results) > 0 {
		top := sum.Results[0]
		f.NewSheet(analyteSheet)
		for col, hd := range []string{"Analyte", "Blend (mg/L)", "Final (mg/L)", "Limit (mg/L)", "Status"} {
			f.SetCellValue(analyteSheet, cell(col+1, 1), hd)
		}
		row := 2
		for _, a := range refdata.AnalyteOrder {
			ar, ok := top.AnalyteResults[a]
			if !ok {
				continue
			}
			f.SetCellValue(analyteSheet, cell(1, row), string(a))
			f.SetCellValue(analyteSheet, cell(2, row), ar.BlendConcentration)
			f.SetCellValue(analyteSheet, cell(3, row), ar.FinalConcentration)
			f.SetCellValue(analyteSheet, cell(4, row), ar.EscalationLevel)
			f.SetCellValue(analyteSheet, cell(5, row), string(ar.Status))
			row++
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"blend-optimization.xlsx\"")
	if err := f.Write(w); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
}

func combinationLabel(sources []blend.SourceEntry) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("%s (%g L)", s.Type, s.VolumeL))
	}
	return strings.Join(parts, " + ")
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
