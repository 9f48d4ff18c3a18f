package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/planner"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type Handler struct {
	Eng *blend.Engine
}

type SourceImportResult struct {
	Count   int                    `json:"count"`
	Skipped int                    `json:"skipped"`
	Entries []blend.SourceEntry    `json:"entries"`
	Ranked  []planner.RankedSource `json:"ranked"`
}

// Sources imports a site inventory from an XLSX upload. The first sheet is
// read as `water_type | volume_l` with a header row; rows that do not parse
// or name an unknown type are skipped, not fatal. The surviving entries are
// ranked individually so the operator sees per-source quality right away.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	class := refdata.PHClass(strings.TrimSpace(r.FormValue("ph_class")))
	if class == "" {
		class = refdata.Alkaline
	}

	var entries []blend.SourceEntry
	skipped := 0
	for i := 1; i < len(rows); i++ {
		entry, err := parseSourceRow(rows[i])
		if err != nil {
			skipped++
			continue
		}
		if _, ok := h.Eng.Store().WaterType(entry.Type); !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		http.Error(w, "No usable rows", http.StatusBadRequest)
		return
	}

	ranked, err := planner.RankSources(h.Eng, entries, class)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SourceImportResult{
		Count:   len(entries),
		Skipped: skipped,
		Entries: entries,
		Ranked:  ranked,
	})
}

func parseSourceRow(row []string) (blend.SourceEntry, error) {
	// expected: water_type, volume_l
	if len(row) < 2 {
		return blend.SourceEntry{}, fmt.Errorf("bad row")
	}
	typ := strings.ToUpper(strings.TrimSpace(row[0]))
	if typ == "" {
		return blend.SourceEntry{}, fmt.Errorf("bad row")
	}
	vol, err := toFloat(row[1])
	if err != nil || vol < 0 {
		return blend.SourceEntry{}, fmt.Errorf("bad row")
	}
	return blend.SourceEntry{Type: typ, VolumeL: vol}, nil
}

func toFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &v)
	return v, err
}
