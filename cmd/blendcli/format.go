package main

import (
	"fmt"
	"strings"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/optimizer"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/planner"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/sludge"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

func sourcesLabel(entries []blend.SourceEntry) string {
	parts := make([]string, 0, len(entries))
	for _, s := range entries {
		parts = append(parts, fmt.Sprintf("%s (%g L)", s.Type, s.VolumeL))
	}
	return strings.Join(parts, " + ")
}

func printOptimizeSummary(sc scenario, sum optimizer.Summary) {
	fmt.Printf("Profile: %s | H2 target: %.1f kg (%.1f L of feed water)\n",
		sc.PHClass, sc.H2TargetKg, sum.RequiredVolumeL)
	fmt.Printf("Checked %d combinations of %d sources (%.1f L available): %d safe, %d escalation\n",
		sum.CombinationsChecked, len(sc.Sources), sum.TotalAvailableL, sum.SafeCount, sum.EscalationCount)
	fmt.Println()

	if len(sum.Results) == 0 {
		fmt.Println("No combination holds enough volume for the target.")
		return
	}

	fmt.Printf("%4s  %-10s  %9s  %10s  %8s  %8s  %s\n",
		"RANK", "STATUS", "SCORE", "VOLUME (L)", "H2 (kg)", "DILUTION", "SOURCES")
	for i, c := range sum.Results {
		dilution := "-"
		if c.RequiredDilution > 1 {
			dilution = fmt.Sprintf("%.1fx", c.RequiredDilution)
		}
		fmt.Printf("%4d  %-10s  %9.2f  %10.1f  %8.2f  %8s  %s\n",
			i+1, c.OverallStatus, c.SafetyScore, c.TotalVolumeL, c.H2ProducibleKg,
			dilution, sourcesLabel(c.Sources))
	}

	top := sum.Results[0]
	if top.RequiredDilution > 1 {
		fmt.Println()
		fmt.Printf("Best blend still escalates on %s; add %.1f L of purified water to clear it.\n",
			top.DilutionLimitingAnalyte, top.PureWaterNeededL)
	}
}

func printPlan(sc scenario, res planner.PlanResult) {
	fmt.Printf("Profile: %s | H2 target: %.1f kg (%.1f L of feed water)\n",
		sc.PHClass, sc.H2TargetKg, res.RequiredVolumeL)
	fmt.Println()

	fmt.Println("SOURCE RANKING")
	for i, rs := range res.Ranked {
		worst := ""
		if rs.WorstAnalyte != "" {
			worst = fmt.Sprintf("  worst %s", rs.WorstAnalyte)
		}
		fmt.Printf("%4d. %-42s %-10s score %8.2f  available %.1f L%s\n",
			i+1, rs.Type, rs.Status, rs.SafetyScore, rs.AvailableVolumeL, worst)
	}
	fmt.Println()

	fmt.Println("RECIPE")
	for _, s := range res.Selected {
		fmt.Printf("      %-42s %.1f L\n", s.Type, s.VolumeL)
	}
	if res.ShortfallL > 0 {
		fmt.Printf("Shortfall: %.1f L, the listed sources cannot cover the target.\n", res.ShortfallL)
	} else {
		fmt.Println("Shortfall: none")
	}

	if res.Blend != nil {
		b := res.Blend
		fmt.Println()
		fmt.Printf("Blend check: %s, score %.2f", b.OverallStatus, b.SafetyScore)
		if b.WorstAnalyte != "" {
			fmt.Printf(", worst %s", b.WorstAnalyte)
		}
		fmt.Printf(", H2 producible %.2f kg\n", b.TotalVolumeL/refdata.WaterPerKgH2)
		if b.RequiredDilution > 1 {
			fmt.Printf("Needs %.1fx dilution (+%.1f L purified water) to clear %s.\n",
				b.RequiredDilution, b.PureWaterNeededL, b.DilutionLimitingAnalyte)
		}
	}
}

func printSludge(res sludge.Result) {
	fmt.Println("SLUDGE ESTIMATE")
	for _, e := range res.Breakdown {
		mass := "N/A (no sampled yield)"
		if e.MassKg != nil {
			mass = fmt.Sprintf("%.3f kg", *e.MassKg)
		}
		fmt.Printf("      %-42s %10.1f L  %s\n", e.Type, e.VolumeL, mass)
	}
	fmt.Printf("Total: %.3f kg dry sludge from %d of %d sources\n",
		res.TotalKg, res.KnownCount, res.KnownCount+res.UnknownCount)
}

func printReference(store *refdata.Store) {
	names := store.TypeNames()
	fmt.Printf("WATER TYPES (%d)\n", len(names))
	for _, name := range names {
		wt, _ := store.WaterType(name)
		yield := "N/A"
		if wt.SludgeYieldKgPerM3 != nil {
			yield = fmt.Sprintf("%.2f kg/m3", *wt.SludgeYieldKgPerM3)
		}
		fmt.Printf("  %-44s sludge yield %s\n", wt.Name, yield)
		for _, a := range refdata.AnalyteOrder {
			if c := wt.Concentrations[a]; c > 0 {
				fmt.Printf("      %-10s %10.4f mg/L\n", a, c)
			}
		}
	}

	fmt.Println()
	fmt.Println("ESCALATION PROFILES")
	for _, class := range store.Profiles() {
		p, _ := store.Profile(class)
		fmt.Printf("  %s\n", class)
		for _, a := range refdata.AnalyteOrder {
			if lvl, ok := p.Levels[a]; ok {
				fmt.Printf("      %-10s %10.2f mg/L\n", a, lvl)
			}
		}
	}

	fmt.Println()
	fmt.Printf("B9 dilution factor: %.2f | feed water per kg H2: %.1f L\n",
		refdata.B9DilutionFactor, refdata.WaterPerKgH2)
}
