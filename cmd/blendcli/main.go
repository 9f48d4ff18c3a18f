package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

// refdataPath is the --refdata override, shared by every subcommand.
var refdataPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "blendcli",
		Short: "Wastewater blend assessment for electrolyser feed, offline",
	}
	rootCmd.PersistentFlags().StringVar(&refdataPath, "refdata", "",
		"YAML file overriding the built-in water type and profile tables")

	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(sludgeCmd())
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func optimizeCmd() *cobra.Command {
	var file string
	var maxSources, topN int

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search source combinations for the safest blend meeting an H2 target",
		Long: "Enumerates combinations of the scenario's sources, keeps those with " +
			"enough volume for the hydrogen target and ranks them safest first. " +
			"Exits with code 2 when no combination meets the target.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runOptimize(file, maxSources, topN)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario YAML (ph_class, h2_target_kg, sources)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().IntVar(&maxSources, "max-sources", refdata.DefaultMaxCombinationSize, "largest combination size to try")
	cmd.Flags().IntVar(&topN, "top", refdata.DefaultTopN, "number of ranked combinations to print")
	return cmd
}

func planCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a blend recipe greedily from the safest sources",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlan(file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario YAML (ph_class, h2_target_kg, sources)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func sludgeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sludge",
		Short: "Estimate dry sludge by-product for the scenario's sources",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSludge(file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario YAML (sources)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the reference water types and escalation profiles",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTypes()
		},
	}
}
