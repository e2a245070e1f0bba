package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var sampleSize int

// analyzeCmd profiles a file from a bounded sample and prints the result.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Profile a CSV file from a sample of leading rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sampleSize <= 0 {
			sampleSize = cfg.Ingest.SampleSize
		}

		analyzer, db, err := openAnalyzer()
		if err != nil {
			return err
		}
		defer db.Close()

		profile, err := analyzer.AnalyzeSample(cmd.Context(), args[0], sampleSize)
		if err != nil {
			return err
		}

		fmt.Println("\nDataset Analysis:")
		fmt.Printf("Sampled rows: %d\n", profile.SampleRows)
		fmt.Printf("Estimated total rows: %d\n", profile.EstimatedTotalRows)
		fmt.Printf("Estimated memory usage: %.2f MB\n", profile.EstimatedMemoryUsage)

		columns := make([]string, 0, len(profile.ColumnTypes))
		for name := range profile.ColumnTypes {
			columns = append(columns, name)
		}
		sort.Strings(columns)

		fmt.Println("\nColumn Types:")
		for _, name := range columns {
			fmt.Printf("- %s: %s\n", name, profile.ColumnTypes[name])
		}

		fmt.Println("\nMissing Values:")
		anyMissing := false
		for _, name := range columns {
			if missing := profile.MissingValues[name]; missing > 0 {
				fmt.Printf("- %s: %d missing values\n", name, missing)
				anyMissing = true
			}
		}
		if !anyMissing {
			fmt.Println("- none in sample")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&sampleSize, "sample-size", 0, "rows to sample (default from config)")
}
