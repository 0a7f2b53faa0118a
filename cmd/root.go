package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "csvscope",
	Short: "csvscope: explore CSV files with statistics, histograms and correlation",
	Long: `csvscope ingests CSV (and .xlsx) files, detects their numeric columns,
and reports summary statistics, histogram data with optional density
curves, and a pairwise Pearson correlation matrix per file.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadDotenv)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadDotenv() {
	// Optional; environment variables win over .env entries.
	_ = godotenv.Load()
}
