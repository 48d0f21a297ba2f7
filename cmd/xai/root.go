package main

import (
	"github.com/spf13/cobra"

	"github.com/kuzeydev/contextual-ai/internal/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "xai",
	Short: "Explain tabular model predictions and render data reports",
	Long: `xai trains a model on a CSV dataset and explains single predictions
with LIME, or compiles a report template into HTML and Markdown.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug and surrogate details")
}
