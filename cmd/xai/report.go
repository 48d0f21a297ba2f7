package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuzeydev/contextual-ai/pkg/compiler"
)

var (
	reportTemplate string
	reportOutput   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a report template",
	Long: `Loads a JSON, YAML or TOML report template, runs every analysis
component it names and writes the result with each configured writer.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportTemplate, "template", "t", "", "path to the report template")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "override the writers' output directory")
	_ = reportCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := compiler.NewConfiguration(reportTemplate)
	if err != nil {
		return err
	}
	var opts []compiler.ControllerOption
	if reportOutput != "" {
		opts = append(opts, compiler.WithOutputDir(reportOutput))
	}
	if err := compiler.NewController(cfg, opts...).Render(); err != nil {
		return fmt.Errorf("render %s: %w", cfg.Name, err)
	}
	cmd.Printf("rendered %s\n", cfg.Name)
	return nil
}
