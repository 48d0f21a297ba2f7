// Command xai trains a model on a CSV dataset and explains its predictions,
// or renders a data analysis report from a template.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
