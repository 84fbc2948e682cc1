// Command pipeline runs documents through the processing pipeline from the
// command line, without going through the HTTP surface. Useful for bulk
// backfills and for checking extraction quality on sample documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Process medical documents through the extraction pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newProcessCommand())
	root.AddCommand(newCategoriesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
