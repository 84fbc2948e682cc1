package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the document categories and their filing workflows",
		Run: func(cmd *cobra.Command, args []string) {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Category", "Store In", "Workflow"})

			for _, category := range fields.Categories {
				workflow := fields.DeriveWorkflow(category, "")
				t.AppendRow(table.Row{category, workflow.StoreIn, workflow.Type})
			}

			t.SetStyle(table.StyleLight)
			t.Render()
		},
	}
}
