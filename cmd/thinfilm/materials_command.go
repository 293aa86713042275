package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"thinfilm/materials"
)

func newMaterialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List built-in materials",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Material", "Range (nm)", "Lossy"})
			for _, name := range materials.Names() {
				m, err := materials.Lookup(name)
				if err != nil {
					return err
				}
				span := "any"
				if r, ok := m.(interface{ Range() (float64, float64) }); ok {
					lo, hi := r.Range()
					span = fmt.Sprintf("%g - %g", lo, hi)
				}
				tw.AppendRow(table.Row{name, span, m.SupportsLoss()})
			}
			tw.Render()
			return nil
		},
	}
}
