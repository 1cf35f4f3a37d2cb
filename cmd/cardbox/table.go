package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderRecordTable renders field/value pairs for terminal display. Values
// wrap at a fixed width so OCR note blocks stay readable.
func renderRecordTable(rows [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 64},
	})
	return tw.Render()
}
