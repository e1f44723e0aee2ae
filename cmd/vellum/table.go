package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one rendered column. Numeric columns (element
// counts, sizes) align right; headers always align left.
type tableColumn struct {
	title   string
	numeric bool
}

// documentColumns is the leading column set shared by every document table.
// Commands append their own trailing columns.
var documentColumns = []tableColumn{
	{title: "Path"},
	{title: "Type"},
	{title: "Elements", numeric: true},
	{title: "Size", numeric: true},
}

// documentCells renders the cells matching documentColumns: absent type
// tags and non-collection element counts show as dashes, sizes are
// human-readable.
func documentCells(path, typeName string, elementCount, sizeBytes int64) []string {
	return []string{path, orDash(typeName), formatCount(elementCount), formatSize(sizeBytes)}
}

// renderDocumentTable renders rows under documentColumns plus the given
// trailing columns. Short rows are padded with empty cells.
func renderDocumentTable(extra []tableColumn, rows [][]string) string {
	columns := make([]tableColumn, 0, len(documentColumns)+len(extra))
	columns = append(columns, documentColumns...)
	columns = append(columns, extra...)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col.title
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatCount(count int64) string {
	if count < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", count)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
