package db

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableWriter renders rows as a boxed text table.
type TableWriter struct {
	writer table.Writer
}

func NewTable(w io.Writer) *TableWriter {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleLight)
	return &TableWriter{writer: writer}
}

// Header sets the table headers
func (t *TableWriter) Header(headers []string) {
	t.writer.AppendHeader(toRow(headers))
}

// Row adds a single row
func (t *TableWriter) Row(row []string) {
	t.writer.AppendRow(toRow(row))
}

// Bulk adds multiple rows
func (t *TableWriter) Bulk(rows [][]string) {
	for _, row := range rows {
		t.Row(row)
	}
}

// Render outputs the formatted table
func (t *TableWriter) Render() {
	t.writer.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
