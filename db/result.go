package db

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nickyhof/RecordDB/core"
)

type ResultType int

const (
	MessageResultType ResultType = iota
	FileResultType
	SelectResultType
)

func (resultType ResultType) String() string {
	switch resultType {
	case MessageResultType:
		return "message"
	case FileResultType:
		return "file"
	case SelectResultType:
		return "select"
	default:
		return fmt.Sprintf("ResultType(%d)", int(resultType))
	}
}

// Result is the outcome of one successfully executed command.
type Result interface {
	Type() ResultType
	// String is the plain-text rendering used in transcripts and tests.
	String() string
	// Display renders the result for a terminal.
	Display(w io.Writer)
}

// MessageResult is returned by CREATE, INSERT and DELETE.
type MessageResult struct {
	Message string `json:"message"`
}

// FileResult is returned by READ_FROM and SAVE_AS. File results are never
// recorded in the session transcript.
type FileResult struct {
	Message  string `json:"message"`
	Path     string `json:"path"`
	Revision string `json:"revision,omitempty"` // archive commit for repo: paths
	Executed int    `json:"executed"`
	Failed   int    `json:"failed"`
}

// FieldValue is one projected column of a SELECT row.
type FieldValue struct {
	Field string
	Value core.Value
}

// SelectRow holds the requested fields of one record, in request order.
type SelectRow []FieldValue

// SelectResult is returned by SELECT.
type SelectResult struct {
	Columns []string
	Rows    []SelectRow
	Scanned int
	Elapsed time.Duration
}

func (result MessageResult) Type() ResultType { return MessageResultType }
func (result FileResult) Type() ResultType    { return FileResultType }
func (result SelectResult) Type() ResultType  { return SelectResultType }

func (result MessageResult) String() string { return result.Message }
func (result FileResult) String() string    { return result.Message }

func (row SelectRow) String() string {
	parts := make([]string, len(row))
	for i, column := range row {
		parts[i] = column.Field + ": " + column.Value.String()
	}
	return strings.Join(parts, ", ")
}

// String renders one "field: value, field: value" line per row.
func (result SelectResult) String() string {
	lines := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		lines[i] = row.String()
	}
	return strings.Join(lines, "\n")
}

func (result MessageResult) Display(w io.Writer) {
	fmt.Fprintln(w, result.Message)
}

func (result FileResult) Display(w io.Writer) {
	if result.Revision != "" {
		fmt.Fprintf(w, "%s (revision %s)\n", result.Message, result.Revision)
		return
	}
	fmt.Fprintln(w, result.Message)
}

func (result SelectResult) Display(w io.Writer) {
	if len(result.Rows) > 0 {
		data := NewTable(w)
		data.Header(result.Columns)
		for _, row := range result.Rows {
			cells := make([]string, len(row))
			for i, column := range row {
				cells[i] = column.Value.Raw()
			}
			data.Row(cells)
		}
		data.Render()
	}

	fmt.Fprintf(w, "%d rows (%s, %d scanned)\n", len(result.Rows), formatDuration(result.Elapsed), result.Scanned)
}

// MarshalJSON encodes rows as arrays aligned with Columns.
func (result SelectResult) MarshalJSON() ([]byte, error) {
	rows := make([][]any, len(result.Rows))
	for i, row := range result.Rows {
		values := make([]any, len(row))
		for j, column := range row {
			values[j] = jsonValue(column.Value)
		}
		rows[i] = values
	}

	return json.Marshal(struct {
		Columns   []string `json:"columns"`
		Rows      [][]any  `json:"rows"`
		Scanned   int      `json:"scanned"`
		ElapsedMs float64  `json:"elapsed_ms"`
	}{
		Columns:   result.Columns,
		Rows:      rows,
		Scanned:   result.Scanned,
		ElapsedMs: float64(result.Elapsed.Microseconds()) / 1000,
	})
}

// jsonValue spells out floats JSON cannot represent ("NaN", "+Inf", "-Inf").
func jsonValue(value core.Value) any {
	if value.Type == core.FloatType && (math.IsNaN(value.Float) || math.IsInf(value.Float, 0)) {
		return strconv.FormatFloat(value.Float, 'f', -1, 64)
	}
	return value.Interface()
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 0.001:
		return "<1ms"
	case secs < 1:
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	case secs < 60:
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	default:
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}
