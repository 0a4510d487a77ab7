package table

import (
	"fmt"
)

// Table is an ordered list of rows, each row is positionally aligned with Columns.
type Table struct {
	Columns []string
	Rows    [][]string
	// Index holds the row identifiers when the table was loaded with its
	// first column as the identifier, it is nil otherwise.
	Index     []string
	IndexName string
}

// New creates an empty table with the given column names.
func New(columns ...string) Table {
	return Table{Columns: columns}
}

func (t Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1 if it does not exist.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at the given row and column name.
func (t Table) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	idx := t.ColumnIndex(column)
	if idx < 0 || idx >= len(t.Rows[row]) {
		return "", false
	}
	return t.Rows[row][idx], true
}

// Record returns a row as a column -> value mapping, nil if the row does
// not exist.
func (t Table) Record(row int) map[string]string {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	out := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		if i < len(t.Rows[row]) {
			out[c] = t.Rows[row][i]
			continue
		}
		out[c] = ""
	}
	return out
}

// Append adds a row, it must have exactly as many cells as there are columns.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf(
			"row has %d cells but the table has %d columns",
			len(row), len(t.Columns),
		)
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Slice returns the rows in [start, end) as a new table with the same columns.
// The rows are copied so the result does not alias the receiver.
func (t Table) Slice(start, end int) Table {
	out := Table{
		Columns:   t.Columns,
		Rows:      make([][]string, 0, end-start),
		IndexName: t.IndexName,
	}
	for _, row := range t.Rows[start:end] {
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}
	if t.Index != nil {
		out.Index = append([]string{}, t.Index[start:end]...)
	}
	return out
}
