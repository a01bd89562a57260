// Package table implements ordered, column-named in-memory tables and the
// operations the table editor performs on them (join, lookup, remap,
// arithmetic and summary statistics).
package table

import (
	"errors"
	"fmt"
	"strings"
)

// Value is a single cell. It is nil (missing), string, float64 or bool.
type Value = any

// Table holds rows × named columns. Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// ColumnError reports a reference to a column the table does not have.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Column)
}

// ValueError reports a cell value that cannot be stored.
type ValueError struct {
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Value)
}

var (
	ErrDuplicateColumn = errors.New("column already exists")
	ErrEmptyColumnName = errors.New("column name is required")
	ErrRowOutOfRange   = errors.New("row index out of range")
	ErrRaggedRow       = errors.New("row length does not match columns")
)

// New builds a table, validating column names and row widths.
func New(columns []string, rows [][]Value) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return nil, ErrEmptyColumnName
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = true
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d: %w", i, ErrRaggedRow)
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// NewEmpty builds a table of nrows rows where every cell is missing.
// Columns are named "Column 1".."Column n" when names is shorter than ncols.
func NewEmpty(nrows, ncols int, names []string) *Table {
	cols := make([]string, ncols)
	for i := range cols {
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			cols[i] = strings.TrimSpace(names[i])
		} else {
			cols[i] = fmt.Sprintf("Column %d", i+1)
		}
	}
	rows := make([][]Value, nrows)
	for i := range rows {
		rows[i] = make([]Value, ncols)
	}
	return &Table{Columns: cols, Rows: rows}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]Value, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]Value(nil), r...)
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of name or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) mustColumn(name string) (int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return -1, &ColumnError{Column: name}
	}
	return idx, nil
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]Value, error) {
	idx, err := t.mustColumn(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// AddColumn appends a column. A nil values slice fills the column with
// empty strings; otherwise it must have one value per row.
func (t *Table) AddColumn(name string, values []Value) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyColumnName
	}
	if t.ColumnIndex(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if values != nil && len(values) != len(t.Rows) {
		return fmt.Errorf("column %q: %w", name, ErrRaggedRow)
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		var v Value = ""
		if values != nil {
			v = values[i]
		}
		t.Rows[i] = append(t.Rows[i], v)
	}
	return nil
}

// SetColumn replaces an existing column's values or appends a new column.
func (t *Table) SetColumn(name string, values []Value) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q: %w", name, ErrRaggedRow)
	}
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return t.AddColumn(name, values)
	}
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// DropColumn removes the named column.
func (t *Table) DropColumn(name string) error {
	idx, err := t.mustColumn(name)
	if err != nil {
		return err
	}
	t.Columns = append(t.Columns[:idx:idx], t.Columns[idx+1:]...)
	for i, r := range t.Rows {
		t.Rows[i] = append(r[:idx:idx], r[idx+1:]...)
	}
	return nil
}

// SetCell stores edited text in a cell, coerced to the column's type.
func (t *Table) SetCell(row int, column, raw string) error {
	idx, err := t.mustColumn(column)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	v, err := Coerce(raw, t.IsNumeric(column))
	if err != nil {
		return fmt.Errorf("column %q: %w", column, err)
	}
	t.Rows[row][idx] = v
	return nil
}

// AppendRow adds a row of missing cells.
func (t *Table) AppendRow() {
	t.Rows = append(t.Rows, make([]Value, len(t.Columns)))
}

// DeleteRow removes the row at index i.
func (t *Table) DeleteRow(i int) error {
	if i < 0 || i >= len(t.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
	}
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
	return nil
}

// Head returns a table sharing rows with t, limited to the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// IsNumeric reports whether every non-missing cell of the column is a number
// and at least one is present.
func (t *Table) IsNumeric(column string) bool {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return false
	}
	seen := false
	for _, r := range t.Rows {
		switch r[idx].(type) {
		case nil:
		case float64:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// NumericColumns lists the numeric columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if t.IsNumeric(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings renders every row with Format.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = Format(v)
		}
		out[i] = row
	}
	return out
}
