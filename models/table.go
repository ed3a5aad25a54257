package models

import "strings"

// Row is one record of an offer table keyed by column name. A missing key and
// a blank value both mean "no value".
type Row map[string]string

// Get returns the trimmed value of col, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Table is an ordered collection of rows sharing a column schema.
// Row order is insertion order.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Append adds a row at the end of the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether col is part of the schema.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// WithColumns returns a shallow copy of the table whose schema contains every
// column in cols. Columns that were missing are synthesised as entirely absent
// and their names are returned. Rows are shared with t and never modified.
func (t *Table) WithColumns(cols ...string) (*Table, []string) {
	out := &Table{
		Columns: make([]string, len(t.Columns), len(t.Columns)+len(cols)),
		Rows:    t.Rows,
	}
	copy(out.Columns, t.Columns)

	var synthesised []string
	for _, c := range cols {
		if !out.HasColumn(c) {
			out.Columns = append(out.Columns, c)
			synthesised = append(synthesised, c)
		}
	}
	return out, synthesised
}
