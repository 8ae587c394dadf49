// Package table implements an in-memory table whose rows are validated
// against a schema on insertion.
//
// A Table is not safe for concurrent use. Hosts that share one across
// goroutines must serialize access themselves.
package table

import "github.com/leapstack-labs/nodata/pkg/ast"

// Row is a stored record. Entries are aligned with the owning table's
// columns; the column list carries their types.
type Row struct {
	id      int
	entries []ast.Object
}

// ID returns the row id.
func (r *Row) ID() int { return r.id }

// Len returns the number of entries.
func (r *Row) Len() int { return len(r.entries) }

// Entry returns the value stored for the i-th column.
func (r *Row) Entry(i int) ast.Object { return r.entries[i] }

// Entries returns a copy of the row values in column order.
func (r *Row) Entries() []ast.Object {
	out := make([]ast.Object, len(r.entries))
	copy(out, r.entries)
	return out
}

// Table holds rows for a single schema.
type Table struct {
	name    string
	nextID  int
	columns []ast.SchemaField
	rows    []*Row
}

// New creates an empty table with the schema's name and columns.
// The column list is fixed for the lifetime of the table.
func New(schema *ast.Schema) *Table {
	columns := make([]ast.SchemaField, len(schema.Fields))
	copy(columns, schema.Fields)

	return &Table{
		name:    schema.Name,
		nextID:  1,
		columns: columns,
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// NextID returns the id the next accepted row will get.
func (t *Table) NextID() int { return t.nextID }

// Len returns the number of stored rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns a copy of the column list.
func (t *Table) Columns() []ast.SchemaField {
	out := make([]ast.SchemaField, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the position of the first column with the given name.
func (t *Table) Column(name string) (int, bool) {
	for i, c := range t.columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Rows returns every stored row in insertion order.
func (t *Table) Rows() []*Row {
	out := make([]*Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Schema rebuilds the schema the table was created from.
func (t *Table) Schema() *ast.Schema {
	return &ast.Schema{Name: t.name, Fields: t.Columns()}
}

// AddRow validates the model against the columns and stores it as a new
// row, returning its id. On error the table is left unchanged.
func (t *Table) AddRow(m *ast.Model) (int, error) {
	if len(m.Fields) != len(t.columns) {
		return 0, &ArityError{Table: t.name, Expected: len(t.columns), Found: len(m.Fields)}
	}

	entries := make([]ast.Object, len(t.columns))
	for i, col := range t.columns {
		field, ok := m.FindField(col.Name)
		if !ok {
			return 0, &MissingFieldError{Table: t.name, Field: col.Name}
		}
		if field.Type != col.Type {
			return 0, &TypeMismatchError{Field: col.Name, Expected: col.Type, Found: field.Type}
		}
		entries[i] = field.Value
	}

	// Every column passed; allocate the id only now.
	id := t.nextID
	t.nextID++
	t.rows = append(t.rows, &Row{id: id, entries: entries})

	return id, nil
}

// QueryByID returns the row with the given id.
func (t *Table) QueryByID(id int) (*Row, bool) {
	if id <= 0 || id >= t.nextID {
		return nil, false
	}
	for _, r := range t.rows {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

// QueryWhere returns the rows whose value in q.Field satisfies q.Cond,
// in insertion order. A value of another variant than the column never
// equals a stored entry and never orders against one.
func (t *Table) QueryWhere(q WhereQuery) ([]*Row, error) {
	pos, ok := t.Column(q.Field)
	if !ok {
		return nil, &UnknownFieldError{Table: t.name, Field: q.Field}
	}

	col := t.columns[pos]
	if !Supports(col.Type, q.Cond.Op) {
		return nil, &UnsupportedConditionError{Op: q.Cond.Op, Type: col.Type}
	}

	var out []*Row
	for _, r := range t.rows {
		if q.Cond.Apply(r.entries[pos]) {
			out = append(out, r)
		}
	}
	return out, nil
}
