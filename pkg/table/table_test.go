package table_test

import (
	"testing"

	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/parser"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersSchema = `
"users": {
    "name": String,
    "age": Number,
    "phone": String,
}`

var usersModels = []string{
	`"users": {"name": "Edilson", "age": 22, "phone": "+55 123-4567"}`,
	`"users": {"name": "Mungoi", "age": 26, "phone": "+244 123-4567"}`,
	`"users": {"name": "Grahms", "age": 24, "phone": "+34 123-4567"}`,
}

func newUsersTable(t *testing.T) *table.Table {
	t.Helper()
	schema, err := parser.ParseSchema(usersSchema)
	require.NoError(t, err)
	return table.New(schema)
}

func mustModel(t *testing.T, input string) *ast.Model {
	t.Helper()
	m, err := parser.ParseModel(input)
	require.NoError(t, err)
	return m
}

func seedUsers(t *testing.T) *table.Table {
	t.Helper()
	tbl := newUsersTable(t)
	for i, src := range usersModels {
		id, err := tbl.AddRow(mustModel(t, src))
		require.NoError(t, err)
		require.Equal(t, i+1, id)
	}
	return tbl
}

func names(rows []*table.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Entry(0).String())
	}
	return out
}

// snapshot captures the observable state of a table.
type snapshot struct {
	nextID int
	len    int
	rows   [][]ast.Object
}

func snap(tbl *table.Table) snapshot {
	s := snapshot{nextID: tbl.NextID(), len: tbl.Len()}
	for _, r := range tbl.Rows() {
		s.rows = append(s.rows, r.Entries())
	}
	return s
}

func TestNew(t *testing.T) {
	tbl := newUsersTable(t)

	assert.Equal(t, "users", tbl.Name())
	assert.Equal(t, 1, tbl.NextID())
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, []ast.SchemaField{
		{Name: "name", Type: ast.TypeString},
		{Name: "age", Type: ast.TypeNumber},
		{Name: "phone", Type: ast.TypeString},
	}, tbl.Columns())
}

func TestNew_ColumnsAreFixed(t *testing.T) {
	schema, err := parser.ParseSchema(`"t": {"a": String}`)
	require.NoError(t, err)

	tbl := table.New(schema)
	schema.Fields[0].Type = ast.TypeNumber
	tbl.Columns()[0].Name = "changed"

	assert.Equal(t, []ast.SchemaField{{Name: "a", Type: ast.TypeString}}, tbl.Columns())
}

func TestEndToEnd_Users(t *testing.T) {
	tbl := seedUsers(t)

	rows, err := tbl.QueryWhere(table.WhereQuery{
		Field: "name",
		Cond:  table.Ne(ast.StringValue("Edilson")),
	})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].ID())
	assert.Equal(t, 3, rows[1].ID())
	assert.Equal(t, []string{"Mungoi", "Grahms"}, names(rows))
}

func TestAddRow_RoundTrip(t *testing.T) {
	tbl := newUsersTable(t)
	model := mustModel(t, usersModels[0])

	id, err := tbl.AddRow(model)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, 2, tbl.NextID())

	row, ok := tbl.QueryByID(id)
	require.True(t, ok)
	assert.Equal(t, id, row.ID())
	assert.Equal(t, []ast.Object{
		ast.StringValue("Edilson"),
		ast.NumberValue(22),
		ast.StringValue("+55 123-4567"),
	}, row.Entries())
}

func TestAddRow_FieldOrderFollowsColumns(t *testing.T) {
	tbl := newUsersTable(t)
	model := mustModel(t, `"users": {"phone": "+1", "age": 40, "name": "Ana"}`)

	id, err := tbl.AddRow(model)
	require.NoError(t, err)

	row, ok := tbl.QueryByID(id)
	require.True(t, ok)
	assert.Equal(t, []ast.Object{
		ast.StringValue("Ana"),
		ast.NumberValue(40),
		ast.StringValue("+1"),
	}, row.Entries())
}

func TestAddRow_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		wantErr string
		target  any
	}{
		{
			name:    "extra trailing field",
			model:   `"users": {"name": "X", "age": 1, "phone": "p", "email": "e"}`,
			wantErr: "'users' expects 3 fields but found 4",
			target:  new(*table.ArityError),
		},
		{
			name:    "too few fields",
			model:   `"users": {"name": "X", "age": 1}`,
			wantErr: "'users' expects 3 fields but found 2",
			target:  new(*table.ArityError),
		},
		{
			name:    "missing field",
			model:   `"users": {"name": "X", "age": 1, "email": "e"}`,
			wantErr: "missing field 'phone'",
			target:  new(*table.MissingFieldError),
		},
		{
			name:    "number given for string",
			model:   `"users": {"name": 7, "age": 1, "phone": "p"}`,
			wantErr: "field 'name' must be of type '[String]' found type '[Number]'",
			target:  new(*table.TypeMismatchError),
		},
		{
			name:    "quoted number for number column",
			model:   `"users": {"name": "X", "age": "1", "phone": "p"}`,
			wantErr: "field 'age' must be of type '[Number]' found type '[String]'",
			target:  new(*table.TypeMismatchError),
		},
		{
			name:    "duplicate field hides another",
			model:   `"users": {"name": "X", "name": "Y", "age": 1}`,
			wantErr: "missing field 'phone'",
			target:  new(*table.MissingFieldError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := seedUsers(t)
			before := snap(tbl)

			id, err := tbl.AddRow(mustModel(t, tt.model))
			require.Error(t, err)
			assert.Zero(t, id)
			assert.EqualError(t, err, tt.wantErr)
			assert.ErrorAs(t, err, tt.target)
			assert.ErrorIs(t, err, table.ErrInvalidRow)

			assert.Equal(t, before, snap(tbl), "rejected row must not change the table")
		})
	}
}

func TestAddRow_RejectionDoesNotConsumeID(t *testing.T) {
	tbl := seedUsers(t)

	_, err := tbl.AddRow(mustModel(t, `"users": {"name": "X"}`))
	require.Error(t, err)

	id, err := tbl.AddRow(mustModel(t, `"users": {"name": "Ana", "age": 30, "phone": "+1"}`))
	require.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestAddRow_ArityFailureLeavesRowsReadable(t *testing.T) {
	tbl := seedUsers(t)

	_, err := tbl.AddRow(mustModel(t, `"users": {"name": "X", "age": 1, "phone": "p", "extra": 2}`))
	var arity *table.ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 3, arity.Expected)
	assert.Equal(t, 4, arity.Found)

	for i, want := range []string{"Edilson", "Mungoi", "Grahms"} {
		row, ok := tbl.QueryByID(i + 1)
		require.True(t, ok, "row %d", i+1)
		assert.Equal(t, ast.StringValue(want), row.Entry(0))
	}
}

func TestAddRow_ValuesAreDetachedFromModel(t *testing.T) {
	tbl := newUsersTable(t)
	model := mustModel(t, usersModels[1])

	id, err := tbl.AddRow(model)
	require.NoError(t, err)
	model.Fields[0].Value = ast.StringValue("changed")

	row, _ := tbl.QueryByID(id)
	assert.Equal(t, ast.StringValue("Mungoi"), row.Entry(0))

	entries := row.Entries()
	entries[0] = ast.StringValue("changed again")
	assert.Equal(t, ast.StringValue("Mungoi"), row.Entry(0))
}

func TestAddRow_EmptySchema(t *testing.T) {
	schema, err := parser.ParseSchema(`"empty": {}`)
	require.NoError(t, err)
	tbl := table.New(schema)

	id, err := tbl.AddRow(mustModel(t, `"empty": {}`))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	row, ok := tbl.QueryByID(1)
	require.True(t, ok)
	assert.Equal(t, 0, row.Len())
}

func TestQueryByID_OutOfRange(t *testing.T) {
	tables := map[string]*table.Table{
		"empty":  newUsersTable(t),
		"seeded": seedUsers(t),
	}

	for name, tbl := range tables {
		t.Run(name, func(t *testing.T) {
			for _, id := range []int{-1, 0, tbl.NextID(), tbl.NextID() + 1, 1 << 30} {
				row, ok := tbl.QueryByID(id)
				assert.False(t, ok, "id %d", id)
				assert.Nil(t, row, "id %d", id)
			}
		})
	}
}

func TestQueryWhere_Numbers(t *testing.T) {
	tbl := seedUsers(t)

	tests := []struct {
		name string
		cond table.Condition
		want []string
	}{
		{"equal", table.Eq(ast.NumberValue(26)), []string{"Mungoi"}},
		{"not equal", table.Ne(ast.NumberValue(26)), []string{"Edilson", "Grahms"}},
		{"less than", table.Lt(ast.NumberValue(24)), []string{"Edilson"}},
		{"greater than", table.Gt(ast.NumberValue(22)), []string{"Mungoi", "Grahms"}},
		{"less or equal", table.Le(ast.NumberValue(24)), []string{"Edilson", "Grahms"}},
		{"greater or equal", table.Ge(ast.NumberValue(24)), []string{"Mungoi", "Grahms"}},
		{"no match", table.Gt(ast.NumberValue(100)), []string{}},
		{"fractional bound", table.Lt(ast.NumberValue(22.5)), []string{"Edilson"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tbl.QueryWhere(table.WhereQuery{Field: "age", Cond: tt.cond})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(rows))
		})
	}
}

func TestQueryWhere_StringEquality(t *testing.T) {
	tbl := seedUsers(t)

	rows, err := tbl.QueryWhere(table.WhereQuery{Field: "phone", Cond: table.Eq(ast.StringValue("+34 123-4567"))})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grahms"}, names(rows))

	rows, err = tbl.QueryWhere(table.WhereQuery{Field: "name", Cond: table.Eq(ast.StringValue("edilson"))})
	require.NoError(t, err)
	assert.Empty(t, rows, "string equality is case sensitive")
}

func TestQueryWhere_StringOrderingUnsupported(t *testing.T) {
	tbl := seedUsers(t)

	for _, col := range []string{"name", "phone"} {
		for _, cond := range []table.Condition{
			table.Lt(ast.StringValue("M")),
			table.Gt(ast.StringValue("M")),
			table.Le(ast.StringValue("M")),
			table.Ge(ast.StringValue("M")),
		} {
			t.Run(col+" "+cond.Op.String(), func(t *testing.T) {
				rows, err := tbl.QueryWhere(table.WhereQuery{Field: col, Cond: cond})
				require.Error(t, err)
				assert.Nil(t, rows)

				var unsupported *table.UnsupportedConditionError
				require.ErrorAs(t, err, &unsupported)
				assert.Equal(t, ast.TypeString, unsupported.Type)
				assert.ErrorIs(t, err, table.ErrInvalidQuery)
				assert.Contains(t, err.Error(), "is not implemented for type '[String]'")
			})
		}
	}
}

func TestQueryWhere_UnknownField(t *testing.T) {
	tbl := seedUsers(t)

	_, err := tbl.QueryWhere(table.WhereQuery{Field: "email", Cond: table.Eq(ast.StringValue("x"))})
	require.Error(t, err)
	assert.EqualError(t, err, "table 'users' has no field named 'email'")
	assert.ErrorIs(t, err, table.ErrInvalidQuery)
}

func TestQueryWhere_OtherVariantNeverEqual(t *testing.T) {
	tbl := seedUsers(t)

	tests := []struct {
		name    string
		field   string
		cond    table.Condition
		wantIDs []int
	}{
		{"number column ne string", "age", table.Ne(ast.StringValue("22")), []int{1, 2, 3}},
		{"number column eq string", "age", table.Eq(ast.StringValue("22")), nil},
		{"number column lt string", "age", table.Lt(ast.StringValue("99")), nil},
		{"string column ne number", "name", table.Ne(ast.NumberValue(22)), []int{1, 2, 3}},
		{"string column eq number", "name", table.Eq(ast.NumberValue(22)), nil},
		{"missing value ne", "age", table.Condition{Op: table.NotEqual}, []int{1, 2, 3}},
		{"missing value eq", "age", table.Condition{Op: table.Equal}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tbl.QueryWhere(table.WhereQuery{Field: tt.field, Cond: tt.cond})
			require.NoError(t, err)

			var ids []int
			for _, r := range rows {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestQueryWhere_EmptyTable(t *testing.T) {
	tbl := newUsersTable(t)

	rows, err := tbl.QueryWhere(table.WhereQuery{Field: "age", Cond: table.Ge(ast.NumberValue(0))})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSchemaRebuild(t *testing.T) {
	tbl := newUsersTable(t)
	schema := tbl.Schema()

	again, err := parser.ParseSchema(schema.String())
	require.NoError(t, err)
	assert.Equal(t, schema, again)
}
