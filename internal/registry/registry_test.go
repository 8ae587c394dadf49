package registry

import (
	"sync"
	"testing"

	"github.com/leapstack-labs/nodata/internal/testutil"
	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/parser"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersRegistry(t *testing.T) *TableRegistry {
	t.Helper()
	r := NewTableRegistry(testutil.NewTestLogger(t))

	schema, err := parser.ParseSchema(`"users": {"name": String, "age": Number}`)
	require.NoError(t, err)
	require.NoError(t, r.Create(schema))
	return r
}

func model(t *testing.T, input string) *ast.Model {
	t.Helper()
	m, err := parser.ParseModel(input)
	require.NoError(t, err)
	return m
}

func TestTableRegistry_Create(t *testing.T) {
	r := newUsersRegistry(t)

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"users"}, r.Names())

	dup, err := parser.ParseSchema(`"users": {}`)
	require.NoError(t, err)
	err = r.Create(dup)
	require.ErrorIs(t, err, ErrTableExists)
	assert.Contains(t, err.Error(), "users")
}

func TestTableRegistry_InsertRoutesByModelName(t *testing.T) {
	r := newUsersRegistry(t)

	id, err := r.Insert(model(t, `"users": {"name": "Edilson", "age": 22}`))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	row, ok, err := r.Get("users", id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ast.StringValue("Edilson"), row.Entry(0))

	_, err = r.Insert(model(t, `"orders": {"total": 3}`))
	require.ErrorIs(t, err, ErrNoSuchTable)
}

func TestTableRegistry_InsertRejectionIsWrapped(t *testing.T) {
	r := newUsersRegistry(t)

	_, err := r.Insert(model(t, `"users": {"name": "X"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrInvalidRow)
	assert.Contains(t, err.Error(), "insert into users")

	var arity *table.ArityError
	assert.ErrorAs(t, err, &arity)
}

func TestTableRegistry_Where(t *testing.T) {
	r := newUsersRegistry(t)
	for _, src := range []string{
		`"users": {"name": "Edilson", "age": 22}`,
		`"users": {"name": "Mungoi", "age": 26}`,
	} {
		_, err := r.Insert(model(t, src))
		require.NoError(t, err)
	}

	rows, err := r.Where("users", table.WhereQuery{Field: "age", Cond: table.Gt(ast.NumberValue(23))})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ID())

	_, err = r.Where("users", table.WhereQuery{Field: "name", Cond: table.Lt(ast.StringValue("M"))})
	assert.ErrorIs(t, err, table.ErrInvalidQuery)

	_, err = r.Where("nope", table.WhereQuery{})
	assert.ErrorIs(t, err, ErrNoSuchTable)
}

func TestTableRegistry_View(t *testing.T) {
	r := newUsersRegistry(t)

	var columns []ast.SchemaField
	err := r.View("users", func(tbl *table.Table) error {
		columns = tbl.Columns()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, columns, 2)

	_, _, err = r.Get("missing", 1)
	assert.ErrorIs(t, err, ErrNoSuchTable)
}

func TestTableRegistry_ConcurrentInserts(t *testing.T) {
	r := newUsersRegistry(t)

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				m := &ast.Model{Name: "users", Fields: []ast.ModelField{
					{Name: "name", Value: ast.StringValue("w"), Type: ast.TypeString},
					{Name: "age", Value: ast.NumberValue(float64(i)), Type: ast.TypeNumber},
				}}
				_, err := r.Insert(m)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	err := r.View("users", func(tbl *table.Table) error {
		assert.Equal(t, writers*perWriter, tbl.Len())
		assert.Equal(t, writers*perWriter+1, tbl.NextID())
		return nil
	})
	require.NoError(t, err)
}
