package commands

import (
	"testing"

	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhere(t *testing.T) {
	tests := []struct {
		expr string
		want table.WhereQuery
	}{
		{`name != "Edilson"`, table.WhereQuery{Field: "name", Cond: table.Ne(ast.StringValue("Edilson"))}},
		{`age>=23`, table.WhereQuery{Field: "age", Cond: table.Ge(ast.NumberValue(23))}},
		{`age gt 20`, table.WhereQuery{Field: "age", Cond: table.Gt(ast.NumberValue(20))}},
		{` age  <  1.5 `, table.WhereQuery{Field: "age", Cond: table.Lt(ast.NumberValue(1.5))}},
		{`"full name" == "Ana Maria"`, table.WhereQuery{Field: "full name", Cond: table.Eq(ast.StringValue("Ana Maria"))}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseWhere(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWhere_Errors(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr string
	}{
		{"", "empty where clause"},
		{"age", "missing operator"},
		{"age ~ 3", "missing operator"},
		{"age like 3", `unknown operator "like"`},
		{"age >", "value"},
		{"name == Ana", "quote strings"},
		{`"name == 1`, "unterminated field name"},
		{"== 1", "missing field name"},
		{"age > 1 2", "value"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParseWhere(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
