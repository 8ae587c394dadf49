package commands

import (
	"fmt"

	"github.com/leapstack-labs/nodata/internal/registry"
	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/parser"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/spf13/cobra"
)

// Demo documents.
const (
	demoSchema = `"users": {
    "name": String,
    "age": Number,
    "phone": String,
}`
	demoBadRow = `"users": {"name": "Zed", "age": "unknown", "phone": "+1 000-0000"}`
)

var demoRows = []string{
	`"users": {"name": "Edilson", "age": 22, "phone": "+55 123-4567"}`,
	`"users": {"name": "Mungoi", "age": 26, "phone": "+244 123-4567"}`,
	`"users": {"name": "Grahms", "age": 24, "phone": "+34 123-4567"}`,
}

// NewDemoCommand creates the demo command.
func NewDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through creating, filling, and querying a table",
		Long: `Run a short scripted session against an in-memory table: define a
users schema, insert three rows, fetch one by id, filter with a
condition, and show a rejected insert. No project files are read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runDemo(cmdCtx)
		},
	}
}

func runDemo(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer
	reg := cmdCtx.Registry

	r.Header(2, "Schema")
	schema, err := parser.ParseSchema(demoSchema)
	if err != nil {
		return err
	}
	if err := reg.Create(schema); err != nil {
		return err
	}
	r.Println(schema.String())

	r.Header(2, "Insert")
	for _, src := range demoRows {
		id, err := insertSource(reg, src)
		if err != nil {
			return err
		}
		r.Printf("%s -> id %d\n", src, id)
	}
	if _, err := insertSource(reg, demoBadRow); err != nil {
		r.Printf("%s -> rejected: %v\n", demoBadRow, err)
	}

	r.Header(2, "Query by id 2")
	row, found, err := reg.Get("users", 2)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no row with id 2 in users")
	}
	if err := renderRows(cmdCtx, []*table.Row{row}); err != nil {
		return err
	}

	q := table.WhereQuery{Field: "name", Cond: table.Ne(ast.StringValue("Edilson"))}
	r.Header(2, fmt.Sprintf("Query where %s", q))
	rows, err := reg.Where("users", q)
	if err != nil {
		return err
	}
	return renderRows(cmdCtx, rows)
}

func insertSource(reg *registry.TableRegistry, src string) (int, error) {
	m, err := parser.ParseModel(src)
	if err != nil {
		return 0, err
	}
	return reg.Insert(m)
}

func renderRows(cmdCtx *CommandContext, rows []*table.Row) error {
	rs, err := resultSet(cmdCtx.Registry, "users", rows)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Results(rs)
}
