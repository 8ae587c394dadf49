package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/nodata/internal/registry"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	ID    int
	Where string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <table> [predicate]",
		Short: "Query rows of a table",
		Long: `Load the project and read rows from one table.

Without --id or a predicate every row is returned in insertion order.
A predicate has the form "field op value" where op is one of
==, !=, <, >, <=, >= (or eq, ne, lt, gt, le, ge). Ordering operators
only apply to Number columns. String values must be quoted.`,
		Example: `  # All rows
  nodata query users

  # One row by id
  nodata query users --id 2

  # Filter
  nodata query users 'name != "Edilson"'
  nodata query users --where 'age >= 23' -o json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				if cmd.Flags().Changed("where") {
					return fmt.Errorf("give the predicate either as an argument or with --where, not both")
				}
				opts.Where = args[1]
			}
			return runQuery(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.ID, "id", 0, "Return the row with this id")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", `Filter rows, e.g. 'age > 20'`)
	cmd.MarkFlagsMutuallyExclusive("id", "where")

	return cmd
}

func runQuery(cmd *cobra.Command, name string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if _, err := cmdCtx.Load(cmd.Context()); err != nil {
		return err
	}

	rows, err := selectRows(cmdCtx.Registry, name, cmd.Flags().Changed("id"), opts)
	if err != nil {
		return err
	}
	rs, err := resultSet(cmdCtx.Registry, name, rows)
	if err != nil {
		return err
	}
	return cmdCtx.Renderer.Results(rs)
}

// selectRows reads rows of the named table: one row by id, the rows
// matching a predicate, or all rows.
func selectRows(reg *registry.TableRegistry, name string, byID bool, opts *QueryOptions) ([]*table.Row, error) {
	switch {
	case byID:
		row, found, err := reg.Get(name, opts.ID)
		if err != nil || !found {
			return nil, err
		}
		return []*table.Row{row}, nil
	case strings.TrimSpace(opts.Where) != "":
		q, err := ParseWhere(opts.Where)
		if err != nil {
			return nil, err
		}
		return reg.Where(name, q)
	default:
		return allRows(reg, name)
	}
}
