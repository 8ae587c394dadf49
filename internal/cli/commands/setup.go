package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/nodata/internal/cli/config"
	"github.com/leapstack-labs/nodata/internal/cli/output"
	"github.com/leapstack-labs/nodata/internal/loader"
	"github.com/leapstack-labs/nodata/internal/registry"
	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *registry.TableRegistry
	Loader   *loader.Loader
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an empty registry.
// Call Load to read the project into it.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	return newCommandContext(cfg, logger, r)
}

func newCommandContext(cfg *config.Config, logger *slog.Logger, r *output.Renderer) *CommandContext {
	reg := registry.NewTableRegistry(logger)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Registry: reg,
		Loader:   loader.New(reg, loader.ProjectOptions(cfg.Project(), logger)),
		Renderer: r,
	}
}

// Load reads the project into the registry. File errors are reported as
// warnings and do not fail the load.
func (c *CommandContext) Load(ctx context.Context) (*loader.Result, error) {
	if err := c.Cfg.ValidateDirectories(); err != nil {
		return nil, err
	}
	result, err := c.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, fe := range result.Errors {
		c.Renderer.Warning(fe.Error())
	}
	return result, nil
}

// resultSet converts rows of the named table for rendering.
func resultSet(reg *registry.TableRegistry, name string, rows []*table.Row) (*output.ResultSet, error) {
	rs := &output.ResultSet{Table: name}
	err := reg.View(name, func(t *table.Table) error {
		rs.Columns = columns(t.Columns())
		return nil
	})
	if err != nil {
		return nil, err
	}

	rs.Records = make([]output.Record, 0, len(rows))
	for _, row := range rows {
		rec := output.Record{ID: row.ID(), Values: make([]any, row.Len())}
		for i, v := range row.Entries() {
			rec.Values[i] = plainValue(v)
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, nil
}

// allRows returns every row of the named table in insertion order.
func allRows(reg *registry.TableRegistry, name string) ([]*table.Row, error) {
	var rows []*table.Row
	err := reg.View(name, func(t *table.Table) error {
		rows = t.Rows()
		return nil
	})
	return rows, err
}

// tableInfos summarizes every table in the registry.
func tableInfos(reg *registry.TableRegistry) []output.TableInfo {
	names := reg.Names()
	infos := make([]output.TableInfo, 0, len(names))
	for _, name := range names {
		_ = reg.View(name, func(t *table.Table) error {
			infos = append(infos, output.TableInfo{
				Name:    t.Name(),
				Columns: columns(t.Columns()),
				Rows:    t.Len(),
				NextID:  t.NextID(),
			})
			return nil
		})
	}
	return infos
}

func columns(fields []ast.SchemaField) []output.Column {
	cols := make([]output.Column, len(fields))
	for i, f := range fields {
		cols[i] = output.Column{Name: f.Name, Type: f.Type.Name()}
	}
	return cols
}

func plainValue(v ast.Object) any {
	switch v := v.(type) {
	case ast.StringValue:
		return string(v)
	case ast.NumberValue:
		return float64(v)
	default:
		return nil
	}
}
