package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableInfo summarizes one table in the registry.
type TableInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
	Rows    int      `json:"rows" yaml:"rows"`
	NextID  int      `json:"next_id" yaml:"next_id"`
}

// Tables writes a summary of tables in the effective mode.
func (r *Renderer) Tables(infos []TableInfo) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		if infos == nil {
			infos = []TableInfo{}
		}
		return r.JSON(infos)
	case ModeYAML:
		return r.YAML(infos)
	}

	if len(infos) == 0 {
		r.Muted("(no tables)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"table", "columns", "rows", "next id"})
	for _, info := range infos {
		t.AppendRow(table.Row{info.Name, formatColumns(info.Columns), info.Rows, info.NextID})
	}

	switch r.EffectiveMode() {
	case ModeCSV:
		t.RenderCSV()
	case ModeMarkdown:
		t.RenderMarkdown()
	default:
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}

func formatColumns(cols []Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + " " + c.Type
	}
	return strings.Join(parts, ", ")
}
