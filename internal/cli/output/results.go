package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Column describes one column of a result set.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Record is one row. Values hold string or float64 entries in column order.
type Record struct {
	ID     int
	Values []any
}

// ResultSet is a set of rows read from one table.
type ResultSet struct {
	Table   string
	Columns []Column
	Records []Record
}

// Results writes rs in the effective mode.
func (r *Renderer) Results(rs *ResultSet) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(resultDoc(rs))
	case ModeYAML:
		return r.YAML(resultNode(rs))
	case ModeCSV:
		tw := r.tableWriter(rs)
		tw.RenderCSV()
		return nil
	case ModeMarkdown:
		if len(rs.Records) == 0 {
			r.Println("(0 rows)")
			return nil
		}
		tw := r.tableWriter(rs)
		tw.RenderMarkdown()
		return nil
	default:
		if len(rs.Records) == 0 {
			r.Println("(0 rows)")
			return nil
		}
		tw := r.tableWriter(rs)
		tw.SetStyle(table.StyleLight)
		tw.Render()
		r.Printf("(%d rows)\n", len(rs.Records))
		return nil
	}
}

func (r *Renderer) tableWriter(rs *ResultSet) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, 0, len(rs.Columns)+1)
	header = append(header, "id")
	for _, col := range rs.Columns {
		header = append(header, col.Name)
	}
	t.AppendHeader(header)

	for _, rec := range rs.Records {
		row := make(table.Row, 0, len(rec.Values)+1)
		row = append(row, rec.ID)
		for _, v := range rec.Values {
			row = append(row, FormatValue(v))
		}
		t.AppendRow(row)
	}
	return t
}

// FormatValue renders a cell value. Numbers use the shortest exact form.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// resultJSON is the JSON form of a result set. Rows keep column order.
type resultJSON struct {
	Table   string       `json:"table"`
	Columns []Column     `json:"columns"`
	Rows    []orderedRow `json:"rows"`
	Count   int          `json:"count"`
}

type orderedRow struct {
	keys   []string
	values []any
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rowKeys(rs *ResultSet) []string {
	keys := make([]string, 0, len(rs.Columns)+1)
	keys = append(keys, "id")
	for _, col := range rs.Columns {
		keys = append(keys, col.Name)
	}
	return keys
}

func resultDoc(rs *ResultSet) resultJSON {
	keys := rowKeys(rs)
	rows := make([]orderedRow, 0, len(rs.Records))
	for _, rec := range rs.Records {
		values := make([]any, 0, len(keys))
		values = append(values, rec.ID)
		values = append(values, rec.Values...)
		rows = append(rows, orderedRow{keys: keys, values: values})
	}
	columns := rs.Columns
	if columns == nil {
		columns = []Column{}
	}
	return resultJSON{Table: rs.Table, Columns: columns, Rows: rows, Count: len(rows)}
}

// resultNode builds the YAML document by hand so row keys keep column order.
func resultNode(rs *ResultSet) *yaml.Node {
	keys := rowKeys(rs)

	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range rs.Records {
		row := &yaml.Node{Kind: yaml.MappingNode}
		row.Content = append(row.Content, scalar(keys[0], "!!str"), scalar(strconv.Itoa(rec.ID), "!!int"))
		for i, v := range rec.Values {
			row.Content = append(row.Content, scalar(keys[i+1], "!!str"), valueNode(v))
		}
		rows.Content = append(rows.Content, row)
	}

	columns := &yaml.Node{Kind: yaml.SequenceNode}
	for _, col := range rs.Columns {
		columns.Content = append(columns.Content, &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{scalar("name", "!!str"), scalar(col.Name, "!!str"), scalar("type", "!!str"), scalar(col.Type, "!!str")},
		})
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("table", "!!str"), scalar(rs.Table, "!!str"),
			scalar("columns", "!!str"), columns,
			scalar("rows", "!!str"), rows,
			scalar("count", "!!str"), scalar(strconv.Itoa(len(rs.Records)), "!!int"),
		},
	}
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func valueNode(v any) *yaml.Node {
	if f, ok := v.(float64); ok {
		tag := "!!float"
		if f == float64(int64(f)) {
			tag = "!!int"
		}
		return scalar(strconv.FormatFloat(f, 'f', -1, 64), tag)
	}
	return scalar(FormatValue(v), "!!str")
}
