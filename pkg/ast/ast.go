// Package ast defines the typed syntax tree for nodata schemas and models.
//
// A Schema names a table and declares its columns:
//
//	"users": { "name": String, "age": Number }
//
// A Model names a table and carries one candidate record:
//
//	"users": { "name": "Edilson", "age": 22 }
package ast

import "strings"

// DataType is the declared type of a schema column or model field.
type DataType int

// DataType constants.
const (
	TypeString DataType = iota
	TypeNumber
)

// Name returns the bare keyword for the type.
func (d DataType) Name() string {
	switch d {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	default:
		return "Unknown"
	}
}

// String renders the type as a bracketed tag, e.g. "[String]".
func (d DataType) String() string {
	return "[" + d.Name() + "]"
}

// SchemaField declares one column.
type SchemaField struct {
	Name string
	Type DataType
}

// Schema is a named, ordered list of column declarations.
// Field order is the row layout of any table built from it.
type Schema struct {
	Name   string
	Fields []SchemaField
}

// String prints the schema back in source form.
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString(quote(s.Name))
	b.WriteString(": {")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    ")
		b.WriteString(quote(f.Name))
		b.WriteString(": ")
		b.WriteString(f.Type.Name())
	}
	if len(s.Fields) > 0 {
		b.WriteString(",\n")
	}
	b.WriteString("}")
	return b.String()
}

// ModelField is one field of a model. Type is the kind of literal that
// was written; it is only checked against a schema on insertion.
type ModelField struct {
	Name  string
	Value Object
	Type  DataType
}

// Model is a named, ordered list of field values.
type Model struct {
	Name   string
	Fields []ModelField
}

// FindField returns the first field with the given name.
func (m *Model) FindField(name string) (*ModelField, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// String prints the model back in source form.
func (m *Model) String() string {
	var b strings.Builder
	b.WriteString(quote(m.Name))
	b.WriteString(": {")
	for i, f := range m.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    ")
		b.WriteString(quote(f.Name))
		b.WriteString(": ")
		b.WriteString(Literal(f.Value))
	}
	if len(m.Fields) > 0 {
		b.WriteString(",\n")
	}
	b.WriteString("}")
	return b.String()
}
