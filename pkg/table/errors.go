package table

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/nodata/pkg/ast"
)

// Error families. Every insertion error matches ErrInvalidRow and every
// query error matches ErrInvalidQuery under errors.Is.
var (
	ErrInvalidRow   = errors.New("invalid row")
	ErrInvalidQuery = errors.New("invalid query")
)

// ArityError reports a model whose field count differs from the column count.
type ArityError struct {
	Table    string
	Expected int
	Found    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("'%s' expects %d fields but found %d", e.Table, e.Expected, e.Found)
}

func (e *ArityError) Is(target error) bool { return target == ErrInvalidRow }

// MissingFieldError reports a column with no matching model field.
type MissingFieldError struct {
	Table string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field '%s'", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrInvalidRow }

// TypeMismatchError reports a model field whose literal type differs from
// the column type.
type TypeMismatchError struct {
	Field    string
	Expected ast.DataType
	Found    ast.DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field '%s' must be of type '%s' found type '%s'", e.Field, e.Expected, e.Found)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrInvalidRow }

// UnknownFieldError reports a query on a field the table does not have.
type UnknownFieldError struct {
	Table string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("table '%s' has no field named '%s'", e.Table, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrInvalidQuery }

// UnsupportedConditionError reports an operator the column type cannot evaluate.
type UnsupportedConditionError struct {
	Op   Operator
	Type ast.DataType
}

func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("condition '%s' is not implemented for type '%s'", e.Op, e.Type)
}

func (e *UnsupportedConditionError) Is(target error) bool { return target == ErrInvalidQuery }
