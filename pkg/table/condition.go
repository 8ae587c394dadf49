package table

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/nodata/pkg/ast"
)

// Operator is a comparison used by a Condition.
type Operator int

// Operator constants.
const (
	Equal Operator = iota
	NotEqual
	LessThan
	GreaterThan
	LessOrEqual
	GreaterOrEqual
)

func (o Operator) String() string {
	switch o {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// IsOrdering reports whether the operator needs an ordering, not just equality.
func (o Operator) IsOrdering() bool {
	return o == LessThan || o == GreaterThan || o == LessOrEqual || o == GreaterOrEqual
}

var operatorNames = map[string]Operator{
	"==": Equal, "=": Equal, "eq": Equal,
	"!=": NotEqual, "<>": NotEqual, "ne": NotEqual,
	"<": LessThan, "lt": LessThan,
	">": GreaterThan, "gt": GreaterThan,
	"<=": LessOrEqual, "le": LessOrEqual, "lte": LessOrEqual,
	">=": GreaterOrEqual, "ge": GreaterOrEqual, "gte": GreaterOrEqual,
}

// ParseOperator parses a symbolic (==, !=, <, >, <=, >=) or mnemonic
// (eq, ne, lt, gt, le, ge) operator.
func ParseOperator(s string) (Operator, error) {
	if op, ok := operatorNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// Condition is a comparison operator plus its right-hand value.
type Condition struct {
	Op    Operator
	Value ast.Object
}

// Condition constructors.
func Eq(v ast.Object) Condition { return Condition{Op: Equal, Value: v} }
func Ne(v ast.Object) Condition { return Condition{Op: NotEqual, Value: v} }
func Lt(v ast.Object) Condition { return Condition{Op: LessThan, Value: v} }
func Gt(v ast.Object) Condition { return Condition{Op: GreaterThan, Value: v} }
func Le(v ast.Object) Condition { return Condition{Op: LessOrEqual, Value: v} }
func Ge(v ast.Object) Condition { return Condition{Op: GreaterOrEqual, Value: v} }

func (c Condition) String() string {
	return c.Op.String() + " " + ast.Literal(c.Value)
}

// Apply evaluates `lhs <op> c.Value`. Equality is per variant; ordering
// holds only between two values of the same variant.
func (c Condition) Apply(lhs ast.Object) bool {
	switch c.Op {
	case Equal:
		return lhs == c.Value
	case NotEqual:
		return lhs != c.Value
	}

	cmp, err := ast.Compare(lhs, c.Value)
	if err != nil {
		return false
	}
	switch c.Op {
	case LessThan:
		return cmp < 0
	case GreaterThan:
		return cmp > 0
	case LessOrEqual:
		return cmp <= 0
	case GreaterOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

// Supports reports whether columns of the given type accept the operator.
// String columns only support equality; Number columns support all six.
func Supports(typ ast.DataType, op Operator) bool {
	switch typ {
	case ast.TypeString:
		return !op.IsOrdering()
	case ast.TypeNumber:
		return true
	default:
		return false
	}
}

// WhereQuery selects rows whose Field satisfies Cond.
type WhereQuery struct {
	Field string
	Cond  Condition
}

func (q WhereQuery) String() string {
	return q.Field + " " + q.Cond.String()
}
