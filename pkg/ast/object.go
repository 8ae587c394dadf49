package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Object is the runtime value of a field. It is either a StringValue or a
// NumberValue; no other implementations exist.
//
// Objects are comparable with ==: values of different variants are never
// equal.
type Object interface {
	Type() DataType
	String() string
	object() // marker method to restrict implementation
}

// StringValue is a text Object.
type StringValue string

// NumberValue is a numeric Object.
type NumberValue float64

func (StringValue) Type() DataType { return TypeString }
func (NumberValue) Type() DataType { return TypeNumber }

func (s StringValue) String() string { return string(s) }
func (n NumberValue) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

func (StringValue) object() {}
func (NumberValue) object() {}

// Literal renders an Object the way it is written in a model.
func Literal(o Object) string {
	switch v := o.(type) {
	case StringValue:
		return quote(string(v))
	case NumberValue:
		return v.String()
	default:
		return "<nil>"
	}
}

// Compare orders two Objects of the same variant. Numbers compare
// numerically and strings lexically. It returns -1, 0 or +1.
func Compare(a, b Object) (int, error) {
	switch x := a.(type) {
	case NumberValue:
		y, ok := b.(NumberValue)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), typeOf(b))
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case StringValue:
		y, ok := b.(StringValue)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.Type(), typeOf(b))
		}
		return strings.Compare(string(x), string(y)), nil
	default:
		return 0, fmt.Errorf("cannot compare %s with %s", typeOf(a), typeOf(b))
	}
}

func typeOf(o Object) string {
	if o == nil {
		return "<nil>"
	}
	return o.Type().String()
}

// quote wraps s in double quotes. The language has no escape sequences,
// so the text is written as is.
func quote(s string) string {
	return `"` + s + `"`
}
