package commands

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/nodata/pkg/parser"
	"github.com/leapstack-labs/nodata/pkg/table"
)

// ParseWhere parses a predicate of the form `field op value`, for example
// `age >= 23` or `"full name" == "Ana"`. The value uses literal syntax, so
// strings must be quoted.
func ParseWhere(expr string) (table.WhereQuery, error) {
	rest := strings.TrimSpace(expr)
	if rest == "" {
		return table.WhereQuery{}, fmt.Errorf("empty where clause")
	}

	field, rest, err := scanField(rest)
	if err != nil {
		return table.WhereQuery{}, fmt.Errorf("invalid where clause %q: %w", expr, err)
	}

	opText, rest := scanOperator(strings.TrimLeftFunc(rest, unicode.IsSpace))
	if opText == "" {
		return table.WhereQuery{}, fmt.Errorf("invalid where clause %q: missing operator", expr)
	}
	op, err := table.ParseOperator(opText)
	if err != nil {
		return table.WhereQuery{}, fmt.Errorf("invalid where clause %q: %w", expr, err)
	}

	value, err := parser.ParseValue(rest)
	if err != nil {
		return table.WhereQuery{}, fmt.Errorf("invalid where clause %q: value: %w (quote strings: name == \"Ana\")", expr, err)
	}

	return table.WhereQuery{Field: field, Cond: table.Condition{Op: op, Value: value}}, nil
}

func scanField(s string) (string, string, error) {
	if strings.HasPrefix(s, `"`) {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated field name")
		}
		return s[1 : end+1], s[end+2:], nil
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || isOperatorRune(r)
	})
	if end == 0 {
		return "", "", fmt.Errorf("missing field name")
	}
	if end < 0 {
		return s, "", nil
	}
	return s[:end], s[end:], nil
}

// scanOperator reads a symbolic operator such as >= or a word such as gte.
func scanOperator(s string) (string, string) {
	end := strings.IndexFunc(s, func(r rune) bool { return !isOperatorRune(r) })
	if end != 0 {
		if end < 0 {
			return s, ""
		}
		return s[:end], s[end:]
	}
	end = strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

func isOperatorRune(r rune) bool {
	return r == '<' || r == '>' || r == '=' || r == '!'
}
