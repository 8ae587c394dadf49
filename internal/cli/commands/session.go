package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/nodata/internal/cli/output"
	"github.com/leapstack-labs/nodata/internal/registry"
	"github.com/leapstack-labs/nodata/pkg/parser"
	"github.com/leapstack-labs/nodata/pkg/table"
	"github.com/leapstack-labs/nodata/pkg/token"
)

// Prompts shown by the REPL.
const (
	promptMain = "nodata> "
	promptMore = "   ...> "
)

// replSession interprets REPL input. Documents may span several lines and
// are run once their braces balance. Lines starting with '.' outside a
// document are commands.
type replSession struct {
	reg *registry.TableRegistry
	r   *output.Renderer
	buf strings.Builder
}

func newREPLSession(reg *registry.TableRegistry, r *output.Renderer) *replSession {
	return &replSession{reg: reg, r: r}
}

// Prompt returns the prompt for the next line.
func (s *replSession) Prompt() string {
	if s.buf.Len() > 0 {
		return promptMore
	}
	return promptMain
}

// Reset drops a partially entered document.
func (s *replSession) Reset() {
	s.buf.Reset()
}

// Exec handles one line of input and reports whether the session should end.
func (s *replSession) Exec(line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.buf.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.command(trimmed)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteByte('\n')
	if !documentComplete(s.buf.String()) {
		return false
	}

	input := s.buf.String()
	s.buf.Reset()
	s.document(input)
	return false
}

// documentComplete reports whether input holds a full document: at least
// one brace with all braces closed, or a lexical error that no further
// input can fix.
func documentComplete(input string) bool {
	depth := 0
	opened := false
	for _, tok := range parser.NewLexer(input).Tokenize() {
		switch tok.Type {
		case token.LBRACE:
			depth++
			opened = true
		case token.RBRACE:
			depth--
		case token.ILLEGAL:
			return true
		}
	}
	return opened && depth <= 0
}

// document creates a table from a schema or inserts a model.
func (s *replSession) document(input string) {
	if parser.Sniff(input) == parser.KindModel {
		m, err := parser.ParseModel(input)
		if err != nil {
			s.r.Error(err.Error())
			return
		}
		id, err := s.reg.Insert(m)
		if err != nil {
			s.r.Error(err.Error())
			return
		}
		s.r.Success(fmt.Sprintf("inserted %s row %d", m.Name, id))
		return
	}

	schema, err := parser.ParseSchema(input)
	if err != nil {
		s.r.Error(err.Error())
		return
	}
	if err := s.reg.Create(schema); err != nil {
		s.r.Error(err.Error())
		return
	}
	s.r.Success(fmt.Sprintf("created table %s (%d columns)", schema.Name, len(schema.Fields)))
}

func (s *replSession) command(line string) bool {
	name, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	var err error
	switch strings.ToLower(name) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.r.Writer())
	case ".tables":
		err = s.r.Tables(tableInfos(s.reg))
	case ".schema":
		err = s.schema(args)
	case ".all":
		err = s.all(args)
	case ".get":
		err = s.get(args)
	case ".where":
		err = s.where(args)
	default:
		s.r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", name))
	}
	if err != nil {
		s.r.Error(err.Error())
	}
	return false
}

func (s *replSession) schema(args string) error {
	if args == "" {
		return fmt.Errorf("usage: .schema <table>")
	}
	return s.reg.View(args, func(t *table.Table) error {
		s.r.Println(t.Schema().String())
		return nil
	})
}

func (s *replSession) all(args string) error {
	if args == "" {
		return fmt.Errorf("usage: .all <table>")
	}
	rows, err := allRows(s.reg, args)
	if err != nil {
		return err
	}
	return s.render(args, rows)
}

func (s *replSession) get(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return fmt.Errorf("usage: .get <table> <id>")
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid id %q", parts[1])
	}
	row, found, err := s.reg.Get(parts[0], id)
	if err != nil {
		return err
	}
	if !found {
		s.r.Printf("no row with id %d in %s\n", id, parts[0])
		return nil
	}
	return s.render(parts[0], []*table.Row{row})
}

func (s *replSession) where(args string) error {
	name, predicate, ok := strings.Cut(args, " ")
	if !ok || strings.TrimSpace(predicate) == "" {
		return fmt.Errorf("usage: .where <table> <field> <op> <value>")
	}
	q, err := ParseWhere(predicate)
	if err != nil {
		return err
	}
	rows, err := s.reg.Where(name, q)
	if err != nil {
		return err
	}
	return s.render(name, rows)
}

func (s *replSession) render(name string, rows []*table.Row) error {
	rs, err := resultSet(s.reg, name, rows)
	if err != nil {
		return err
	}
	return s.r.Results(rs)
}

func printREPLHelp(w io.Writer) {
	help := `
Input:
  "users": {"name": String, "age": Number}    Create a table
  "users": {"name": "Ana", "age": 30}         Insert a row
  Documents may span several lines.

Commands:
  .help                          Show this help message
  .tables                        List tables
  .schema <table>                Show a table's schema
  .all <table>                   Show every row
  .get <table> <id>              Show one row
  .where <table> <field> <op> <value>
                                 Show matching rows (op: == != < > <= >=)
  .quit / .exit                  Exit the REPL
`
	_, _ = fmt.Fprintln(w, help)
}
