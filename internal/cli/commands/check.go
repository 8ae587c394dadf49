package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/nodata/internal/cli/output"
	"github.com/leapstack-labs/nodata/internal/loader"
	"github.com/leapstack-labs/nodata/pkg/parser"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Tokens bool
}

// CheckResult is the outcome of checking one file.
type CheckResult struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the file parsed.
func (c CheckResult) OK() bool { return c.Error == "" }

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse schema and model files and report errors",
		Long: `Parse each file and report whether it is a valid document.

Files ending in .schema are parsed as schemas and files ending in .model
as models; anything else is classified by its content. Use - to read
standard input. Nothing is loaded into tables.`,
		Example: `  nodata check schemas/users.schema models/*.model
  echo '"users": {"name": "Ana"}' | nodata check -
  nodata check --tokens schemas/users.schema`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Tokens, "tokens", false, "Print the token stream of each file")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	results := make([]CheckResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		content, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			results = append(results, CheckResult{Path: path, Kind: parser.KindUnknown.String(), Error: err.Error()})
			failed++
			continue
		}
		if opts.Tokens {
			printTokens(r, path, content)
		}
		res := checkDocument(path, content)
		if !res.OK() {
			failed++
		}
		cmdCtx.Logger.Debug("checked", "path", path, "kind", res.Kind, "ok", res.OK())
		results = append(results, res)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	case output.ModeYAML:
		if err := r.YAML(results); err != nil {
			return err
		}
	default:
		for _, res := range results {
			label := fmt.Sprintf("%s (%s %s)", res.Path, res.Kind, res.Name)
			if !res.OK() {
				label = res.Path
			}
			r.StatusLine(res.OK(), label, res.Error)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path) //nolint:gosec // user-supplied path is the point
	return string(b), err
}

// checkDocument parses content as the kind implied by path.
func checkDocument(path, content string) CheckResult {
	kind := parser.Sniff(content)
	switch filepath.Ext(path) {
	case loader.SchemaExt:
		kind = parser.KindSchema
	case loader.ModelExt:
		kind = parser.KindModel
	}

	res := CheckResult{Path: path, Kind: kind.String()}
	if kind == parser.KindModel {
		m, err := parser.ParseModel(content)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Name = m.Name
		return res
	}

	// unknown content gets the schema parser's diagnostics
	schema, err := parser.ParseSchema(content)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Kind = parser.KindSchema.String()
	res.Name = schema.Name
	return res
}

func printTokens(r *output.Renderer, path string, content string) {
	r.Header(2, path)
	for _, tok := range parser.NewLexer(content).Tokenize() {
		r.Printf("%-8s %s\n", tok.Pos, tok)
	}
}
