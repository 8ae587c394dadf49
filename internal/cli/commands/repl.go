package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/nodata/internal/registry"
	"github.com/spf13/cobra"
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	Empty bool
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell for creating tables and inserting rows",
		Long: `Start an interactive shell.

Type a schema document to create a table or a model document to insert
a row. Dot commands inspect and query the tables; type .help for the list.
The project is loaded first unless --empty is given.`,
		Example: `  nodata repl
  nodata repl --empty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Empty, "empty", false, "Start with no tables instead of loading the project")

	return cmd
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
	cmdCtx := NewCommandContext(cmd)
	if !opts.Empty {
		if _, err := cmdCtx.Load(cmd.Context()); err != nil {
			return err
		}
	}

	historyFile := cmdCtx.Cfg.HistoryFile
	if historyFile != "" && !filepath.IsAbs(historyFile) {
		historyFile = filepath.Join(cmdCtx.Cfg.ProjectRoot, historyFile)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptMain,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(cmdCtx.Registry),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmdCtx.Renderer.Writer(),
		Stderr:          cmdCtx.Renderer.ErrWriter(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Printf("nodata REPL (%d tables loaded)\n", cmdCtx.Registry.Count())
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	session := newREPLSession(cmdCtx.Registry, r)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.Reset()
			rl.SetPrompt(session.Prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if session.Exec(line) {
			break
		}
		rl.SetPrompt(session.Prompt())
	}

	return nil
}

// newREPLCompleter completes dot commands and, after them, table names.
// Table names are read on every completion so new tables show up.
func newREPLCompleter(reg *registry.TableRegistry) *readline.PrefixCompleter {
	tables := readline.PcItemDynamic(func(string) []string { return reg.Names() })
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", tables),
		readline.PcItem(".all", tables),
		readline.PcItem(".get", tables),
		readline.PcItem(".where", tables),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
