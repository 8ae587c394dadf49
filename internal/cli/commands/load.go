package commands

import (
	"fmt"

	"github.com/leapstack-labs/nodata/internal/cli/output"
	"github.com/leapstack-labs/nodata/internal/loader"
	"github.com/spf13/cobra"
)

// LoadOptions holds options for the load command.
type LoadOptions struct {
	Watch bool
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the project's schemas and models into tables",
		Long: `Create a table for every schema file and insert every model file,
then print a summary of the tables.

Files that fail to parse or are rejected by their table are reported and
skipped. With --watch the command keeps running and inserts model files
as they appear in the models directory.`,
		Example: `  nodata load
  nodata load --models-dir testdata/models
  nodata load --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Keep running and insert new model files as they appear")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *LoadOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	result, err := cmdCtx.Load(cmd.Context())
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
	default:
		r.Success(result.Summary())
	}
	if err := r.Tables(tableInfos(cmdCtx.Registry)); err != nil {
		return err
	}

	if !opts.Watch {
		return nil
	}

	w, err := cmdCtx.Loader.NewWatcher()
	if err != nil {
		return err
	}
	r.Muted(fmt.Sprintf("Watching %s for new models (Ctrl+C to stop)", cmdCtx.Cfg.ModelsDir))
	return w.Run(cmd.Context(), func(in loader.Ingest) {
		if in.Err != nil {
			r.StatusLine(false, in.Path, in.Err.Error())
			return
		}
		r.StatusLine(true, fmt.Sprintf("%s (row %d)", in.Path, in.ID), "")
	})
}
