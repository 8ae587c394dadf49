// Package loader discovers schema and model files in a project and feeds
// them into a table registry.
//
// Schemas live in *.schema files and models in *.model files, one
// document per file. Files are parsed concurrently but applied in sorted
// path order, so row ids do not depend on scheduling.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/nodata/internal/config"
	"github.com/leapstack-labs/nodata/internal/registry"
	"github.com/leapstack-labs/nodata/pkg/parser"
	"golang.org/x/sync/errgroup"
)

// File extensions recognized by the loader.
const (
	SchemaExt = ".schema"
	ModelExt  = ".model"
)

// Options configures a Loader.
type Options struct {
	SchemasDir  string
	ModelsDir   string
	Concurrency int // parse workers; defaults to GOMAXPROCS
	Logger      *slog.Logger
}

// Result contains statistics about a load run.
type Result struct {
	SchemasTotal   int
	TablesCreated  int
	ModelsTotal    int
	RowsInserted   int
	Errors         []FileError
	Duration       time.Duration
	InsertedRowIDs map[string][]int // table -> ids in insertion order
}

// HasErrors returns true if any file failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Schemas: %d files (%d tables) | Models: %d files (%d rows, %d rejected) | Duration: %s",
		r.SchemasTotal, r.TablesCreated, r.ModelsTotal, r.RowsInserted,
		r.ModelsTotal-r.RowsInserted, r.Duration.Round(time.Millisecond),
	)
}

// FileError represents a non-fatal failure for one file.
type FileError struct {
	Path  string
	Stage string // "read", "parse", "create", "insert"
	Err   error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// ProjectOptions returns Options reading from the project's directories.
func ProjectOptions(p *config.ProjectConfig, logger *slog.Logger) Options {
	return Options{
		SchemasDir: p.SchemasDir,
		ModelsDir:  p.ModelsDir,
		Logger:     logger,
	}
}

// Loader reads project files into a registry.
type Loader struct {
	opts     Options
	registry *registry.TableRegistry
	logger   *slog.Logger

	mu       sync.Mutex
	ingested map[string]bool // model paths already applied
}

// New creates a loader that writes into reg.
func New(reg *registry.TableRegistry, opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Loader{
		opts:     opts,
		registry: reg,
		logger:   logger,
		ingested: make(map[string]bool),
	}
}

// NewFromDir creates a loader for the project rooted at dir, reading its
// nodata.yaml if there is one.
func NewFromDir(reg *registry.TableRegistry, dir string, logger *slog.Logger) (*Loader, error) {
	p, err := config.LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	return New(reg, ProjectOptions(p, logger)), nil
}

// Load creates a table for every schema file, then inserts every model
// file. Bad files are reported in Result.Errors and do not stop the run;
// the returned error is reserved for unreadable directories and
// cancellation.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{InsertedRowIDs: make(map[string][]int)}

	schemaFiles, err := ScanDir(l.opts.SchemasDir, SchemaExt)
	if err != nil {
		return nil, err
	}
	modelFiles, err := ScanDir(l.opts.ModelsDir, ModelExt)
	if err != nil {
		return nil, err
	}
	result.SchemasTotal = len(schemaFiles)
	result.ModelsTotal = len(modelFiles)

	schemas, err := parseAll(ctx, l.opts.Concurrency, schemaFiles, parser.ParseSchema)
	if err != nil {
		return nil, err
	}
	for i, parsed := range schemas {
		path := schemaFiles[i]
		if parsed.err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Stage: parsed.stage, Err: parsed.err})
			continue
		}
		if err := l.registry.Create(parsed.doc); err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Stage: "create", Err: err})
			continue
		}
		result.TablesCreated++
	}

	models, err := parseAll(ctx, l.opts.Concurrency, modelFiles, parser.ParseModel)
	if err != nil {
		return nil, err
	}
	for i, parsed := range models {
		path := modelFiles[i]
		l.markIngested(path)
		if parsed.err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Stage: parsed.stage, Err: parsed.err})
			continue
		}
		id, err := l.registry.Insert(parsed.doc)
		if err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Stage: "insert", Err: err})
			continue
		}
		result.RowsInserted++
		result.InsertedRowIDs[parsed.doc.Name] = append(result.InsertedRowIDs[parsed.doc.Name], id)
	}

	result.Duration = time.Since(start)
	l.logger.Info("load complete",
		"tables", result.TablesCreated,
		"rows", result.RowsInserted,
		"errors", len(result.Errors),
		"duration", result.Duration)
	return result, nil
}

// LoadModelFile parses one model file and inserts it.
func (l *Loader) LoadModelFile(path string) (int, error) {
	l.markIngested(path)

	m, stage, err := readAndParse(path, parser.ParseModel)
	if err != nil {
		return 0, FileError{Path: path, Stage: stage, Err: err}
	}
	id, err := l.registry.Insert(m)
	if err != nil {
		return 0, FileError{Path: path, Stage: "insert", Err: err}
	}
	return id, nil
}

func (l *Loader) markIngested(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ingested[filepath.Clean(path)] = true
}

func (l *Loader) isIngested(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ingested[filepath.Clean(path)]
}

// parsed holds the outcome for one file.
type parsed[D any] struct {
	doc   D
	stage string
	err   error
}

// parseAll parses files concurrently. Results line up with files.
func parseAll[D any](ctx context.Context, limit int, files []string, parse func(string) (D, error)) ([]parsed[D], error) {
	results := make([]parsed[D], len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, stage, err := readAndParse(path, parse)
			results[i] = parsed[D]{doc: doc, stage: stage, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readAndParse[D any](path string, parse func(string) (D, error)) (D, string, error) {
	var zero D
	content, err := os.ReadFile(path) //nolint:gosec // paths come from the project directories
	if err != nil {
		return zero, "read", err
	}
	doc, err := parse(string(content))
	if err != nil {
		return zero, "parse", err
	}
	return doc, "", nil
}

// ScanDir returns the files under dir with the given extension, sorted.
// Hidden files and directories are skipped. A missing directory yields
// no files.
func ScanDir(dir, ext string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}
