// Package registry keeps the named tables of a session.
// It is the host-side guard around pkg/table: each table gets its own
// lock, so callers on different goroutines may share one registry.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/nodata/pkg/ast"
	"github.com/leapstack-labs/nodata/pkg/table"
)

// Registry errors.
var (
	ErrTableExists = errors.New("table already exists")
	ErrNoSuchTable = errors.New("no such table")
)

// guarded pairs a table with the lock that serializes access to it.
type guarded struct {
	mu    sync.RWMutex
	table *table.Table
}

// TableRegistry maps table names to tables.
type TableRegistry struct {
	mu     sync.RWMutex
	tables map[string]*guarded
	logger *slog.Logger
}

// NewTableRegistry creates a new empty registry.
func NewTableRegistry(logger *slog.Logger) *TableRegistry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TableRegistry{
		tables: make(map[string]*guarded),
		logger: logger,
	}
}

// Create builds a table from the schema and registers it under the
// schema name.
func (r *TableRegistry) Create(schema *ast.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[schema.Name]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, schema.Name)
	}
	r.tables[schema.Name] = &guarded{table: table.New(schema)}

	r.logger.Info("table created", "table", schema.Name, "columns", len(schema.Fields))
	return nil
}

// Insert adds the model to the table it names and returns the new row id.
func (r *TableRegistry) Insert(m *ast.Model) (int, error) {
	g, err := r.lookup(m.Name)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	id, err := g.table.AddRow(m)
	g.mu.Unlock()

	if err != nil {
		r.logger.Warn("row rejected", "table", m.Name, "error", err)
		return 0, fmt.Errorf("insert into %s: %w", m.Name, err)
	}
	r.logger.Debug("row inserted", "table", m.Name, "id", id)
	return id, nil
}

// Get returns the row with the given id. Stored rows are never modified,
// so the returned row stays valid after the lock is released.
func (r *TableRegistry) Get(name string, id int) (*table.Row, bool, error) {
	g, err := r.lookup(name)
	if err != nil {
		return nil, false, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	row, ok := g.table.QueryByID(id)
	return row, ok, nil
}

// Where runs a filtered query against the named table.
func (r *TableRegistry) Where(name string, q table.WhereQuery) ([]*table.Row, error) {
	g, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	rows, err := g.table.QueryWhere(q)
	g.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	r.logger.Debug("query", "table", name, "where", q.String(), "rows", len(rows))
	return rows, nil
}

// View calls fn with the named table under its read lock.
// fn must not keep the table after returning.
func (r *TableRegistry) View(name string, fn func(*table.Table) error) error {
	g, err := r.lookup(name)
	if err != nil {
		return err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(g.table)
}

// Names returns the registered table names in sorted order.
func (r *TableRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tables.
func (r *TableRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

func (r *TableRegistry) lookup(name string) (*guarded, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTable, name)
	}
	return g, nil
}
