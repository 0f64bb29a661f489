// Package artifacts persists every run output: result tables as CSV, a
// SQLite mirror of the same tables, the rendered figures, and a JSON run
// manifest tying them to the inputs that produced them.
package artifacts

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ColKind is the storage type a table column gets in the SQLite mirror.
type ColKind int

const (
	Text ColKind = iota
	Real
	Integer
)

// Column describes one result-table column.
type Column struct {
	Name string
	Kind ColKind
}

// Table is a flat result table ready for serialization. Cells are
// pre-formatted strings; the empty string is a missing value and becomes
// an empty CSV field and a SQL NULL.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]string
}

// F formats a float cell, turning NaN into the empty (missing) field.
func F(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// I formats an integer cell.
func I(v int) string {
	return strconv.Itoa(v)
}

// Output is one file the run produced.
type Output struct {
	Kind string `json:"kind"` // "table", "figure", "database"
	Name string `json:"name"`
	Path string `json:"path"`
}

// Store lays the run's outputs out under a single root:
//
//	root/tables/*.csv
//	root/figures/*.png
//	root/results.db
//	root/manifest.json
//
// Figure renderers write concurrently, so output registration is locked.
type Store struct {
	root   string
	logger *zap.Logger

	mu      sync.Mutex
	outputs []Output
}

func NewStore(logger *zap.Logger, root string) (*Store, error) {
	for _, dir := range []string{root, filepath.Join(root, "tables"), filepath.Join(root, "figures")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return &Store{root: root, logger: logger}, nil
}

// Root returns the output root directory.
func (s *Store) Root() string { return s.root }

// WriteTable serializes a result table to tables/<name>.csv.
func (s *Store) WriteTable(t Table) error {
	path := filepath.Join(s.root, "tables", t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write table %s: %w", t.Name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write table %s: %w", t.Name, err)
	}
	for _, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("write table %s: row has %d cells, want %d", t.Name, len(row), len(t.Columns))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write table %s: %w", t.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write table %s: %w", t.Name, err)
	}

	s.register(Output{Kind: "table", Name: t.Name, Path: path})
	s.logger.Info("wrote table", zap.String("name", t.Name), zap.Int("rows", len(t.Rows)))
	return nil
}

// FigurePath reserves and registers the path for a figure; the renderer
// writes the file itself.
func (s *Store) FigurePath(name string) string {
	path := filepath.Join(s.root, "figures", name)
	s.register(Output{Kind: "figure", Name: name, Path: path})
	return path
}

// DatabasePath is where the SQLite mirror lives.
func (s *Store) DatabasePath() string {
	path := filepath.Join(s.root, "results.db")
	s.register(Output{Kind: "database", Name: "results.db", Path: path})
	return path
}

// Outputs lists everything registered so far, sorted by path for a stable
// manifest.
func (s *Store) Outputs() []Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Output, len(s.outputs))
	copy(out, s.outputs)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (s *Store) register(o Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.outputs {
		if existing.Path == o.Path {
			return
		}
	}
	s.outputs = append(s.outputs, o)
}

// Timestamp is the manifest time format, also used for log fields.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
