// Package store persists the workspace catalog: one entry per profiled
// dataset, with identifiers and timestamps kept here so profiles themselves
// stay reproducible.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tablescope/tablescope-cli/internal/analysis"
)

const catalogFileName = "catalog.json"

// Entry records one profiling run.
type Entry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	ProfiledAt   time.Time `json:"profiled_at"`
	RowCount     int       `json:"row_count"`
	ColumnCount  int       `json:"column_count"`
	Completeness float64   `json:"completeness"`
	Insights     int       `json:"insights"`
	Anomalies    int       `json:"anomalies"`
	Gaps         int       `json:"gaps"`
	Format       string    `json:"format"`
	Tokens       int       `json:"tokens"`
	OutputPath   string    `json:"output_path,omitempty"`
}

// Catalog is the persisted collection of entries.
type Catalog struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`

	// Not serialized: on-disk location of the catalog.json
	path string `json:"-"`
}

// NewCatalog constructs an empty in-memory catalog. Call Save() to persist.
func NewCatalog(path string) *Catalog {
	return &Catalog{Version: 1, path: path}
}

// Load reads a catalog from path. A missing file yields an empty catalog
// bound to that path, so first use needs no explicit initialization.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewCatalog(path), nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.path = path
	return &c, nil
}

// Path returns the on-disk location of the catalog.
func (c *Catalog) Path() string { return c.path }

// Save writes catalog.json using atomic write.
func (c *Catalog) Save() error {
	if c.path == "" {
		return errors.New("catalog path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return safeWriteFile(c.path, data)
}

// Record adds an entry, assigning an ID and timestamp when absent. Profiling
// the same path again replaces its previous entry.
func (c *Catalog) Record(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ProfiledAt.IsZero() {
		e.ProfiledAt = time.Now().UTC()
	}
	for i := range c.Entries {
		if c.Entries[i].Path == e.Path {
			c.Entries[i] = e
			return e
		}
	}
	c.Entries = append(c.Entries, e)
	return e
}

// List returns entries newest first. Ties keep recording order.
func (c *Catalog) List() []Entry {
	out := make([]Entry, len(c.Entries))
	copy(out, c.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProfiledAt.After(out[j].ProfiledAt)
	})
	return out
}

// Summarize builds a catalog entry from a finished profile.
func Summarize(path, format string, p *analysis.DatasetProfile) Entry {
	return Entry{
		Name:         p.Name,
		Filename:     p.Filename,
		Path:         path,
		RowCount:     p.RowCount,
		ColumnCount:  p.ColumnCount,
		Completeness: p.Quality.OverallCompleteness,
		Insights:     len(p.Insights),
		Anomalies:    len(p.Anomalies),
		Gaps:         len(p.Gaps),
		Format:       format,
	}
}

// DefaultDir returns the per-user workspace directory (~/.tablescope).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tablescope"), nil
}

// DefaultPath returns the default catalog location inside DefaultDir.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, catalogFileName), nil
}

// safeWriteFile writes data to a temp file and atomically renames it into place.
func safeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
