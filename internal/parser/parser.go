// Package parser reads tabular files from disk into the ParsedTable form the
// analysis engine consumes. Formats register themselves at init; ParseFile
// dispatches on filename.
package parser

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tablescope/tablescope-cli/internal/analysis"
)

// Parser reads one file format into a ParsedTable.
type Parser interface {
	CanParse(filename string) bool
	Parse(path string, opt Options) (*analysis.ParsedTable, error)
}

// Options controls table reading.
type Options struct {
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many leading rows are kept verbatim.
	SampleRows int
	// Delimiter for CSV. If 0, picked by extension (.tsv reads as tabs).
	Delimiter rune
	// SheetName selects an XLSX sheet by name, case-insensitive.
	SheetName string
	// SheetIndex selects an XLSX sheet 1-based when SheetName is empty.
	SheetIndex int
	// TypeScanRows caps how many non-missing values type inference examines
	// per column; 0 means scan everything.
	TypeScanRows int
}

// DefaultOptions returns reasonable defaults for most files.
func DefaultOptions() Options {
	return Options{
		MaxRows:      100000,
		SampleRows:   5,
		TypeScanRows: 200,
	}
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and reads the table.
func ParseFile(path string, opt Options) (*analysis.ParsedTable, error) {
	for _, p := range registry {
		if p.CanParse(path) {
			return p.Parse(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// ErrUnsupported indicates a file format no registered parser handles.
var ErrUnsupported = errors.New("unsupported table format")

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

// buildTable assembles the ParsedTable shared by every format: header
// normalization, row maps, type inference, and the verbatim sample block.
func buildTable(path string, header []string, records [][]string, opt Options) *analysis.ParsedTable {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		m := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				m[col] = rec[j]
			} else {
				m[col] = ""
			}
		}
		rows = append(rows, m)
	}

	sampleN := opt.SampleRows
	if sampleN > len(records) {
		sampleN = len(records)
	}
	sample := make([][]string, 0, sampleN)
	for _, rec := range records[:sampleN] {
		sample = append(sample, append([]string(nil), rec...))
	}

	base := filepath.Base(path)
	return &analysis.ParsedTable{
		Name:        strings.TrimSuffix(base, filepath.Ext(base)),
		Filename:    base,
		Columns:     columns,
		Types:       inferTypes(columns, rows, opt.TypeScanRows),
		Rows:        rows,
		Sample:      sample,
		RowCount:    len(rows),
		ColumnCount: len(columns),
	}
}

// inferTypes assigns a declared type per column from its non-missing values:
// numeric when every scanned value parses as a finite float, boolean when
// every scanned value is a true/false/yes/no token, text otherwise. Columns
// with no usable values stay text.
func inferTypes(columns []string, rows []map[string]string, scan int) []analysis.ColumnType {
	types := make([]analysis.ColumnType, len(columns))
	for i, col := range columns {
		numeric, boolean := true, true
		seen := 0
		for _, row := range rows {
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			seen++
			if numeric && !parsesAsNumber(v) {
				numeric = false
			}
			if boolean && !isBooleanToken(v) {
				boolean = false
			}
			if !numeric && !boolean {
				break
			}
			if scan > 0 && seen >= scan {
				break
			}
		}
		switch {
		case seen == 0:
			types[i] = analysis.TypeText
		case numeric:
			types[i] = analysis.TypeNumeric
		case boolean:
			types[i] = analysis.TypeBoolean
		default:
			types[i] = analysis.TypeText
		}
	}
	return types
}

func parsesAsNumber(v string) bool {
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isBooleanToken(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}
