package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tablescope/tablescope-cli/internal/analysis"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvParser) Parse(path string, opt Options) (*analysis.ParsedTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return buildTable(path, nil, nil, opt), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	// ReuseRecord aliases the returned slice; detach before reading rows.
	header = append([]string(nil), header...)

	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		records = append(records, append([]string(nil), rec...))
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
	}
	return buildTable(path, header, records, opt), nil
}

// sniffDelimiter picks the separator from the filename alone so the file is
// only read once.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(filepath.Base(path)), ".tsv") {
		return '\t'
	}
	return ','
}
