package analysis

import "strings"

// rowKey canonicalizes a row for duplicate detection: trimmed cell values in
// declared column order, joined on a unit separator so cell contents cannot
// collide with the delimiter.
func rowKey(t *ParsedTable, row map[string]string) string {
	parts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		parts[i] = strings.TrimSpace(row[col])
	}
	return strings.Join(parts, "\x1f")
}

// aggregateQuality computes row-level completeness and duplication.
// Per-column completeness comes from the numeric and categorical profiles;
// temporal columns are deliberately absent from that map. Complete-row and
// missing-cell scans cover every declared column regardless of type. A
// zero-row table is vacuously 100% complete.
func aggregateQuality(t *ParsedTable, numeric map[string]*NumericProfile, categorical map[string]*CategoricalProfile) DataQualityMetrics {
	q := DataQualityMetrics{
		TotalRows:          t.RowCount,
		TotalColumns:       t.ColumnCount,
		ColumnCompleteness: make(map[string]float64, len(numeric)+len(categorical)),
	}

	for col, p := range numeric {
		q.ColumnCompleteness[col] = 100 - p.MissingPct
	}
	for col, p := range categorical {
		q.ColumnCompleteness[col] = 100 - p.MissingPct
	}

	dupes := make(map[string]int, len(t.Rows))
	for _, row := range t.Rows {
		complete := true
		for _, col := range t.Columns {
			if strings.TrimSpace(row[col]) == "" {
				complete = false
				q.TotalMissing++
			}
		}
		if complete {
			q.CompleteRows++
		}
		dupes[rowKey(t, row)]++
	}
	for _, n := range dupes {
		if n > 1 {
			q.DuplicateRows += n
		}
	}

	if q.TotalRows > 0 {
		q.OverallCompleteness = float64(q.CompleteRows) / float64(q.TotalRows) * 100
	} else {
		q.OverallCompleteness = 100
	}
	return q
}
