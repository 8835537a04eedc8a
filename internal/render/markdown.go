// Package render turns dataset profiles into output: prompt-block markdown
// for LLM consumption and indented JSON for machines.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tablescope/tablescope-cli/internal/analysis"
)

// Markdown renders the profile as labeled prompt blocks. The table supplies
// declared column order and the verbatim sample rows; blocks with nothing to
// say are omitted.
func Markdown(t *analysis.ParsedTable, p *analysis.DatasetProfile) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Filename != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Filename))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.RowCount))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", p.ColumnCount))

	b.WriteString("[SCHEMA]\n")
	for _, col := range t.Columns {
		writeSchemaLine(&b, col, p)
	}

	q := p.Quality
	b.WriteString("\n[DATA QUALITY]\n")
	b.WriteString(fmt.Sprintf("Overall completeness: %.1f%% (%d of %d rows complete)\n",
		q.OverallCompleteness, q.CompleteRows, q.TotalRows))
	b.WriteString(fmt.Sprintf("Missing cells: %d\n", q.TotalMissing))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n", q.DuplicateRows))

	if len(p.Correlations) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, c := range p.Correlations {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (%s)\n", c.ColumnA, c.ColumnB, c.Coefficient, c.Strength))
		}
	}

	writeList(&b, "[INSIGHTS]", p.Insights)
	writeList(&b, "[ANOMALIES]", p.Anomalies)
	writeList(&b, "[GAPS]", p.Gaps)

	if len(t.Sample) > 0 && len(t.Columns) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		writeSampleTable(&b, t)
	}
	return b.String()
}

func writeSchemaLine(b *strings.Builder, col string, p *analysis.DatasetProfile) {
	name := safeName(col)
	if np, ok := p.Numeric[col]; ok {
		b.WriteString(fmt.Sprintf("- %s: numeric (non-null %d, missing %.1f%%)", name, np.Count, np.MissingPct))
		if np.Count > 0 {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g; p25 %.4g, median %.4g, p75 %.4g",
				np.Min, np.Max, np.Mean, np.StdDev, np.P25, np.Median, np.P75))
			if len(np.Outliers) > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d", len(np.Outliers)))
			}
		}
		b.WriteString("\n")
		return
	}
	if cp, ok := p.Categorical[col]; ok {
		b.WriteString(fmt.Sprintf("- %s: categorical (non-null %d, missing %.1f%%)", name, cp.Count, cp.MissingPct))
		if len(cp.TopValues) > 0 {
			b.WriteString(" — top: ")
			for i, vc := range cp.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(vc.Value), vc.Count))
			}
			if cp.Unique > len(cp.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", cp.Unique))
			}
		}
		b.WriteString("\n")
		return
	}
	if tp, ok := p.Temporal[col]; ok {
		b.WriteString(fmt.Sprintf("- %s: temporal/%s — %s, %s, coverage %.1f%%",
			name, tp.Kind, tp.Range, tp.Frequency, tp.Coverage))
		if len(tp.Gaps) > 0 {
			b.WriteString(fmt.Sprintf("; gaps: %d", len(tp.Gaps)))
		}
		b.WriteString("\n")
		return
	}
	b.WriteString(fmt.Sprintf("- %s: text\n", name))
}

func writeList(b *strings.Builder, header string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
}

func writeSampleTable(b *strings.Builder, t *analysis.ParsedTable) {
	b.WriteString("| ")
	for i, col := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(col))
	}
	b.WriteString(" |\n")
	b.WriteString("| ")
	for i := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range t.Sample {
		b.WriteString("| ")
		for i := range t.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

// JSON renders the profile as indented JSON.
func JSON(p *analysis.DatasetProfile) (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	return string(b), nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
