package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// parseNumber parses one cell as a float. NaN and infinities are rejected so
// a stray "NaN" token cannot poison the aggregates.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// profileNumeric computes the summary statistics for one numeric column.
// Unparseable cells count as missing. A column with no parseable values
// yields a zeroed profile rather than an error.
func profileNumeric(t *ParsedTable, col string, opt Options) *NumericProfile {
	p := &NumericProfile{Column: col}

	values := make([]float64, 0, len(t.Rows))
	rows := make([]int, 0, len(t.Rows))
	for i, row := range t.Rows {
		v, ok := parseNumber(row[col])
		if !ok {
			p.MissingCount++
			continue
		}
		values = append(values, v)
		rows = append(rows, i)
	}
	p.Count = len(values)
	if len(t.Rows) > 0 {
		p.MissingPct = float64(p.MissingCount) / float64(len(t.Rows)) * 100
	}
	if p.Count == 0 {
		return p
	}

	p.Mean = stat.Mean(values, nil)
	p.StdDev = stat.PopStdDev(values, nil)
	p.Min = floats.Min(values)
	p.Max = floats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p.Median = percentile(sorted, 50)
	p.P25 = percentile(sorted, 25)
	p.P75 = percentile(sorted, 75)

	if p.StdDev > 0 {
		limit := opt.OutlierThreshold * p.StdDev
		for i, v := range values {
			if math.Abs(v-p.Mean) > limit {
				p.Outliers = append(p.Outliers, Outlier{Value: v, Row: rows[i]})
			}
		}
	}
	return p
}

// percentile interpolates linearly between the two nearest ranks of an
// ascending slice. p is in percent, so percentile(s, 50) is the median.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
