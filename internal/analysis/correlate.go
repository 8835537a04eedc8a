package analysis

import "math"

// pairAcc accumulates the sums needed for a Pearson coefficient over rows
// where both columns parse as numbers.
type pairAcc struct {
	n, sumX, sumY, sumXY, sumXX, sumYY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXY += x * y
	pa.sumXX += x * x
	pa.sumYY += y * y
}

// r computes the coefficient from the accumulated sums. Fewer than two
// pairs or a zero denominator yields 0, and the result is clamped to
// [-1, 1] against float drift.
func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return 0
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 {
		return 0
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}

// correlate computes Pearson coefficients for every unordered pair of
// numeric columns, keeping pairs whose absolute coefficient meets the
// configured minimum. Pair order follows the declared column order.
func correlate(t *ParsedTable, numericCols []string, opt Options) []CorrelationInfo {
	var out []CorrelationInfo
	for i := 0; i < len(numericCols); i++ {
		for j := i + 1; j < len(numericCols); j++ {
			a, b := numericCols[i], numericCols[j]
			var pa pairAcc
			for _, row := range t.Rows {
				x, okX := parseNumber(row[a])
				y, okY := parseNumber(row[b])
				if !okX || !okY {
					continue
				}
				pa.add(x, y)
			}
			r := pa.r()
			if math.Abs(r) < opt.MinCorrelation {
				continue
			}
			out = append(out, CorrelationInfo{
				ColumnA:     a,
				ColumnB:     b,
				Coefficient: r,
				Strength:    strengthLabel(r),
			})
		}
	}
	return out
}

// strengthLabel buckets a coefficient by absolute value.
func strengthLabel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return "strong"
	case abs >= 0.5:
		return "moderate"
	case abs >= 0.3:
		return "weak"
	default:
		return "none"
	}
}
