package analysis

import (
	"fmt"
	"math"
	"strings"
)

// formatMagnitude renders a number for generated text: millions as "1.2M",
// thousands as "3.4K", whole numbers without decimals, everything else to
// two decimal places.
func formatMagnitude(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// synthesize fills the profile's Insights, Anomalies, and Gaps from the
// already-computed column profiles and quality metrics. All text is
// rule-generated and all iteration follows declared column order, so the
// output is deterministic for a given input.
func synthesize(t *ParsedTable, p *DatasetProfile, opt Options) {
	for _, col := range t.Columns {
		np, ok := p.Numeric[col]
		if !ok || np.Count == 0 {
			continue
		}
		p.Insights = append(p.Insights, fmt.Sprintf("%s ranges from %s to %s (avg: %s)",
			col, formatMagnitude(np.Min), formatMagnitude(np.Max), formatMagnitude(np.Mean)))
		if len(np.Outliers) > 0 {
			p.Insights = append(p.Insights, fmt.Sprintf("%s has %s outlier value(s) flagged",
				col, formatMagnitude(float64(len(np.Outliers)))))
		}
	}
	for _, col := range t.Columns {
		cp, ok := p.Categorical[col]
		if !ok || cp.Count == 0 || len(cp.TopValues) == 0 {
			continue
		}
		top := cp.TopValues[0]
		p.Insights = append(p.Insights, fmt.Sprintf("%s has %s unique values, most common: %s (%s occurrences)",
			col, formatMagnitude(float64(cp.Unique)), top.Value, formatMagnitude(float64(top.Count))))
	}
	for _, col := range t.Columns {
		tp, ok := p.Temporal[col]
		if !ok {
			continue
		}
		p.Insights = append(p.Insights, fmt.Sprintf("%s spans %s (%s)", col, tp.Range, tp.Frequency))
		if tp.Coverage < 100 {
			p.Insights = append(p.Insights, fmt.Sprintf("%s covers %s%% of expected %s periods",
				col, formatMagnitude(tp.Coverage), tp.Frequency))
		}
	}

	for _, col := range t.Columns {
		pct, ok := p.Quality.ColumnCompleteness[col]
		if !ok || pct >= 90 {
			continue
		}
		p.Anomalies = append(p.Anomalies, fmt.Sprintf("%s is only %s%% complete", col, formatMagnitude(pct)))
	}
	if p.Quality.DuplicateRows > 0 {
		p.Anomalies = append(p.Anomalies, fmt.Sprintf("Dataset contains %s duplicate rows",
			formatMagnitude(float64(p.Quality.DuplicateRows))))
	}
	for _, col := range t.Columns {
		np, ok := p.Numeric[col]
		if !ok || len(np.Outliers) == 0 {
			continue
		}
		p.Anomalies = append(p.Anomalies, fmt.Sprintf("%s: %s values deviate more than %s standard deviations from the mean",
			col, formatMagnitude(float64(len(np.Outliers))), formatMagnitude(opt.OutlierThreshold)))
	}

	for _, col := range t.Columns {
		tp, ok := p.Temporal[col]
		if !ok {
			continue
		}
		for _, g := range tp.Gaps {
			p.Gaps = append(p.Gaps, fmt.Sprintf("%s: missing %s between %s and %s",
				col, strings.Join(g.Missing, ", "), g.From, g.Actual))
		}
	}
	if p.Quality.OverallCompleteness < 100 {
		p.Gaps = append(p.Gaps, fmt.Sprintf("Dataset is %s%% complete (%s missing values)",
			formatMagnitude(p.Quality.OverallCompleteness), formatMagnitude(float64(p.Quality.TotalMissing))))
	}
}
