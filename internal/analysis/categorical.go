package analysis

import (
	"sort"
	"strings"
)

// profileCategorical builds the frequency distribution for one categorical
// or boolean column. Values are trimmed but otherwise kept verbatim, so
// "US" and "us" count separately. The distribution keeps first-encountered
// order; TopValues re-sorts by count descending with a stable sort, so equal
// counts keep that same encounter order.
func profileCategorical(t *ParsedTable, col string, opt Options) *CategoricalProfile {
	p := &CategoricalProfile{Column: col}

	counts := make(map[string]int)
	order := make([]string, 0, 16)
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			p.MissingCount++
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
		p.Count++
	}
	if len(t.Rows) > 0 {
		p.MissingPct = float64(p.MissingCount) / float64(len(t.Rows)) * 100
	}
	p.Unique = len(order)
	if p.Count == 0 {
		return p
	}
	p.CardinalityRatio = float64(p.Unique) / float64(p.Count)

	p.Distribution = make([]ValueCount, 0, len(order))
	for _, v := range order {
		p.Distribution = append(p.Distribution, ValueCount{
			Value: v,
			Count: counts[v],
			Pct:   float64(counts[v]) / float64(p.Count) * 100,
		})
	}

	top := make([]ValueCount, len(p.Distribution))
	copy(top, p.Distribution)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > opt.MaxTopValues {
		top = top[:opt.MaxTopValues]
	}
	p.TopValues = top
	return p
}
