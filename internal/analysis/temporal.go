package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// profileTemporal summarizes one temporal column. Returns nil when the
// column has no non-missing values; the caller records nothing in that case.
// Gap detection runs over the whole column without grouping by any entity
// key, so interleaved series (two companies reporting quarters) can mask
// each other's gaps.
func profileTemporal(t *ParsedTable, col string, kind TemporalType) *TemporalProfile {
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil
	}

	p := &TemporalProfile{Column: col, Kind: kind}
	switch kind {
	case TemporalQuarter:
		profileQuarters(p, values)
	case TemporalYear:
		profileYears(p, values)
	default:
		// Dates and datetimes sort lexicographically in ISO form.
		sorted := make([]string, len(values))
		copy(sorted, values)
		sort.Strings(sorted)
		p.Min = sorted[0]
		p.Max = sorted[len(sorted)-1]
		p.Coverage = 100
		p.Frequency = "irregular"
	}
	p.Range = fmt.Sprintf("%s to %s", p.Min, p.Max)
	return p
}

var quarterLabels = []string{"Q1", "Q2", "Q3", "Q4"}

func quarterIndex(label string) int {
	for i, q := range quarterLabels {
		if q == label {
			return i
		}
	}
	return -1
}

// profileQuarters treats Q1..Q4 as a cyclic sequence. The distinct labels
// are sorted and walked pairwise; any transition that is not the next step
// in the cycle emits a gap naming every skipped label. Labels outside the
// canonical set are ignored.
func profileQuarters(p *TemporalProfile, values []string) {
	seen := make(map[string]bool, 4)
	for _, v := range values {
		q := strings.ToUpper(v)
		if quarterIndex(q) >= 0 {
			seen[q] = true
		}
	}
	distinct := make([]string, 0, 4)
	for _, q := range quarterLabels {
		if seen[q] {
			distinct = append(distinct, q)
		}
	}
	p.Frequency = "quarterly"
	if len(distinct) == 0 {
		return
	}
	p.Min = distinct[0]
	p.Max = distinct[len(distinct)-1]

	expected := 4
	if len(distinct) > expected {
		expected = len(distinct)
	}
	p.Coverage = float64(len(distinct)) / float64(expected) * 100

	for i := 0; i+1 < len(distinct); i++ {
		cur, next := distinct[i], distinct[i+1]
		want := nextQuarter(cur)
		if want == next {
			continue
		}
		gap := SequenceGap{From: cur, Expected: want, Actual: next}
		for q := want; q != next; q = nextQuarter(q) {
			gap.Missing = append(gap.Missing, q)
		}
		p.Gaps = append(p.Gaps, gap)
	}
}

func nextQuarter(label string) string {
	return quarterLabels[(quarterIndex(label)+1)%4]
}

// profileYears extracts distinct integer years, sorts them, and reports any
// consecutive pair differing by more than one as a gap listing the missing
// years. Coverage is distinct years over the min..max span.
func profileYears(p *TemporalProfile, values []string) {
	seen := make(map[int]bool)
	for _, v := range values {
		y, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		seen[y] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	p.Frequency = "yearly"
	if len(years) == 0 {
		return
	}
	minY, maxY := years[0], years[len(years)-1]
	p.Min = strconv.Itoa(minY)
	p.Max = strconv.Itoa(maxY)
	p.Coverage = float64(len(years)) / float64(maxY-minY+1) * 100

	for i := 0; i+1 < len(years); i++ {
		cur, next := years[i], years[i+1]
		if next-cur <= 1 {
			continue
		}
		gap := SequenceGap{
			From:     strconv.Itoa(cur),
			Expected: strconv.Itoa(cur + 1),
			Actual:   strconv.Itoa(next),
		}
		for y := cur + 1; y < next; y++ {
			gap.Missing = append(gap.Missing, strconv.Itoa(y))
		}
		p.Gaps = append(p.Gaps, gap)
	}
}
