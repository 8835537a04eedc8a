package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// financialRows is the shared fixture: two companies reporting quarterly
// revenue with Q3 absent, Units exactly Revenue/100, and one missing flag.
var financialColumns = []string{"Company", "Quarter", "Revenue", "Units", "Active"}
var financialTypes = []ColumnType{TypeText, TypeText, TypeNumeric, TypeNumeric, TypeBoolean}
var financialRows = [][]string{
	{"Acme", "Q1", "1000", "10", "true"},
	{"Acme", "Q2", "1500", "15", "true"},
	{"Acme", "Q4", "2000", "20", "false"},
	{"Globex", "Q1", "500", "5", "true"},
	{"Globex", "Q2", "800", "8", ""},
	{"Globex", "Q4", "1200", "12", "true"},
}

func newTable(name string, columns []string, types []ColumnType, rows [][]string) *ParsedTable {
	mapped := make([]map[string]string, len(rows))
	for i, r := range rows {
		m := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(r) {
				m[col] = r[j]
			}
		}
		mapped[i] = m
	}
	return &ParsedTable{
		Name:        name,
		Filename:    name + ".csv",
		Columns:     columns,
		Types:       types,
		Rows:        mapped,
		RowCount:    len(rows),
		ColumnCount: len(columns),
	}
}

func financialTable() *ParsedTable {
	return newTable("financials", financialColumns, financialTypes, financialRows)
}

func TestProfileFinancialTable(t *testing.T) {
	tab := financialTable()
	p := Profile(tab, DefaultOptions())

	if p.RowCount != 6 || p.ColumnCount != 5 {
		t.Fatalf("dimensions = %dx%d, want 6x5", p.RowCount, p.ColumnCount)
	}
	for _, col := range []string{"Revenue", "Units"} {
		if _, ok := p.Numeric[col]; !ok {
			t.Fatalf("column %q not profiled as numeric", col)
		}
	}
	for _, col := range []string{"Company", "Active"} {
		if _, ok := p.Categorical[col]; !ok {
			t.Fatalf("column %q not profiled as categorical", col)
		}
	}
	if _, ok := p.Temporal["Quarter"]; !ok {
		t.Fatalf("column Quarter not profiled as temporal")
	}

	rev := p.Numeric["Revenue"]
	values := []float64{1000, 1500, 2000, 500, 800, 1200}
	checkNumeric(t, rev, values, 0)
	if rev.Min != 500 || rev.Max != 2000 {
		t.Fatalf("Revenue min/max = %v/%v, want 500/2000", rev.Min, rev.Max)
	}
	if !almostEqual(rev.Median, 1100, 1e-9) {
		t.Fatalf("Revenue median = %v, want 1100", rev.Median)
	}
	if !almostEqual(rev.P25, 850, 1e-9) || !almostEqual(rev.P75, 1425, 1e-9) {
		t.Fatalf("Revenue quartiles = %v/%v, want 850/1425", rev.P25, rev.P75)
	}

	comp := p.Categorical["Company"]
	if comp.Unique != 2 || comp.Count != 6 {
		t.Fatalf("Company unique/count = %d/%d, want 2/6", comp.Unique, comp.Count)
	}
	// Acme and Globex tie at 3; the first-encountered value ranks first.
	if comp.TopValues[0].Value != "Acme" || comp.TopValues[0].Count != 3 {
		t.Fatalf("Company top = %+v, want Acme x3", comp.TopValues[0])
	}
	if !almostEqual(comp.TopValues[0].Pct, 50, 1e-9) {
		t.Fatalf("Company top pct = %v, want 50", comp.TopValues[0].Pct)
	}
	if !almostEqual(comp.CardinalityRatio, 2.0/6.0, 1e-9) {
		t.Fatalf("Company cardinality ratio = %v, want %v", comp.CardinalityRatio, 2.0/6.0)
	}

	q := p.Temporal["Quarter"]
	if q.Kind != TemporalQuarter || q.Min != "Q1" || q.Max != "Q4" {
		t.Fatalf("Quarter profile = %+v, want quarter Q1..Q4", q)
	}
	if !almostEqual(q.Coverage, 75, 1e-9) {
		t.Fatalf("Quarter coverage = %v, want 75", q.Coverage)
	}
	if len(q.Gaps) != 1 {
		t.Fatalf("Quarter gaps = %d, want 1", len(q.Gaps))
	}
	gap := q.Gaps[0]
	if gap.From != "Q2" || gap.Expected != "Q3" || gap.Actual != "Q4" || !reflect.DeepEqual(gap.Missing, []string{"Q3"}) {
		t.Fatalf("Quarter gap = %+v, want Q2->Q4 missing [Q3]", gap)
	}

	if p.Quality.CompleteRows != 5 || p.Quality.TotalMissing != 1 || p.Quality.DuplicateRows != 0 {
		t.Fatalf("quality = %+v, want 5 complete, 1 missing, 0 dupes", p.Quality)
	}
	if !almostEqual(p.Quality.OverallCompleteness, 500.0/6.0, 1e-9) {
		t.Fatalf("overall completeness = %v, want %v", p.Quality.OverallCompleteness, 500.0/6.0)
	}
	if _, ok := p.Quality.ColumnCompleteness["Quarter"]; ok {
		t.Fatalf("temporal column leaked into completeness map")
	}

	pair := findCorrelation(p.Correlations, "Revenue", "Units")
	if pair == nil {
		t.Fatalf("Revenue~Units correlation not reported: %+v", p.Correlations)
	}
	if !almostEqual(pair.Coefficient, 1, 1e-9) || pair.Strength != "strong" {
		t.Fatalf("Revenue~Units = %v (%s), want 1 (strong)", pair.Coefficient, pair.Strength)
	}

	insights := strings.Join(p.Insights, "\n")
	for _, want := range []string{
		"Revenue ranges from 500 to 2.0K (avg: 1.2K)",
		"Company has 2 unique values, most common: Acme (3 occurrences)",
		"Quarter spans Q1 to Q4 (quarterly)",
		"Quarter covers 75% of expected quarterly periods",
	} {
		if !strings.Contains(insights, want) {
			t.Fatalf("insights missing %q in:\n%s", want, insights)
		}
	}
	anomalies := strings.Join(p.Anomalies, "\n")
	if !strings.Contains(anomalies, "Active is only 83.33% complete") {
		t.Fatalf("anomalies missing completeness entry in:\n%s", anomalies)
	}
	gaps := strings.Join(p.Gaps, "\n")
	for _, want := range []string{
		"Quarter: missing Q3 between Q2 and Q4",
		"Dataset is 83.33% complete (1 missing values)",
	} {
		if !strings.Contains(gaps, want) {
			t.Fatalf("gaps missing %q in:\n%s", want, gaps)
		}
	}
}

func TestProfileIdempotence(t *testing.T) {
	tab := financialTable()
	first := Profile(tab, DefaultOptions())
	second := Profile(tab, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated profiling diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNumericMissingAccounting(t *testing.T) {
	rows := [][]string{
		{"1"}, {"2"}, {""}, {"x"}, {"5"}, {" "}, {"7"}, {"8"}, {"9"}, {"10"},
	}
	tab := newTable("gappy", []string{"N"}, []ColumnType{TypeNumeric}, rows)
	p := Profile(tab, DefaultOptions())

	n := p.Numeric["N"]
	if n.Count+n.MissingCount != tab.RowCount {
		t.Fatalf("count %d + missing %d != rows %d", n.Count, n.MissingCount, tab.RowCount)
	}
	if n.MissingCount != 3 {
		t.Fatalf("missing = %d, want 3 (blank, space, unparseable)", n.MissingCount)
	}
	if n.Min > n.P25 || n.P25 > n.Median || n.Median > n.P75 || n.P75 > n.Max {
		t.Fatalf("quantiles out of order: %v %v %v %v %v", n.Min, n.P25, n.Median, n.P75, n.Max)
	}
}

func TestCompletenessAtEightyPercent(t *testing.T) {
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{"v"}
	}
	rows[3][0] = ""
	rows[7][0] = ""
	tab := newTable("sparse", []string{"Label"}, []ColumnType{TypeText}, rows)
	p := Profile(tab, DefaultOptions())

	if got := p.Quality.ColumnCompleteness["Label"]; !almostEqual(got, 80, 1e-9) {
		t.Fatalf("Label completeness = %v, want 80", got)
	}
}

func TestOutlierFlagging(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		threshold float64
		wantRows  []int
	}{
		{"extreme value at default threshold", []string{"10", "10", "10", "10", "10", "10", "10", "10", "10", "10", "1000"}, 3, []int{10}},
		{"moderate deviation needs lower threshold", []string{"10", "10", "10", "10", "100"}, 1.9, []int{4}},
		{"moderate deviation passes default threshold", []string{"10", "10", "10", "10", "100"}, 3, nil},
		{"constant column flags nothing", []string{"5", "5", "5", "5"}, 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]string, len(tt.values))
			for i, v := range tt.values {
				rows[i] = []string{v}
			}
			tab := newTable("outliers", []string{"V"}, []ColumnType{TypeNumeric}, rows)
			opt := DefaultOptions()
			opt.OutlierThreshold = tt.threshold
			p := Profile(tab, opt)

			var got []int
			for _, o := range p.Numeric["V"].Outliers {
				got = append(got, o.Row)
			}
			if !reflect.DeepEqual(got, tt.wantRows) {
				t.Errorf("outlier rows = %v, want %v", got, tt.wantRows)
			}
		})
	}
}

func TestCorrelationSymmetry(t *testing.T) {
	xs := []float64{1, 2, 3.5, 4, 7, 9}
	ys := []float64{2, 1, 5, 4.5, 6, 13}

	var ab, ba pairAcc
	for i := range xs {
		ab.add(xs[i], ys[i])
		ba.add(ys[i], xs[i])
	}
	if ab.r() != ba.r() {
		t.Fatalf("corr(A,B) = %v, corr(B,A) = %v", ab.r(), ba.r())
	}
	if r := ab.r(); r < -1 || r > 1 {
		t.Fatalf("coefficient %v outside [-1, 1]", r)
	}
}

func TestCorrelationDegenerateCases(t *testing.T) {
	var short pairAcc
	short.add(1, 2)
	if short.r() != 0 {
		t.Fatalf("single pair r = %v, want 0", short.r())
	}

	var flat pairAcc
	for i := 0; i < 5; i++ {
		flat.add(3, float64(i))
	}
	if flat.r() != 0 {
		t.Fatalf("zero-variance r = %v, want 0", flat.r())
	}
}

func TestMinCorrelationFilter(t *testing.T) {
	rows := [][]string{
		{"1", "5"}, {"2", "1"}, {"3", "6"}, {"4", "2"}, {"5", "7"}, {"6", "3"}, {"7", "4"},
	}
	tab := newTable("weak", []string{"A", "B"}, []ColumnType{TypeNumeric, TypeNumeric}, rows)

	strict := Profile(tab, DefaultOptions())
	opt := DefaultOptions()
	opt.MinCorrelation = 0
	open := Profile(tab, opt)

	pair := findCorrelation(open.Correlations, "A", "B")
	if pair == nil {
		t.Fatalf("zero threshold should keep every pair")
	}
	if math.Abs(pair.Coefficient) >= 0.5 {
		t.Fatalf("fixture too correlated (r = %v); pick weaker data", pair.Coefficient)
	}
	if findCorrelation(strict.Correlations, "A", "B") != nil {
		t.Fatalf("default threshold kept weak pair r = %v", pair.Coefficient)
	}
}

func TestDuplicateRowConvention(t *testing.T) {
	rows := [][]string{
		{"a", "1"},
		{"b", "2"},
		{"a", "1"},
		{"c", "3"},
		{"d", "4"},
		{"e", "5"},
	}
	tab := newTable("dupes", []string{"K", "V"}, []ColumnType{TypeText, TypeText}, rows)
	p := Profile(tab, DefaultOptions())

	if p.Quality.DuplicateRows != 2 {
		t.Fatalf("duplicate rows = %d, want 2 (both occurrences counted)", p.Quality.DuplicateRows)
	}
	if !strings.Contains(strings.Join(p.Anomalies, "\n"), "Dataset contains 2 duplicate rows") {
		t.Fatalf("duplicate anomaly missing: %v", p.Anomalies)
	}
}

func TestDetectTemporalDisabled(t *testing.T) {
	opt := DefaultOptions()
	opt.DetectTemporal = false
	p := Profile(financialTable(), opt)

	if len(p.Temporal) != 0 {
		t.Fatalf("temporal profiles with detection off: %v", p.Temporal)
	}
	if _, ok := p.Categorical["Quarter"]; !ok {
		t.Fatalf("Quarter should fall back to categorical")
	}
}

func TestProfileEmptyTable(t *testing.T) {
	tab := newTable("empty", []string{"A", "B"}, []ColumnType{TypeNumeric, TypeText}, nil)
	p := Profile(tab, DefaultOptions())

	if p.Numeric["A"].Count != 0 || p.Numeric["A"].MissingPct != 0 {
		t.Fatalf("empty numeric profile = %+v, want zeros", p.Numeric["A"])
	}
	if p.Quality.OverallCompleteness != 100 {
		t.Fatalf("empty table completeness = %v, want 100", p.Quality.OverallCompleteness)
	}
	if len(p.Gaps) != 0 {
		t.Fatalf("empty table produced gaps: %v", p.Gaps)
	}
}

func TestProfileRowMissingColumnKey(t *testing.T) {
	tab := &ParsedTable{
		Name:        "ragged",
		Columns:     []string{"A", "B"},
		Types:       []ColumnType{TypeNumeric, TypeText},
		Rows:        []map[string]string{{"A": "1"}, {"A": "2", "B": "x"}},
		RowCount:    2,
		ColumnCount: 2,
	}
	p := Profile(tab, DefaultOptions())

	// An absent key reads as the zero string and is treated as missing.
	if p.Categorical["B"].MissingCount != 1 {
		t.Fatalf("B missing = %d, want 1", p.Categorical["B"].MissingCount)
	}
	if p.Quality.CompleteRows != 1 {
		t.Fatalf("complete rows = %d, want 1", p.Quality.CompleteRows)
	}
}

func TestCategoricalTopValueOrdering(t *testing.T) {
	rows := [][]string{
		{"beta"}, {"alpha"}, {"beta"}, {"alpha"}, {"gamma"},
	}
	tab := newTable("cats", []string{"Category"}, []ColumnType{TypeText}, rows)
	opt := DefaultOptions()
	opt.MaxTopValues = 2
	p := Profile(tab, opt)

	c := p.Categorical["Category"]
	if len(c.TopValues) != 2 {
		t.Fatalf("top values = %d, want 2", len(c.TopValues))
	}
	// beta and alpha tie at 2; beta was seen first.
	if c.TopValues[0].Value != "beta" || c.TopValues[1].Value != "alpha" {
		t.Fatalf("top order = %v, want [beta alpha]", c.TopValues)
	}
	if got := []string{c.Distribution[0].Value, c.Distribution[1].Value, c.Distribution[2].Value}; !reflect.DeepEqual(got, []string{"beta", "alpha", "gamma"}) {
		t.Fatalf("distribution order = %v, want insertion order", got)
	}
	total := 0
	for _, vc := range c.Distribution {
		total += vc.Count
	}
	if total != c.Count {
		t.Fatalf("distribution counts sum to %d, want %d", total, c.Count)
	}
}

func findCorrelation(pairs []CorrelationInfo, a, b string) *CorrelationInfo {
	for i := range pairs {
		p := &pairs[i]
		if (p.ColumnA == a && p.ColumnB == b) || (p.ColumnA == b && p.ColumnB == a) {
			return p
		}
	}
	return nil
}

func checkNumeric(t *testing.T, p *NumericProfile, values []float64, missing int) {
	t.Helper()
	if p.Count != len(values) || p.MissingCount != missing {
		t.Fatalf("count/missing = %d/%d, want %d/%d", p.Count, p.MissingCount, len(values), missing)
	}
	if !almostEqual(p.Mean, mean(values), 1e-9) {
		t.Fatalf("mean = %v, want %v", p.Mean, mean(values))
	}
	if !almostEqual(p.StdDev, popStdDev(values), 1e-9) {
		t.Fatalf("stddev = %v, want %v", p.StdDev, popStdDev(values))
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func popStdDev(values []float64) float64 {
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
