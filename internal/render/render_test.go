package render_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tablescope/tablescope-cli/internal/analysis"
	"github.com/tablescope/tablescope-cli/internal/render"
)

func fixtureTable() *analysis.ParsedTable {
	columns := []string{"Company", "Quarter", "Revenue", "Units"}
	types := []analysis.ColumnType{analysis.TypeText, analysis.TypeText, analysis.TypeNumeric, analysis.TypeNumeric}
	raw := [][]string{
		{"Acme", "Q1", "1000", "10"},
		{"Acme", "Q2", "1500", "15"},
		{"Globex", "Q4", "2000", "20"},
		{"Globex", "Q4", "", "12"},
	}
	rows := make([]map[string]string, len(raw))
	for i, r := range raw {
		m := make(map[string]string, len(columns))
		for j, col := range columns {
			m[col] = r[j]
		}
		rows[i] = m
	}
	return &analysis.ParsedTable{
		Name:        "financials",
		Filename:    "financials.csv",
		Columns:     columns,
		Types:       types,
		Rows:        rows,
		Sample:      raw[:2],
		RowCount:    len(raw),
		ColumnCount: len(columns),
	}
}

func TestMarkdownBlocks(t *testing.T) {
	tab := fixtureTable()
	p := analysis.Profile(tab, analysis.DefaultOptions())
	md := render.Markdown(tab, p)

	for _, block := range []string{
		"[DATASET SUMMARY]",
		"[SCHEMA]",
		"[DATA QUALITY]",
		"[CORRELATIONS]",
		"[INSIGHTS]",
		"[ANOMALIES]",
		"[GAPS]",
		"[HEAD AND SAMPLE ROWS]",
	} {
		if !strings.Contains(md, block) {
			t.Fatalf("markdown missing %s:\n%s", block, md)
		}
	}
	if !strings.Contains(md, "File: financials.csv") {
		t.Fatalf("summary missing filename:\n%s", md)
	}
	if !strings.Contains(md, "- Revenue: numeric (non-null 3, missing 25.0%)") {
		t.Fatalf("schema line for Revenue wrong:\n%s", md)
	}
	if !strings.Contains(md, "- Quarter: temporal/quarter") {
		t.Fatalf("schema line for Quarter wrong:\n%s", md)
	}
	if !strings.Contains(md, "Revenue ~ Units: r=1.000 (strong)") {
		t.Fatalf("correlation line missing:\n%s", md)
	}
	if !strings.Contains(md, "| Company | Quarter | Revenue | Units |") {
		t.Fatalf("sample header row missing:\n%s", md)
	}
}

func TestMarkdownOmitsEmptyBlocks(t *testing.T) {
	tab := &analysis.ParsedTable{
		Name:        "tiny",
		Filename:    "tiny.csv",
		Columns:     []string{"A"},
		Types:       []analysis.ColumnType{analysis.TypeText},
		Rows:        []map[string]string{{"A": "x"}},
		RowCount:    1,
		ColumnCount: 1,
	}
	p := analysis.Profile(tab, analysis.DefaultOptions())
	md := render.Markdown(tab, p)

	for _, block := range []string{"[CORRELATIONS]", "[ANOMALIES]", "[GAPS]", "[HEAD AND SAMPLE ROWS]"} {
		if strings.Contains(md, block) {
			t.Fatalf("empty block %s should be omitted:\n%s", block, md)
		}
	}
}

func TestMarkdownEscapesPipes(t *testing.T) {
	tab := fixtureTable()
	tab.Sample = [][]string{{"A|B", "Q1", "1", "1"}}
	p := analysis.Profile(tab, analysis.DefaultOptions())
	md := render.Markdown(tab, p)

	if strings.Contains(md, "A|B") {
		t.Fatalf("pipe in sample value must be replaced:\n%s", md)
	}
	if !strings.Contains(md, "A/B") {
		t.Fatalf("escaped sample value missing:\n%s", md)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tab := fixtureTable()
	p := analysis.Profile(tab, analysis.DefaultOptions())

	out, err := render.JSON(p)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var back analysis.DatasetProfile
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.RowCount != p.RowCount || len(back.Insights) != len(p.Insights) {
		t.Fatalf("round trip lost data: %+v", back)
	}
	if !strings.Contains(out, "\"row_count\": 4") {
		t.Fatalf("expected snake_case keys, got:\n%s", out)
	}
}

func TestCountTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcdefgh", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tt := range tests {
		if got := render.CountTokens(tt.in); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncateToTokenLimit(t *testing.T) {
	text := strings.Repeat("a", 100)
	if got := render.TruncateToTokenLimit(text, 5); len(got) != 20 {
		t.Fatalf("truncated length = %d, want 20", len(got))
	}
	if got := render.TruncateToTokenLimit("short", 100); got != "short" {
		t.Fatalf("under-limit text changed: %q", got)
	}
	if got := render.TruncateToTokenLimit("gone", 0); got != "" {
		t.Fatalf("zero limit should empty the text, got %q", got)
	}
}

func TestBlockBreakdown(t *testing.T) {
	tab := fixtureTable()
	p := analysis.Profile(tab, analysis.DefaultOptions())
	md := render.Markdown(tab, p)

	counts := render.BlockBreakdown(md)
	if counts["SCHEMA"] == 0 {
		t.Fatalf("schema block has no tokens: %v", counts)
	}
	if counts["DATASET SUMMARY"] == 0 {
		t.Fatalf("summary block has no tokens: %v", counts)
	}
	if _, ok := counts["NO SUCH BLOCK"]; ok {
		t.Fatalf("phantom block present: %v", counts)
	}
}
