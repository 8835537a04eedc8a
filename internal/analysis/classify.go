package analysis

import (
	"regexp"
	"strings"
)

// classifierSampleSize caps how many non-missing values are inspected when
// deciding whether a text column is temporal.
const classifierSampleSize = 10

// columnRole is the profiling route chosen for a column.
type columnRole int

const (
	roleNumeric columnRole = iota
	roleCategorical
	roleTemporal
)

// temporalPatterns is checked in order; the first pattern that every sampled
// value matches wins. Quarter before year before date before datetime keeps
// "2023" from being read as a truncated date.
var temporalPatterns = []struct {
	kind TemporalType
	re   *regexp.Regexp
}{
	{TemporalQuarter, regexp.MustCompile(`^[Qq][1-4]$`)},
	{TemporalYear, regexp.MustCompile(`^\d{4}$`)},
	{TemporalDate, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
	{TemporalDatetime, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?$`)},
}

// classifyColumn routes one column to a profiler. Numeric declarations are
// taken at face value. Text and boolean columns default to categorical;
// a text column whose sampled values all match a single temporal pattern is
// promoted to temporal. Mixed or ambiguous samples stay categorical.
func classifyColumn(t *ParsedTable, idx int, opt Options) (columnRole, TemporalType) {
	declared := TypeText
	if idx < len(t.Types) {
		declared = t.Types[idx]
	}
	if declared == TypeNumeric {
		return roleNumeric, ""
	}
	if declared == TypeBoolean || !opt.DetectTemporal {
		return roleCategorical, ""
	}

	col := t.Columns[idx]
	sample := make([]string, 0, classifierSampleSize)
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		sample = append(sample, v)
		if len(sample) == classifierSampleSize {
			break
		}
	}
	if len(sample) == 0 {
		return roleCategorical, ""
	}

	for _, p := range temporalPatterns {
		all := true
		for _, v := range sample {
			if !p.re.MatchString(v) {
				all = false
				break
			}
		}
		if all {
			return roleTemporal, p.kind
		}
	}
	return roleCategorical, ""
}
