package analysis

// ColumnType is the declared type a parser assigns to a column.
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeText    ColumnType = "text"
	TypeBoolean ColumnType = "boolean"
)

// TemporalType is the subtype detected for a temporal column.
type TemporalType string

const (
	TemporalQuarter  TemporalType = "quarter"
	TemporalYear     TemporalType = "year"
	TemporalDate     TemporalType = "date"
	TemporalDatetime TemporalType = "datetime"
)

// ParsedTable is the engine's input: header, declared types, and raw rows as
// produced by a parsing collaborator. Values are raw strings; empty or
// whitespace-only means missing. Every row is expected to carry every
// declared column key; a row that omits one is treated as missing for that
// column rather than rejected.
type ParsedTable struct {
	Name        string
	Filename    string
	Columns     []string
	Types       []ColumnType
	Rows        []map[string]string
	Sample      [][]string
	RowCount    int
	ColumnCount int
}

// Outlier is a numeric value flagged by the deviation rule, keyed to its
// original row index so source rows stay identifiable.
type Outlier struct {
	Value float64 `json:"value"`
	Row   int     `json:"row"`
}

// NumericProfile summarizes one numeric column.
type NumericProfile struct {
	Column       string    `json:"column"`
	Count        int       `json:"count"`
	Mean         float64   `json:"mean"`
	Median       float64   `json:"median"`
	StdDev       float64   `json:"std_dev"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	P25          float64   `json:"p25"`
	P75          float64   `json:"p75"`
	MissingCount int       `json:"missing_count"`
	MissingPct   float64   `json:"missing_pct"`
	Outliers     []Outlier `json:"outliers,omitempty"`
}

// ValueCount is one entry of a categorical frequency distribution.
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// CategoricalProfile summarizes one categorical or boolean column. The
// distribution preserves first-encountered order, which is also the
// documented tie-break for equal counts in TopValues.
type CategoricalProfile struct {
	Column           string       `json:"column"`
	Unique           int          `json:"unique"`
	Count            int          `json:"count"`
	MissingCount     int          `json:"missing_count"`
	MissingPct       float64      `json:"missing_pct"`
	CardinalityRatio float64      `json:"cardinality_ratio"`
	TopValues        []ValueCount `json:"top_values,omitempty"`
	Distribution     []ValueCount `json:"distribution,omitempty"`
}

// SequenceGap records one break in a temporal sequence: after From the
// expected next period was Expected, but Actual was observed; Missing lists
// every skipped period in between.
type SequenceGap struct {
	From     string   `json:"from"`
	Expected string   `json:"expected"`
	Actual   string   `json:"actual"`
	Missing  []string `json:"missing"`
}

// TemporalProfile summarizes one temporal column.
type TemporalProfile struct {
	Column    string        `json:"column"`
	Kind      TemporalType  `json:"kind"`
	Min       string        `json:"min"`
	Max       string        `json:"max"`
	Range     string        `json:"range"`
	Frequency string        `json:"frequency"`
	Gaps      []SequenceGap `json:"gaps,omitempty"`
	Coverage  float64       `json:"coverage"`
}

// DataQualityMetrics aggregates row-level completeness and duplication.
// DuplicateRows counts occurrences: a row appearing twice contributes 2.
// ColumnCompleteness covers numeric and categorical columns only.
type DataQualityMetrics struct {
	TotalRows           int                `json:"total_rows"`
	TotalColumns        int                `json:"total_columns"`
	CompleteRows        int                `json:"complete_rows"`
	OverallCompleteness float64            `json:"overall_completeness"`
	DuplicateRows       int                `json:"duplicate_rows"`
	TotalMissing        int                `json:"total_missing"`
	ColumnCompleteness  map[string]float64 `json:"column_completeness"`
}

// CorrelationInfo is one retained Pearson pair with its strength label.
type CorrelationInfo struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
}

// DatasetProfile is the complete, immutable analysis result. It is a pure
// function of the ParsedTable: no timestamps, no identifiers, and all slices
// in declared column order, so identical inputs compare structurally equal.
type DatasetProfile struct {
	Name         string                         `json:"name"`
	Filename     string                         `json:"filename"`
	RowCount     int                            `json:"row_count"`
	ColumnCount  int                            `json:"column_count"`
	Numeric      map[string]*NumericProfile     `json:"numeric"`
	Categorical  map[string]*CategoricalProfile `json:"categorical"`
	Temporal     map[string]*TemporalProfile    `json:"temporal"`
	Quality      DataQualityMetrics             `json:"quality"`
	Correlations []CorrelationInfo              `json:"correlations,omitempty"`
	Insights     []string                       `json:"insights"`
	Anomalies    []string                       `json:"anomalies"`
	Gaps         []string                       `json:"gaps"`
}
