// Package analysis profiles tabular datasets: it classifies columns, computes
// per-column statistics, measures data quality, correlates numeric pairs, and
// synthesizes plain-text insights. Profiling is a pure in-memory computation;
// the package does no I/O and a given input always produces the same profile.
package analysis

import "go.uber.org/zap"

// Defaults applied when an Options field is left at its zero value.
const (
	DefaultMaxTopValues     = 5
	DefaultOutlierThreshold = 3.0
	DefaultMinCorrelation   = 0.5
)

// Options controls profiling behavior.
type Options struct {
	// MaxTopValues caps the ranked frequency list per categorical column.
	MaxTopValues int
	// OutlierThreshold is the number of standard deviations beyond which a
	// numeric value is flagged.
	OutlierThreshold float64
	// MinCorrelation is the minimum absolute Pearson coefficient a column
	// pair must reach to be reported. Zero keeps every pair.
	MinCorrelation float64
	// DetectTemporal enables promotion of text columns to temporal profiles.
	DetectTemporal bool
	// Logger receives engine telemetry. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the standard profiling configuration.
func DefaultOptions() Options {
	return Options{
		MaxTopValues:     DefaultMaxTopValues,
		OutlierThreshold: DefaultOutlierThreshold,
		MinCorrelation:   DefaultMinCorrelation,
		DetectTemporal:   true,
	}
}

func (o Options) normalized() Options {
	if o.MaxTopValues <= 0 {
		o.MaxTopValues = DefaultMaxTopValues
	}
	if o.OutlierThreshold <= 0 {
		o.OutlierThreshold = DefaultOutlierThreshold
	}
	if o.MinCorrelation < 0 {
		o.MinCorrelation = DefaultMinCorrelation
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Profile analyzes a parsed table and returns its complete profile. Columns
// are routed by the classifier, profiled by type, then the quality metrics,
// correlations, and generated text are layered on top. The result is a pure
// function of the input: calling Profile twice on the same table yields
// structurally identical profiles.
func Profile(t *ParsedTable, opt Options) *DatasetProfile {
	opt = opt.normalized()

	p := &DatasetProfile{
		Name:        t.Name,
		Filename:    t.Filename,
		RowCount:    t.RowCount,
		ColumnCount: t.ColumnCount,
		Numeric:     make(map[string]*NumericProfile),
		Categorical: make(map[string]*CategoricalProfile),
		Temporal:    make(map[string]*TemporalProfile),
		Insights:    []string{},
		Anomalies:   []string{},
		Gaps:        []string{},
	}

	opt.Logger.Debug("profiling dataset",
		zap.String("dataset", t.Name),
		zap.Int("rows", t.RowCount),
		zap.Int("columns", t.ColumnCount))

	var numericCols []string
	for i, col := range t.Columns {
		role, kind := classifyColumn(t, i, opt)
		switch role {
		case roleNumeric:
			p.Numeric[col] = profileNumeric(t, col, opt)
			numericCols = append(numericCols, col)
		case roleTemporal:
			if tp := profileTemporal(t, col, kind); tp != nil {
				p.Temporal[col] = tp
			}
		default:
			p.Categorical[col] = profileCategorical(t, col, opt)
		}
	}

	p.Quality = aggregateQuality(t, p.Numeric, p.Categorical)
	p.Correlations = correlate(t, numericCols, opt)
	synthesize(t, p, opt)

	opt.Logger.Debug("profile complete",
		zap.String("dataset", t.Name),
		zap.Int("rows", t.RowCount),
		zap.Int("numeric", len(p.Numeric)),
		zap.Int("categorical", len(p.Categorical)),
		zap.Int("temporal", len(p.Temporal)),
		zap.Int("correlations", len(p.Correlations)))
	return p
}
