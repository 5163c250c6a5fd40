// Package domain defines the core interfaces and types for Mirador.
package domain

// ParamKind identifies the type of a report parameter.
type ParamKind string

const (
	KindDate    ParamKind = "date"
	KindInteger ParamKind = "integer"
	KindFloat   ParamKind = "float"
	KindEnum    ParamKind = "enum"
	KindCount   ParamKind = "count"
)

// RenderMode selects how a result set is presented.
type RenderMode string

const (
	ModeTable RenderMode = "table"
	ModeChart RenderMode = "chart"
)

// ParameterSpec describes one typed, constrained report parameter.
// Numeric kinds (integer, float, count) carry inclusive [Min, Max] bounds.
// Enum kinds carry the set of accepted values. Date kinds are unbounded;
// an out-of-order date range is passed through and yields an empty result.
type ParameterSpec struct {
	Name    string    `json:"name"`
	Kind    ParamKind `json:"kind"`
	Default any       `json:"default"`
	Min     float64   `json:"min,omitempty"`
	Max     float64   `json:"max,omitempty"`
	Enum    []string  `json:"enum,omitempty"`
}

// BoundParams maps parameter names to validated, typed values for one
// invocation. Values are time.Time, int64, float64 or string depending on
// the parameter kind. Created fresh per request, never persisted.
type BoundParams map[string]any

// PredicateOp is the comparison applied by a template predicate.
type PredicateOp string

const (
	OpBetween PredicateOp = "between" // inclusive both ends, two params
	OpEq      PredicateOp = "eq"      // one param
	OpGte     PredicateOp = "gte"     // one param
)

// Predicate is one filter in a query template. Expr is a trusted column or
// aggregate expression defined at startup; Params name the bound parameters
// whose values are attached as placeholder arguments, never interpolated.
type Predicate struct {
	Expr   string      `json:"expr"`
	Op     PredicateOp `json:"op"`
	Params []string    `json:"params"`
}

// QueryTemplate is an immutable aggregate query shape. All user-supplied
// values enter through Where/Having predicates and the Limit parameter as
// driver-bound placeholders.
type QueryTemplate struct {
	Select  []string    `json:"select"`
	From    string      `json:"from"`
	Where   []Predicate `json:"where,omitempty"`
	GroupBy []string    `json:"groupBy,omitempty"`
	Having  []Predicate `json:"having,omitempty"`
	OrderBy string      `json:"orderBy,omitempty"`

	// Limit names a count parameter used as the row cap, empty for none.
	Limit string `json:"limit,omitempty"`
}

// ChartSpec designates the category and numeric columns for chart mode.
type ChartSpec struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// ReportDefinition is one named, parameterized aggregate query plus its
// rendering mode. Defined once at startup and owned by the registry.
type ReportDefinition struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Mode     RenderMode      `json:"mode"`
	Params   []ParameterSpec `json:"params"`
	Template QueryTemplate   `json:"template"`
	Chart    *ChartSpec      `json:"chart,omitempty"`
}

// ReportSummary is the navigation entry for one report.
type ReportSummary struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Mode  RenderMode `json:"mode"`
}
