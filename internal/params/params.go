// Package params implements the parameter model: defaulting, type
// coercion and bounds validation for report filter inputs.
package params

import (
	"fmt"
	"math"
	"time"

	"github.com/campus-analytics/mirador/internal/domain"
)

// DateLayout is the wire format for date parameters.
const DateLayout = "2006-01-02"

// Bind produces a BoundParams from raw input values, applying spec
// defaults for absent parameters and validating every value against its
// kind. It is pure: no side effects, raw is never mutated.
//
// The input widget layer clamps out-of-range values before they reach
// this layer; programmatic invocations that bypass it are rejected here
// with a validation error.
func Bind(specs []domain.ParameterSpec, raw map[string]any) (domain.BoundParams, error) {
	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[spec.Name] = true
	}
	for name := range raw {
		if !known[name] {
			return nil, fmt.Errorf("%w: unknown parameter %q", domain.ErrValidation, name)
		}
	}

	bound := make(domain.BoundParams, len(specs))
	for _, spec := range specs {
		value, ok := raw[spec.Name]
		if !ok || value == nil {
			value = defaultFor(spec)
		}

		typed, err := coerce(spec, value)
		if err != nil {
			return nil, err
		}
		bound[spec.Name] = typed
	}
	return bound, nil
}

// defaultFor resolves a spec's default. Date parameters with a zero
// default resolve to the current date at bind time, matching the original
// dashboard's "today" pickers without freezing startup's date.
func defaultFor(spec domain.ParameterSpec) any {
	if spec.Kind == domain.KindDate {
		if t, ok := spec.Default.(time.Time); !ok || t.IsZero() {
			now := time.Now().UTC()
			return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return spec.Default
}

func coerce(spec domain.ParameterSpec, value any) (any, error) {
	switch spec.Kind {
	case domain.KindDate:
		return coerceDate(spec, value)
	case domain.KindInteger, domain.KindCount:
		return coerceInteger(spec, value)
	case domain.KindFloat:
		return coerceFloat(spec, value)
	case domain.KindEnum:
		return coerceEnum(spec, value)
	default:
		return nil, fmt.Errorf("%w: parameter %q has unsupported kind %q", domain.ErrValidation, spec.Name, spec.Kind)
	}
}

// coerceDate accepts a time.Time or a "2006-01-02" string. Any date is
// valid; ordering across a start/end pair is deliberately not enforced.
func coerceDate(spec domain.ParameterSpec, value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: parameter %q: invalid date %q (want YYYY-MM-DD)", domain.ErrValidation, spec.Name, v)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: parameter %q: expected date, got %T", domain.ErrValidation, spec.Name, value)
	}
}

func coerceInteger(spec domain.ParameterSpec, value any) (int64, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		// JSON numbers decode as float64; reject fractional values.
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: parameter %q: expected integer, got %v", domain.ErrValidation, spec.Name, v)
		}
		n = int64(v)
	default:
		return 0, fmt.Errorf("%w: parameter %q: expected integer, got %T", domain.ErrValidation, spec.Name, value)
	}

	if float64(n) < spec.Min || float64(n) > spec.Max {
		return 0, fmt.Errorf("%w: parameter %q: %d outside [%g, %g]", domain.ErrValidation, spec.Name, n, spec.Min, spec.Max)
	}
	return n, nil
}

func coerceFloat(spec domain.ParameterSpec, value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, fmt.Errorf("%w: parameter %q: expected number, got %T", domain.ErrValidation, spec.Name, value)
	}

	if f < spec.Min || f > spec.Max {
		return 0, fmt.Errorf("%w: parameter %q: %g outside [%g, %g]", domain.ErrValidation, spec.Name, f, spec.Min, spec.Max)
	}
	return f, nil
}

func coerceEnum(spec domain.ParameterSpec, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %q: expected string, got %T", domain.ErrValidation, spec.Name, value)
	}

	for _, allowed := range spec.Enum {
		if s == allowed {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: parameter %q: %q is not one of %v", domain.ErrValidation, spec.Name, s, spec.Enum)
}
