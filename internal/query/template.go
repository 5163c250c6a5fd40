// Package query implements the query template engine: it binds validated
// parameters into an immutable template, producing a concrete query whose
// user-supplied values travel exclusively as driver placeholders.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/campus-analytics/mirador/internal/domain"
	"github.com/campus-analytics/mirador/internal/params"
)

// Query is a fully bound query: placeholder text plus ordered arguments.
// Text uses ? placeholders; the store rebinds them per driver.
type Query struct {
	Text string
	Args []any
}

// Key returns the deterministic cache key for this query. Same bound
// parameters always produce a byte-identical key: template walking is
// ordered and each argument kind has one canonical rendering.
func (q *Query) Key() string {
	var b strings.Builder
	b.WriteString(q.Text)
	for _, arg := range q.Args {
		b.WriteByte(0x1f)
		b.WriteString(formatArg(arg))
	}
	return b.String()
}

// Bind renders a template against bound parameters. Every parameter a
// predicate or limit names must be present; a missing value fails with a
// binding error rather than an empty substitution.
func Bind(tpl domain.QueryTemplate, bound domain.BoundParams) (*Query, error) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	b.WriteString(strings.Join(tpl.Select, ", "))
	b.WriteString("\nFROM ")
	b.WriteString(tpl.From)

	if len(tpl.Where) > 0 {
		b.WriteString("\nWHERE ")
		if err := writePredicates(&b, &args, tpl.Where, bound); err != nil {
			return nil, err
		}
	}

	if len(tpl.GroupBy) > 0 {
		b.WriteString("\nGROUP BY ")
		b.WriteString(strings.Join(tpl.GroupBy, ", "))
	}

	if len(tpl.Having) > 0 {
		b.WriteString("\nHAVING ")
		if err := writePredicates(&b, &args, tpl.Having, bound); err != nil {
			return nil, err
		}
	}

	if tpl.OrderBy != "" {
		b.WriteString("\nORDER BY ")
		b.WriteString(tpl.OrderBy)
	}

	if tpl.Limit != "" {
		limit, err := lookup(bound, tpl.Limit)
		if err != nil {
			return nil, err
		}
		b.WriteString("\nLIMIT ?")
		args = append(args, limit)
	}

	return &Query{Text: b.String(), Args: args}, nil
}

func writePredicates(b *strings.Builder, args *[]any, preds []domain.Predicate, bound domain.BoundParams) error {
	for i, pred := range preds {
		if i > 0 {
			b.WriteString("\n  AND ")
		}

		values, err := predicateArgs(pred, bound)
		if err != nil {
			return err
		}

		switch pred.Op {
		case domain.OpBetween:
			b.WriteString(pred.Expr)
			b.WriteString(" BETWEEN ? AND ?")
		case domain.OpEq:
			b.WriteString(pred.Expr)
			b.WriteString(" = ?")
		case domain.OpGte:
			b.WriteString(pred.Expr)
			b.WriteString(" >= ?")
		default:
			return fmt.Errorf("%w: predicate on %q has unsupported op %q", domain.ErrBinding, pred.Expr, pred.Op)
		}

		*args = append(*args, values...)
	}
	return nil
}

func predicateArgs(pred domain.Predicate, bound domain.BoundParams) ([]any, error) {
	want := 1
	if pred.Op == domain.OpBetween {
		want = 2
	}
	if len(pred.Params) != want {
		return nil, fmt.Errorf("%w: predicate on %q needs %d parameter(s), template names %d", domain.ErrBinding, pred.Expr, want, len(pred.Params))
	}

	values := make([]any, 0, want)
	for _, name := range pred.Params {
		v, err := lookup(bound, name)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// lookup resolves a named parameter to its driver argument form.
// Dates are passed as YYYY-MM-DD strings so BETWEEN compares inclusively
// on date columns under both drivers.
func lookup(bound domain.BoundParams, name string) (any, error) {
	v, ok := bound[name]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: missing value for parameter %q", domain.ErrBinding, name)
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(params.DateLayout), nil
	}
	return v, nil
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
