// Package registry holds the static table of report definitions and
// resolves report identifiers to exactly one definition.
package registry

import (
	"fmt"
	"time"

	"github.com/campus-analytics/mirador/internal/domain"
)

// Registry maps report identifiers to immutable definitions. Built once
// at startup; the closed set of reports replaces the original's dynamic
// select-module-by-string dispatch.
type Registry struct {
	order   []string
	reports map[string]*domain.ReportDefinition
}

// New builds the registry with the five platform reports and validates
// every definition. A definition whose defaults violate its own bounds is
// a programming error and fails startup.
func New() (*Registry, error) {
	r := &Registry{reports: make(map[string]*domain.ReportDefinition)}
	for _, def := range definitions() {
		if err := validate(def); err != nil {
			return nil, fmt.Errorf("report %q: %w", def.ID, err)
		}
		if _, dup := r.reports[def.ID]; dup {
			return nil, fmt.Errorf("duplicate report id %q", def.ID)
		}
		r.order = append(r.order, def.ID)
		r.reports[def.ID] = def
	}
	return r, nil
}

// Get returns the definition for a report identifier.
func (r *Registry) Get(id string) (*domain.ReportDefinition, error) {
	def, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReport, id)
	}
	return def, nil
}

// List returns navigation summaries in registration order.
func (r *Registry) List() []domain.ReportSummary {
	out := make([]domain.ReportSummary, 0, len(r.order))
	for _, id := range r.order {
		def := r.reports[id]
		out = append(out, domain.ReportSummary{ID: def.ID, Label: def.Label, Mode: def.Mode})
	}
	return out
}

func definitions() []*domain.ReportDefinition {
	dateRange := func(column string) domain.Predicate {
		return domain.Predicate{
			Expr:   column,
			Op:     domain.OpBetween,
			Params: []string{"fecha_inicio", "fecha_fin"},
		}
	}

	return []*domain.ReportDefinition{
		{
			ID:    "enrollments-by-date",
			Label: "Inscripciones por rango de fechas",
			Mode:  domain.ModeTable,
			Params: []domain.ParameterSpec{
				{Name: "fecha_inicio", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "fecha_fin", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "estado", Kind: domain.KindEnum, Default: "pendiente",
					Enum: []string{"pendiente", "en_progreso", "completado", "abandonado"}},
				{Name: "max_registros", Kind: domain.KindCount, Default: int64(5), Min: 5, Max: 100},
			},
			Template: domain.QueryTemplate{
				Select: []string{"estudiante_id", "curso_id", "fecha_inscripcion", "progreso_porcentaje", "estado"},
				From:   "inscripciones",
				Where: []domain.Predicate{
					dateRange("fecha_inscripcion"),
					{Expr: "estado", Op: domain.OpEq, Params: []string{"estado"}},
				},
				OrderBy: "fecha_inscripcion DESC",
				Limit:   "max_registros",
			},
		},
		{
			ID:    "average-progress-by-range",
			Label: "Progreso promedio de cursos (rango)",
			Mode:  domain.ModeTable,
			Params: []domain.ParameterSpec{
				{Name: "fecha_inicio", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "fecha_fin", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "min_progreso", Kind: domain.KindInteger, Default: int64(25), Min: 0, Max: 100},
				{Name: "max_progreso", Kind: domain.KindInteger, Default: int64(75), Min: 0, Max: 100},
			},
			Template: domain.QueryTemplate{
				Select: []string{
					"c.titulo AS curso",
					"ROUND(AVG(i.progreso_porcentaje), 2) AS progreso_promedio",
				},
				From:    "inscripciones i JOIN cursos c USING (curso_id)",
				Where:   []domain.Predicate{dateRange("i.fecha_inscripcion")},
				GroupBy: []string{"c.titulo"},
				Having: []domain.Predicate{
					{Expr: "AVG(i.progreso_porcentaje)", Op: domain.OpBetween,
						Params: []string{"min_progreso", "max_progreso"}},
				},
				OrderBy: "progreso_promedio DESC",
			},
		},
		{
			ID:    "top-students-by-grade",
			Label: "Top estudiantes por calificación final",
			Mode:  domain.ModeTable,
			Params: []domain.ParameterSpec{
				{Name: "fecha_inicio", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "fecha_fin", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "min_calificacion", Kind: domain.KindFloat, Default: 8.0, Min: 0, Max: 10},
				{Name: "top_n", Kind: domain.KindCount, Default: int64(10), Min: 1, Max: 100},
			},
			// Ties at the threshold or at the Nth row follow the store's
			// natural order; no secondary ordering is imposed.
			Template: domain.QueryTemplate{
				Select: []string{
					"e.nombre || ' ' || e.apellido AS estudiante",
					"i.calificacion_final",
				},
				From: "inscripciones i JOIN estudiantes e ON i.estudiante_id = e.estudiante_id",
				Where: []domain.Predicate{
					dateRange("i.fecha_inscripcion"),
					{Expr: "i.calificacion_final", Op: domain.OpGte, Params: []string{"min_calificacion"}},
				},
				OrderBy: "i.calificacion_final DESC",
				Limit:   "top_n",
			},
		},
		{
			ID:    "lesson-activity-by-time-range",
			Label: "Actividad de lecciones (rango de tiempo promedio)",
			Mode:  domain.ModeTable,
			Params: []domain.ParameterSpec{
				{Name: "min_tiempo", Kind: domain.KindFloat, Default: 10.0, Min: 0, Max: 999},
				{Name: "max_tiempo", Kind: domain.KindFloat, Default: 60.0, Min: 0, Max: 999},
				{Name: "fecha_inicio", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "fecha_fin", Kind: domain.KindDate, Default: time.Time{}},
			},
			Template: domain.QueryTemplate{
				Select: []string{
					"m.curso_id",
					"l.titulo AS leccion",
					"ROUND(AVG(pl.tiempo_dedicado), 2) AS tiempo_promedio",
					"COUNT(pl.progreso_id) AS vistas",
				},
				From:    "progreso_lecciones pl JOIN lecciones l USING (leccion_id) JOIN modulos m USING (modulo_id)",
				Where:   []domain.Predicate{dateRange("pl.ultima_visualizacion")},
				GroupBy: []string{"m.curso_id", "l.titulo"},
				Having: []domain.Predicate{
					{Expr: "AVG(pl.tiempo_dedicado)", Op: domain.OpBetween,
						Params: []string{"min_tiempo", "max_tiempo"}},
				},
				OrderBy: "tiempo_promedio DESC",
			},
		},
		{
			ID:    "revenue-by-price-range",
			Label: "Ingresos por curso (rango de precio)",
			Mode:  domain.ModeChart,
			Params: []domain.ParameterSpec{
				{Name: "fecha_inicio", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "fecha_fin", Kind: domain.KindDate, Default: time.Time{}},
				{Name: "min_precio", Kind: domain.KindFloat, Default: 0.0, Min: 0, Max: 10000},
				{Name: "max_precio", Kind: domain.KindFloat, Default: 500.0, Min: 0, Max: 10000},
			},
			// The price range filters on the unit price, not the summed
			// revenue; the unit value is exposed for downstream charting.
			Template: domain.QueryTemplate{
				Select: []string{
					"c.curso_id",
					"c.titulo AS curso",
					"ROUND(SUM(c.precio), 2) AS total_ingresos",
					"c.precio AS precio_unitario",
				},
				From: "inscripciones i JOIN cursos c USING (curso_id)",
				Where: []domain.Predicate{
					dateRange("i.fecha_inscripcion"),
					{Expr: "c.precio", Op: domain.OpBetween, Params: []string{"min_precio", "max_precio"}},
				},
				GroupBy: []string{"c.curso_id", "c.titulo", "c.precio"},
				OrderBy: "total_ingresos DESC",
			},
			Chart: &domain.ChartSpec{Category: "curso", Value: "total_ingresos"},
		},
	}
}

func validate(def *domain.ReportDefinition) error {
	if def.ID == "" || def.Label == "" {
		return fmt.Errorf("id and label are required")
	}
	if def.Mode != domain.ModeTable && def.Mode != domain.ModeChart {
		return fmt.Errorf("unsupported render mode %q", def.Mode)
	}
	if (def.Mode == domain.ModeChart) != (def.Chart != nil) {
		return fmt.Errorf("chart spec must be set exactly for chart mode")
	}

	specs := make(map[string]domain.ParameterSpec, len(def.Params))
	for _, spec := range def.Params {
		if _, dup := specs[spec.Name]; dup {
			return fmt.Errorf("duplicate parameter %q", spec.Name)
		}
		if err := validateSpec(spec); err != nil {
			return err
		}
		specs[spec.Name] = spec
	}

	for _, pred := range append(append([]domain.Predicate{}, def.Template.Where...), def.Template.Having...) {
		for _, name := range pred.Params {
			if _, ok := specs[name]; !ok {
				return fmt.Errorf("predicate on %q references undeclared parameter %q", pred.Expr, name)
			}
		}
	}
	if def.Template.Limit != "" {
		spec, ok := specs[def.Template.Limit]
		if !ok {
			return fmt.Errorf("limit references undeclared parameter %q", def.Template.Limit)
		}
		if spec.Kind != domain.KindCount {
			return fmt.Errorf("limit parameter %q must be a count, got %q", spec.Name, spec.Kind)
		}
	}
	return nil
}

func validateSpec(spec domain.ParameterSpec) error {
	switch spec.Kind {
	case domain.KindDate:
		// Dates carry no bounds; a zero default means "today at bind time".
		return nil
	case domain.KindEnum:
		if len(spec.Enum) == 0 {
			return fmt.Errorf("enum parameter %q has no values", spec.Name)
		}
		def, ok := spec.Default.(string)
		if !ok {
			return fmt.Errorf("enum parameter %q needs a string default", spec.Name)
		}
		for _, v := range spec.Enum {
			if v == def {
				return nil
			}
		}
		return fmt.Errorf("enum parameter %q default %q not in value set", spec.Name, def)
	case domain.KindInteger, domain.KindCount:
		def, ok := spec.Default.(int64)
		if !ok {
			return fmt.Errorf("parameter %q needs an int64 default", spec.Name)
		}
		if spec.Min > spec.Max {
			return fmt.Errorf("parameter %q has min > max", spec.Name)
		}
		if float64(def) < spec.Min || float64(def) > spec.Max {
			return fmt.Errorf("parameter %q default %d outside [%g, %g]", spec.Name, def, spec.Min, spec.Max)
		}
		return nil
	case domain.KindFloat:
		def, ok := spec.Default.(float64)
		if !ok {
			return fmt.Errorf("parameter %q needs a float64 default", spec.Name)
		}
		if spec.Min > spec.Max {
			return fmt.Errorf("parameter %q has min > max", spec.Name)
		}
		if def < spec.Min || def > spec.Max {
			return fmt.Errorf("parameter %q default %g outside [%g, %g]", spec.Name, def, spec.Min, spec.Max)
		}
		return nil
	default:
		return fmt.Errorf("parameter %q has unsupported kind %q", spec.Name, spec.Kind)
	}
}
