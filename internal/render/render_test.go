package render

import (
	"testing"

	"github.com/campus-analytics/mirador/internal/domain"
)

func tableDef() *domain.ReportDefinition {
	return &domain.ReportDefinition{
		ID:    "enrollments-by-date",
		Label: "Inscripciones por rango de fechas",
		Mode:  domain.ModeTable,
	}
}

func chartDef() *domain.ReportDefinition {
	return &domain.ReportDefinition{
		ID:    "revenue-by-price-range",
		Label: "Ingresos por curso (rango de precio)",
		Mode:  domain.ModeChart,
		Chart: &domain.ChartSpec{Category: "curso", Value: "total_ingresos"},
	}
}

func TestBuild(t *testing.T) {
	t.Run("TableMode", func(t *testing.T) {
		rs := &domain.ResultSet{
			Columns: []string{"estudiante_id", "estado"},
			Rows: []domain.Row{
				{"estudiante_id": "est-001", "estado": "completado"},
			},
		}

		p, err := Build(tableDef(), rs)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		if p.Mode != domain.ModeTable {
			t.Errorf("expected table mode, got %q", p.Mode)
		}
		if p.Chart != nil {
			t.Error("table mode must not carry chart data")
		}
		if len(p.Rows) != 1 || p.Rows[0]["estado"] != "completado" {
			t.Errorf("rows not passed through: %v", p.Rows)
		}
	})

	t.Run("ChartMode", func(t *testing.T) {
		rs := &domain.ResultSet{
			Columns: []string{"curso", "total_ingresos"},
			Rows: []domain.Row{
				{"curso": "Go desde cero", "total_ingresos": 159.98},
				{"curso": "Introducción a SQL", "total_ingresos": 99.98},
			},
		}

		p, err := Build(chartDef(), rs)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		if p.Chart == nil {
			t.Fatal("expected chart data")
		}
		if len(p.Chart.Points) != 2 {
			t.Fatalf("expected 2 points, got %d", len(p.Chart.Points))
		}
		if p.Chart.Points[0].Label != "Go desde cero" || p.Chart.Points[0].Value != 159.98 {
			t.Errorf("unexpected first point: %+v", p.Chart.Points[0])
		}
	})

	t.Run("ChartIntegerValues", func(t *testing.T) {
		rs := &domain.ResultSet{
			Columns: []string{"curso", "total_ingresos"},
			Rows: []domain.Row{
				{"curso": "Análisis de datos", "total_ingresos": int64(390)},
			},
		}

		p, err := Build(chartDef(), rs)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if p.Chart.Points[0].Value != 390 {
			t.Errorf("expected 390, got %v", p.Chart.Points[0].Value)
		}
	})

	t.Run("ChartEmptyResult", func(t *testing.T) {
		rs := &domain.ResultSet{
			Columns: []string{"curso", "total_ingresos"},
			Rows:    []domain.Row{},
		}

		p, err := Build(chartDef(), rs)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if len(p.Chart.Points) != 0 {
			t.Errorf("expected no points, got %d", len(p.Chart.Points))
		}
	})

	t.Run("ChartMissingCategoryColumn", func(t *testing.T) {
		rs := &domain.ResultSet{
			Columns: []string{"titulo", "total_ingresos"},
			Rows: []domain.Row{
				{"titulo": "Go desde cero", "total_ingresos": 159.98},
			},
		}

		if _, err := Build(chartDef(), rs); err == nil {
			t.Error("expected error for missing category column")
		}
	})

	t.Run("ChartNonNumericValue", func(t *testing.T) {
		rs := &domain.ResultSet{
			Columns: []string{"curso", "total_ingresos"},
			Rows: []domain.Row{
				{"curso": "Go desde cero", "total_ingresos": "159.98"},
			},
		}

		if _, err := Build(chartDef(), rs); err == nil {
			t.Error("expected error for non-numeric value column")
		}
	})
}
