package registry

import (
	"errors"
	"testing"

	"github.com/campus-analytics/mirador/internal/domain"
	"github.com/campus-analytics/mirador/internal/params"
	"github.com/campus-analytics/mirador/internal/query"
)

func TestRegistry(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	t.Run("ListsFiveReports", func(t *testing.T) {
		list := reg.List()
		if len(list) != 5 {
			t.Fatalf("expected 5 reports, got %d", len(list))
		}

		wantOrder := []string{
			"enrollments-by-date",
			"average-progress-by-range",
			"top-students-by-grade",
			"lesson-activity-by-time-range",
			"revenue-by-price-range",
		}
		for i, id := range wantOrder {
			if list[i].ID != id {
				t.Errorf("position %d: expected %q, got %q", i, id, list[i].ID)
			}
		}
	})

	t.Run("GetKnownReport", func(t *testing.T) {
		def, err := reg.Get("top-students-by-grade")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if def.Mode != domain.ModeTable {
			t.Errorf("expected table mode, got %q", def.Mode)
		}
		if def.Template.Limit != "top_n" {
			t.Errorf("expected limit parameter 'top_n', got %q", def.Template.Limit)
		}
	})

	t.Run("GetUnknownReport", func(t *testing.T) {
		_, err := reg.Get("weekly-churn")
		if !errors.Is(err, domain.ErrUnknownReport) {
			t.Errorf("expected unknown report error, got %v", err)
		}
	})

	t.Run("OnlyChartReportHasChartSpec", func(t *testing.T) {
		for _, summary := range reg.List() {
			def, _ := reg.Get(summary.ID)
			if def.Mode == domain.ModeChart {
				if def.Chart == nil {
					t.Errorf("report %q: chart mode without chart spec", def.ID)
				}
			} else if def.Chart != nil {
				t.Errorf("report %q: table mode with chart spec", def.ID)
			}
		}
	})

	t.Run("RevenueChartColumnsDeclaredInSelect", func(t *testing.T) {
		def, _ := reg.Get("revenue-by-price-range")
		if def.Chart.Category != "curso" || def.Chart.Value != "total_ingresos" {
			t.Errorf("unexpected chart spec: %+v", def.Chart)
		}
	})

	// Every definition's defaults must bind and render without input.
	t.Run("AllDefinitionsBindWithDefaults", func(t *testing.T) {
		for _, summary := range reg.List() {
			summary := summary
			t.Run(summary.ID, func(t *testing.T) {
				def, err := reg.Get(summary.ID)
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}

				bound, err := params.Bind(def.Params, nil)
				if err != nil {
					t.Fatalf("default bind failed: %v", err)
				}

				q, err := query.Bind(def.Template, bound)
				if err != nil {
					t.Fatalf("template bind failed: %v", err)
				}
				if q.Text == "" || len(q.Args) == 0 {
					t.Errorf("empty render: %+v", q)
				}
			})
		}
	})
}
