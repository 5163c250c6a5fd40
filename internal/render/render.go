// Package render formats a result set as a table or chart payload for
// the external display layer.
package render

import (
	"fmt"

	"github.com/campus-analytics/mirador/internal/domain"
)

// Payload is the display-ready form of one report run.
type Payload struct {
	ReportID string            `json:"reportId"`
	Label    string            `json:"label"`
	Mode     domain.RenderMode `json:"mode"`
	Columns  []string          `json:"columns"`
	Rows     []domain.Row      `json:"rows"`
	Chart    *ChartData        `json:"chart,omitempty"`
}

// ChartData is the aggregate chart series for chart mode.
type ChartData struct {
	Category string  `json:"category"`
	Value    string  `json:"value"`
	Points   []Point `json:"points"`
}

// Point is one chart data point.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Build assembles the payload for a definition and its result set.
// Chart mode requires the designated category column to be present and
// the designated value column to be numeric in every row.
func Build(def *domain.ReportDefinition, rs *domain.ResultSet) (*Payload, error) {
	p := &Payload{
		ReportID: def.ID,
		Label:    def.Label,
		Mode:     def.Mode,
		Columns:  rs.Columns,
		Rows:     rs.Rows,
	}

	if def.Mode != domain.ModeChart {
		return p, nil
	}

	chart := &ChartData{
		Category: def.Chart.Category,
		Value:    def.Chart.Value,
		Points:   make([]Point, 0, len(rs.Rows)),
	}
	for _, row := range rs.Rows {
		label, ok := row[def.Chart.Category]
		if !ok {
			return nil, fmt.Errorf("chart category column %q missing from result", def.Chart.Category)
		}
		raw, ok := row[def.Chart.Value]
		if !ok {
			return nil, fmt.Errorf("chart value column %q missing from result", def.Chart.Value)
		}
		value, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("chart value column %q: %v", def.Chart.Value, err)
		}
		chart.Points = append(chart.Points, Point{
			Label: fmt.Sprintf("%v", label),
			Value: value,
		})
	}
	p.Chart = chart
	return p, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", v)
	}
}
