package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/campus-analytics/mirador/internal/cache"
	"github.com/campus-analytics/mirador/internal/domain"
	"github.com/campus-analytics/mirador/internal/executor"
	"github.com/campus-analytics/mirador/internal/registry"
	"github.com/campus-analytics/mirador/internal/store"
)

// createTestServer creates a server backed by a seeded temp SQLite store.
func createTestServer(t *testing.T) *Server {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "mirador-api-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpPath) })

	st, err := store.New(domain.StoreConfig{Driver: "sqlite", SQLitePath: tmpPath})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.SeedDemo(context.Background()); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	reg, err := registry.New()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	lru := cache.NewLRUCache(100)
	exec := executor.New(st, lru, time.Minute)

	cfg := domain.ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30,
		WriteTimeout: 30,
	}

	return NewServer(cfg, reg, exec, st, lru, nil, "test-v1")
}

func runReport(t *testing.T, server *Server, id string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/reports/"+id+"/run", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	server := createTestServer(t)

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp["status"] != "healthy" {
			t.Errorf("expected healthy, got %v", resp["status"])
		}
	})

	t.Run("Ready", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
	})
}

func TestListAndDescribeReports(t *testing.T) {
	server := createTestServer(t)

	t.Run("ListReports", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var resp struct {
			Reports []domain.ReportSummary `json:"reports"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if len(resp.Reports) != 5 {
			t.Errorf("expected 5 reports, got %d", len(resp.Reports))
		}
	})

	t.Run("DescribeReport", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports/enrollments-by-date", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		var def domain.ReportDefinition
		if err := json.Unmarshal(rr.Body.Bytes(), &def); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if def.ID != "enrollments-by-date" {
			t.Errorf("expected enrollments-by-date, got %q", def.ID)
		}
		if len(def.Params) != 4 {
			t.Errorf("expected 4 parameter specs, got %d", len(def.Params))
		}
	})

	t.Run("DescribeUnknownReport", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reports/weekly-churn", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})
}

func TestRunReportEndpoint(t *testing.T) {
	server := createTestServer(t)

	t.Run("SuccessfulRun", func(t *testing.T) {
		rr := runReport(t, server, "enrollments-by-date", map[string]any{
			"params": map[string]any{
				"fecha_inicio": "2024-01-01",
				"fecha_fin":    "2024-12-31",
				"estado":       "completado",
			},
		})

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp struct {
			ReportID string         `json:"reportId"`
			Rows     []domain.Row   `json:"rows"`
			Meta     map[string]any `json:"meta"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp.ReportID != "enrollments-by-date" {
			t.Errorf("expected enrollments-by-date, got %q", resp.ReportID)
		}
		if len(resp.Rows) != 3 {
			t.Errorf("expected 3 completed enrollments, got %d", len(resp.Rows))
		}
		if resp.Meta["cacheHit"] != false {
			t.Errorf("first run must be a cache miss: %v", resp.Meta)
		}
	})

	t.Run("SecondIdenticalRunHitsCache", func(t *testing.T) {
		body := map[string]any{
			"params": map[string]any{
				"fecha_inicio": "2024-01-01",
				"fecha_fin":    "2024-12-31",
				"estado":       "en_progreso",
			},
		}

		first := runReport(t, server, "enrollments-by-date", body)
		if first.Code != http.StatusOK {
			t.Fatalf("first run failed: %d", first.Code)
		}

		second := runReport(t, server, "enrollments-by-date", body)
		if second.Code != http.StatusOK {
			t.Fatalf("second run failed: %d", second.Code)
		}

		var resp struct {
			Meta map[string]any `json:"meta"`
		}
		if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp.Meta["cacheHit"] != true {
			t.Error("second identical run must be a cache hit")
		}
	})

	t.Run("DefaultsApply", func(t *testing.T) {
		// Empty body: every parameter takes its declared default.
		req := httptest.NewRequest(http.MethodPost, "/reports/top-students-by-grade/run", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200 with defaults, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		rr := runReport(t, server, "enrollments-by-date", map[string]any{
			"params": map[string]any{"estado": "archivado"},
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("UnknownParameter", func(t *testing.T) {
		rr := runReport(t, server, "enrollments-by-date", map[string]any{
			"params": map[string]any{"limite": 10},
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("OutOfRangeParameter", func(t *testing.T) {
		rr := runReport(t, server, "enrollments-by-date", map[string]any{
			"params": map[string]any{"max_registros": 1000},
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("UnknownReport", func(t *testing.T) {
		rr := runReport(t, server, "weekly-churn", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reports/enrollments-by-date/run",
			bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("ChartReport", func(t *testing.T) {
		rr := runReport(t, server, "revenue-by-price-range", map[string]any{
			"params": map[string]any{
				"fecha_inicio": "2024-01-01",
				"fecha_fin":    "2024-12-31",
				"min_precio":   0,
				"max_precio":   500,
			},
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp struct {
			Mode  string `json:"mode"`
			Chart *struct {
				Category string `json:"category"`
				Points   []struct {
					Label string  `json:"label"`
					Value float64 `json:"value"`
				} `json:"points"`
			} `json:"chart"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp.Mode != "chart" {
			t.Errorf("expected chart mode, got %q", resp.Mode)
		}
		if resp.Chart == nil || len(resp.Chart.Points) == 0 {
			t.Fatal("expected chart points")
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	server := createTestServer(t)

	// One miss, one hit
	body := map[string]any{
		"params": map[string]any{
			"fecha_inicio": "2024-01-01",
			"fecha_fin":    "2024-12-31",
		},
	}
	runReport(t, server, "top-students-by-grade", body)
	runReport(t, server, "top-students-by-grade", body)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Reports map[string]struct {
			Hits   int64 `json:"hits"`
			Misses int64 `json:"misses"`
		} `json:"reports"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	s := resp.Reports["top-students-by-grade"]
	if s.Misses != 1 || s.Hits != 1 {
		t.Errorf("expected 1 miss and 1 hit, got %+v", s)
	}
}

func TestRequestIDHeader(t *testing.T) {
	server := createTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request ID header to be set")
	}
}
