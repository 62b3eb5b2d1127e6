package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dataapp-go/internal/config"
	"dataapp-go/internal/logging"
	"dataapp-go/internal/metrics"
	"dataapp-go/internal/models"
	"dataapp-go/internal/sampledata"
	"dataapp-go/internal/service"
	"dataapp-go/internal/state"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	logger := logging.Discard()
	m := metrics.New()

	gen := sampledata.NewGenerator(sampledata.WithClock(func() time.Time {
		return time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	}))
	cache := state.NewDatasetCache(gen, cfg.Datasets, state.WithObserver(m.ObserveGeneration))

	h := NewHandler(
		service.NewQueryService(cache, cfg.Cache.ViewSize, m, logger),
		service.NewExporter(cache),
		logger,
	)

	srv := httptest.NewServer(NewRouter(cfg, h, m, logger))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body models.HealthResponse
	decode(t, resp, &body)
	if body.Status != "healthy" || body.Service != "data-app-backend" {
		t.Errorf("body = %+v", body)
	}
}

func TestRootBanner(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/")
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(b), "Running") {
		t.Errorf("GET / = %d %q", resp.StatusCode, b)
	}
}

func TestLineDataDefaults(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/plotting/line-data")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body models.LineDataResponse
	decode(t, resp, &body)

	if len(body.Data) != DefaultLineDays*4 {
		t.Errorf("got %d records, want %d", len(body.Data), DefaultLineDays*4)
	}
	if body.DateRange.End != "2026-03-15" {
		t.Errorf("date_range.end = %s", body.DateRange.End)
	}
	if len(body.Companies) != 4 {
		t.Errorf("companies = %v", body.Companies)
	}
}

func TestLineDataCompany(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/plotting/line-data?company=GreenEnergy&days=7")
	var body models.LineDataResponse
	decode(t, resp, &body)
	if len(body.Data) != 7 {
		t.Fatalf("got %d records, want 7", len(body.Data))
	}
	for _, r := range body.Data {
		if r.Company != "GreenEnergy" {
			t.Errorf("unexpected company %q", r.Company)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path  string
		field string
	}{
		{"/api/plotting/line-data?days=6", "days"},
		{"/api/plotting/line-data?days=366", "days"},
		{"/api/plotting/line-data?days=ninety", "days"},
		{"/api/dataframe/data?page=0", "page"},
		{"/api/dataframe/data?page_size=4", "page_size"},
		{"/api/dataframe/data?page_size=51", "page_size"},
		{"/api/dataframe/data?sort_order=up", "sort_order"},
		{"/api/dataframe/data?match=regex", "match"},
		{"/api/export/sales?format=xml", "format"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", resp.StatusCode)
			}
			var body models.ErrorResponse
			decode(t, resp, &body)
			if body.Code != "VALIDATION_ERROR" {
				t.Errorf("code = %q", body.Code)
			}
			if _, ok := body.Details[tt.field]; !ok {
				t.Errorf("details = %v, want key %q", body.Details, tt.field)
			}
		})
	}
}

func TestBoundaryValuesAccepted(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/plotting/line-data?days=7",
		"/api/plotting/line-data?days=365",
		"/api/dataframe/data?page_size=5",
		"/api/dataframe/data?page_size=50",
		"/api/dataframe/data?page=999",
		"/api/dataframe/data?page=922337203685477582",
	} {
		if resp := get(t, srv, path); resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestBarData(t *testing.T) {
	srv := newTestServer(t)

	var all models.BarDataResponse
	decode(t, get(t, srv, "/api/plotting/bar-data"), &all)
	if len(all.Data) != 6 || len(all.Regions) != 4 {
		t.Errorf("categories=%d regions=%d", len(all.Data), len(all.Regions))
	}

	var west models.BarDataResponse
	decode(t, get(t, srv, "/api/plotting/bar-data?region=West"), &west)
	for i := range west.Data {
		if west.Data[i].Sales > all.Data[i].Sales {
			t.Errorf("%s: region total %d exceeds overall %d", west.Data[i].Category, west.Data[i].Sales, all.Data[i].Sales)
		}
	}
}

func TestDataFrameData(t *testing.T) {
	srv := newTestServer(t)

	var body models.DataFrameResponse
	decode(t, get(t, srv, "/api/dataframe/data"), &body)

	p := body.Pagination
	if p.Page != 1 || p.PageSize != DefaultPageSize || p.TotalItems != 100 || p.TotalPages != 10 {
		t.Errorf("pagination = %+v", p)
	}
	if !p.HasNext || p.HasPrev {
		t.Errorf("has_next/has_prev = %v/%v", p.HasNext, p.HasPrev)
	}
	if len(body.Data) != DefaultPageSize {
		t.Errorf("got %d rows", len(body.Data))
	}
	if len(body.Filters.Departments) == 0 || len(body.Filters.Positions) == 0 {
		t.Errorf("filters = %+v", body.Filters)
	}
}

func TestDataFrameSortedDesc(t *testing.T) {
	srv := newTestServer(t)

	var body models.DataFrameResponse
	decode(t, get(t, srv, "/api/dataframe/data?sort_by=salary&sort_order=desc&page_size=20"), &body)
	for i := 1; i < len(body.Data); i++ {
		if body.Data[i].Salary > body.Data[i-1].Salary {
			t.Fatalf("row %d salary %d > previous %d", i, body.Data[i].Salary, body.Data[i-1].Salary)
		}
	}
}

func TestDataFrameStats(t *testing.T) {
	srv := newTestServer(t)

	var body models.EmployeeStats
	decode(t, get(t, srv, "/api/dataframe/stats"), &body)
	if body.TotalEmployees != 100 {
		t.Errorf("total_employees = %d", body.TotalEmployees)
	}
	if body.AvgSalary <= 0 || body.MedianSalary <= 0 {
		t.Errorf("salary stats = %v/%v", body.AvgSalary, body.MedianSalary)
	}
	if len(body.ByDepartment) == 0 {
		t.Error("by_department is empty")
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/export/sales")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="sales.csv"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	rows, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 25 {
		t.Errorf("got %d rows, want header + 24", len(rows))
	}
}

func TestExportSQL(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/export/stocks?format=sql")
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(string(b), `CREATE TABLE IF NOT EXISTS "stocks"`) {
		t.Errorf("unexpected SQL prefix: %.80s", b)
	}
	if n := strings.Count(string(b), "INSERT INTO"); n != 365*4 {
		t.Errorf("got %d inserts, want %d", n, 365*4)
	}
}

func TestExportUnknownDataset(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/export/payroll")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body models.ErrorResponse
	decode(t, resp, &body)
	if body.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/dataframe/data", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	get(t, srv, "/api/health")
	get(t, srv, "/api/dataframe/stats")

	resp := get(t, srv, "/metrics")
	b, _ := io.ReadAll(resp.Body)
	out := string(b)
	if !strings.Contains(out, `route="/api/health"`) {
		t.Error("request counter for /api/health missing")
	}
	if !strings.Contains(out, `dataapp_dataset_generations_total{dataset="employees"} 1`) {
		t.Error("employee generation not recorded")
	}
}

func TestDataFrameHugePageIsEmpty(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/dataframe/data?page=922337203685477582&page_size=50")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body models.DataFrameResponse
	decode(t, resp, &body)
	if len(body.Data) != 0 || body.Pagination.TotalItems != 100 || body.Pagination.HasNext {
		t.Errorf("data=%d pagination=%+v", len(body.Data), body.Pagination)
	}
}

// brokenWriter accepts headers but fails every body write
type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) WriteHeader(int) {}
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteJSONLogsWriteFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewHandler(nil, nil, logger)

	h.HealthCheck(&brokenWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	out := logs.String()
	if !strings.Contains(out, "failed to write response") || !strings.Contains(out, "connection reset") {
		t.Errorf("write failure not logged: %q", out)
	}
}
