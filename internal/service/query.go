package service

import (
	"log/slog"
	"sort"

	"dataapp-go/internal/analysis"
	"dataapp-go/internal/metrics"
	"dataapp-go/internal/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Datasets is the read-only view of the cached datasets the queries run over
type Datasets interface {
	Stocks() []models.StockRecord
	Sales() []models.SalesRecord
	Employees() []models.EmployeeRecord
}

// LineQuery selects a window of the stock series
type LineQuery struct {
	Company string
	Days    int
}

// EmployeeQuery selects one page of the filtered, sorted roster
type EmployeeQuery struct {
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  SortOrder
	Department string
	Search     string
	Match      MatchMode
}

// viewKey identifies a filtered+sorted roster view; paging is not part of it
type viewKey struct {
	department string
	search     string
	match      MatchMode
	sortBy     string
	sortOrder  SortOrder
}

// QueryService answers the plotting and data-table queries
type QueryService struct {
	data    Datasets
	views   *lru.Cache[viewKey, []models.EmployeeRecord]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewQueryService creates a query service. viewCacheSize <= 0 disables view
// caching; m may be nil.
func NewQueryService(data Datasets, viewCacheSize int, m *metrics.Metrics, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &QueryService{data: data, metrics: m, logger: logger}
	if viewCacheSize > 0 {
		views, err := lru.New[viewKey, []models.EmployeeRecord](viewCacheSize)
		if err == nil {
			s.views = views
		}
	}
	return s
}

// LineSeries returns the records falling on the q.Days most recent distinct
// dates, optionally restricted to one company. An unknown company yields no
// records, not an error.
func (s *QueryService) LineSeries(q LineQuery) models.LineDataResponse {
	stocks := s.data.Stocks()

	dates := Distinct(stocks, func(r models.StockRecord) string { return r.Date })
	sort.Strings(dates)
	if q.Days >= 0 && len(dates) > q.Days {
		dates = dates[len(dates)-q.Days:]
	}

	window := make(map[string]bool, len(dates))
	for _, d := range dates {
		window[d] = true
	}

	records := make([]models.StockRecord, 0)
	for _, r := range stocks {
		if !window[r.Date] {
			continue
		}
		if q.Company != "" && r.Company != q.Company {
			continue
		}
		records = append(records, r)
	}

	resp := models.LineDataResponse{
		Data:      records,
		Companies: Distinct(stocks, func(r models.StockRecord) string { return r.Company }),
	}
	if len(dates) > 0 {
		resp.DateRange = models.DateRange{Start: dates[0], End: dates[len(dates)-1]}
	}
	return resp
}

// BarAggregate sums sales and units per category, optionally within a single
// region. Categories come back in lexical order.
func (s *QueryService) BarAggregate(region string) models.BarDataResponse {
	sales := s.data.Sales()

	rows := sales
	if region != "" {
		rows = make([]models.SalesRecord, 0, len(sales))
		for _, r := range sales {
			if r.Region == region {
				rows = append(rows, r)
			}
		}
	}

	groups, categories := analysis.GroupBy(rows, func(r models.SalesRecord) string { return r.Category })
	sort.Strings(categories)

	totals := make([]models.CategoryTotal, 0, len(categories))
	for _, category := range categories {
		total := models.CategoryTotal{Category: category}
		for _, r := range groups[category] {
			total.Sales += r.Sales
			total.Units += r.Units
		}
		totals = append(totals, total)
	}

	return models.BarDataResponse{
		Data:    totals,
		Regions: Distinct(sales, func(r models.SalesRecord) string { return r.Region }),
	}
}

// EmployeePage filters, sorts and pages the roster. The filter options are
// always drawn from the full roster.
func (s *QueryService) EmployeePage(q EmployeeQuery) models.DataFrameResponse {
	roster := s.data.Employees()
	view := s.employeeView(roster, q)

	page, meta := Paginate(view, q.Page, q.PageSize)

	return models.DataFrameResponse{
		Data:       page,
		Pagination: meta,
		Filters: models.FilterOptions{
			Departments: Distinct(roster, func(e models.EmployeeRecord) string { return e.Department }),
			Positions:   Distinct(roster, func(e models.EmployeeRecord) string { return e.Position }),
		},
	}
}

// EmployeeStats summarizes the full roster
func (s *QueryService) EmployeeStats() models.EmployeeStats {
	return analysis.EmployeeStats(s.data.Employees())
}

func (s *QueryService) employeeView(roster []models.EmployeeRecord, q EmployeeQuery) []models.EmployeeRecord {
	key := viewKey{
		department: q.Department,
		search:     q.Search,
		match:      q.Match,
		sortBy:     q.SortBy,
		sortOrder:  q.SortOrder,
	}
	if s.views != nil {
		if view, ok := s.views.Get(key); ok {
			s.metrics.ViewCacheHit()
			return view
		}
		s.metrics.ViewCacheMiss()
	}

	view := FilterByDepartment(roster, q.Department)
	if q.Match == MatchFuzzy {
		view = FilterByFuzzy(view, q.Search)
	} else {
		view = FilterBySearch(view, q.Search)
	}
	if q.SortBy != "" {
		var sorted bool
		view, sorted = SortEmployees(view, q.SortBy, q.SortOrder)
		if !sorted {
			s.logger.Debug("ignoring unknown sort field", slog.String("sort_by", q.SortBy))
		}
	}

	if s.views != nil {
		s.views.Add(key, view)
	}
	return view
}
