package models

// HealthResponse is returned by /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// DateRange bounds the dates covered by a line series
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LineDataResponse is returned by /api/plotting/line-data
type LineDataResponse struct {
	Data      []StockRecord `json:"data"`
	Companies []string      `json:"companies"`
	DateRange DateRange     `json:"date_range"`
}

// BarDataResponse is returned by /api/plotting/bar-data
type BarDataResponse struct {
	Data    []CategoryTotal `json:"data"`
	Regions []string        `json:"regions"`
}

// Pagination describes where a page sits within the filtered result
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes page counts for totalItems split into pages of pageSize
func NewPagination(page, pageSize, totalItems int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// FilterOptions lists the distinct values a client can filter the roster by
type FilterOptions struct {
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`
}

// DataFrameResponse is returned by /api/dataframe/data
type DataFrameResponse struct {
	Data       []EmployeeRecord `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Filters    FilterOptions    `json:"filters"`
}

// DepartmentStats aggregates one department of the roster
type DepartmentStats struct {
	Count          int     `json:"count"`
	AvgSalary      float64 `json:"avg_salary"`
	AvgPerformance float64 `json:"avg_performance"`
}

// EmployeeStats is returned by /api/dataframe/stats
type EmployeeStats struct {
	TotalEmployees   int                        `json:"total_employees"`
	AvgSalary        float64                    `json:"avg_salary"`
	MedianSalary     float64                    `json:"median_salary"`
	AvgYearsEmployed float64                    `json:"avg_years_employed"`
	AvgPerformance   float64                    `json:"avg_performance"`
	ByDepartment     map[string]DepartmentStats `json:"by_department"`
	ByPosition       map[string]int             `json:"by_position"`
}

// ErrorResponse is the envelope for every non-2xx JSON response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}
