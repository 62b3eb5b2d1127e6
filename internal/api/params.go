package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"dataapp-go/internal/service"
)

// Query parameter bounds
const (
	MinLineDays     = 7
	MaxLineDays     = 365
	DefaultLineDays = 90

	MinPageSize     = 5
	MaxPageSize     = 50
	DefaultPageSize = 10
)

// ValidationError rejects a request parameter before it reaches the query service
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseLineQuery reads company and days for /api/plotting/line-data
func ParseLineQuery(r *http.Request) (service.LineQuery, error) {
	query := r.URL.Query()

	days, err := intParam(query.Get("days"), "days", DefaultLineDays, MinLineDays, MaxLineDays)
	if err != nil {
		return service.LineQuery{}, err
	}

	return service.LineQuery{
		Company: query.Get("company"),
		Days:    days,
	}, nil
}

// ParseEmployeeQuery reads paging, sorting and filter parameters for
// /api/dataframe/data
func ParseEmployeeQuery(r *http.Request) (service.EmployeeQuery, error) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"), "page", 1, 1, 0)
	if err != nil {
		return service.EmployeeQuery{}, err
	}
	pageSize, err := intParam(query.Get("page_size"), "page_size", DefaultPageSize, MinPageSize, MaxPageSize)
	if err != nil {
		return service.EmployeeQuery{}, err
	}

	order := service.SortOrder(query.Get("sort_order"))
	switch order {
	case "":
		order = service.SortAsc
	case service.SortAsc, service.SortDesc:
	default:
		return service.EmployeeQuery{}, &ValidationError{Field: "sort_order", Message: "must be 'asc' or 'desc'"}
	}

	match := service.MatchMode(query.Get("match"))
	switch match {
	case "":
		match = service.MatchSubstring
	case service.MatchSubstring, service.MatchFuzzy:
	default:
		return service.EmployeeQuery{}, &ValidationError{Field: "match", Message: "must be 'substring' or 'fuzzy'"}
	}

	return service.EmployeeQuery{
		Page:       page,
		PageSize:   pageSize,
		SortBy:     query.Get("sort_by"),
		SortOrder:  order,
		Department: query.Get("department"),
		Search:     query.Get("search"),
		Match:      match,
	}, nil
}

// intParam parses an integer parameter, applying def when absent. hi <= 0
// means unbounded above.
func intParam(raw, name string, def, lo, hi int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: "must be an integer"}
	}
	if val < lo {
		return 0, &ValidationError{Field: name, Message: fmt.Sprintf("must be >= %d", lo)}
	}
	if hi > 0 && val > hi {
		return 0, &ValidationError{Field: name, Message: fmt.Sprintf("must be <= %d", hi)}
	}
	return val, nil
}
