package service

import (
	"cmp"
	"slices"
	"strings"

	"dataapp-go/internal/models"

	"github.com/sahilm/fuzzy"
)

// ============================================================================
// Filter / sort / paginate building blocks for the employee roster.
// None of them modify their input slice.
// ============================================================================

// SortOrder is the direction of an employee sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MatchMode selects how the search term is applied
type MatchMode string

const (
	MatchSubstring MatchMode = "substring"
	MatchFuzzy     MatchMode = "fuzzy"
)

type employeeCompare func(a, b *models.EmployeeRecord) int

// employeeSortFields maps every sortable column to its natural ordering
var employeeSortFields = map[string]employeeCompare{
	"id":                 func(a, b *models.EmployeeRecord) int { return cmp.Compare(a.ID, b.ID) },
	"name":               func(a, b *models.EmployeeRecord) int { return strings.Compare(a.Name, b.Name) },
	"email":              func(a, b *models.EmployeeRecord) int { return strings.Compare(a.Email, b.Email) },
	"department":         func(a, b *models.EmployeeRecord) int { return strings.Compare(a.Department, b.Department) },
	"position":           func(a, b *models.EmployeeRecord) int { return strings.Compare(a.Position, b.Position) },
	"salary":             func(a, b *models.EmployeeRecord) int { return cmp.Compare(a.Salary, b.Salary) },
	"hire_date":          func(a, b *models.EmployeeRecord) int { return strings.Compare(a.HireDate, b.HireDate) },
	"years_employed":     func(a, b *models.EmployeeRecord) int { return cmp.Compare(a.YearsEmployed, b.YearsEmployed) },
	"performance_rating": func(a, b *models.EmployeeRecord) int { return cmp.Compare(a.PerformanceRating, b.PerformanceRating) },
}

// IsSortField reports whether field names a sortable employee column
func IsSortField(field string) bool {
	_, ok := employeeSortFields[field]
	return ok
}

// FilterByDepartment keeps employees whose department equals dept exactly.
// An empty dept keeps everyone.
func FilterByDepartment(records []models.EmployeeRecord, dept string) []models.EmployeeRecord {
	if dept == "" {
		return records
	}
	out := make([]models.EmployeeRecord, 0, len(records))
	for _, r := range records {
		if r.Department == dept {
			out = append(out, r)
		}
	}
	return out
}

// FilterBySearch keeps employees whose name or email contains term,
// ignoring case. An empty term keeps everyone.
func FilterBySearch(records []models.EmployeeRecord, term string) []models.EmployeeRecord {
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)
	out := make([]models.EmployeeRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) || strings.Contains(strings.ToLower(r.Email), needle) {
			out = append(out, r)
		}
	}
	return out
}

// employeeSearchSource implements fuzzy.Source over name and email
type employeeSearchSource []models.EmployeeRecord

func (s employeeSearchSource) String(i int) string {
	return s[i].Name + " " + s[i].Email
}

func (s employeeSearchSource) Len() int {
	return len(s)
}

// FilterByFuzzy keeps employees whose name or email fuzzily matches term.
// Matches keep roster order rather than score order so a later sort and the
// pagination behave as they do for substring search.
func FilterByFuzzy(records []models.EmployeeRecord, term string) []models.EmployeeRecord {
	if term == "" {
		return records
	}
	matches := fuzzy.FindFrom(term, employeeSearchSource(records))

	indices := make([]int, len(matches))
	for i, m := range matches {
		indices[i] = m.Index
	}
	slices.Sort(indices)

	out := make([]models.EmployeeRecord, len(indices))
	for i, idx := range indices {
		out[i] = records[idx]
	}
	return out
}

// SortEmployees returns a stably sorted copy of records. Unknown fields leave
// the order unchanged and report false.
func SortEmployees(records []models.EmployeeRecord, field string, order SortOrder) ([]models.EmployeeRecord, bool) {
	compare, ok := employeeSortFields[field]
	if !ok {
		return records, false
	}

	sorted := slices.Clone(records)
	if order == SortDesc {
		slices.SortStableFunc(sorted, func(a, b models.EmployeeRecord) int { return compare(&b, &a) })
	} else {
		slices.SortStableFunc(sorted, func(a, b models.EmployeeRecord) int { return compare(&a, &b) })
	}
	return sorted, true
}

// Paginate slices out page (1-based) of size pageSize. Pages past the end
// come back empty, not as an error.
func Paginate[T any](items []T, page, pageSize int) ([]T, models.Pagination) {
	meta := models.NewPagination(page, pageSize, len(items))
	// page <= TotalPages keeps (page-1)*pageSize within range.
	if page < 1 || pageSize < 1 || page > meta.TotalPages {
		return []T{}, meta
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end], meta
}

// Distinct returns the distinct values of key in first-seen order
func Distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, item := range items {
		k := key(item)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
