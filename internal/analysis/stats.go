package analysis

import (
	"math"
	"sort"

	"dataapp-go/internal/models"
)

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Mean returns the arithmetic mean of vals, or 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Median returns the middle value of vals (mean of the two middle values for
// an even count), or 0 for an empty slice. vals is not modified.
func Median(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// GroupBy buckets items by key, keeping first-seen key order in the returned slice.
func GroupBy[T any, K comparable](items []T, key func(T) K) (map[K][]T, []K) {
	groups := make(map[K][]T)
	order := make([]K, 0)
	for _, item := range items {
		k := key(item)
		if _, exists := groups[k]; !exists {
			order = append(order, k)
		}
		groups[k] = append(groups[k], item)
	}
	return groups, order
}

// EmployeeStats summarizes a roster. An empty roster yields zero averages and
// empty group maps.
func EmployeeStats(roster []models.EmployeeRecord) models.EmployeeStats {
	stats := models.EmployeeStats{
		TotalEmployees: len(roster),
		ByDepartment:   make(map[string]models.DepartmentStats),
		ByPosition:     make(map[string]int),
	}
	if len(roster) == 0 {
		return stats
	}

	salaries := make([]float64, len(roster))
	years := make([]float64, len(roster))
	ratings := make([]float64, len(roster))
	for i, e := range roster {
		salaries[i] = float64(e.Salary)
		years[i] = float64(e.YearsEmployed)
		ratings[i] = e.PerformanceRating
	}

	stats.AvgSalary = Round(Mean(salaries), 2)
	stats.MedianSalary = Round(Median(salaries), 2)
	stats.AvgYearsEmployed = Round(Mean(years), 1)
	stats.AvgPerformance = Round(Mean(ratings), 2)

	byDept, _ := GroupBy(roster, func(e models.EmployeeRecord) string { return e.Department })
	for dept, members := range byDept {
		deptSalaries := make([]float64, len(members))
		deptRatings := make([]float64, len(members))
		for i, e := range members {
			deptSalaries[i] = float64(e.Salary)
			deptRatings[i] = e.PerformanceRating
		}
		stats.ByDepartment[dept] = models.DepartmentStats{
			Count:          len(members),
			AvgSalary:      Round(Mean(deptSalaries), 2),
			AvgPerformance: Round(Mean(deptRatings), 2),
		}
	}

	for _, e := range roster {
		stats.ByPosition[e.Position]++
	}

	return stats
}
