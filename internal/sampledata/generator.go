// Package sampledata synthesizes the demo datasets served by the API. Every
// dataset is a pure function of its seed, its size parameters and the
// generator's clock.
package sampledata

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dataapp-go/internal/analysis"
	"dataapp-go/internal/models"
)

// DefaultSeed is used when no seed is configured.
const DefaultSeed int64 = 42

var (
	stockCompanies  = []string{"ACME Corp", "TechGiant", "GreenEnergy", "HealthPlus"}
	stockBasePrices = []float64{100, 250, 75, 150}

	salesCategories = []string{"Electronics", "Clothing", "Food & Beverage", "Home & Garden", "Sports", "Books"}
	salesRegions    = []string{"North", "South", "East", "West"}

	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer",
		"Michael", "Linda", "William", "Elizabeth", "David", "Barbara",
		"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
	}
	departments     = []string{"Engineering", "Sales", "Marketing", "HR", "Finance", "Operations"}
	positions       = []string{"Junior", "Mid-level", "Senior", "Lead", "Manager", "Director"}
	positionWeights = []float64{0.2, 0.3, 0.25, 0.12, 0.08, 0.05}

	positionBaseSalary = map[string]float64{
		"Junior":    50000,
		"Mid-level": 70000,
		"Senior":    90000,
		"Lead":      110000,
		"Manager":   130000,
		"Director":  160000,
	}
)

// Generator produces the sample datasets
type Generator struct {
	now func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithClock fixes the generator's notion of "today".
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a generator that dates records relative to the wall clock
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) today() time.Time {
	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StockSeries simulates a multiplicative random walk per company over the
// days consecutive calendar days ending today. Records are ordered by
// company, then date.
func (g *Generator) StockSeries(days int, seed int64) []models.StockRecord {
	if days <= 0 {
		return []models.StockRecord{}
	}
	src := newSource(seed)

	today := g.today()
	dates := make([]string, days)
	for i := 0; i < days; i++ {
		dates[i] = today.AddDate(0, 0, i-(days-1)).Format(models.DateLayout)
	}

	records := make([]models.StockRecord, 0, days*len(stockCompanies))
	for c, company := range stockCompanies {
		prices := make([]float64, days)
		prices[0] = stockBasePrices[c]
		for t := 1; t < days; t++ {
			change := src.normal(0.001, 0.02)
			prices[t] = math.Max(prices[t-1]*(1+change), 1)
		}

		for t, date := range dates {
			records = append(records, models.StockRecord{
				Date:    date,
				Company: company,
				Price:   analysis.Round(prices[t], 2),
				Volume:  int(src.uniform(100000, 1000000)),
			})
		}
	}
	return records
}

// SalesTable produces one record for every (category, region) pair.
func (g *Generator) SalesTable(seed int64) []models.SalesRecord {
	src := newSource(seed)

	records := make([]models.SalesRecord, 0, len(salesCategories)*len(salesRegions))
	for _, category := range salesCategories {
		for _, region := range salesRegions {
			sales := int(src.uniform(50000, 500000))
			units := int(src.uniform(1000, 10000))
			records = append(records, models.SalesRecord{
				Category: category,
				Region:   region,
				Sales:    sales,
				Units:    units,
				AvgPrice: analysis.Round(float64(sales)/float64(units), 2),
			})
		}
	}
	return records
}

// EmployeeRoster produces count employees with 1-based ids.
func (g *Generator) EmployeeRoster(count int, seed int64) []models.EmployeeRecord {
	if count <= 0 {
		return []models.EmployeeRecord{}
	}
	src := newSource(seed)
	today := g.today()

	records := make([]models.EmployeeRecord, 0, count)
	for i := 0; i < count; i++ {
		first := src.choice(firstNames)
		last := src.choice(lastNames)
		dept := src.choice(departments)
		position := src.weightedChoice(positions, positionWeights)

		salary := int(math.Round(positionBaseSalary[position] * src.uniform(0.9, 1.2)))
		years := int(math.Max(0, math.Round(src.normal(5, 3))))
		rating := analysis.Round(src.uniform(2.5, 5.0), 1)
		hireDate := today.AddDate(0, 0, -(years*365 + src.intn(365)))

		records = append(records, models.EmployeeRecord{
			ID:                i + 1,
			Name:              first + " " + last,
			Email:             fmt.Sprintf("%s.%s%d@company.com", strings.ToLower(first), strings.ToLower(last), i),
			Department:        dept,
			Position:          position,
			Salary:            salary,
			HireDate:          hireDate.Format(models.DateLayout),
			YearsEmployed:     years,
			PerformanceRating: rating,
		})
	}
	return records
}
