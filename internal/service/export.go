package service

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dataapp-go/internal/models"
	"dataapp-go/internal/state"

	"github.com/lib/pq"
)

// ErrUnknownDataset is returned for export names other than stocks, sales
// and employees
var ErrUnknownDataset = errors.New("unknown dataset")

// column describes one exported field. Numeric columns are written to SQL
// unquoted.
type column struct {
	name    string
	sqlType string
	numeric bool
}

// table is a dataset flattened to string cells
type table struct {
	columns []column
	rows    [][]string
}

// Exporter renders cached datasets as CSV or as a SQL load script
type Exporter struct {
	data Datasets
}

// NewExporter creates an exporter over data
func NewExporter(data Datasets) *Exporter {
	return &Exporter{data: data}
}

// Datasets lists the names accepted by WriteCSV and WriteSQL
func (e *Exporter) Datasets() []string {
	return []string{state.DatasetStocks, state.DatasetSales, state.DatasetEmployees}
}

func (e *Exporter) table(dataset string) (table, error) {
	switch dataset {
	case state.DatasetStocks:
		return stockTable(e.data.Stocks()), nil
	case state.DatasetSales:
		return salesTable(e.data.Sales()), nil
	case state.DatasetEmployees:
		return employeeTable(e.data.Employees()), nil
	default:
		return table{}, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}
}

// WriteCSV writes dataset with a header row
func (e *Exporter) WriteCSV(w io.Writer, dataset string) error {
	t, err := e.table(dataset)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write %s csv: %w", dataset, err)
	}
	return nil
}

// WriteSQL writes a CREATE TABLE statement followed by one INSERT per row.
// Identifiers and text values are quoted for PostgreSQL.
func (e *Exporter) WriteSQL(w io.Writer, dataset string) error {
	t, err := e.table(dataset)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	tableName := pq.QuoteIdentifier(dataset)

	defs := make([]string, len(t.columns))
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = pq.QuoteIdentifier(c.name)
		defs[i] = fmt.Sprintf("    %s %s", names[i], c.sqlType)
	}
	fmt.Fprintf(bw, "CREATE TABLE IF NOT EXISTS %s (\n%s\n);\n\n", tableName, strings.Join(defs, ",\n"))

	columnList := strings.Join(names, ", ")
	values := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, cell := range row {
			if t.columns[i].numeric {
				values[i] = cell
			} else {
				values[i] = pq.QuoteLiteral(cell)
			}
		}
		fmt.Fprintf(bw, "INSERT INTO %s (%s) VALUES (%s);\n", tableName, columnList, strings.Join(values, ", "))
	}

	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stockTable(records []models.StockRecord) table {
	t := table{columns: []column{
		{"date", "DATE", false},
		{"company", "TEXT", false},
		{"price", "NUMERIC(12,2)", true},
		{"volume", "INTEGER", true},
	}}
	for _, r := range records {
		t.rows = append(t.rows, []string{r.Date, r.Company, formatFloat(r.Price), strconv.Itoa(r.Volume)})
	}
	return t
}

func salesTable(records []models.SalesRecord) table {
	t := table{columns: []column{
		{"category", "TEXT", false},
		{"region", "TEXT", false},
		{"sales", "INTEGER", true},
		{"units", "INTEGER", true},
		{"avg_price", "NUMERIC(12,2)", true},
	}}
	for _, r := range records {
		t.rows = append(t.rows, []string{
			r.Category, r.Region, strconv.Itoa(r.Sales), strconv.Itoa(r.Units), formatFloat(r.AvgPrice),
		})
	}
	return t
}

func employeeTable(records []models.EmployeeRecord) table {
	t := table{columns: []column{
		{"id", "INTEGER", true},
		{"name", "TEXT", false},
		{"email", "TEXT", false},
		{"department", "TEXT", false},
		{"position", "TEXT", false},
		{"salary", "INTEGER", true},
		{"hire_date", "DATE", false},
		{"years_employed", "INTEGER", true},
		{"performance_rating", "NUMERIC(3,1)", true},
	}}
	for _, r := range records {
		t.rows = append(t.rows, []string{
			strconv.Itoa(r.ID), r.Name, r.Email, r.Department, r.Position,
			strconv.Itoa(r.Salary), r.HireDate, strconv.Itoa(r.YearsEmployed), formatFloat(r.PerformanceRating),
		})
	}
	return t
}
