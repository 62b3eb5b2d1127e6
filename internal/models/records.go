package models

// DateLayout is the calendar-day format used for every date field.
const DateLayout = "2006-01-02"

// StockRecord is one day of one company's simulated price series
type StockRecord struct {
	Date    string  `json:"date"`
	Company string  `json:"company"`
	Price   float64 `json:"price"`
	Volume  int     `json:"volume"`
}

// SalesRecord is the sales figure for a single (category, region) pair
type SalesRecord struct {
	Category string  `json:"category"`
	Region   string  `json:"region"`
	Sales    int     `json:"sales"`
	Units    int     `json:"units"`
	AvgPrice float64 `json:"avg_price"`
}

// EmployeeRecord is one row of the generated roster
type EmployeeRecord struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Department        string  `json:"department"`
	Position          string  `json:"position"`
	Salary            int     `json:"salary"`
	HireDate          string  `json:"hire_date"`
	YearsEmployed     int     `json:"years_employed"`
	PerformanceRating float64 `json:"performance_rating"`
}

// CategoryTotal is the per-category sum returned by the bar chart endpoint
type CategoryTotal struct {
	Category string `json:"category"`
	Sales    int    `json:"sales"`
	Units    int    `json:"units"`
}
