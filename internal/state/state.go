package state

import (
	"context"
	"sync"
	"time"

	"dataapp-go/internal/config"
	"dataapp-go/internal/models"
	"dataapp-go/internal/sampledata"

	"golang.org/x/sync/errgroup"
)

// Dataset names used in logs, metrics and export routes
const (
	DatasetStocks    = "stocks"
	DatasetSales     = "sales"
	DatasetEmployees = "employees"
)

// GenerationObserver is told about every dataset generation
type GenerationObserver func(dataset string, rows int, took time.Duration)

// lazySlice is a slice filled once on first access
type lazySlice[T any] struct {
	mu   sync.RWMutex
	data []T
}

// get returns the cached slice, calling fill under the write lock if it is
// still empty. fill must return a non-nil slice.
func (l *lazySlice[T]) get(fill func() []T) []T {
	l.mu.RLock()
	data := l.data
	l.mu.RUnlock()
	if data != nil {
		return data
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.data == nil {
		l.data = fill()
	}
	return l.data
}

// DatasetCache holds the generated datasets for the lifetime of the process.
// Each dataset is generated at most once; the returned slices are shared and
// must be treated as read-only.
type DatasetCache struct {
	gen      *sampledata.Generator
	cfg      config.DatasetConfig
	observer GenerationObserver

	stocks    lazySlice[models.StockRecord]
	sales     lazySlice[models.SalesRecord]
	employees lazySlice[models.EmployeeRecord]
}

// Option configures a DatasetCache
type Option func(*DatasetCache)

// WithObserver registers a callback invoked after each generation
func WithObserver(fn GenerationObserver) Option {
	return func(c *DatasetCache) {
		c.observer = fn
	}
}

// NewDatasetCache creates an empty cache; nothing is generated until first use
func NewDatasetCache(gen *sampledata.Generator, cfg config.DatasetConfig, opts ...Option) *DatasetCache {
	c := &DatasetCache{gen: gen, cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stocks returns the stock series, generating it on first call
func (c *DatasetCache) Stocks() []models.StockRecord {
	return c.stocks.get(func() []models.StockRecord {
		start := time.Now()
		data := c.gen.StockSeries(c.cfg.StockDays, c.cfg.Seed)
		c.notify(DatasetStocks, len(data), time.Since(start))
		return data
	})
}

// Sales returns the sales table, generating it on first call
func (c *DatasetCache) Sales() []models.SalesRecord {
	return c.sales.get(func() []models.SalesRecord {
		start := time.Now()
		data := c.gen.SalesTable(c.cfg.Seed)
		c.notify(DatasetSales, len(data), time.Since(start))
		return data
	})
}

// Employees returns the roster, generating it on first call
func (c *DatasetCache) Employees() []models.EmployeeRecord {
	return c.employees.get(func() []models.EmployeeRecord {
		start := time.Now()
		data := c.gen.EmployeeRoster(c.cfg.Employees, c.cfg.Seed)
		c.notify(DatasetEmployees, len(data), time.Since(start))
		return data
	})
}

// Warm generates every dataset up front, one goroutine per dataset.
func (c *DatasetCache) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	fills := []func(){
		func() { c.Stocks() },
		func() { c.Sales() },
		func() { c.Employees() },
	}
	for _, fill := range fills {
		fill := fill
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fill()
			return nil
		})
	}
	return g.Wait()
}

func (c *DatasetCache) notify(dataset string, rows int, took time.Duration) {
	if c.observer != nil {
		c.observer(dataset, rows, took)
	}
}
