package dataset

import (
	"fmt"
	"slices"
	"sync"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/services/forecast"
)

// Definition describes one dashboard dataset: where its records live and how
// it is forecast.
type Definition struct {
	Name        string
	Title       string
	File        string
	PeriodField string
	Granularity domain.Granularity
	Metrics     []string
	Strategy    forecast.Settings

	DefaultHorizon int
	DefaultWindow  int
	// Horizons restricts the horizons a caller may ask for. Empty allows any
	// positive horizon.
	Horizons []int
	// Compound marks rate datasets whose forecast feeds the future price calculator.
	Compound bool
	// Anchor joins the forecast line to the last observed point on charts.
	Anchor bool
}

func (d Definition) Ref() store.DatasetRef {
	return store.DatasetRef{
		Name:        d.Name,
		File:        d.File,
		PeriodField: d.PeriodField,
		Metrics:     slices.Clone(d.Metrics),
	}
}

// ForecastMetrics lists the metrics the dataset strategy produces values for.
func (d Definition) ForecastMetrics() []string {
	out := d.PrimaryMetrics(nil)
	for _, derived := range d.Strategy.Derived {
		out = append(out, derived.Name)
	}
	return out
}

// PrimaryMetrics lists the observed metrics the strategy works on, leaving out
// derived ones. A strategy without explicit metrics falls back to schema minus
// the derived names.
func (d Definition) PrimaryMetrics(schema []string) []string {
	if d.Strategy.Metric != "" {
		return []string{d.Strategy.Metric}
	}
	if len(d.Strategy.Metrics) > 0 {
		return slices.Clone(d.Strategy.Metrics)
	}
	out := make([]string, 0, len(schema))
	for _, metric := range schema {
		if !slices.ContainsFunc(d.Strategy.Derived, func(derived forecast.Difference) bool {
			return derived.Name == metric
		}) {
			out = append(out, metric)
		}
	}
	return out
}

func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if d.File == "" {
		return fmt.Errorf("dataset %s: file is required", d.Name)
	}
	if d.PeriodField == "" {
		return fmt.Errorf("dataset %s: period field is required", d.Name)
	}
	if d.Granularity != domain.GranularityYear && d.Granularity != domain.GranularityDay {
		return fmt.Errorf("dataset %s: unsupported granularity %q", d.Name, d.Granularity)
	}
	if d.Strategy.Kind == "" {
		return fmt.Errorf("dataset %s: strategy is required", d.Name)
	}
	if d.DefaultHorizon < 0 || d.DefaultWindow < 0 {
		return fmt.Errorf("dataset %s: defaults must not be negative", d.Name)
	}
	for _, h := range d.Horizons {
		if h <= 0 {
			return fmt.Errorf("dataset %s: allowed horizon %d is not positive", d.Name, h)
		}
	}
	if d.DefaultHorizon > 0 && len(d.Horizons) > 0 && !slices.Contains(d.Horizons, d.DefaultHorizon) {
		return fmt.Errorf("dataset %s: default horizon %d is not an allowed horizon", d.Name, d.DefaultHorizon)
	}
	return nil
}

// Catalog holds the known datasets in registration order.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	defs  map[string]Definition
}

func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := c.Add(def); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) Add(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.defs[def.Name]; exists {
		return fmt.Errorf("dataset %s is already defined", def.Name)
	}
	c.defs[def.Name] = def
	c.order = append(c.order, def.Name)
	return nil
}

func (c *Catalog) Get(name string) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, name)
	}
	return def, nil
}

func (c *Catalog) List() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Definition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.defs[name])
	}
	return out
}
