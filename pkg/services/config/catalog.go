package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/services/forecast"
	"gopkg.in/ini.v1"
)

// LoadCatalog reads dataset definitions from an ini file, one section per
// dataset:
//
//	[migration]
//	title = Migration
//	file = migration.json
//	period_field = year
//	granularity = year
//	metrics = immigrants, emigrants, netMigration
//	strategy = rolling_average
//	strategy_metrics = immigrants, emigrants
//	derived = netMigration:immigrants-emigrants
//	default_horizon = 3
//	horizons = 1, 3, 5
//	anchor = true
func LoadCatalog(path string) (*dataset.Catalog, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return parseCatalog(cfg)
}

func parseCatalog(cfg *ini.File) (*dataset.Catalog, error) {
	catalog, err := dataset.NewCatalog()
	if err != nil {
		return nil, err
	}

	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		def, err := parseDefinition(section)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", section.Name(), err)
		}
		if err := catalog.Add(def); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func parseDefinition(section *ini.Section) (dataset.Definition, error) {
	granularity, err := domain.ParseGranularity(section.Key("granularity").MustString(string(domain.GranularityYear)))
	if err != nil {
		return dataset.Definition{}, err
	}

	strategy, err := parseStrategy(section)
	if err != nil {
		return dataset.Definition{}, err
	}

	def := dataset.Definition{
		Name:        section.Name(),
		Title:       section.Key("title").MustString(section.Name()),
		File:        section.Key("file").String(),
		PeriodField: section.Key("period_field").MustString("year"),
		Granularity: granularity,
		Metrics:     section.Key("metrics").Strings(","),
		Strategy:    strategy,
		Compound:    section.Key("compound").MustBool(false),
		Anchor:      section.Key("anchor").MustBool(false),
	}

	if def.DefaultHorizon, err = intKey(section, "default_horizon"); err != nil {
		return dataset.Definition{}, err
	}
	if def.DefaultWindow, err = intKey(section, "default_window"); err != nil {
		return dataset.Definition{}, err
	}
	if section.HasKey("horizons") {
		if def.Horizons, err = section.Key("horizons").StrictInts(","); err != nil {
			return dataset.Definition{}, fmt.Errorf("horizons: %w", err)
		}
	}
	return def, nil
}

func parseStrategy(section *ini.Section) (forecast.Settings, error) {
	settings := forecast.Settings{
		Kind:    forecast.Kind(section.Key("strategy").String()),
		Metric:  section.Key("strategy_metric").String(),
		Metrics: section.Key("strategy_metrics").Strings(","),
	}

	var err error
	if section.HasKey("decay_rate") {
		if settings.DecayRate, err = section.Key("decay_rate").Float64(); err != nil {
			return forecast.Settings{}, fmt.Errorf("decay_rate: %w", err)
		}
	}

	// Tuning knobs stay nil when absent so the strategy defaults apply.
	optional := []struct {
		key  string
		dest **float64
	}{
		{"ceiling", &settings.Ceiling},
		{"saturation_rate", &settings.SaturationRate},
		{"low_factor", &settings.LowFactor},
		{"high_factor", &settings.HighFactor},
	}
	for _, f := range optional {
		if !section.HasKey(f.key) {
			continue
		}
		v, err := section.Key(f.key).Float64()
		if err != nil {
			return forecast.Settings{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dest = &v
	}

	if settings.Lookback, err = intKey(section, "lookback"); err != nil {
		return forecast.Settings{}, err
	}

	for _, raw := range section.Key("derived").Strings(",") {
		derived, err := parseDifference(raw)
		if err != nil {
			return forecast.Settings{}, err
		}
		settings.Derived = append(settings.Derived, derived)
	}
	return settings, nil
}

// parseDifference reads "name:minuend-subtrahend".
func parseDifference(raw string) (forecast.Difference, error) {
	name, expr, ok := strings.Cut(raw, ":")
	if !ok {
		return forecast.Difference{}, fmt.Errorf("derived %q: expected name:minuend-subtrahend", raw)
	}
	minuend, subtrahend, ok := strings.Cut(expr, "-")
	if !ok {
		return forecast.Difference{}, fmt.Errorf("derived %q: expected name:minuend-subtrahend", raw)
	}
	return forecast.Difference{
		Name:       strings.TrimSpace(name),
		Minuend:    strings.TrimSpace(minuend),
		Subtrahend: strings.TrimSpace(subtrahend),
	}, nil
}

func intKey(section *ini.Section, key string) (int, error) {
	if !section.HasKey(key) {
		return 0, nil
	}
	v, err := section.Key(key).Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
