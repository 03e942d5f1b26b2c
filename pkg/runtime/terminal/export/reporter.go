package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
)

type TableConfig struct {
	LabelWidth int
	ValueWidth int
	Precision  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 14,
		ValueWidth: 16,
		Precision:  2,
	}
}

// table is the view rendered by tableTemplate. Rows hold preformatted cells;
// the first cell of each row is the label column.
type table struct {
	Title  string
	Notes  []string
	Header []string
	Rows   [][]string
	Footer []string
}

const tableTemplate = `
{{.Title}}
{{range .Notes}}{{.}}
{{end}}
{{separator .Header}}
{{formatRow .Header}}
{{separator .Header}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator .Header}}
{{range .Footer}}{{.}}
{{end}}`

type Reporter struct {
	writer io.Writer
	config TableConfig
	tmpl   *template.Template
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	r := &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
	r.tmpl = template.Must(template.New("table").Funcs(r.funcMap()).Parse(tableTemplate))
	return r
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(cells []string) string {
			var b strings.Builder
			b.WriteString("|")
			for i, cell := range cells {
				fmt.Fprintf(&b, " %-*s |", c.width(i), cell)
			}
			return b.String()
		},
		"separator": func(cells []string) string {
			var b strings.Builder
			b.WriteString("+")
			for i := range cells {
				b.WriteString(strings.Repeat("-", c.width(i)+2))
				b.WriteString("+")
			}
			return b.String()
		},
	}
}

func (c *Reporter) width(column int) int {
	if column == 0 {
		return c.config.LabelWidth
	}
	return c.config.ValueWidth
}

func (c *Reporter) number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', c.config.Precision, 64)
}

func (c *Reporter) render(t table) error {
	if err := c.tmpl.Execute(c.writer, t); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func (c *Reporter) Datasets(defs []dataset.Definition) error {
	t := table{
		Title:  "Datasets",
		Header: []string{"Name", "Granularity", "Strategy", "Horizon"},
	}
	for _, def := range defs {
		t.Rows = append(t.Rows, []string{
			def.Name,
			string(def.Granularity),
			string(def.Strategy.Kind),
			strconv.Itoa(def.DefaultHorizon),
		})
	}
	return c.render(t)
}

// Forecast prints the combined series; forecast rows are marked with "*".
func (c *Reporter) Forecast(report *domain.ForecastReport) error {
	metrics := metricsOf(report.Combined)
	t := table{
		Title: titleOf(report.Title, report.Dataset),
		Notes: []string{
			fmt.Sprintf("Strategy: %s, horizon %d, window %d", report.Strategy, report.Horizon, report.WindowSize),
		},
		Header: append([]string{"Period"}, metrics...),
	}

	for _, p := range report.Combined {
		label := p.Period.String()
		if p.IsForecast {
			label += " *"
		}
		row := []string{label}
		for _, metric := range metrics {
			row = append(row, c.number(p.Value(metric)))
		}
		t.Rows = append(t.Rows, row)
	}

	if len(report.Combined.Forecast()) == 0 {
		t.Footer = append(t.Footer, "History is too short for a forecast.")
	} else {
		t.Footer = append(t.Footer, "* forecast")
	}
	if report.FuturePrice != nil {
		t.Footer = append(t.Footer, "Future price: "+c.number(*report.FuturePrice))
	}
	return c.render(t)
}

func (c *Reporter) Changes(report *domain.ChangeReport) error {
	t := table{
		Title:  fmt.Sprintf("%s: %s changes", report.Dataset, report.Metric),
		Header: []string{"Period", "Delta", "Percent"},
		Footer: []string{
			"Largest increase: " + c.number(report.MaxDelta),
			"Largest decrease: " + c.number(report.MinDelta),
		},
	}
	for i, period := range report.Periods {
		t.Rows = append(t.Rows, []string{
			period.String(),
			c.number(report.Deltas[i]),
			c.number(report.PercentChanges[i]),
		})
	}
	return c.render(t)
}

func (c *Reporter) Summary(report *domain.SummaryReport) error {
	t := table{
		Title: titleOf(report.Title, report.Dataset),
		Notes: []string{
			fmt.Sprintf("%d records from %s to %s", report.Records, report.First, report.Last),
		},
		Header: []string{"Metric", "Min", "Max", "Mean", "Total"},
	}
	for _, m := range report.Metrics {
		t.Rows = append(t.Rows, []string{m.Metric, c.number(m.Min), c.number(m.Max), c.number(m.Mean), c.number(m.Total)})
	}

	weekend := make([]string, 0, len(report.WeekendSums))
	for metric := range report.WeekendSums {
		weekend = append(weekend, metric)
	}
	slices.Sort(weekend)
	for _, metric := range weekend {
		t.Footer = append(t.Footer, fmt.Sprintf("Weekend %s: %s", metric, c.number(report.WeekendSums[metric])))
	}
	if report.MaxAbsPercentChange != nil {
		t.Footer = append(t.Footer, "Largest change: "+c.number(*report.MaxAbsPercentChange)+"%")
	}
	return c.render(t)
}

func titleOf(title, name string) string {
	if title != "" {
		return title
	}
	return name
}

func metricsOf(combined domain.CombinedSeries) []string {
	seen := make(map[string]struct{})
	for _, p := range combined {
		for metric := range p.Metrics {
			seen[metric] = struct{}{}
		}
	}
	metrics := make([]string, 0, len(seen))
	for metric := range seen {
		metrics = append(metrics, metric)
	}
	slices.Sort(metrics)
	return metrics
}
