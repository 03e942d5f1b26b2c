package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Source reads datasets stored as JSON arrays of flat objects, one object per
// period. Non-numeric fields other than the period field are ignored.
type Source struct {
	dir string
}

func NewSource(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dir)
	}
	return &Source{dir: dir}, nil
}

func (s *Source) Dir() string {
	return s.dir
}

func (s *Source) Load(ctx context.Context, ref store.DatasetRef) ([]store.SeriesRecord, error) {
	path := ref.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", ref.Name, err)
	}
	defer f.Close()

	records, err := Decode(f, ref)
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", ref.Name, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("dataset", ref.Name).
		Str("file", path).
		Int("records", len(records)).
		Msg("loaded dataset file")
	return records, nil
}

// Decode parses a JSON array of objects. When ref.Metrics is empty every
// numeric field except the period field becomes a metric.
func Decode(r io.Reader, ref store.DatasetRef) ([]store.SeriesRecord, error) {
	if ref.PeriodField == "" {
		return nil, fmt.Errorf("period field is not configured")
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	records := make([]store.SeriesRecord, 0, len(raw))
	for i, obj := range raw {
		period, err := periodOf(obj[ref.PeriodField])
		if err != nil {
			return nil, fmt.Errorf("record %d: field %q: %w", i, ref.PeriodField, err)
		}

		metrics := make(map[string]float64)
		for key, value := range obj {
			if key == ref.PeriodField {
				continue
			}
			if len(ref.Metrics) > 0 && !slices.Contains(ref.Metrics, key) {
				continue
			}
			n, ok := value.(json.Number)
			if !ok {
				if len(ref.Metrics) > 0 {
					return nil, fmt.Errorf("record %s: metric %q is not a number", period, key)
				}
				continue
			}
			v, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("record %s: metric %q: %w", period, key, err)
			}
			metrics[key] = v
		}

		for _, metric := range ref.Metrics {
			if _, ok := metrics[metric]; !ok {
				return nil, fmt.Errorf("record %s: missing metric %q", period, metric)
			}
		}

		records = append(records, store.SeriesRecord{Period: period, Metrics: metrics})
	}
	return records, nil
}

func periodOf(value any) (string, error) {
	switch v := value.(type) {
	case json.Number:
		year, err := strconv.Atoi(v.String())
		if err != nil {
			return "", fmt.Errorf("not an integer year: %s", v)
		}
		return strconv.Itoa(year), nil
	case string:
		if v == "" {
			return "", fmt.Errorf("empty period")
		}
		return v, nil
	case nil:
		return "", fmt.Errorf("missing period")
	default:
		return "", fmt.Errorf("unsupported period type %T", value)
	}
}

// Encode writes records in the same flat layout Decode reads.
func Encode(w io.Writer, periodField string, records []store.SeriesRecord) error {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		obj := make(map[string]any, len(record.Metrics)+1)
		for key, value := range record.Metrics {
			obj[key] = value
		}
		if year, err := strconv.Atoi(record.Period); err == nil {
			obj[periodField] = year
		} else {
			obj[periodField] = record.Period
		}
		out = append(out, obj)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
