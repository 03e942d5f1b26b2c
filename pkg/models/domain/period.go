package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Granularity string

const (
	GranularityYear Granularity = "year"
	GranularityDay  Granularity = "day"
)

func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(raw))) {
	case GranularityYear:
		return GranularityYear, nil
	case GranularityDay, "date":
		return GranularityDay, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", ErrInvalidParameter, raw)
	}
}

// Period is the ordering key of a record: a calendar year or a calendar date.
// The zero value is not a valid period.
type Period struct {
	granularity Granularity
	date        time.Time
}

func YearPeriod(year int) Period {
	return Period{
		granularity: GranularityYear,
		date:        time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func DatePeriod(t time.Time) Period {
	return Period{
		granularity: GranularityDay,
		date:        time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// ParsePeriod reads a 4-digit year or a YYYY-MM-DD date depending on the granularity.
func ParsePeriod(granularity Granularity, raw string) (Period, error) {
	raw = strings.TrimSpace(raw)
	switch granularity {
	case GranularityYear:
		year, err := strconv.Atoi(raw)
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid year %q", ErrInvalidParameter, raw)
		}
		return YearPeriod(year), nil
	case GranularityDay:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return Period{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidParameter, raw)
		}
		return DatePeriod(t), nil
	default:
		return Period{}, fmt.Errorf("%w: unknown granularity %q", ErrInvalidParameter, granularity)
	}
}

func (p Period) Granularity() Granularity {
	return p.granularity
}

func (p Period) IsZero() bool {
	return p.granularity == ""
}

func (p Period) Year() int {
	return p.date.Year()
}

func (p Period) Time() time.Time {
	return p.date
}

// Next returns the period k steps after p (year+k or date+k days).
func (p Period) Next(k int) Period {
	switch p.granularity {
	case GranularityYear:
		return YearPeriod(p.date.Year() + k)
	case GranularityDay:
		return DatePeriod(p.date.AddDate(0, 0, k))
	default:
		return p
	}
}

func (p Period) Before(other Period) bool {
	return p.date.Before(other.date)
}

func (p Period) Equal(other Period) bool {
	return p.granularity == other.granularity && p.date.Equal(other.date)
}

// Weekday is only meaningful for date periods.
func (p Period) Weekday() time.Weekday {
	return p.date.Weekday()
}

func (p Period) IsWeekend() bool {
	if p.granularity != GranularityDay {
		return false
	}
	day := p.date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func (p Period) String() string {
	switch p.granularity {
	case GranularityYear:
		return strconv.Itoa(p.date.Year())
	case GranularityDay:
		return p.date.Format(DateLayout)
	default:
		return ""
	}
}

func (p Period) MarshalJSON() ([]byte, error) {
	switch p.granularity {
	case GranularityYear:
		return json.Marshal(p.date.Year())
	case GranularityDay:
		return json.Marshal(p.date.Format(DateLayout))
	default:
		return []byte("null"), nil
	}
}

func (p *Period) UnmarshalJSON(data []byte) error {
	var year int
	if err := json.Unmarshal(data, &year); err == nil {
		*p = YearPeriod(year)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("period must be a year or a date: %w", err)
	}

	granularity := GranularityDay
	if _, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		granularity = GranularityYear
	}

	parsed, err := ParsePeriod(granularity, raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
