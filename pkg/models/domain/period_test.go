package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_Next(t *testing.T) {
	assert.Equal(t, "2023", YearPeriod(2020).Next(3).String())

	p, err := ParsePeriod(GranularityDay, "2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", p.Next(1).String())
	assert.Equal(t, "2024-03-01", p.Next(2).String())
}

func TestParsePeriod_Invalid(t *testing.T) {
	_, err := ParsePeriod(GranularityYear, "twenty")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ParsePeriod(GranularityDay, "2024/01/01")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ParsePeriod("week", "1")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPeriod_Ordering(t *testing.T) {
	a := YearPeriod(2020)
	b := YearPeriod(2021)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, a.Equal(YearPeriod(2020)))
}

func TestPeriod_IsWeekend(t *testing.T) {
	saturday := DatePeriod(time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC))
	monday := saturday.Next(2)

	assert.True(t, saturday.IsWeekend())
	assert.True(t, saturday.Next(1).IsWeekend())
	assert.False(t, monday.IsWeekend())
	assert.False(t, YearPeriod(2024).IsWeekend())
}

func TestPeriod_JSON(t *testing.T) {
	data, err := json.Marshal([]Period{YearPeriod(2020), DatePeriod(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.JSONEq(t, `[2020, "2024-01-05"]`, string(data))

	var decoded []Period
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded[0].Equal(YearPeriod(2020)))
	assert.Equal(t, GranularityDay, decoded[1].Granularity())
}

func TestPeriod_UnmarshalQuoted(t *testing.T) {
	var decoded []Period
	require.NoError(t, json.Unmarshal([]byte(`["2020", " 2021 ", "2024-01-05"]`), &decoded))

	require.Len(t, decoded, 3)
	assert.True(t, decoded[0].Equal(YearPeriod(2020)))
	assert.True(t, decoded[1].Equal(YearPeriod(2021)))
	assert.Equal(t, "2024-01-05", decoded[2].String())

	var bad Period
	assert.ErrorIs(t, json.Unmarshal([]byte(`"2020-13-01"`), &bad), ErrInvalidParameter)
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestCombinedSeries_Split(t *testing.T) {
	combined := CombinedSeries{
		{Record: Record{Period: YearPeriod(2020)}},
		{Record: Record{Period: YearPeriod(2021)}},
		{Record: Record{Period: YearPeriod(2022)}, IsForecast: true},
	}

	assert.Len(t, combined.Historical(), 2)
	assert.Len(t, combined.Forecast(), 1)
	assert.Len(t, combined.Periods(), 3)
}
