package statistics

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendancestats/internal/sites"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event(t *testing.T, date, weekday string, entries int) Event {
	t.Helper()
	dt, err := ResolveDateTime(date)
	require.NoError(t, err)
	return Event{DateTime: dt, Weekday: weekday, Entries: entries}
}

func TestAggregatorCreatesYearLazily(t *testing.T) {
	a := NewAggregator(discardLogger(), sites.DefaultRules())
	a.Add(event(t, "15/03/2022 11:00", "Mardi", 4))

	stats := a.Statistics()
	require.Len(t, stats, 1)
	year := stats[2022]
	assert.Equal(t, MonthlyEntries{2: 4}, year.EntriesByMonth)
	assert.Equal(t, MonthlyEntries{}, year.SaturdayEntriesByMonth)
	assert.NotNil(t, year.EveningTimeSlots)
	assert.Empty(t, year.EveningTimeSlots)
}

func TestAggregatorEveningSlots(t *testing.T) {
	a := NewAggregator(discardLogger(), sites.DefaultRules())
	a.Add(event(t, "02/12/2024 18:00", "Lundi", 1))
	a.Add(event(t, "02/12/2024 18:29", "Lundi", 2))
	a.Add(event(t, "02/12/2024 21:45", "Lundi", 3))
	a.Add(event(t, "02/12/2024 17:30", "Lundi", 100))

	slots := a.Statistics()[2024].EveningTimeSlots
	require.Len(t, slots, 1)
	assert.Equal(t, EveningSlots{3, 0, 0, 0, 0, 0, 0, 3}, *slots["2024-12-02"])
}

func TestAggregatorOpenedSaturdaysPerYear(t *testing.T) {
	a := NewAggregator(discardLogger(), sites.DefaultRules())
	a.Add(event(t, "30/12/2023 10:00", "Samedi", 1))
	a.Add(event(t, "30/12/2023 10:30", "Samedi", 1))
	a.Add(event(t, "06/01/2024 10:00", "Samedi", 1))
	a.Add(event(t, "13/01/2024 10:00", "Samedi", 1))

	stats := a.Statistics()
	assert.Equal(t, 1, stats[2023].OpenedSaturdaysCount)
	assert.Equal(t, 2, stats[2024].OpenedSaturdaysCount)
}

func TestAggregatorUsesRules(t *testing.T) {
	rules := sites.DefaultRules()
	rules.Evening = sites.Window{From: 17, To: 20}
	rules.SaturdayAfternoon = sites.Window{From: 14, To: 18}

	a := NewAggregator(discardLogger(), rules)
	a.Add(event(t, "07/12/2024 17:15", "Samedi", 5))
	a.Add(event(t, "02/12/2024 19:30", "Lundi", 2))

	stats := a.Statistics()[2024]
	assert.Equal(t, 5, stats.SaturdayAfternoonEntriesByMonth.Get("Décembre"))
	assert.Equal(t, 7, stats.EveningEntriesByMonth.Get("Décembre"))
	// 17:00 is not an evening slot, 19:30 is
	assert.NotContains(t, stats.EveningTimeSlots, "2024-12-07")
	assert.Equal(t, 2, stats.EveningTimeSlots["2024-12-02"].Get("19:30"))
}

func TestLabelWeekday(t *testing.T) {
	weekday, ok := LabelWeekday("JEUDI")
	assert.True(t, ok)
	assert.Equal(t, time.Thursday, weekday)

	_, ok = LabelWeekday("Férié")
	assert.False(t, ok)

	assert.True(t, IsSaturday("Samedi"))
	assert.False(t, IsSaturday("Saturday"))
}
