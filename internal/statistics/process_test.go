package statistics

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendancestats/internal/sites"
)

const header = "Date,Jour,Entrees,Sorties\n"

type row struct {
	date, jour, entrees string
}

func csvOf(rows ...row) string {
	var b strings.Builder
	b.WriteString(header)
	for _, r := range rows {
		fmt.Fprintf(&b, "%q,%q,%q,\"0\"\n", r.date, r.jour, r.entrees)
	}
	return b.String()
}

func process(t *testing.T, content string) *Result {
	t.Helper()
	result, err := Process(content, sites.DefaultRules())
	require.NoError(t, err)
	return result
}

func TestProcessWeekdayEvening(t *testing.T) {
	result := process(t, csvOf(row{"02/12/2024 18:15", "Lundi", "10"}))

	stats := result.Statistics[2024]
	require.NotNil(t, stats)
	assert.Equal(t, 10, stats.EntriesByMonth.Get("Décembre"))
	assert.Equal(t, 10, stats.EveningEntriesByMonth.Get("Décembre"))
	require.Contains(t, stats.EveningTimeSlots, "2024-12-02")
	assert.Equal(t, 10, stats.EveningTimeSlots["2024-12-02"].Get("18:00"))
	assert.Zero(t, stats.SaturdayEntriesByMonth.Total())
	assert.Zero(t, stats.SaturdayMorningEntriesByMonth.Total())
	assert.Zero(t, stats.SaturdayAfternoonEntriesByMonth.Total())
	assert.Zero(t, stats.OpenedSaturdaysCount)
	assert.Equal(t, 1, result.Report.Accepted)
	assert.Zero(t, result.Report.Rejected)
}

func TestProcessSaturdayMorningAndAfternoon(t *testing.T) {
	result := process(t, csvOf(
		row{"07/12/2024 10:00", "Samedi", "5"},
		row{"07/12/2024 14:00", "Samedi", "3"},
	))

	stats := result.Statistics[2024]
	assert.Equal(t, 5, stats.SaturdayMorningEntriesByMonth.Get("Décembre"))
	assert.Equal(t, 3, stats.SaturdayAfternoonEntriesByMonth.Get("Décembre"))
	assert.Equal(t, 8, stats.SaturdayEntriesByMonth.Get("Décembre"))
	assert.Equal(t, 1, stats.OpenedSaturdaysCount)
}

func TestProcessEmptyDate(t *testing.T) {
	result, err := Process(csvOf(row{"", "Lundi", "4"}), sites.DefaultRules())
	require.ErrorIs(t, err, ErrEmptyInput)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Report.Rejected)
	assert.Equal(t, 1, result.Report.MalformedRows)
	assert.Empty(t, result.Statistics)
	require.Len(t, result.Report.Rejections, 1)
	assert.Equal(t, 0, result.Report.Rejections[0].Row)
	assert.Equal(t, KindMalformedRow, result.Report.Rejections[0].Kind)
}

func TestProcessTenPmIsNotEvening(t *testing.T) {
	result := process(t, csvOf(row{"02/12/2024 22:30", "Lundi", "7"}))

	stats := result.Statistics[2024]
	assert.Equal(t, 7, stats.EntriesByMonth.Get("Décembre"))
	assert.Zero(t, stats.EveningEntriesByMonth.Get("Décembre"))
	assert.Empty(t, stats.EveningTimeSlots)
}

func TestProcessSeparatorDirective(t *testing.T) {
	content := csvOf(
		row{"02/12/2024 18:15", "Lundi", "10"},
		row{"07/12/2024 10:00", "Samedi", "5"},
	)
	withDirective := process(t, "sep=;\n"+content)
	without := process(t, content)

	assert.Equal(t, without, withDirective)
}

func TestProcessOpenedSaturdayNeedsEntries(t *testing.T) {
	result := process(t, csvOf(
		row{"07/12/2024 09:00", "Samedi", "0"},
		row{"07/12/2024 09:30", "Samedi", "4"},
	))
	assert.Equal(t, 1, result.Statistics[2024].OpenedSaturdaysCount)

	result = process(t, csvOf(row{"07/12/2024 09:00", "samedi", "0"}))
	assert.Zero(t, result.Statistics[2024].OpenedSaturdaysCount)
}

func TestProcessSaturdayLabelIsTrusted(t *testing.T) {
	// 2024-12-09 is a Monday
	result := process(t, csvOf(row{"09/12/2024 10:00", " SAMEDI ", "6"}))

	stats := result.Statistics[2024]
	assert.Equal(t, 6, stats.SaturdayEntriesByMonth.Get("Décembre"))
	assert.Equal(t, 6, stats.SaturdayMorningEntriesByMonth.Get("Décembre"))
	assert.Equal(t, 1, result.Report.Anomalies)
}

func TestProcessSaturdayOutsideWindows(t *testing.T) {
	result := process(t, csvOf(
		row{"07/12/2024 08:30", "Samedi", "2"},
		row{"07/12/2024 13:30", "Samedi", "3"},
		row{"07/12/2024 17:00", "Samedi", "4"},
	))

	stats := result.Statistics[2024]
	assert.Equal(t, 9, stats.SaturdayEntriesByMonth.Get("Décembre"))
	// 13:30 belongs to the morning window, which includes hour 13
	assert.Equal(t, 3, stats.SaturdayMorningEntriesByMonth.Get("Décembre"))
	assert.Zero(t, stats.SaturdayAfternoonEntriesByMonth.Get("Décembre"))
}

func TestProcessNonNumericEntriesRejected(t *testing.T) {
	result := process(t, csvOf(
		row{"02/12/2024 18:15", "Lundi", "abc"},
		row{"02/12/2024 18:45", "Lundi", "2"},
		row{"32/xx/2024 18:45", "Lundi", "2"},
	))

	assert.Equal(t, 1, result.Report.Accepted)
	assert.Equal(t, 2, result.Report.Rejected)
	assert.Equal(t, 1, result.Report.MalformedRows)
	assert.Equal(t, 1, result.Report.ParseErrors)
	assert.Equal(t, 2, result.Statistics[2024].EntriesByMonth.Total())
}

func TestProcessRejectionLogIsCapped(t *testing.T) {
	rows := make([]row, 10)
	for i := range rows {
		rows[i] = row{"bad", "Lundi", "1"}
	}
	result, err := NewProcessor(discardLogger(), sites.DefaultRules(), 3).Process(csvOf(rows...))
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 10, result.Report.Rejected)
	assert.Len(t, result.Report.Rejections, 3)
	assert.True(t, result.Report.HighRejectionRate(0.5))
}

func TestProcessEmptyInput(t *testing.T) {
	for _, content := range []string{"", "sep=,\n", header} {
		result, err := Process(content, sites.DefaultRules())
		require.ErrorIs(t, err, ErrEmptyInput)
		assert.Zero(t, result.Report.Total())
	}
}

// randomExport generates a plausible export with a few broken rows.
func randomExport(r *rand.Rand) (string, int) {
	labels := []string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}
	start := time.Date(2023, time.November, 20, 8, 0, 0, 0, time.UTC)
	var rows []row
	for ts := start; ts.Before(start.AddDate(0, 2, 0)); ts = ts.Add(30 * time.Minute) {
		if ts.Hour() < 8 {
			continue
		}
		rows = append(rows, row{
			date:    ts.Format("02/01/2006 15:04"),
			jour:    labels[ts.Weekday()],
			entrees: fmt.Sprint(r.Intn(20)),
		})
	}
	for i := 0; i < 25; i++ {
		rows[r.Intn(len(rows))].entrees = ""
	}
	return csvOf(rows...), len(rows)
}

func TestProcessProperties(t *testing.T) {
	content, dataRows := randomExport(rand.New(rand.NewSource(1)))
	result := process(t, content)

	assert.Equal(t, dataRows, result.Report.Accepted+result.Report.Rejected)
	assert.NotZero(t, result.Report.Rejected)
	assert.Zero(t, result.Report.Anomalies)

	sums := map[int]int{}
	saturdays := map[int]map[string]bool{}
	require.NoError(t, ReadRecords(content, func(raw RawRecord) {
		event, err := ParseRow(raw.Record)
		if err != nil {
			return
		}
		sums[event.DateTime.Year] += event.Entries
		if IsSaturday(event.Weekday) {
			if saturdays[event.DateTime.Year] == nil {
				saturdays[event.DateTime.Year] = map[string]bool{}
			}
			saturdays[event.DateTime.Year][event.DateTime.DateKey()] = true
		}
	}))

	require.ElementsMatch(t, []int{2023, 2024}, result.Statistics.Years())
	for year, stats := range result.Statistics {
		assert.Equal(t, sums[year], stats.EntriesByMonth.Total(), "year %d", year)
		assert.LessOrEqual(t, stats.OpenedSaturdaysCount, len(saturdays[year]))
		for i := range Months {
			assert.LessOrEqual(t,
				stats.SaturdayMorningEntriesByMonth[i]+stats.SaturdayAfternoonEntriesByMonth[i],
				stats.SaturdayEntriesByMonth[i])
			assert.LessOrEqual(t, stats.SaturdayEntriesByMonth[i], stats.EntriesByMonth[i])
			assert.LessOrEqual(t, stats.EveningEntriesByMonth[i], stats.EntriesByMonth[i])
		}
		slotTotal := 0
		for _, slots := range stats.EveningTimeSlots {
			for _, v := range slots {
				slotTotal += v
			}
		}
		assert.Equal(t, stats.EveningEntriesByMonth.Total(), slotTotal)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	content, _ := randomExport(rand.New(rand.NewSource(2)))

	first := process(t, content)
	second := process(t, content)

	assert.Equal(t, first, second)
}
