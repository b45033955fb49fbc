package statistics

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyEntriesJSON(t *testing.T) {
	entries := MonthlyEntries{11: 10}

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"Janvier":0,"Février":0,"Mars":0`))
	assert.True(t, strings.HasSuffix(string(data), `"Novembre":0,"Décembre":10}`))

	var decoded MonthlyEntries
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entries, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"Brumaire":1}`), &decoded))
}

func TestEveningSlotsJSON(t *testing.T) {
	data, err := json.Marshal(&EveningSlots{4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"18:00":4,"18:30":0,"19:00":0,"19:30":0,"20:00":0,"20:30":0,"21:00":0,"21:30":0}`, string(data))
}

func TestResultJSONRoundTrip(t *testing.T) {
	result := process(t, csvOf(
		row{"02/12/2024 18:15", "Lundi", "10"},
		row{"07/12/2024 10:00", "Samedi", "5"},
		row{"04/01/2023 19:00", "Mercredi", "1"},
	))

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.Statistics, decoded.Statistics)
	assert.Equal(t, result.Report.Accepted, decoded.Report.Accepted)
}

func TestYearsNewestFirst(t *testing.T) {
	stats := Statistics{2021: nil, 2024: nil, 2022: nil}
	assert.Equal(t, []int{2024, 2022, 2021}, stats.Years())
}
