package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, content string) []RawRecord {
	t.Helper()
	var records []RawRecord
	require.NoError(t, ReadRecords(content, func(r RawRecord) {
		records = append(records, r)
	}))
	return records
}

func TestStripSeparatorDirective(t *testing.T) {
	assert.Equal(t, "Date,Jour\n", StripSeparatorDirective("sep=,\r\nDate,Jour\n"))
	assert.Equal(t, "Date,Jour\n", StripSeparatorDirective("sep=;\nDate,Jour\n"))
	assert.Equal(t, "Date,Jour\nsep=,\n", StripSeparatorDirective("Date,Jour\nsep=,\n"))
}

func TestReadRecords(t *testing.T) {
	records := readAll(t, "\ufeffsep=,\n"+
		`"Date","Jour","Entrees","Sorties"`+"\n"+
		`"02/12/2024 18:15","Lundi","10","2"`+"\n"+
		"\n"+
		`"02/12/2024 18:30","Lundi"`+"\n")

	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].Index)
	assert.Equal(t, Record{Date: "02/12/2024 18:15", Jour: "Lundi", Entrees: "10", Sorties: "2"}, records[0].Record)
	assert.Equal(t, 1, records[1].Index)
	assert.Equal(t, Record{Date: "02/12/2024 18:30", Jour: "Lundi"}, records[1].Record)
	assert.Equal(t, "02/12/2024 18:30,Lundi", records[1].Raw())
}

func TestReadRecordsColumnsByName(t *testing.T) {
	records := readAll(t, "Sorties,Entrees,Extra,Jour,Date\n1,7,x,Samedi,07/12/2024 10:00\n")

	require.Len(t, records, 1)
	assert.Equal(t, Record{Date: "07/12/2024 10:00", Jour: "Samedi", Entrees: "7", Sorties: "1"}, records[0].Record)
}

func TestReadRecordsEmpty(t *testing.T) {
	assert.Empty(t, readAll(t, ""))
	assert.Empty(t, readAll(t, "Date,Jour,Entrees,Sorties\n"))
}
