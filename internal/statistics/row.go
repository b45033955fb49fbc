package statistics

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one row of an attendance export. Sorties is carried but not aggregated.
type Record struct {
	Date    string
	Jour    string
	Entrees string
	Sorties string
}

// Event is a validated record.
type Event struct {
	DateTime DateTime
	// Weekday is the day name as written in the export, it is not checked against DateTime.
	Weekday string
	Entries int
}

// ParseRow validates a record. Errors wrap ErrMalformedRow or ErrParse.
func ParseRow(record Record) (Event, error) {
	if len(record.Date) < dateTimeLength {
		return Event{}, fmt.Errorf("%w: date %q is too short", ErrMalformedRow, record.Date)
	}
	if record.Entrees == "" {
		return Event{}, fmt.Errorf("%w: entrees is empty", ErrMalformedRow)
	}

	dateTime, err := ResolveDateTime(record.Date)
	if err != nil {
		return Event{}, err
	}

	entries, err := strconv.Atoi(strings.TrimSpace(record.Entrees))
	if err != nil {
		return Event{}, fmt.Errorf("%w: entrees %q is not a number", ErrMalformedRow, record.Entrees)
	}
	if entries < 0 {
		return Event{}, fmt.Errorf("%w: entrees %d is negative", ErrMalformedRow, entries)
	}

	return Event{
		DateTime: dateTime,
		Weekday:  record.Jour,
		Entries:  entries,
	}, nil
}
