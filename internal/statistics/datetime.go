package statistics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedRow is returned for rows with a missing, empty or invalid field.
	ErrMalformedRow = errors.New("malformed row")
	// ErrParse is returned when a date does not decompose into five integers.
	ErrParse = errors.New("parse date")
	// ErrEmptyInput is returned when not a single row could be used.
	ErrEmptyInput = errors.New("no valid rows")
)

// dateTimeLength is the length of a well formed "DD/MM/YYYY HH:MM" value.
const dateTimeLength = len("02/01/2006 15:04")

// DateTime is a wall clock date and time, without a location.
type DateTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// ResolveDateTime parses "DD/MM/YYYY HH:MM". Components are only checked to be
// integers: out of range values overflow into the next unit, so 31/04 is May 1st.
func ResolveDateTime(value string) (DateTime, error) {
	datePart, timePart, ok := strings.Cut(value, " ")
	if !ok || strings.Contains(timePart, " ") {
		return DateTime{}, fmt.Errorf("%w %q: expected date and time separated by a space", ErrParse, value)
	}
	dateFields := strings.Split(datePart, "/")
	if len(dateFields) != 3 {
		return DateTime{}, fmt.Errorf("%w %q: expected DD/MM/YYYY", ErrParse, value)
	}
	timeFields := strings.Split(timePart, ":")
	if len(timeFields) != 2 {
		return DateTime{}, fmt.Errorf("%w %q: expected HH:MM", ErrParse, value)
	}

	var n [5]int
	for i, field := range append(dateFields, timeFields...) {
		v, err := strconv.Atoi(field)
		if err != nil {
			return DateTime{}, fmt.Errorf("%w %q: %w", ErrParse, value, err)
		}
		n[i] = v
	}
	day, month, year, hour, minute := n[0], n[1], n[2], n[3], n[4]

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	return DateTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}, nil
}

func (d DateTime) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, d.Hour, d.Minute, 0, 0, time.UTC)
}

func (d DateTime) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// DateKey formats the date as YYYY-MM-DD.
func (d DateTime) DateKey() string {
	return d.Time().Format(time.DateOnly)
}

func (d DateTime) MonthName() string {
	return MonthName(d.Month)
}
