package statistics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// separatorDirective matches the "sep=," hint spreadsheet software puts on the first line.
var separatorDirective = regexp.MustCompile(`^sep=.*\r?\n`)

// StripSeparatorDirective removes a leading "sep=" line.
func StripSeparatorDirective(content string) string {
	return separatorDirective.ReplaceAllString(content, "")
}

// RawRecord is a data row as read from the export.
type RawRecord struct {
	// Index is the position of the row among data rows, starting at 0.
	Index  int
	Fields []string
	Record Record
	// Err is set when the row could not be decoded.
	Err error
}

// Raw returns the row as it would be written back.
func (r RawRecord) Raw() string {
	return strings.Join(r.Fields, ",")
}

var columns = [...]string{"Date", "Jour", "Entrees", "Sorties"}

// ReadRecords calls visit for every non-blank data row of content, after the
// header line. Columns are matched by header name.
func ReadRecords(content string, visit func(RawRecord)) error {
	content = StripSeparatorDirective(strings.TrimPrefix(content, "\ufeff"))
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = ','
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}
	field := func(fields []string, name string) string {
		i, ok := positions[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	for index := 0; ; index++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			visit(RawRecord{
				Index:  index,
				Fields: fields,
				Err:    fmt.Errorf("%w: %w", ErrMalformedRow, err),
			})
			continue
		} else if err != nil {
			return fmt.Errorf("read row %d: %w", index, err)
		}
		visit(RawRecord{
			Index:  index,
			Fields: fields,
			Record: Record{
				Date:    field(fields, columns[0]),
				Jour:    field(fields, columns[1]),
				Entrees: field(fields, columns[2]),
				Sorties: field(fields, columns[3]),
			},
		})
	}
}
