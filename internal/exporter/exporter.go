package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"github.com/attendancestats/internal/statistics"
)

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result *statistics.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

var monthlyColumns = []string{
	"Mois",
	"Entrées",
	"Samedis",
	"Samedis matin",
	"Samedis après-midi",
	"Soirées",
}

// WriteXLSX writes a workbook with one sheet per year, most recent first.
// Each sheet holds the monthly entries, then the evening slots of every day.
func WriteXLSX(w io.Writer, result *statistics.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	years := result.Statistics.Years()
	if len(years) == 0 {
		if err := f.SetSheetRow("Sheet1", "A1", &[]any{"Aucune donnée"}); err != nil {
			return err
		}
		return write(f, w)
	}

	for i, year := range years {
		sheet := strconv.Itoa(year)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet, err)
		}
		if err := writeYear(f, sheet, result.Statistics[year]); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return write(f, w)
}

func write(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeYear(f *excelize.File, sheet string, stats *statistics.YearlyStatistics) error {
	row := 1
	if err := setRow(f, sheet, row, toAny(monthlyColumns)); err != nil {
		return err
	}
	for i, month := range statistics.Months {
		row++
		if err := setRow(f, sheet, row, []any{
			month,
			stats.EntriesByMonth[i],
			stats.SaturdayEntriesByMonth[i],
			stats.SaturdayMorningEntriesByMonth[i],
			stats.SaturdayAfternoonEntriesByMonth[i],
			stats.EveningEntriesByMonth[i],
		}); err != nil {
			return err
		}
	}
	row++
	if err := setRow(f, sheet, row, []any{
		"Total",
		stats.EntriesByMonth.Total(),
		stats.SaturdayEntriesByMonth.Total(),
		stats.SaturdayMorningEntriesByMonth.Total(),
		stats.SaturdayAfternoonEntriesByMonth.Total(),
		stats.EveningEntriesByMonth.Total(),
	}); err != nil {
		return err
	}

	row += 2
	if err := setRow(f, sheet, row, []any{"Samedis ouverts", stats.OpenedSaturdaysCount}); err != nil {
		return err
	}

	row += 2
	header := append([]any{"Date"}, toAny(statistics.EveningSlotLabels[:])...)
	if err := setRow(f, sheet, row, header); err != nil {
		return err
	}
	for _, date := range sortedDates(stats.EveningTimeSlots) {
		row++
		values := []any{date}
		for _, v := range stats.EveningTimeSlots[date] {
			values = append(values, v)
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
