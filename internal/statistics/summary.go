package statistics

import (
	"math"
	"time"

	"github.com/attendancestats/internal/sites"
)

type Totals struct {
	Entries          int `json:"entries"`
	SaturdayEntries  int `json:"saturdayEntries"`
	EveningEntries   int `json:"eveningEntries"`
	OpenedSaturdays  int `json:"openedSaturdays"`
	EveningDaysCount int `json:"eveningDaysCount"`
}

func (y *YearlyStatistics) Totals() Totals {
	return Totals{
		Entries:          y.EntriesByMonth.Total(),
		SaturdayEntries:  y.SaturdayEntriesByMonth.Total(),
		EveningEntries:   y.EveningEntriesByMonth.Total(),
		OpenedSaturdays:  y.OpenedSaturdaysCount,
		EveningDaysCount: len(y.EveningTimeSlots),
	}
}

type SlotMean struct {
	Slot string `json:"timeSlot"`
	Mean int    `json:"mean"`
}

// EveningSlotMeans averages each evening slot over the days between from and to
// (YYYY-MM-DD, inclusive, empty for no bound). Weekends and the days the site
// rules exclude are skipped. Means are rounded to the nearest integer.
func (y *YearlyStatistics) EveningSlotMeans(from, to string, rules sites.Rules) []SlotMean {
	var sums EveningSlots
	days := 0
	for date, slots := range y.EveningTimeSlots {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		day, err := time.Parse(time.DateOnly, date)
		if err != nil {
			continue
		}
		if rules.ExcludesEvening(day.Weekday()) {
			continue
		}
		for i, v := range slots {
			sums[i] += v
		}
		days++
	}

	means := make([]SlotMean, len(EveningSlotLabels))
	for i, label := range EveningSlotLabels {
		means[i].Slot = label
		if days > 0 {
			means[i].Mean = int(math.Round(float64(sums[i]) / float64(days)))
		}
	}
	return means
}

type SaturdaySplit struct {
	Month     string `json:"month,omitempty"`
	Morning   int    `json:"morning"`
	Afternoon int    `json:"afternoon"`
	// Ratios are percentages with one decimal.
	MorningRatio   float64 `json:"morningRatio"`
	AfternoonRatio float64 `json:"afternoonRatio"`
}

func newSaturdaySplit(month string, morning, afternoon int) SaturdaySplit {
	split := SaturdaySplit{
		Month:     month,
		Morning:   morning,
		Afternoon: afternoon,
	}
	if total := morning + afternoon; total > 0 {
		split.MorningRatio = percent(morning, total)
		split.AfternoonRatio = percent(afternoon, total)
	}
	return split
}

func percent(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// SaturdaySplits compares Saturday morning and afternoon entries month by month,
// and over the whole year.
func (y *YearlyStatistics) SaturdaySplits() (months []SaturdaySplit, year SaturdaySplit) {
	months = make([]SaturdaySplit, len(Months))
	for i, name := range Months {
		months[i] = newSaturdaySplit(name, y.SaturdayMorningEntriesByMonth[i], y.SaturdayAfternoonEntriesByMonth[i])
	}
	year = newSaturdaySplit("", y.SaturdayMorningEntriesByMonth.Total(), y.SaturdayAfternoonEntriesByMonth.Total())
	return months, year
}
