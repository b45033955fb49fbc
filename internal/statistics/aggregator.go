package statistics

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/attendancestats/internal/sites"
)

var weekdaysByLabel = map[string]time.Weekday{
	"dimanche": time.Sunday,
	"lundi":    time.Monday,
	"mardi":    time.Tuesday,
	"mercredi": time.Wednesday,
	"jeudi":    time.Thursday,
	"vendredi": time.Friday,
	"samedi":   time.Saturday,
}

// LabelWeekday returns the weekday named by a French day label, ignoring case.
func LabelWeekday(label string) (time.Weekday, bool) {
	weekday, ok := weekdaysByLabel[cases.Fold().String(strings.TrimSpace(label))]
	return weekday, ok
}

// IsSaturday reports whether label names Saturday.
func IsSaturday(label string) bool {
	weekday, ok := LabelWeekday(label)
	return ok && weekday == time.Saturday
}

// Aggregator folds events into Statistics. It is not safe for concurrent use.
type Aggregator struct {
	logger *slog.Logger
	rules  sites.Rules

	statistics Statistics
	// openedSaturdays holds the Saturdays already counted, by year.
	openedSaturdays map[int]map[string]bool
	anomalies       int
}

func NewAggregator(logger *slog.Logger, rules sites.Rules) *Aggregator {
	return &Aggregator{
		logger:          logger,
		rules:           rules,
		statistics:      Statistics{},
		openedSaturdays: map[int]map[string]bool{},
	}
}

func (a *Aggregator) year(year int) *YearlyStatistics {
	stats, ok := a.statistics[year]
	if !ok {
		stats = newYearlyStatistics()
		a.statistics[year] = stats
		a.openedSaturdays[year] = map[string]bool{}
	}
	return stats
}

func (a *Aggregator) slots(stats *YearlyStatistics, date string) *EveningSlots {
	slots, ok := stats.EveningTimeSlots[date]
	if !ok {
		slots = &EveningSlots{}
		stats.EveningTimeSlots[date] = slots
	}
	return slots
}

func (a *Aggregator) Add(event Event) {
	dt := event.DateTime
	stats := a.year(dt.Year)
	date := dt.DateKey()

	stats.EntriesByMonth.Add(dt.Month, event.Entries)

	labelled, known := LabelWeekday(event.Weekday)
	if known && labelled != dt.Weekday() {
		a.anomalies++
		a.logger.Debug("weekday label does not match date",
			"date", date,
			"label", event.Weekday,
			"weekday", dt.Weekday())
	}

	if known && labelled == time.Saturday {
		stats.SaturdayEntriesByMonth.Add(dt.Month, event.Entries)

		if event.Entries > 0 && !a.openedSaturdays[dt.Year][date] {
			a.openedSaturdays[dt.Year][date] = true
			stats.OpenedSaturdaysCount++
		}

		if a.rules.SaturdayMorning.Contains(dt.Hour) {
			stats.SaturdayMorningEntriesByMonth.Add(dt.Month, event.Entries)
		} else if a.rules.SaturdayAfternoon.Contains(dt.Hour) {
			stats.SaturdayAfternoonEntriesByMonth.Add(dt.Month, event.Entries)
		}
	}

	if a.rules.Evening.Contains(dt.Hour) {
		stats.EveningEntriesByMonth.Add(dt.Month, event.Entries)
		if i, ok := slotIndex(dt.Hour, dt.Minute); ok {
			a.slots(stats, date)[i] += event.Entries
		}
	}
}

// Anomalies returns how many events had a weekday label that contradicts their date.
func (a *Aggregator) Anomalies() int {
	return a.anomalies
}

// Statistics returns the aggregated statistics. The aggregator must not be used afterwards.
func (a *Aggregator) Statistics() Statistics {
	stats := a.statistics
	a.statistics = nil
	return stats
}
