package exporter

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/attendancestats/internal/sites"
	"github.com/attendancestats/internal/statistics"
)

// WriteText writes a human readable summary of result, one block per year.
func WriteText(w io.Writer, result *statistics.Result, rules sites.Rules) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	report := result.Report
	fmt.Fprintf(tw, "Lignes acceptées\t%s\t\n", humanize.Comma(int64(report.Accepted)))
	fmt.Fprintf(tw, "Lignes rejetées\t%s\t\n", humanize.Comma(int64(report.Rejected)))
	if report.Anomalies > 0 {
		fmt.Fprintf(tw, "Jours incohérents\t%s\t\n", humanize.Comma(int64(report.Anomalies)))
	}

	for _, year := range result.Statistics.Years() {
		stats := result.Statistics[year]
		totals := stats.Totals()

		fmt.Fprintf(tw, "\t\t\n%d\t\t\n", year)
		fmt.Fprintf(tw, "Entrées\t%s\t\n", humanize.Comma(int64(totals.Entries)))
		fmt.Fprintf(tw, "Entrées le samedi\t%s\t\n", humanize.Comma(int64(totals.SaturdayEntries)))
		fmt.Fprintf(tw, "Entrées en soirée\t%s\t\n", humanize.Comma(int64(totals.EveningEntries)))
		fmt.Fprintf(tw, "Samedis ouverts\t%d\t\n", totals.OpenedSaturdays)

		_, split := stats.SaturdaySplits()
		if rules.ShowSaturdayAfternoon {
			fmt.Fprintf(tw, "Samedis matin / après-midi\t%.1f%% / %.1f%%\t\n", split.MorningRatio, split.AfternoonRatio)
		} else {
			fmt.Fprintf(tw, "Samedis matin\t%s\t\n", humanize.Comma(int64(split.Morning)))
		}

		for i, month := range statistics.Months {
			if stats.EntriesByMonth[i] == 0 {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\t\n", month, humanize.Comma(int64(stats.EntriesByMonth[i])))
		}

		means := stats.EveningSlotMeans("", "", rules)
		if slices.ContainsFunc(means, func(m statistics.SlotMean) bool { return m.Mean > 0 }) {
			fmt.Fprintf(tw, "Moyenne par créneau du soir\t\t\n")
			for _, mean := range means {
				fmt.Fprintf(tw, "  %s\t%d\t\n", mean.Slot, mean.Mean)
			}
		}
	}
	return tw.Flush()
}

func sortedDates(slots map[string]*statistics.EveningSlots) []string {
	dates := make([]string, 0, len(slots))
	for date := range slots {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates
}
