package sites

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type fileRules struct {
	SaturdayMorning         *Window  `yaml:"saturday_morning"`
	SaturdayAfternoon       *Window  `yaml:"saturday_afternoon"`
	Evening                 *Window  `yaml:"evening"`
	ShowSaturdayAfternoon   *bool    `yaml:"show_saturday_afternoon"`
	EveningExcludedWeekdays []string `yaml:"evening_excluded_weekdays"`
}

type file struct {
	Sites map[string]fileRules `yaml:"sites"`
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadRules returns the default rule table overlaid with the overrides found in
// the YAML file at path. Fields missing from the file keep their default value.
//
//	sites:
//	  bayonne:
//	    show_saturday_afternoon: true
//	    evening_excluded_weekdays: [friday]
func LoadRules(path string) (map[Site]Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules is LoadRules on an in-memory document.
func ParseRules(data []byte) (map[Site]Rules, error) {
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	table := Default()
	for name, overrides := range f.Sites {
		site, err := ParseSite(name)
		if err != nil {
			return nil, err
		}
		rules := Lookup(table, site)
		if overrides.SaturdayMorning != nil {
			rules.SaturdayMorning = *overrides.SaturdayMorning
		}
		if overrides.SaturdayAfternoon != nil {
			rules.SaturdayAfternoon = *overrides.SaturdayAfternoon
		}
		if overrides.Evening != nil {
			rules.Evening = *overrides.Evening
		}
		if overrides.ShowSaturdayAfternoon != nil {
			rules.ShowSaturdayAfternoon = *overrides.ShowSaturdayAfternoon
		}
		if overrides.EveningExcludedWeekdays != nil {
			rules.EveningExcludedWeekdays = rules.EveningExcludedWeekdays[:0:0]
			for _, name := range overrides.EveningExcludedWeekdays {
				weekday, ok := weekdaysByName[strings.ToLower(name)]
				if !ok {
					return nil, fmt.Errorf("site %s: unknown weekday %q", site, name)
				}
				rules.EveningExcludedWeekdays = append(rules.EveningExcludedWeekdays, weekday)
			}
		}
		table[site] = rules
	}
	return table, nil
}
