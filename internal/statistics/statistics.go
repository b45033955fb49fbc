package statistics

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Months are the bucket names, indexed by time.Month-1.
var Months = [12]string{
	"Janvier",
	"Février",
	"Mars",
	"Avril",
	"Mai",
	"Juin",
	"Juillet",
	"Août",
	"Septembre",
	"Octobre",
	"Novembre",
	"Décembre",
}

// EveningSlotLabels are the half-hour slots tracked per evening.
var EveningSlotLabels = [8]string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30"}

// MonthName returns the bucket name of month.
func MonthName(month time.Month) string {
	return Months[month-1]
}

// MonthlyEntries holds one sum per month. It always has all twelve months.
type MonthlyEntries [12]int

func (m *MonthlyEntries) Add(month time.Month, entries int) {
	m[month-1] += entries
}

// Get returns the sum for a month name, or 0 if the name is not a month.
func (m MonthlyEntries) Get(name string) int {
	if i := slices.Index(Months[:], name); i >= 0 {
		return m[i]
	}
	return 0
}

func (m MonthlyEntries) Total() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func (m MonthlyEntries) MarshalJSON() ([]byte, error) {
	return marshalObject(Months[:], m[:])
}

func (m *MonthlyEntries) UnmarshalJSON(data []byte) error {
	return unmarshalObject(data, Months[:], m[:])
}

// EveningSlots holds one sum per evening slot of a single day.
type EveningSlots [8]int

// slotIndex returns the slot a time of day belongs to, minutes are rounded down to the half hour.
func slotIndex(hour, minute int) (int, bool) {
	label := fmt.Sprintf("%02d:%02d", hour, minute/30*30)
	i := slices.Index(EveningSlotLabels[:], label)
	return i, i >= 0
}

// Get returns the sum for a slot label, or 0 if the label is not tracked.
func (s EveningSlots) Get(label string) int {
	if i := slices.Index(EveningSlotLabels[:], label); i >= 0 {
		return s[i]
	}
	return 0
}

func (s EveningSlots) MarshalJSON() ([]byte, error) {
	return marshalObject(EveningSlotLabels[:], s[:])
}

func (s *EveningSlots) UnmarshalJSON(data []byte) error {
	return unmarshalObject(data, EveningSlotLabels[:], s[:])
}

type YearlyStatistics struct {
	EntriesByMonth                  MonthlyEntries `json:"entriesByMonth"`
	SaturdayEntriesByMonth          MonthlyEntries `json:"saturdayEntriesByMonth"`
	EveningEntriesByMonth           MonthlyEntries `json:"eveningEntriesByMonth"`
	SaturdayMorningEntriesByMonth   MonthlyEntries `json:"saturdayMorningEntriesByMonth"`
	SaturdayAfternoonEntriesByMonth MonthlyEntries `json:"saturdayAfternoonEntriesByMonth"`
	// OpenedSaturdaysCount is the number of distinct Saturdays with at least one entry.
	OpenedSaturdaysCount int `json:"openedSaturdaysCount"`
	// EveningTimeSlots is keyed by date, formatted as YYYY-MM-DD.
	EveningTimeSlots map[string]*EveningSlots `json:"eveningTimeSlots"`
}

func newYearlyStatistics() *YearlyStatistics {
	return &YearlyStatistics{
		EveningTimeSlots: map[string]*EveningSlots{},
	}
}

// Statistics is keyed by calendar year.
type Statistics map[int]*YearlyStatistics

// Years returns the years present, most recent first.
func (s Statistics) Years() []int {
	years := make([]int, 0, len(s))
	for year := range s {
		years = append(years, year)
	}
	slices.SortFunc(years, func(a, b int) int {
		return b - a
	})
	return years
}

// marshalObject writes keys and values as a JSON object, keeping the order of keys.
func marshalObject(keys []string, values []int) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(values[i]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalObject(data []byte, keys []string, values []int) error {
	var object map[string]int
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	for key, value := range object {
		i := slices.Index(keys, key)
		if i < 0 {
			return fmt.Errorf("unexpected key %q", key)
		}
		values[i] = value
	}
	return nil
}
