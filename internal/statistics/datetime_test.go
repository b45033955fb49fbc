package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDateTime(t *testing.T) {
	dt, err := ResolveDateTime("02/12/2024 18:15")
	require.NoError(t, err)
	assert.Equal(t, DateTime{Year: 2024, Month: time.December, Day: 2, Hour: 18, Minute: 15}, dt)
	assert.Equal(t, "Décembre", dt.MonthName())
	assert.Equal(t, "2024-12-02", dt.DateKey())
	assert.Equal(t, time.Monday, dt.Weekday())
}

func TestResolveDateTimeOverflow(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  DateTime
	}{
		{
			name:  "day past end of month",
			value: "31/04/2024 10:00",
			want:  DateTime{Year: 2024, Month: time.May, Day: 1, Hour: 10},
		},
		{
			name:  "minutes past the hour",
			value: "02/12/2024 18:75",
			want:  DateTime{Year: 2024, Month: time.December, Day: 2, Hour: 19, Minute: 15},
		},
		{
			name:  "month thirteen",
			value: "15/13/2023 09:30",
			want:  DateTime{Year: 2024, Month: time.January, Day: 15, Hour: 9, Minute: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ResolveDateTime(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dt)
		})
	}
}

func TestResolveDateTimeErrors(t *testing.T) {
	for _, value := range []string{
		"",
		"02/12/2024",
		"02/12/2024T18:15",
		"02/12/2024  18:15",
		"02/12/2024 18:15 extra",
		"02-12-2024 18:15",
		"02/12/2024/1 18:15",
		"02/12/2024 18:15:00",
		"xx/12/2024 18:15",
		"02/12/2024 18:",
	} {
		t.Run(value, func(t *testing.T) {
			_, err := ResolveDateTime(value)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}
