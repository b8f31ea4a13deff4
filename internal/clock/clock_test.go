/*
This project is the monolithic backend API for the OpenSourceDUTH team. Access to open data compiled and provided by the OpenSourceDUTH University Team as well as helper endpoints to integrate with our apps.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ist(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, istFixed)
	require.NoError(t, err)
	return parsed
}

func TestNowIsIndependentOfHostZone(t *testing.T) {
	// 20:00 UTC is 01:30 the next day in IST.
	instant := time.Date(2025, 10, 13, 20, 0, 0, 0, time.UTC)
	c := IST().At(instant.In(time.FixedZone("PST", -8*60*60)))

	now := c.Now()
	assert.Equal(t, "2025-10-14", c.DateKey(now))
	assert.Equal(t, 90, c.MinutesOfDay(now))
	assert.Equal(t, "Tuesday", c.DayName(now))
	assert.Equal(t, "Oct 14", c.ShortDate(now))
}

func TestStartOfWeek(t *testing.T) {
	c := IST()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"monday midnight", "2025-10-13 00:00", "2025-10-13"},
		{"wednesday", "2025-10-15 13:45", "2025-10-13"},
		{"saturday", "2025-10-18 23:59", "2025-10-13"},
		{"sunday belongs to previous monday", "2025-10-19 09:00", "2025-10-13"},
		{"crosses month", "2025-11-02 10:00", "2025-10-27"},
		{"crosses year", "2026-01-01 10:00", "2025-12-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday := c.StartOfWeek(ist(t, tt.in))
			assert.Equal(t, tt.want, c.DateKey(monday))
			assert.Equal(t, time.Monday, monday.Weekday())
			assert.Equal(t, 0, c.MinutesOfDay(monday))
		})
	}
}

func TestStartOfWeekUsesLocalCalendar(t *testing.T) {
	c := IST()
	// Sunday 19:00 UTC is already Monday in IST.
	instant := time.Date(2025, 10, 19, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-20", c.DateKey(c.StartOfWeek(instant)))
}

func TestNewFallsBackToFixedIST(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	_, offset := c.Now().Zone()
	assert.Equal(t, 19800, offset)

	_, err = New("Not/AZone")
	assert.Error(t, err)
}

func TestAddDaysAndDaysBetween(t *testing.T) {
	c := IST()
	start := ist(t, "2025-10-13 00:00")
	assert.Equal(t, "2025-10-19", c.DateKey(c.AddDays(start, 6)))
	assert.Equal(t, 6, c.DaysBetween(start, c.AddDays(start, 6)))
	assert.Equal(t, -7, c.DaysBetween(start, ist(t, "2025-10-06 23:00")))

	parsed, err := c.ParseDateKey("2025-10-13")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(start))
}

func TestParseMinutes(t *testing.T) {
	m, err := ParseMinutes("14:15")
	require.NoError(t, err)
	assert.Equal(t, 855, m)

	m, err = ParseMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	for _, bad := range []string{"9:30", "24:00", "12:60", "", "1230", "ab:cd"} {
		_, err := ParseMinutes(bad)
		assert.Error(t, err, bad)
	}
}
