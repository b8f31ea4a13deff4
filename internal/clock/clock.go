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
// Package clock resolves "now" and calendar boundaries in the mess's civil
// timezone, independent of the timezone the process runs in.
package clock

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTimezone is India Standard Time. It has no daylight saving.
	DefaultTimezone = "Asia/Kolkata"

	DateKeyLayout   = "2006-01-02"
	ShortDateLayout = "Jan 2"
	DayNameLayout   = "Monday"
)

// istFixed is used when the tz database is unavailable on the host.
var istFixed = time.FixedZone("IST", 5*60*60+30*60)

// Clock converts instants into wall-clock values of a single location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a clock for the named IANA timezone. An empty name selects IST.
func New(timezone string) (*Clock, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		if timezone != DefaultTimezone {
			return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
		}
		loc = istFixed
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewIn returns a clock for an already resolved location.
func NewIn(loc *time.Location) *Clock {
	if loc == nil {
		loc = istFixed
	}
	return &Clock{loc: loc, now: time.Now}
}

// IST returns a clock pinned to the fixed +05:30 offset.
func IST() *Clock {
	return NewIn(istFixed)
}

// WithNow returns a copy of the clock whose Now reports the instants produced by fn.
func (c *Clock) WithNow(fn func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: fn}
}

// At returns a copy of the clock frozen at t.
func (c *Clock) At(t time.Time) *Clock {
	return c.WithNow(func() time.Time { return t })
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant expressed in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// In expresses t in the clock's location.
func (c *Clock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// DateKey formats t as YYYY-MM-DD using the clock's calendar.
func (c *Clock) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateKeyLayout)
}

// ShortDate formats t as "Oct 13".
func (c *Clock) ShortDate(t time.Time) string {
	return t.In(c.loc).Format(ShortDateLayout)
}

// DayName returns the full English weekday name of t.
func (c *Clock) DayName(t time.Time) string {
	return t.In(c.loc).Format(DayNameLayout)
}

// MinutesOfDay returns the minutes elapsed since local midnight.
func (c *Clock) MinutesOfDay(t time.Time) int {
	local := t.In(c.loc)
	return local.Hour()*60 + local.Minute()
}

// StartOfWeek returns local midnight of the Monday of the week containing t.
func (c *Clock) StartOfWeek(t time.Time) time.Time {
	local := t.In(c.loc)
	// Sunday=0 .. Saturday=6, so Sunday is six days after Monday.
	deltaToMonday := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-deltaToMonday, 0, 0, 0, 0, c.loc)
}

// StartOfDay returns local midnight of the day containing t.
func (c *Clock) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// AddDays moves t by n calendar days, keeping its wall-clock time.
func (c *Clock) AddDays(t time.Time, n int) time.Time {
	local := t.In(c.loc)
	y, m, d := local.Date()
	return time.Date(y, m, d+n, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), c.loc)
}

// ParseDateKey parses YYYY-MM-DD as local midnight.
func (c *Clock) ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, c.loc)
}

// DaysBetween counts calendar days from a to b, ignoring wall-clock time and
// offset changes between them.
func (c *Clock) DaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// ParseMinutes converts a zero-padded 24-hour "HH:mm" into minutes since midnight.
func ParseMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:mm", hhmm)
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
