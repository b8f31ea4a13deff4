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
package provider

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"MessAPI/internal/clock"
)

const weekIDSeparator = "_to_"

// WeekRange is a week id split into its bounds.
type WeekRange struct {
	ID    string
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// ParseWeekID splits ids of the form "2025-08-18_to_2025-08-24". Variant names
// and other opaque ids are reported as not ok.
func ParseWeekID(id string) (WeekRange, bool) {
	start, end, found := strings.Cut(id, weekIDSeparator)
	if !found || !isDateKey(start) || !isDateKey(end) || end < start {
		return WeekRange{}, false
	}
	return WeekRange{ID: id, Start: start, End: end}, true
}

// FormatWeekID builds the id of the range [start, end].
func FormatWeekID(start, end time.Time) string {
	return start.Format(clock.DateKeyLayout) + weekIDSeparator + end.Format(clock.DateKeyLayout)
}

func (r WeekRange) Contains(dateKey string) bool {
	return r.Start <= dateKey && dateKey <= r.End
}

func (r WeekRange) Year() int {
	year, _ := strconv.Atoi(r.Start[:4])
	return year
}

func isDateKey(s string) bool {
	_, err := time.Parse(clock.DateKeyLayout, s)
	return err == nil && len(s) == len(clock.DateKeyLayout)
}

// Years returns the distinct four digit year prefixes of ids in ascending order.
func Years(ids []string) []string {
	seen := make(map[string]bool)
	var years []string
	for _, id := range ids {
		if len(id) < 4 {
			continue
		}
		year := id[:4]
		if _, err := strconv.Atoi(year); err != nil || seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// WeeksForYear returns the ids that start in year, sorted.
func WeeksForYear(ids []string, year string) []string {
	var weeks []string
	for _, id := range ids {
		if strings.HasPrefix(id, year+"-") {
			weeks = append(weeks, id)
		}
	}
	sort.Strings(weeks)
	return weeks
}

// LatestWeekForYear returns the last id of year, if any.
func LatestWeekForYear(ids []string, year string) (string, bool) {
	weeks := WeeksForYear(ids, year)
	if len(weeks) == 0 {
		return "", false
	}
	return weeks[len(weeks)-1], true
}

// WeekContaining returns the week id whose range contains dateKey. When ranges
// overlap the later one wins.
func WeekContaining(ids []string, dateKey string) (string, bool) {
	match := ""
	for _, id := range ids {
		r, ok := ParseWeekID(id)
		if ok && r.Contains(dateKey) && id > match {
			match = id
		}
	}
	return match, match != ""
}

// Latest returns the greatest id.
func Latest(ids []string) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	latest := ids[0]
	for _, id := range ids[1:] {
		if id > latest {
			latest = id
		}
	}
	return latest, true
}
