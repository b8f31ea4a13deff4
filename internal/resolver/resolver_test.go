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
package resolver

import (
	"testing"
	"time"

	"MessAPI/internal/clock"
	"MessAPI/internal/weekmenu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoMeals = []weekmenu.MealKey{weekmenu.Lunch, weekmenu.Dinner}

func meal(start, end string) *weekmenu.Meal {
	return &weekmenu.Meal{
		StartTime: start,
		EndTime:   end,
		Items:     []string{"Dal"},
		Sections:  []weekmenu.MealSection{{Kind: weekmenu.Veg, Title: "Veg", Items: []string{"Dal"}}},
	}
}

func day(meals map[weekmenu.MealKey]*weekmenu.Meal) *weekmenu.DayMenu {
	return &weekmenu.DayMenu{Meals: meals}
}

// twoDayWeek has Monday and Tuesday of the week of 2025-10-13, inserted out of order.
func twoDayWeek() *weekmenu.WeekMenu {
	return &weekmenu.WeekMenu{
		Menu: map[string]*weekmenu.DayMenu{
			"2025-10-14": day(map[weekmenu.MealKey]*weekmenu.Meal{
				weekmenu.Lunch:  meal("11:30", "14:15"),
				weekmenu.Dinner: meal("19:00", "21:30"),
			}),
			"2025-10-13": day(map[weekmenu.MealKey]*weekmenu.Meal{
				weekmenu.Lunch:  meal("11:30", "14:15"),
				weekmenu.Dinner: meal("19:00", "21:30"),
			}),
		},
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, clock.IST().Location())
	require.NoError(t, err)
	return parsed
}

func newResolver() *Resolver {
	return New(clock.IST(), twoMeals)
}

func TestCurrentOngoingDinner(t *testing.T) {
	ptr, ok := newResolver().Current(twoDayWeek(), at(t, "2025-10-13 20:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Dinner, IsOngoing: true}, ptr)
}

func TestCurrentBoundariesAreInclusive(t *testing.T) {
	r := newResolver()
	week := twoDayWeek()

	tests := []struct {
		at   string
		want Pointer
	}{
		{"2025-10-13 11:30", Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Lunch, IsOngoing: true}},
		{"2025-10-13 14:15", Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Lunch, IsOngoing: true}},
		{"2025-10-13 14:16", Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Dinner}},
		{"2025-10-13 08:00", Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Lunch}},
		{"2025-10-13 21:30", Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Dinner, IsOngoing: true}},
	}
	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			ptr, ok := r.Current(week, at(t, tt.at))
			require.True(t, ok)
			assert.Equal(t, tt.want, ptr)
		})
	}
}

func TestCurrentAfterLastMealMovesToNextDay(t *testing.T) {
	ptr, ok := newResolver().Current(twoDayWeek(), at(t, "2025-10-13 21:31"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-14", MealKey: weekmenu.Lunch}, ptr)
}

func TestCurrentWrapsToEarliestDay(t *testing.T) {
	r := newResolver()
	// Tuesday is the last day on the menu.
	ptr, ok := r.Current(twoDayWeek(), at(t, "2025-10-14 22:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Lunch}, ptr)

	// Days after the menu also wrap.
	ptr, ok = r.Current(twoDayWeek(), at(t, "2025-10-18 12:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Lunch}, ptr)
}

func TestCurrentWhenTodayIsMissing(t *testing.T) {
	week := twoDayWeek()
	week.Menu["2025-10-16"] = day(map[weekmenu.MealKey]*weekmenu.Meal{weekmenu.Dinner: meal("19:00", "21:30")})

	// Wednesday is not on the menu; Thursday is the nearest later day.
	ptr, ok := newResolver().Current(week, at(t, "2025-10-15 12:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-16", MealKey: weekmenu.Dinner}, ptr)

	// Before the first day the earliest day is picked.
	ptr, ok = newResolver().Current(week, at(t, "2025-10-12 12:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Lunch}, ptr)
}

func TestCurrentAbsent(t *testing.T) {
	r := newResolver()
	_, ok := r.Current(&weekmenu.WeekMenu{Menu: map[string]*weekmenu.DayMenu{}}, at(t, "2025-10-13 12:00"))
	assert.False(t, ok)

	_, ok = r.Current(nil, at(t, "2025-10-13 12:00"))
	assert.False(t, ok)

	week := twoDayWeek()
	week.Menu["2025-10-14"] = day(map[weekmenu.MealKey]*weekmenu.Meal{})
	_, ok = r.Current(week, at(t, "2025-10-13 22:00"))
	assert.False(t, ok, "fallback day without meals resolves to nothing")
}

func TestCurrentFourMealOrder(t *testing.T) {
	r := New(clock.IST(), []weekmenu.MealKey{weekmenu.Breakfast, weekmenu.Lunch, weekmenu.Snacks, weekmenu.Dinner})
	week := &weekmenu.WeekMenu{Menu: map[string]*weekmenu.DayMenu{
		"2025-10-13": day(map[weekmenu.MealKey]*weekmenu.Meal{
			weekmenu.Breakfast: meal("07:30", "09:30"),
			weekmenu.Lunch:     meal("12:00", "14:00"),
			weekmenu.Snacks:    meal("16:30", "17:30"),
			weekmenu.Dinner:    meal("19:30", "21:30"),
		}),
	}}

	ptr, ok := r.Current(week, at(t, "2025-10-13 15:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Snacks}, ptr)

	ptr, ok = r.Current(week, at(t, "2025-10-13 06:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Breakfast}, ptr)

	// Single-day fixed menu: after dinner it wraps to the same day's first meal.
	ptr, ok = r.Current(week, at(t, "2025-10-13 23:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Breakfast}, ptr)
}

func TestForDay(t *testing.T) {
	r := newResolver()
	week := twoDayWeek()
	week.Menu["2025-10-15"] = day(map[weekmenu.MealKey]*weekmenu.Meal{weekmenu.Lunch: meal("11:30", "14:15")})

	tests := []struct {
		name    string
		dateKey string
		now     string
		want    Highlight
	}{
		{"today ongoing", "2025-10-14", "2025-10-14 12:00", Highlight{MealKey: weekmenu.Lunch, IsPrimaryUpcoming: true}},
		{"today upcoming", "2025-10-14", "2025-10-14 15:00", Highlight{MealKey: weekmenu.Dinner, IsPrimaryUpcoming: true}},
		{"today exhausted", "2025-10-14", "2025-10-14 23:00", Highlight{MealKey: weekmenu.Dinner}},
		{"past day shows last meal", "2025-10-13", "2025-10-14 08:00", Highlight{MealKey: weekmenu.Dinner}},
		{"future day shows first meal", "2025-10-14", "2025-10-13 20:00", Highlight{MealKey: weekmenu.Lunch}},
		{"future day with lunch only", "2025-10-15", "2025-10-13 20:00", Highlight{MealKey: weekmenu.Lunch}},
		{"past day with lunch only", "2025-10-15", "2025-10-16 08:00", Highlight{MealKey: weekmenu.Lunch}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ForDay(week, tt.dateKey, at(t, tt.now))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForDayAbsent(t *testing.T) {
	r := newResolver()
	week := twoDayWeek()
	_, ok := r.ForDay(week, "2025-10-20", at(t, "2025-10-13 12:00"))
	assert.False(t, ok)

	week.Menu["2025-10-15"] = day(map[weekmenu.MealKey]*weekmenu.Meal{})
	_, ok = r.ForDay(week, "2025-10-15", at(t, "2025-10-15 12:00"))
	assert.False(t, ok)
}

func TestUnreadableTimesNeverMatch(t *testing.T) {
	r := newResolver()
	week := &weekmenu.WeekMenu{Menu: map[string]*weekmenu.DayMenu{
		"2025-10-13": day(map[weekmenu.MealKey]*weekmenu.Meal{
			weekmenu.Lunch:  meal("noon", "14:15"),
			weekmenu.Dinner: meal("19:00", "21:30"),
		}),
	}}
	ptr, ok := r.Current(week, at(t, "2025-10-13 12:00"))
	require.True(t, ok)
	assert.Equal(t, Pointer{DateKey: "2025-10-13", MealKey: weekmenu.Dinner}, ptr)
}
