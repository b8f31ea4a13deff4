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
// Package resolver decides which meal of a week menu is happening now, which
// one comes next, and which one a day view should emphasise.
package resolver

import (
	"sort"
	"time"

	"MessAPI/internal/clock"
	"MessAPI/internal/weekmenu"
)

// Pointer addresses the meal that is ongoing or comes next.
type Pointer struct {
	DateKey   string           `json:"dateKey"`
	MealKey   weekmenu.MealKey `json:"mealKey"`
	IsOngoing bool             `json:"isOngoing"`
}

// Highlight is the meal to emphasise on a single day. IsPrimaryUpcoming is
// true only for today's live or next meal.
type Highlight struct {
	MealKey           weekmenu.MealKey `json:"mealKey"`
	IsPrimaryUpcoming bool             `json:"isPrimaryUpcoming"`
}

type Resolver struct {
	clock *clock.Clock
	order []weekmenu.MealKey
}

// New returns a resolver that walks meals in the given serving order.
func New(c *clock.Clock, order []weekmenu.MealKey) *Resolver {
	return &Resolver{
		clock: c,
		order: append([]weekmenu.MealKey(nil), order...),
	}
}

// Current returns the meal happening at now, else the next one today, else
// the first meal of the next day on the menu. When today is the last day the
// search wraps to the earliest day, since fixed menus repeat every week.
func (r *Resolver) Current(week *weekmenu.WeekMenu, now time.Time) (Pointer, bool) {
	dateKeys := week.SortedDateKeys()
	if len(dateKeys) == 0 {
		return Pointer{}, false
	}
	todayKey := r.clock.DateKey(now)
	minutes := r.clock.MinutesOfDay(now)

	if today, ok := week.Day(todayKey); ok {
		if key, ok := r.ongoing(today, minutes); ok {
			return Pointer{DateKey: todayKey, MealKey: key, IsOngoing: true}, true
		}
		if key, ok := r.upcoming(today, minutes); ok {
			return Pointer{DateKey: todayKey, MealKey: key}, true
		}
	}

	nextKey := dateKeys[0]
	if i := sort.SearchStrings(dateKeys, todayKey); i < len(dateKeys) {
		if dateKeys[i] == todayKey {
			i++
		}
		if i < len(dateKeys) {
			nextKey = dateKeys[i]
		}
	}
	next, ok := week.Day(nextKey)
	if !ok {
		return Pointer{}, false
	}
	key, ok := r.first(next)
	if !ok {
		return Pointer{}, false
	}
	return Pointer{DateKey: nextKey, MealKey: key}, true
}

// ForDay picks the meal to emphasise when dateKey is shown. Past days show
// their last meal and future days their first; today prefers the live or next
// meal and falls back to the last one once the day is over.
func (r *Resolver) ForDay(week *weekmenu.WeekMenu, dateKey string, now time.Time) (Highlight, bool) {
	day, ok := week.Day(dateKey)
	if !ok {
		return Highlight{}, false
	}
	todayKey := r.clock.DateKey(now)

	switch {
	case dateKey == todayKey:
		minutes := r.clock.MinutesOfDay(now)
		if key, ok := r.ongoing(day, minutes); ok {
			return Highlight{MealKey: key, IsPrimaryUpcoming: true}, true
		}
		if key, ok := r.upcoming(day, minutes); ok {
			return Highlight{MealKey: key, IsPrimaryUpcoming: true}, true
		}
		key, ok := r.last(day)
		return Highlight{MealKey: key}, ok
	case dateKey < todayKey:
		key, ok := r.last(day)
		return Highlight{MealKey: key}, ok
	default:
		key, ok := r.first(day)
		return Highlight{MealKey: key}, ok
	}
}

// ongoing finds the first meal whose [start, end] contains minutes. Both ends
// are inclusive.
func (r *Resolver) ongoing(day *weekmenu.DayMenu, minutes int) (weekmenu.MealKey, bool) {
	for _, key := range r.order {
		start, end, ok := r.window(day, key)
		if ok && minutes >= start && minutes <= end {
			return key, true
		}
	}
	return "", false
}

func (r *Resolver) upcoming(day *weekmenu.DayMenu, minutes int) (weekmenu.MealKey, bool) {
	for _, key := range r.order {
		start, _, ok := r.window(day, key)
		if ok && start > minutes {
			return key, true
		}
	}
	return "", false
}

func (r *Resolver) first(day *weekmenu.DayMenu) (weekmenu.MealKey, bool) {
	for _, key := range r.order {
		if day.Meals[key] != nil {
			return key, true
		}
	}
	return "", false
}

func (r *Resolver) last(day *weekmenu.DayMenu) (weekmenu.MealKey, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if day.Meals[r.order[i]] != nil {
			return r.order[i], true
		}
	}
	return "", false
}

// window returns a meal's serving interval in minutes. Meals with unreadable
// times never match.
func (r *Resolver) window(day *weekmenu.DayMenu, key weekmenu.MealKey) (int, int, bool) {
	meal := day.Meals[key]
	if meal == nil {
		return 0, 0, false
	}
	start, err := clock.ParseMinutes(meal.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err := clock.ParseMinutes(meal.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
