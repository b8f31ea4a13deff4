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
// Package weekmenu holds the canonical weekly menu schema and the normalizer
// that builds it from the raw menu files.
package weekmenu

import (
	"sort"
)

// MealKey identifies a meal slot within a day.
type MealKey string

const (
	Breakfast MealKey = "breakfast"
	Lunch     MealKey = "lunch"
	Snacks    MealKey = "snacks"
	Dinner    MealKey = "dinner"
)

// SectionKind is the category a dish belongs to.
type SectionKind string

const (
	SpecialVeg SectionKind = "specialVeg"
	Veg        SectionKind = "veg"
	VegSides   SectionKind = "vegSides"
	NonVeg     SectionKind = "nonVeg"
	// Note marks informational strings. They are never shown as dishes.
	Note SectionKind = "note"
)

type MealSection struct {
	Kind  SectionKind `json:"kind"`
	Title string      `json:"title"`
	Items []string    `json:"items"`
}

type Meal struct {
	Name      string        `json:"name"`
	StartTime string        `json:"startTime"` // HH:mm, local civil time
	EndTime   string        `json:"endTime"`
	Items     []string      `json:"items"`
	Sections  []MealSection `json:"sections"`
}

type DayMenu struct {
	Day         string            `json:"day"`
	DisplayDate string            `json:"displayDate"`
	Meals       map[MealKey]*Meal `json:"meals"`
}

type ExtraItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuExtras struct {
	Category string      `json:"category"`
	Currency string      `json:"currency"`
	Items    []ExtraItem `json:"items"`
}

// WeekMenu is one week of menus keyed by YYYY-MM-DD.
type WeekMenu struct {
	FoodCourt string              `json:"foodCourt"`
	Week      string              `json:"week"`
	Menu      map[string]*DayMenu `json:"menu"`
	Extras    *MenuExtras         `json:"extras,omitempty"`
}

// SortedDateKeys returns the date keys in ascending order. The fixed-width
// date format makes the lexical order chronological.
func (w *WeekMenu) SortedDateKeys() []string {
	if w == nil {
		return nil
	}
	keys := make([]string, 0, len(w.Menu))
	for k := range w.Menu {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Day returns the menu of one date.
func (w *WeekMenu) Day(dateKey string) (*DayMenu, bool) {
	if w == nil {
		return nil, false
	}
	day, ok := w.Menu[dateKey]
	return day, ok && day != nil
}

func (e *MenuExtras) clone() *MenuExtras {
	if e == nil {
		return nil
	}
	out := *e
	out.Items = append([]ExtraItem(nil), e.Items...)
	return &out
}
