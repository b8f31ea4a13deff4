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
package weekmenu

import (
	"fmt"

	"MessAPI/internal/clock"
)

// MealSlot is a meal served by a deployment together with its fixed timing.
type MealSlot struct {
	Key   MealKey
	Name  string
	Start string // HH:mm
	End   string // HH:mm
}

// Section binds a category to its display title.
type Section struct {
	Kind  SectionKind
	Title string
}

// ExtrasPolicy decides what happens when no valid extras survive normalization.
type ExtrasPolicy string

const (
	ExtrasOmit     ExtrasPolicy = "omit"
	ExtrasFallback ExtrasPolicy = "fallback"
)

const (
	DefaultExtrasCategory = "Extras"
	DefaultCurrency       = "INR"
)

// Layout is the deployment-wide shape of a menu: which meals exist, in which
// order, when they are served, and how dish categories are titled.
type Layout struct {
	FoodCourt      string
	DaysPerWeek    int
	Meals          []MealSlot
	Sections       []Section
	NoteItems      []string
	ExtrasPolicy   ExtrasPolicy
	FallbackExtras *MenuExtras
	Currency       string
}

// DefaultSections is the dish order shown to students.
func DefaultSections() []Section {
	return []Section{
		{Kind: SpecialVeg, Title: "Special Veg"},
		{Kind: NonVeg, Title: "Non Veg"},
		{Kind: Veg, Title: "Veg"},
		{Kind: VegSides, Title: "Veg Sides"},
		{Kind: Note, Title: "Note"},
	}
}

// DefaultFallbackExtras is the price list printed at the counter.
func DefaultFallbackExtras() *MenuExtras {
	return &MenuExtras{
		Category: DefaultExtrasCategory,
		Currency: DefaultCurrency,
		Items: []ExtraItem{
			{Name: "Butter Milk", Price: 10},
			{Name: "Dahi", Price: 10},
			{Name: "Fruit Juice", Price: 50},
			{Name: "Lassi", Price: 35},
			{Name: "Boiled Eggs", Price: 10},
			{Name: "Lime", Price: 25},
		},
	}
}

// MealKeys returns the served meal keys in serving order.
func (l Layout) MealKeys() []MealKey {
	keys := make([]MealKey, len(l.Meals))
	for i, m := range l.Meals {
		keys[i] = m.Key
	}
	return keys
}

// Validate checks the layout for internal consistency.
func (l Layout) Validate() error {
	if l.DaysPerWeek != 6 && l.DaysPerWeek != 7 {
		return fmt.Errorf("days per week must be 6 or 7, got %d", l.DaysPerWeek)
	}
	if len(l.Meals) == 0 {
		return fmt.Errorf("at least one meal slot is required")
	}
	seenMeals := make(map[MealKey]bool)
	for _, m := range l.Meals {
		if m.Key == "" {
			return fmt.Errorf("meal slot without a key")
		}
		if seenMeals[m.Key] {
			return fmt.Errorf("duplicate meal slot %q", m.Key)
		}
		seenMeals[m.Key] = true

		start, err := clock.ParseMinutes(m.Start)
		if err != nil {
			return fmt.Errorf("meal %q start: %w", m.Key, err)
		}
		end, err := clock.ParseMinutes(m.End)
		if err != nil {
			return fmt.Errorf("meal %q end: %w", m.Key, err)
		}
		if start > end {
			return fmt.Errorf("meal %q starts at %s after it ends at %s", m.Key, m.Start, m.End)
		}
	}
	seenSections := make(map[SectionKind]bool)
	dishSections := 0
	for _, s := range l.Sections {
		if s.Kind == "" {
			return fmt.Errorf("section without a kind")
		}
		if seenSections[s.Kind] {
			return fmt.Errorf("duplicate section %q", s.Kind)
		}
		seenSections[s.Kind] = true
		if s.Kind != Note {
			dishSections++
		}
	}
	if dishSections == 0 {
		return fmt.Errorf("at least one dish section is required")
	}
	switch l.ExtrasPolicy {
	case "", ExtrasOmit, ExtrasFallback:
	default:
		return fmt.Errorf("unknown extras policy %q", l.ExtrasPolicy)
	}
	return nil
}
