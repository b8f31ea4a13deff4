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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"MessAPI/internal/clock"
)

// ErrMalformedSource is returned when a raw menu cannot be normalized.
var ErrMalformedSource = errors.New("malformed menu source")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSource, fmt.Sprintf(format, args...))
}

// Top level keys that never name a day.
const (
	keyMenu      = "menu"
	keyExtras    = "extras"
	keyFoodCourt = "foodCourt"
	keyWeek      = "week"
)

// sourceShape is the structural variant of a raw payload.
type sourceShape int

const (
	// shapeFlat maps day keys straight to meals: {"Monday": {...}, ...}
	shapeFlat sourceShape = iota
	// shapeEnvelope wraps the days: {"menu": {"Monday": {...}}, "extras": {...}}
	shapeEnvelope
)

// rawWeek is a payload after shape detection, before any item parsing.
type rawWeek struct {
	foodCourt string
	label     string
	days      map[string]json.RawMessage
	extras    json.RawMessage
}

type placedDay struct {
	sourceKey string
	date      time.Time
	raw       json.RawMessage
}

// Normalizer turns raw menu payloads into WeekMenu values for one layout.
type Normalizer struct {
	layout   Layout
	clock    *clock.Clock
	sections map[SectionKind]Section
	flatKind SectionKind
	notes    map[string]struct{}
}

func NewNormalizer(layout Layout, c *clock.Clock) (*Normalizer, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid menu layout: %w", err)
	}
	n := &Normalizer{
		layout:   layout,
		clock:    c,
		sections: make(map[SectionKind]Section, len(layout.Sections)),
		notes:    make(map[string]struct{}, len(layout.NoteItems)),
	}
	for _, s := range layout.Sections {
		n.sections[s.Kind] = s
		if n.flatKind == "" && s.Kind != Note {
			n.flatKind = s.Kind
		}
	}
	if _, ok := n.sections[Veg]; ok {
		n.flatKind = Veg
	}
	for _, note := range layout.NoteItems {
		n.notes[noteKey(note)] = struct{}{}
	}
	return n, nil
}

func (n *Normalizer) Layout() Layout {
	return n.layout
}

// Normalize parses raw and lays its days out on the week starting at the
// Monday of weekStart. Days keyed by weekday name are placed relative to that
// Monday; days keyed by YYYY-MM-DD keep their own date.
func (n *Normalizer) Normalize(raw []byte, weekStart time.Time) (*WeekMenu, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, malformed("payload is not a JSON object: %v", err)
	}
	if top == nil {
		return nil, malformed("payload is null")
	}

	var (
		src rawWeek
		err error
	)
	switch detectShape(top) {
	case shapeEnvelope:
		src, err = parseEnvelope(top)
	default:
		src, err = parseFlat(top)
	}
	if err != nil {
		return nil, err
	}
	return n.build(src, weekStart)
}

func detectShape(top map[string]json.RawMessage) sourceShape {
	if isObject(top[keyMenu]) {
		return shapeEnvelope
	}
	return shapeFlat
}

func parseEnvelope(top map[string]json.RawMessage) (rawWeek, error) {
	var days map[string]json.RawMessage
	if err := json.Unmarshal(top[keyMenu], &days); err != nil {
		return rawWeek{}, malformed("menu: %v", err)
	}
	src := rawWeek{days: days, extras: top[keyExtras]}
	return src, readMeta(top, &src)
}

func parseFlat(top map[string]json.RawMessage) (rawWeek, error) {
	if raw, ok := top[keyMenu]; ok && !isNull(raw) {
		return rawWeek{}, malformed("menu must be an object")
	}
	src := rawWeek{days: make(map[string]json.RawMessage, len(top)), extras: top[keyExtras]}
	for key, raw := range top {
		switch key {
		case keyMenu, keyExtras, keyFoodCourt, keyWeek:
			continue
		}
		src.days[key] = raw
	}
	return src, readMeta(top, &src)
}

func readMeta(top map[string]json.RawMessage, src *rawWeek) error {
	var err error
	if src.foodCourt, err = optionalString(top, keyFoodCourt); err != nil {
		return err
	}
	src.label, err = optionalString(top, keyWeek)
	return err
}

func optionalString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", malformed("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

func (n *Normalizer) build(src rawWeek, weekStart time.Time) (*WeekMenu, error) {
	if len(src.days) == 0 {
		return nil, malformed("menu has no days")
	}
	monday := n.clock.StartOfWeek(weekStart)

	sourceKeys := make([]string, 0, len(src.days))
	for k := range src.days {
		sourceKeys = append(sourceKeys, k)
	}
	sort.Strings(sourceKeys)

	placed := make(map[string]placedDay, len(sourceKeys))
	var spanMonday time.Time
	for _, key := range sourceKeys {
		date, err := n.placeDay(key, monday)
		if err != nil {
			return nil, err
		}
		dayMonday := n.clock.StartOfWeek(date)
		if offset := n.clock.DaysBetween(dayMonday, date); offset >= n.layout.DaysPerWeek {
			slog.Warn("skipping day outside the served week", "day", key, "daysPerWeek", n.layout.DaysPerWeek)
			continue
		}
		if spanMonday.IsZero() {
			spanMonday = dayMonday
		} else if !spanMonday.Equal(dayMonday) {
			return nil, malformed("day %q is not in the same week as the other days", key)
		}

		dateKey := n.clock.DateKey(date)
		if prev, dup := placed[dateKey]; dup {
			return nil, malformed("days %q and %q both fall on %s", prev.sourceKey, key, dateKey)
		}
		placed[dateKey] = placedDay{sourceKey: key, date: date, raw: src.days[key]}
	}
	if len(placed) == 0 {
		return nil, malformed("menu has no days within the served week")
	}

	week := &WeekMenu{
		FoodCourt: src.foodCourt,
		Week:      src.label,
		Menu:      make(map[string]*DayMenu, len(placed)),
	}
	if week.FoodCourt == "" {
		week.FoodCourt = n.layout.FoodCourt
	}
	if week.Week == "" {
		week.Week = n.weekLabel(spanMonday)
	}
	for dateKey, p := range placed {
		day, err := n.buildDay(p)
		if err != nil {
			return nil, err
		}
		week.Menu[dateKey] = day
	}

	extras, err := n.normalizeExtras(src.extras)
	if err != nil {
		return nil, err
	}
	week.Extras = extras
	return week, nil
}

// placeDay resolves a source day key to its calendar date.
func (n *Normalizer) placeDay(key string, monday time.Time) (time.Time, error) {
	if date, err := n.clock.ParseDateKey(strings.TrimSpace(key)); err == nil {
		return date, nil
	}
	weekday, ok := parseWeekday(key)
	if !ok {
		return time.Time{}, malformed("unknown day %q", key)
	}
	offset := (int(weekday) + 6) % 7
	return n.clock.AddDays(monday, offset), nil
}

func (n *Normalizer) weekLabel(monday time.Time) string {
	end := n.clock.AddDays(monday, n.layout.DaysPerWeek-1)
	return fmt.Sprintf("%s - %s, %d", n.clock.ShortDate(monday), n.clock.ShortDate(end), end.Year())
}

func (n *Normalizer) buildDay(p placedDay) (*DayMenu, error) {
	if !isObject(p.raw) {
		return nil, malformed("day %q must be an object", p.sourceKey)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(p.raw, &fields); err != nil {
		return nil, malformed("day %q: %v", p.sourceKey, err)
	}
	if nested, ok := fields["meals"]; ok && !isNull(nested) {
		if !isObject(nested) {
			return nil, malformed("day %q: meals must be an object", p.sourceKey)
		}
		fields = nil
		if err := json.Unmarshal(nested, &fields); err != nil {
			return nil, malformed("day %q meals: %v", p.sourceKey, err)
		}
	}

	day := &DayMenu{
		Day:         n.clock.DayName(p.date),
		DisplayDate: n.clock.ShortDate(p.date),
		Meals:       make(map[MealKey]*Meal),
	}
	for _, slot := range n.layout.Meals {
		raw, ok := fields[string(slot.Key)]
		if !ok {
			continue
		}
		meal, err := n.buildMeal(slot, raw)
		if err != nil {
			return nil, fmt.Errorf("day %q %s: %w", p.sourceKey, slot.Key, err)
		}
		if meal != nil {
			day.Meals[slot.Key] = meal
		}
	}
	return day, nil
}

// buildMeal accepts a flat item list, a sectioned list or a category-keyed
// object. It returns nil when no dish survives.
func (n *Normalizer) buildMeal(slot MealSlot, raw json.RawMessage) (*Meal, error) {
	if isNull(raw) {
		return nil, nil
	}
	collected := make(map[SectionKind][]string)

	switch firstByte(raw) {
	case '"', '[':
		items, err := n.parseItems(raw)
		if err != nil {
			return nil, err
		}
		collected[n.flatKind] = items
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, malformed("%v", err)
		}
		if err := n.collectObject(fields, collected); err != nil {
			return nil, err
		}
	default:
		return nil, malformed("meal must be an object, a string or a list")
	}
	return n.assembleMeal(slot, collected), nil
}

func (n *Normalizer) collectObject(fields map[string]json.RawMessage, collected map[SectionKind][]string) error {
	if rawSections, ok := fields["sections"]; ok && !isNull(rawSections) {
		var sections []struct {
			Kind  SectionKind     `json:"kind"`
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(rawSections, &sections); err != nil {
			return malformed("sections: %v", err)
		}
		for _, s := range sections {
			if _, known := n.sections[s.Kind]; !known {
				return malformed("unknown section kind %q", s.Kind)
			}
			items, err := n.parseItems(s.Items)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Kind, err)
			}
			collected[s.Kind] = append(collected[s.Kind], items...)
		}
		return nil
	}

	sawCategory := false
	for _, s := range n.layout.Sections {
		raw, ok := fields[string(s.Kind)]
		if !ok {
			continue
		}
		sawCategory = true
		items, err := n.parseItems(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Kind, err)
		}
		collected[s.Kind] = append(collected[s.Kind], items...)
	}
	if rawItems, ok := fields["items"]; ok && !sawCategory {
		items, err := n.parseItems(rawItems)
		if err != nil {
			return fmt.Errorf("items: %w", err)
		}
		collected[n.flatKind] = items
	}
	return nil
}

func (n *Normalizer) assembleMeal(slot MealSlot, collected map[SectionKind][]string) *Meal {
	var (
		sections []MealSection
		flat     []string
	)
	for _, s := range n.layout.Sections {
		if s.Kind == Note {
			continue
		}
		items := collected[s.Kind]
		if len(items) == 0 {
			continue
		}
		sections = append(sections, MealSection{Kind: s.Kind, Title: s.Title, Items: items})
		flat = append(flat, items...)
	}
	if len(sections) == 0 {
		return nil
	}
	return &Meal{
		Name:      slot.Name,
		StartTime: slot.Start,
		EndTime:   slot.End,
		Items:     flat,
		Sections:  sections,
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	return firstByte(raw) == '{'
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func parseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}
