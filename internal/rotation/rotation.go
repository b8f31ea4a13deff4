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
// Package rotation maps calendar weeks onto the mess's rotating menu variants.
//
// The mapping is anchored on a manually observed calibration point: a Monday
// on which the mess was seen serving a known week of the cycle. Every other
// week number is counted from there, so the anchor has to be updated by hand
// whenever the real schedule slips (holiday weeks and the like).
package rotation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"MessAPI/internal/clock"
)

var ErrUnknownVariant = errors.New("unknown menu variant")

const (
	DefaultVariants      = 4
	DefaultVariantPrefix = "menu"
)

// Options holds the calibration of a rotating deployment.
type Options struct {
	ReferenceMonday string // YYYY-MM-DD, must be a Monday
	ReferenceWeek   int
	Variants        int
	VariantPrefix   string
}

// Resolution is the outcome of choosing a variant for a week.
type Resolution struct {
	Variant      int    `json:"variant"`
	VariantName  string `json:"variantName"`
	WeekNumber   int    `json:"weekNumber"`
	IsOverridden bool   `json:"isOverridden"`
}

type Calculator struct {
	clock           *clock.Clock
	referenceMonday time.Time
	referenceWeek   int
	variants        int
	prefix          string
}

// New validates the calibration and returns a calculator bound to c.
func New(c *clock.Clock, opts Options) (*Calculator, error) {
	if opts.Variants == 0 {
		opts.Variants = DefaultVariants
	}
	if opts.Variants < 1 {
		return nil, fmt.Errorf("rotation needs at least one variant, got %d", opts.Variants)
	}
	if opts.VariantPrefix == "" {
		opts.VariantPrefix = DefaultVariantPrefix
	}
	monday, err := c.ParseDateKey(strings.TrimSpace(opts.ReferenceMonday))
	if err != nil {
		return nil, fmt.Errorf("invalid reference monday %q: %w", opts.ReferenceMonday, err)
	}
	if monday.Weekday() != time.Monday {
		return nil, fmt.Errorf("reference date %s is a %s, not a Monday", opts.ReferenceMonday, monday.Weekday())
	}
	return &Calculator{
		clock:           c,
		referenceMonday: monday,
		referenceWeek:   opts.ReferenceWeek,
		variants:        opts.Variants,
		prefix:          opts.VariantPrefix,
	}, nil
}

func (r *Calculator) Variants() int {
	return r.variants
}

// WeekNumberFor returns the rotation week containing t. The result may be zero
// or negative for dates before the calibration point.
func (r *Calculator) WeekNumberFor(t time.Time) int {
	monday := r.clock.StartOfWeek(t)
	days := r.clock.DaysBetween(r.referenceMonday, monday)
	weeksDiff := int(math.Round(float64(days) / 7))
	return r.referenceWeek + weeksDiff
}

// MondayOf returns the Monday that starts the given rotation week.
func (r *Calculator) MondayOf(weekNumber int) time.Time {
	return r.clock.AddDays(r.referenceMonday, (weekNumber-r.referenceWeek)*7)
}

// VariantFor maps a week number onto 1..N.
func (r *Calculator) VariantFor(weekNumber int) int {
	return VariantFor(weekNumber, r.variants)
}

// VariantFor maps weekNumber onto 1..n. Week 1 is variant 1, week n+1 wraps
// back to variant 1, and non-positive weeks continue the cycle backwards.
func VariantFor(weekNumber, n int) int {
	// Go's % keeps the sign of the dividend, hence the second modulus.
	offset := ((weekNumber-1)%n + n) % n
	return offset + 1
}

// VariantName returns the provider identifier of a variant, e.g. "menu3".
func (r *Calculator) VariantName(variant int) string {
	return r.prefix + strconv.Itoa(variant)
}

// ParseVariantName is the inverse of VariantName.
func (r *Calculator) ParseVariantName(id string) (int, bool) {
	rest, found := strings.CutPrefix(id, r.prefix)
	if !found {
		return 0, false
	}
	variant, err := strconv.Atoi(rest)
	if err != nil || variant < 1 || variant > r.variants {
		return 0, false
	}
	return variant, true
}

// Resolve picks the variant to show. A non-nil override week number is used
// as is; otherwise the week is derived from now.
func (r *Calculator) Resolve(override *int, now time.Time) Resolution {
	weekNumber := 0
	overridden := override != nil
	if overridden {
		weekNumber = *override
	} else {
		weekNumber = r.WeekNumberFor(now)
	}
	variant := r.VariantFor(weekNumber)
	return Resolution{
		Variant:      variant,
		VariantName:  r.VariantName(variant),
		WeekNumber:   weekNumber,
		IsOverridden: overridden,
	}
}

// WeekForVariant returns the week number closest to the current week that
// serves variant, at most half a cycle away.
func (r *Calculator) WeekForVariant(variant int, now time.Time) (int, error) {
	if variant < 1 || variant > r.variants {
		return 0, fmt.Errorf("%w: %d is outside 1..%d", ErrUnknownVariant, variant, r.variants)
	}
	current := r.WeekNumberFor(now)
	offset := variant - r.VariantFor(current)
	half := r.variants / 2
	if offset < -half {
		offset += r.variants
	}
	if offset > half {
		offset -= r.variants
	}
	return current + offset, nil
}
