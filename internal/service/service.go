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
// Package service answers menu questions for the HTTP layer: which weeks
// exist, what a week contains, and which menu and meal apply right now.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"MessAPI/internal/clock"
	"MessAPI/internal/config"
	"MessAPI/internal/provider"
	"MessAPI/internal/resolver"
	"MessAPI/internal/rotation"
	"MessAPI/internal/weekmenu"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrRotationDisabled = errors.New("menu rotation is not enabled")
)

const warmConcurrency = 4

type Deps struct {
	Clock      *clock.Clock
	Provider   provider.Provider
	Normalizer *weekmenu.Normalizer
	Resolver   *resolver.Resolver
	Rotation   *rotation.Calculator // required in rotation mode only
	Cache      *provider.Cache      // optional
	Mode       config.Mode
	FixedID    string
}

type Service struct {
	clock      *clock.Clock
	provider   provider.Provider
	normalizer *weekmenu.Normalizer
	resolver   *resolver.Resolver
	rotation   *rotation.Calculator
	cache      *provider.Cache
	mode       config.Mode
	fixedID    string
	loads      singleflight.Group
}

func New(d Deps) (*Service, error) {
	if d.Clock == nil || d.Provider == nil || d.Normalizer == nil || d.Resolver == nil {
		return nil, fmt.Errorf("service needs a clock, provider, normalizer and resolver")
	}
	switch d.Mode {
	case config.ModeWeekly:
	case config.ModeRotation:
		if d.Rotation == nil {
			return nil, fmt.Errorf("rotation mode needs a rotation calculator")
		}
	case config.ModeFixed:
		if err := provider.ValidateID(d.FixedID); err != nil {
			return nil, fmt.Errorf("fixed menu id: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", d.Mode)
	}
	return &Service{
		clock:      d.Clock,
		provider:   d.Provider,
		normalizer: d.Normalizer,
		resolver:   d.Resolver,
		rotation:   d.Rotation,
		cache:      d.Cache,
		mode:       d.Mode,
		fixedID:    d.FixedID,
	}, nil
}

// NewFromProfile wires the normalizer, resolver and rotation calculator
// described by a deployment profile around p.
func NewFromProfile(profile config.Profile, c *clock.Clock, p provider.Provider, cache *provider.Cache) (*Service, error) {
	layout := profile.Layout()
	normalizer, err := weekmenu.NewNormalizer(layout, c)
	if err != nil {
		return nil, err
	}
	deps := Deps{
		Clock:      c,
		Provider:   p,
		Normalizer: normalizer,
		Resolver:   resolver.New(c, layout.MealKeys()),
		Cache:      cache,
		Mode:       profile.Mode,
		FixedID:    profile.FixedID,
	}
	if profile.Mode == config.ModeRotation {
		deps.Rotation, err = rotation.New(c, profile.RotationOptions())
		if err != nil {
			return nil, err
		}
	}
	return New(deps)
}

func (s *Service) Mode() config.Mode {
	return s.mode
}

// WeekIDs returns the ids known to the provider in ascending order.
func (s *Service) WeekIDs(ctx context.Context) ([]string, error) {
	if ids, ok := s.cache.IDs(); ok {
		return ids, nil
	}
	ids, err := s.provider.ListWeekIDs(ctx)
	if err != nil {
		logLoadError("listing menus failed", err, "provider", s.provider.Name())
		return nil, err
	}
	s.cache.StoreIDs(ids)
	return ids, nil
}

// Week loads and normalizes one menu. Date-range ids are laid out on their own
// week, rotation variants and fixed menus on the current one.
func (s *Service) Week(ctx context.Context, id string) (*weekmenu.WeekMenu, error) {
	if err := provider.ValidateID(id); err != nil {
		return nil, err
	}
	return s.weekOn(ctx, id, s.layoutMonday(id))
}

func (s *Service) layoutMonday(id string) time.Time {
	if r, ok := provider.ParseWeekID(id); ok {
		if start, err := s.clock.ParseDateKey(r.Start); err == nil {
			return s.clock.StartOfWeek(start)
		}
	}
	return s.clock.StartOfWeek(s.clock.Now())
}

func (s *Service) weekOn(ctx context.Context, id string, monday time.Time) (*weekmenu.WeekMenu, error) {
	key := provider.WeekKey(id, monday)
	if week, ok := s.cache.Week(key); ok {
		return week, nil
	}
	// The shared load outlives any single caller; each caller stops waiting
	// when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(key, func() (any, error) {
		raw, err := s.provider.FetchWeekMenu(loadCtx, id)
		if err != nil {
			return nil, err
		}
		week, err := s.normalizer.Normalize(raw, monday)
		if err != nil {
			return nil, fmt.Errorf("menu %s: %w", id, err)
		}
		s.cache.StoreWeek(key, week)
		return week, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		if !errors.Is(res.Err, provider.ErrNotFound) {
			logLoadError("loading menu failed", res.Err, "id", id, "provider", s.provider.Name())
		}
		return nil, res.Err
	}
	return res.Val.(*weekmenu.WeekMenu), nil
}

// logLoadError logs provider failures. A cancelled request is not a failure
// and a timeout is only a warning.
func logLoadError(msg string, err error, args ...any) {
	args = append(args, "error", err)
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn(msg, args...)
	default:
		slog.Error(msg, args...)
	}
}

// CurrentMenu is the menu in effect now together with the meal to show.
type CurrentMenu struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Source      string    `json:"source"`
	*weekmenu.WeekMenu
	Current  *resolver.Pointer    `json:"current,omitempty"`
	Rotation *rotation.Resolution `json:"rotation,omitempty"`
}

// Current picks the menu for the current week, or for the given rotation week
// number when override is set.
func (s *Service) Current(ctx context.Context, override *int) (*CurrentMenu, error) {
	now := s.clock.Now()
	if override != nil && s.mode != config.ModeRotation {
		return nil, ErrRotationDisabled
	}

	var (
		id         string
		monday     = s.clock.StartOfWeek(now)
		resolution *rotation.Resolution
	)
	switch s.mode {
	case config.ModeRotation:
		res := s.rotation.Resolve(override, now)
		resolution = &res
		id = res.VariantName
		monday = s.rotation.MondayOf(res.WeekNumber)
	case config.ModeFixed:
		id = s.fixedID
	default:
		ids, err := s.WeekIDs(ctx)
		if err != nil {
			return nil, err
		}
		var ok bool
		if id, ok = provider.WeekContaining(ids, s.clock.DateKey(now)); !ok {
			if id, ok = provider.Latest(ids); !ok {
				return nil, fmt.Errorf("%w: no menus published", provider.ErrNotFound)
			}
		}
		monday = s.layoutMonday(id)
	}

	week, err := s.weekOn(ctx, id, monday)
	if err != nil {
		return nil, err
	}
	current := &CurrentMenu{
		ID:          id,
		GeneratedAt: now.UTC(),
		Source:      s.provider.Name() + ":" + id,
		WeekMenu:    week,
		Rotation:    resolution,
	}
	if ptr, ok := s.resolver.Current(week, now); ok {
		current.Current = &ptr
	}
	return current, nil
}

// DayHighlight is the meal to emphasise on one day of a week.
type DayHighlight struct {
	ID        string              `json:"id"`
	DateKey   string              `json:"dateKey"`
	Highlight *resolver.Highlight `json:"highlight"`
}

// Highlight resolves the meal to emphasise on dateKey of menu id. An empty
// dateKey means today.
func (s *Service) Highlight(ctx context.Context, id, dateKey string) (*DayHighlight, error) {
	now := s.clock.Now()
	if dateKey == "" {
		dateKey = s.clock.DateKey(now)
	} else if _, err := s.clock.ParseDateKey(dateKey); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, dateKey)
	}
	week, err := s.Week(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &DayHighlight{ID: id, DateKey: dateKey}
	if h, ok := s.resolver.ForDay(week, dateKey, now); ok {
		out.Highlight = &h
	}
	return out, nil
}

// RotationInfo describes one week of the rotation.
type RotationInfo struct {
	rotation.Resolution
	Variants  int    `json:"variants"`
	WeekStart string `json:"weekStart"`
}

// Rotation resolves the current rotation week, the given week number, or the
// nearest week serving the given variant.
func (s *Service) Rotation(week, variant *int) (*RotationInfo, error) {
	if s.mode != config.ModeRotation {
		return nil, ErrRotationDisabled
	}
	now := s.clock.Now()
	override := week
	if variant != nil {
		w, err := s.rotation.WeekForVariant(*variant, now)
		if err != nil {
			return nil, err
		}
		override = &w
	}
	res := s.rotation.Resolve(override, now)
	return &RotationInfo{
		Resolution: res,
		Variants:   s.rotation.Variants(),
		WeekStart:  s.clock.DateKey(s.rotation.MondayOf(res.WeekNumber)),
	}, nil
}

// WeekMeta describes a listed id for navigation.
type WeekMeta struct {
	ID        string `json:"id"`
	Year      int    `json:"year,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Variant   int    `json:"variant,omitempty"`
	Label     string `json:"label"`
}

type WeekList struct {
	WeekIDs []string   `json:"weekIds"`
	Meta    []WeekMeta `json:"meta"`
}

// ListWeeks returns the known ids with their navigation metadata, limited to
// one year when year is not empty.
func (s *Service) ListWeeks(ctx context.Context, year string) (*WeekList, error) {
	ids, err := s.WeekIDs(ctx)
	if err != nil {
		return nil, err
	}
	if year != "" {
		ids = provider.WeeksForYear(ids, year)
	}
	list := &WeekList{
		WeekIDs: ids,
		Meta:    make([]WeekMeta, 0, len(ids)),
	}
	if list.WeekIDs == nil {
		list.WeekIDs = []string{}
	}
	for _, id := range ids {
		list.Meta = append(list.Meta, s.describe(id))
	}
	return list, nil
}

func (s *Service) describe(id string) WeekMeta {
	meta := WeekMeta{ID: id, Label: id}
	if r, ok := provider.ParseWeekID(id); ok {
		meta.Year = r.Year()
		meta.StartDate = r.Start
		meta.EndDate = r.End
		start, errStart := s.clock.ParseDateKey(r.Start)
		end, errEnd := s.clock.ParseDateKey(r.End)
		if errStart == nil && errEnd == nil {
			meta.Label = fmt.Sprintf("%s - %s, %d", s.clock.ShortDate(start), s.clock.ShortDate(end), end.Year())
		}
		return meta
	}
	if s.rotation != nil {
		if variant, ok := s.rotation.ParseVariantName(id); ok {
			meta.Variant = variant
			meta.Label = "Menu " + strconv.Itoa(variant)
		}
	}
	return meta
}

// Years returns the distinct years of the listed week ids.
func (s *Service) Years(ctx context.Context) ([]string, error) {
	ids, err := s.WeekIDs(ctx)
	if err != nil {
		return nil, err
	}
	years := provider.Years(ids)
	if years == nil {
		years = []string{}
	}
	return years, nil
}

// Warm loads every listed menu into the cache. Individual failures are logged
// and skipped; the number of menus loaded is returned.
func (s *Service) Warm(ctx context.Context) (int, error) {
	ids, err := s.WeekIDs(ctx)
	if err != nil {
		return 0, err
	}
	var loaded atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := s.Week(ctx, id); err != nil {
				slog.Warn("skipping menu during warmup", "id", id, "error", err)
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(loaded.Load()), err
	}
	slog.Info("menu cache warmed", "loaded", loaded.Load(), "listed", len(ids))
	return int(loaded.Load()), nil
}
