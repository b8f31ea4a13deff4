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
// Package provider retrieves raw menu payloads by identifier. Identifiers are
// either week ids ("2025-08-18_to_2025-08-24") or rotation variant names
// ("menu2"); backends treat them as opaque keys.
package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrNotFound  = errors.New("menu not found")
	ErrInvalidID = errors.New("invalid menu id")
)

// Provider is a source of raw menu payloads.
type Provider interface {
	// FetchWeekMenu returns the raw JSON stored under id, or an error wrapping
	// ErrNotFound when nothing is.
	FetchWeekMenu(ctx context.Context, id string) ([]byte, error)
	// ListWeekIDs returns every known id in ascending order.
	ListWeekIDs(ctx context.Context) ([]string, error)
	Name() string
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateID rejects identifiers that could escape the backend's key space.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
