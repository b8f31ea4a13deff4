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
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// normalizeExtras validates the optional add-on price list. Invalid entries
// are dropped one by one; an empty result follows the layout's policy.
func (n *Normalizer) normalizeExtras(raw json.RawMessage) (*MenuExtras, error) {
	extras := &MenuExtras{
		Category: DefaultExtrasCategory,
		Currency: n.currency(),
	}
	if !isNull(raw) {
		if !isObject(raw) {
			return nil, malformed("extras must be an object")
		}
		var block struct {
			Category string          `json:"category"`
			Currency string          `json:"currency"`
			Items    json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &block); err != nil {
			return nil, malformed("extras: %v", err)
		}
		if category := collapseSpaces(block.Category); category != "" {
			extras.Category = category
		}
		if currency := strings.ToUpper(strings.TrimSpace(block.Currency)); currency != "" {
			if isCurrencyCode(currency) {
				extras.Currency = currency
			} else {
				slog.Warn("ignoring invalid extras currency", "currency", block.Currency)
			}
		}
		items, err := parseExtraItems(block.Items)
		if err != nil {
			return nil, err
		}
		extras.Items = items
	}

	if len(extras.Items) > 0 {
		return extras, nil
	}
	if n.layout.ExtrasPolicy == ExtrasFallback {
		fallback := n.layout.FallbackExtras
		if fallback == nil {
			fallback = DefaultFallbackExtras()
		}
		return fallback.clone(), nil
	}
	return nil, nil
}

func (n *Normalizer) currency() string {
	if n.layout.Currency != "" {
		return n.layout.Currency
	}
	return DefaultCurrency
}

func parseExtraItems(raw json.RawMessage) ([]ExtraItem, error) {
	if isNull(raw) {
		return nil, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, malformed("extras items must be a list")
	}
	items := make([]ExtraItem, 0, len(list))
	for i, el := range list {
		item, reason := parseExtraItem(el)
		if reason != "" {
			slog.Warn("dropping extras item", "index", i, "reason", reason)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// parseExtraItem returns the reason an entry is invalid, or "" when it is kept.
func parseExtraItem(raw json.RawMessage) (ExtraItem, string) {
	if !isObject(raw) {
		return ExtraItem{}, "not an object"
	}
	var fields struct {
		Name  json.RawMessage `json:"name"`
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ExtraItem{}, err.Error()
	}
	var name string
	if isNull(fields.Name) || json.Unmarshal(fields.Name, &name) != nil {
		return ExtraItem{}, "missing name"
	}
	name = collapseSpaces(name)
	if name == "" {
		return ExtraItem{}, "empty name"
	}
	price, ok := parsePrice(fields.Price)
	if !ok {
		return ExtraItem{}, "invalid price"
	}
	return ExtraItem{Name: name, Price: price}, ""
}

// parsePrice accepts a JSON number or a numeric string.
func parsePrice(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		price, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, false
	}
	return price, true
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
