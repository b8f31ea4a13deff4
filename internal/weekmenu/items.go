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
	"strings"
)

// parseItems reads a string or a list of strings and splits every value into
// individual dishes.
func (n *Normalizer) parseItems(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}
	switch firstByte(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, malformed("%v", err)
		}
		return n.SplitItems(s), nil
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, malformed("%v", err)
		}
		var items []string
		for _, el := range list {
			if isNull(el) {
				continue
			}
			var s string
			if err := json.Unmarshal(el, &s); err != nil {
				return nil, malformed("list entries must be strings")
			}
			items = append(items, n.SplitItems(s)...)
		}
		return items, nil
	default:
		return nil, malformed("expected a string or a list of strings")
	}
}

// SplitItems breaks a raw dish string on newlines, commas, semicolons and
// bullets, collapses whitespace and drops empty pieces and notes.
func (n *Normalizer) SplitItems(s string) []string {
	if n.IsNote(s) {
		return nil
	}
	var items []string
	for _, piece := range strings.FieldsFunc(s, isItemDelimiter) {
		item := collapseSpaces(piece)
		if item == "" || n.IsNote(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// IsNote reports whether item is one of the deployment's informational notes.
func (n *Normalizer) IsNote(item string) bool {
	_, ok := n.notes[noteKey(item)]
	return ok
}

func isItemDelimiter(r rune) bool {
	switch r {
	case '\n', '\r', ',', ';', '•':
		return true
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func noteKey(s string) string {
	return strings.ToLower(collapseSpaces(s))
}
