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
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const maxRemoteBody = 4 << 20

// HTTP reads menus from a remote menu API exposing /week/{id} and /weeks.
type HTTP struct {
	baseURL string
	client  *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) Name() string {
	return "http"
}

func (h *HTTP) FetchWeekMenu(ctx context.Context, id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	body, err := h.get(ctx, "/week/"+url.PathEscape(id))
	if errors.Is(err, errRemoteNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching menu %s: %w", id, err)
	}
	return body, nil
}

func (h *HTTP) ListWeekIDs(ctx context.Context) ([]string, error) {
	body, err := h.get(ctx, "/weeks")
	if err != nil {
		return nil, fmt.Errorf("fetching week ids: %w", err)
	}
	var resp struct {
		WeekIDs []string `json:"weekIds"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding week ids: %w", err)
	}
	ids := make([]string, 0, len(resp.WeekIDs))
	for _, id := range resp.WeekIDs {
		if ValidateID(id) == nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

var (
	errRemoteNotFound = errors.New("remote returned 404")
	// ErrResponseTooLarge is returned when a remote body exceeds the read limit.
	ErrResponseTooLarge = errors.New("remote response too large")
)

func (h *HTTP) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errRemoteNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("remote returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxRemoteBody {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, maxRemoteBody)
	}
	return body, nil
}
