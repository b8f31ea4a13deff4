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
package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MessAPI/internal/clock"
	"MessAPI/internal/config"
	"MessAPI/internal/provider"
	"MessAPI/internal/rotation"
	"MessAPI/internal/service"
	"MessAPI/internal/v0/common"
	"MessAPI/internal/weekmenu"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWeek = `{
	"foodCourt": "Sindhi Mess",
	"menu": {
		"Monday": {
			"lunch": {"sections": [{"kind": "veg", "title": "Veg", "items": ["Dal", "Rice"]}]},
			"dinner": {"veg": "Rajma, Chapati"}
		},
		"Tuesday": {"lunch": {"veg": "Lobia"}}
	},
	"extras": {"items": [{"name": "Lassi", "price": 35}, {"name": "", "price": 10}]}
}`

// newRouter serves the sindhi-mess profile from a temp dir, frozen on
// Monday 2025-10-13 at 20:00 IST.
func newRouter(t *testing.T, files map[string]string) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	profile, err := config.LoadProfile("sindhi-mess", "")
	require.NoError(t, err)

	c := clock.IST()
	c = c.At(time.Date(2025, 10, 13, 20, 0, 0, 0, c.Location()))
	svc, err := service.NewFromProfile(profile, c, provider.NewFile(dir), provider.NewCache(8, time.Minute, time.Minute))
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(common.RequestID())
	h := NewHandler(svc)
	RegisterCompatRoutes(router.Group("/api"), h)
	RegisterRoutes(router.Group("/api/v0"), h)
	return router
}

func allVariants() map[string]string {
	return map[string]string{
		"menu1.json": testWeek,
		"menu2.json": testWeek,
		"menu3.json": testWeek,
		"menu4.json": `{"menu": ["broken"]}`,
	}
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Errors   []string        `json:"errors"`
	Metadata common.Metadata `json:"metadata"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "v0", env.Metadata.Version)
	return env
}

func TestCompatWeeks(t *testing.T) {
	router := newRouter(t, allVariants())

	w := get(router, "/api/weeks")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=3600, max-age=300", w.Header().Get("Cache-Control"))

	var body service.WeekList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"menu1", "menu2", "menu3", "menu4"}, body.WeekIDs)
	assert.Equal(t, 3, body.Meta[2].Variant)
}

func TestCompatWeek(t *testing.T) {
	router := newRouter(t, allVariants())

	w := get(router, "/api/week/menu1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=900, max-age=300", w.Header().Get("Cache-Control"))
	assert.Equal(t, "max-age=900", w.Header().Get("CDN-Cache-Control"))

	var week struct {
		FoodCourt string `json:"foodCourt"`
		Week      string `json:"week"`
		Menu      map[string]struct {
			Day   string                     `json:"day"`
			Meals map[string]json.RawMessage `json:"meals"`
		} `json:"menu"`
		Extras struct {
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"extras"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Equal(t, "Oct 13 - Oct 18, 2025", week.Week)
	assert.Equal(t, "Monday", week.Menu["2025-10-13"].Day)
	assert.Len(t, week.Menu["2025-10-13"].Meals, 2)
	assert.Len(t, week.Menu["2025-10-14"].Meals, 1)
	require.Len(t, week.Extras.Items, 1)
	assert.Equal(t, "Lassi", week.Extras.Items[0].Name)

	w = get(router, "/api/week/menu9")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = get(router, "/api/week/menu4")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestCompatMenu(t *testing.T) {
	router := newRouter(t, allVariants())

	w := get(router, "/api/menu")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"id", "generatedAt", "source", "foodCourt", "week", "menu", "extras", "current", "rotation"} {
		assert.Contains(t, body, key)
	}
	assert.JSONEq(t, `"menu2"`, string(body["id"]))
	assert.JSONEq(t, `{"dateKey":"2025-10-13","mealKey":"dinner","isOngoing":true}`, string(body["current"]))
}

func TestCompatMenuFailure(t *testing.T) {
	router := newRouter(t, map[string]string{"menu2.json": `{"menu": "nope"}`})

	w := get(router, "/api/menu")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to load menu", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("menu x: %w", provider.ErrNotFound), http.StatusNotFound},
		{"invalid id", provider.ErrInvalidID, http.StatusNotFound},
		{"invalid date", service.ErrInvalidDate, http.StatusBadRequest},
		{"rotation disabled", service.ErrRotationDisabled, http.StatusBadRequest},
		{"unknown variant", rotation.ErrUnknownVariant, http.StatusBadRequest},
		{"cancelled", context.Canceled, StatusClientClosedRequest},
		{"deadline", fmt.Errorf("fetching menu x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"malformed", weekmenu.ErrMalformedSource, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestFailContextErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fail(c, context.Canceled)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, StatusClientClosedRequest, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	fail(c, fmt.Errorf("fetching menu x: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, []string{"Timed out loading menu"}, env.Errors)
}

func TestGetCurrent(t *testing.T) {
	router := newRouter(t, allVariants())

	w := get(router, "/api/v0/menu/current")
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Empty(t, env.Errors)

	var menu struct {
		ID       string `json:"id"`
		Rotation struct {
			WeekNumber int  `json:"weekNumber"`
			Overridden bool `json:"isOverridden"`
		} `json:"rotation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &menu))
	assert.Equal(t, "menu2", menu.ID)
	assert.Equal(t, 2, menu.Rotation.WeekNumber)
	assert.False(t, menu.Rotation.Overridden)

	w = get(router, "/api/v0/menu/current?week=5")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &menu))
	assert.Equal(t, "menu1", menu.ID)
	assert.True(t, menu.Rotation.Overridden)

	w = get(router, "/api/v0/menu/current?week=four")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeEnvelope(t, w).Errors)

	w = get(router, "/api/v0/menu/current?week=4")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"Menu data is malformed"}, decodeEnvelope(t, w).Errors)
}

func TestGetWeekAndHighlight(t *testing.T) {
	router := newRouter(t, allVariants())

	w := get(router, "/api/v0/menu/weeks/menu3")
	require.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/api/v0/menu/weeks/menu8")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/api/v0/menu/weeks/menu3/highlight?date=2025-10-14")
	require.Equal(t, http.StatusOK, w.Code)
	var highlight service.DayHighlight
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &highlight))
	require.NotNil(t, highlight.Highlight)
	assert.Equal(t, "lunch", string(highlight.Highlight.MealKey))
	assert.False(t, highlight.Highlight.IsPrimaryUpcoming)

	w = get(router, "/api/v0/menu/weeks/menu3/highlight")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &highlight))
	assert.Equal(t, "2025-10-13", highlight.DateKey)
	assert.True(t, highlight.Highlight.IsPrimaryUpcoming)

	w = get(router, "/api/v0/menu/weeks/menu3/highlight?date=tomorrow")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWeeksAndYears(t *testing.T) {
	router := newRouter(t, map[string]string{
		"2024-12-30_to_2025-01-05.json": testWeek,
		"2025-10-13_to_2025-10-19.json": testWeek,
	})

	w := get(router, "/api/v0/menu/weeks?year=2025")
	require.Equal(t, http.StatusOK, w.Code)
	var list service.WeekList
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &list))
	assert.Equal(t, []string{"2025-10-13_to_2025-10-19"}, list.WeekIDs)
	assert.Equal(t, "2025-10-13", list.Meta[0].StartDate)

	w = get(router, "/api/v0/menu/weeks?year=25")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(router, "/api/v0/menu/years")
	require.Equal(t, http.StatusOK, w.Code)
	var years struct {
		Years []string `json:"years"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &years))
	assert.Equal(t, []string{"2024", "2025"}, years.Years)
}

func TestGetRotation(t *testing.T) {
	router := newRouter(t, allVariants())

	cases := []struct {
		query      string
		status     int
		weekNumber int
		variant    int
	}{
		{"", http.StatusOK, 2, 2},
		{"?week=7", http.StatusOK, 7, 3},
		{"?variant=4", http.StatusOK, 4, 4},
		{"?variant=1", http.StatusOK, 1, 1},
		{"?variant=5", http.StatusBadRequest, 0, 0},
		{"?week=1&variant=1", http.StatusBadRequest, 0, 0},
		{"?variant=x", http.StatusBadRequest, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := get(router, "/api/v0/menu/rotation"+tc.query)
			require.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				return
			}
			var info service.RotationInfo
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &info))
			assert.Equal(t, tc.weekNumber, info.WeekNumber)
			assert.Equal(t, tc.variant, info.Variant)
		})
	}
}
