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
	"testing"
	"time"

	"MessAPI/internal/weekmenu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWeeks(t *testing.T) {
	c := NewCache(2, time.Minute, time.Minute)
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	key := WeekKey("menu2", monday)
	assert.Equal(t, "menu2@2025-10-13", key)

	_, ok := c.Week(key)
	assert.False(t, ok)

	week := &weekmenu.WeekMenu{FoodCourt: "Sindhi Mess"}
	c.StoreWeek(key, week)
	got, ok := c.Week(key)
	require.True(t, ok)
	assert.Same(t, week, got)

	c.StoreWeek("b", &weekmenu.WeekMenu{})
	c.StoreWeek("c", &weekmenu.WeekMenu{})
	assert.Equal(t, 2, c.Len())
	_, ok = c.Week(key)
	assert.False(t, ok, "oldest entry should be evicted")
}

func TestCacheIDsAreCopied(t *testing.T) {
	c := NewCache(4, time.Minute, time.Minute)
	ids := []string{"menu1", "menu2"}
	c.StoreIDs(ids)
	ids[0] = "changed"

	got, ok := c.IDs()
	require.True(t, ok)
	assert.Equal(t, []string{"menu1", "menu2"}, got)
	got[1] = "changed"

	again, _ := c.IDs()
	assert.Equal(t, []string{"menu1", "menu2"}, again)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(4, 20*time.Millisecond, 20*time.Millisecond)
	c.StoreWeek("k", &weekmenu.WeekMenu{})
	c.StoreIDs([]string{"menu1"})

	assert.Eventually(t, func() bool {
		_, weekOK := c.Week("k")
		_, idsOK := c.IDs()
		return !weekOK && !idsOK
	}, time.Second, 10*time.Millisecond)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	c.StoreWeek("k", &weekmenu.WeekMenu{})
	_, ok := c.Week("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	c.Purge()
}
