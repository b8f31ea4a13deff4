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
	"time"

	"MessAPI/internal/weekmenu"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const listKey = "ids"

// Cache holds normalized week menus and the id list for a bounded time. A week
// is cached whole; callers must treat returned menus as read-only.
type Cache struct {
	weeks *expirable.LRU[string, *weekmenu.WeekMenu]
	lists *expirable.LRU[string, []string]
}

func NewCache(size int, weekTTL, listTTL time.Duration) *Cache {
	return &Cache{
		weeks: expirable.NewLRU[string, *weekmenu.WeekMenu](size, nil, weekTTL),
		lists: expirable.NewLRU[string, []string](1, nil, listTTL),
	}
}

// WeekKey scopes a cached week to the Monday it was laid out on, since
// weekday-keyed sources normalize differently from week to week.
func WeekKey(id string, monday time.Time) string {
	return id + "@" + monday.Format("2006-01-02")
}

func (c *Cache) Week(key string) (*weekmenu.WeekMenu, bool) {
	if c == nil {
		return nil, false
	}
	return c.weeks.Get(key)
}

func (c *Cache) StoreWeek(key string, week *weekmenu.WeekMenu) {
	if c == nil || week == nil {
		return
	}
	c.weeks.Add(key, week)
}

func (c *Cache) IDs() ([]string, bool) {
	if c == nil {
		return nil, false
	}
	ids, ok := c.lists.Get(listKey)
	if !ok {
		return nil, false
	}
	return append([]string(nil), ids...), true
}

func (c *Cache) StoreIDs(ids []string) {
	if c == nil {
		return
	}
	c.lists.Add(listKey, append([]string(nil), ids...))
}

// Len reports the number of cached weeks.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.weeks.Len()
}

func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.weeks.Purge()
	c.lists.Purge()
}
