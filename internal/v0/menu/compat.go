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
	"errors"
	"net/http"

	"MessAPI/internal/provider"

	"github.com/gin-gonic/gin"
)

// Caching policy of the unversioned routes, shared with the CDN in front.
const (
	weekListCacheControl = "public, s-maxage=3600, max-age=300"
	weekCacheControl     = "public, s-maxage=900, max-age=300"
	weekCDNCacheControl  = "max-age=900"
)

// Weeks serves GET /api/weeks.
func (h *Handler) Weeks(c *gin.Context) {
	list, err := h.svc.ListWeeks(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load"})
		return
	}
	c.Header("Cache-Control", weekListCacheControl)
	c.JSON(http.StatusOK, list)
}

// Week serves GET /api/week/:id with the bare week menu as body.
func (h *Handler) Week(c *gin.Context) {
	week, err := h.svc.Week(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) || errors.Is(err, provider.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": "Failed to load"})
		return
	}
	c.Header("Cache-Control", weekCacheControl)
	c.Header("CDN-Cache-Control", weekCDNCacheControl)
	c.JSON(http.StatusOK, week)
}

// Menu serves GET /api/menu, the current menu with its id and source.
func (h *Handler) Menu(c *gin.Context) {
	menu, err := h.svc.Current(c.Request.Context(), nil)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"error":   "Failed to load menu",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, menu)
}
