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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the enveloped routes under the versioned group.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	menu := rg.Group("/menu")
	{
		menu.GET("/current", h.GetCurrent)
		menu.GET("/years", h.GetYears)
		menu.GET("/weeks", h.GetWeeks)
		menu.GET("/weeks/:id", h.GetWeek)
		menu.GET("/weeks/:id/highlight", h.GetHighlight)
		menu.GET("/rotation", h.GetRotation)
	}
}

// RegisterCompatRoutes mounts the unversioned routes existing clients use.
func RegisterCompatRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/weeks", h.Weeks)
	rg.GET("/week/:id", h.Week)
	rg.GET("/menu", h.Menu)
}
