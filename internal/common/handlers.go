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
package common

import (
	"net/http"
	"time"

	v0common "MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	InternalServerLatency string `json:"internal_server_latency"`
	Uptime                string `json:"uptime"`
	Profile               string `json:"profile"`
	Source                string `json:"source"`
	CachedWeeks           int    `json:"cached_weeks"`
}

// Uptime Logic
var startTime = time.Now()

func uptime() time.Duration {
	return time.Since(startTime)
}

// Ping Logic
func ping() time.Duration {
	start := time.Now()
	return time.Since(start)
}

// Handler reports the health of the running server.
type Handler struct {
	profile     string
	source      string
	cachedWeeks func() int
}

// NewHandler takes the deployment profile name, the menu source name and a
// counter of cached weeks, which may be nil.
func NewHandler(profile, source string, cachedWeeks func() int) *Handler {
	return &Handler{profile: profile, source: source, cachedWeeks: cachedWeeks}
}

func (h *Handler) Status(c *gin.Context) {
	data := StatusResponse{
		InternalServerLatency: ping().String(),
		Uptime:                uptime().Truncate(time.Second).String(),
		Profile:               h.profile,
		Source:                h.source,
	}
	if h.cachedWeeks != nil {
		data.CachedWeeks = h.cachedWeeks()
	}
	v0common.Success(c, http.StatusOK, data)
}
