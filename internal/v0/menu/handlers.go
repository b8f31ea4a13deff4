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
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"MessAPI/internal/provider"
	"MessAPI/internal/rotation"
	"MessAPI/internal/service"
	"MessAPI/internal/v0/common"
	"MessAPI/internal/weekmenu"

	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest is reported when the caller went away before the
// menu was ready.
const StatusClientClosedRequest = 499

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Handler serves menus from the service. It never writes menu data.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, provider.ErrNotFound), errors.Is(err, provider.ErrInvalidID):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrRotationDisabled),
		errors.Is(err, rotation.ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err in the envelope. Load failures are reported generically.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case StatusClientClosedRequest:
		c.AbortWithStatus(status)
		return
	case http.StatusGatewayTimeout:
		msg = "Timed out loading menu"
	case http.StatusInternalServerError:
		msg = "Failed to load menu"
		if errors.Is(err, weekmenu.ErrMalformedSource) {
			msg = "Menu data is malformed"
		}
	}
	common.Fail(c, status, msg)
}

// optionalInt reads an integer query parameter. ok is false when the value is
// present but not an integer.
func optionalInt(c *gin.Context, name string) (*int, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// GetCurrent returns the menu in effect now, or for ?week=N in rotation mode.
func (h *Handler) GetCurrent(c *gin.Context) {
	week, ok := optionalInt(c, "week")
	if !ok {
		common.Fail(c, http.StatusBadRequest, "week must be an integer")
		return
	}
	menu, err := h.svc.Current(c.Request.Context(), week)
	if err != nil {
		fail(c, err)
		return
	}
	common.Success(c, http.StatusOK, menu)
}

func (h *Handler) GetWeeks(c *gin.Context) {
	year := c.Query("year")
	if year != "" && !yearPattern.MatchString(year) {
		common.Fail(c, http.StatusBadRequest, "year must have four digits")
		return
	}
	list, err := h.svc.ListWeeks(c.Request.Context(), year)
	if err != nil {
		fail(c, err)
		return
	}
	common.Success(c, http.StatusOK, list)
}

func (h *Handler) GetYears(c *gin.Context) {
	years, err := h.svc.Years(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	common.Success(c, http.StatusOK, gin.H{"years": years})
}

func (h *Handler) GetWeek(c *gin.Context) {
	week, err := h.svc.Week(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	common.Success(c, http.StatusOK, week)
}

// GetHighlight returns the meal to emphasise on ?date=YYYY-MM-DD, today by default.
func (h *Handler) GetHighlight(c *gin.Context) {
	highlight, err := h.svc.Highlight(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	common.Success(c, http.StatusOK, highlight)
}

// GetRotation resolves a rotation week from ?week=N or ?variant=N.
func (h *Handler) GetRotation(c *gin.Context) {
	week, okWeek := optionalInt(c, "week")
	variant, okVariant := optionalInt(c, "variant")
	if !okWeek || !okVariant {
		common.Fail(c, http.StatusBadRequest, "week and variant must be integers")
		return
	}
	if week != nil && variant != nil {
		common.Fail(c, http.StatusBadRequest, "use either week or variant, not both")
		return
	}
	info, err := h.svc.Rotation(week, variant)
	if err != nil {
		fail(c, err)
		return
	}
	common.Success(c, http.StatusOK, info)
}
