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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// APIVersion is reported in every envelope.
	APIVersion = "v0"

	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// Structs for the API response format

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestID string    `json:"requestId"`
}

type APIResponse struct {
	Data     interface{} `json:"data"`
	Errors   []string    `json:"errors"`
	Metadata Metadata    `json:"metadata"`
}

// Response functions

func CreateAPIResponse(data interface{}, errors []string, requestID string) APIResponse {
	// If the requestID is blank and not cascading from other functions generate a new one
	if requestID == "" {
		requestID = uuid.New().String()
	}
	if errors == nil {
		errors = []string{}
	}
	return APIResponse{
		Data:   data,
		Errors: errors,
		Metadata: Metadata{
			Timestamp: time.Now().UTC(),
			Version:   APIVersion,
			RequestID: requestID,
		},
	}
}

func CreateSuccessResponse(data interface{}) APIResponse {
	return CreateAPIResponse(data, []string{}, "")
}

func CreateErrorResponse(errors []string) APIResponse {
	return CreateAPIResponse(nil, errors, "")
}

func CreateSuccessResponseWithRequestID(data interface{}, requestID string) APIResponse {
	return CreateAPIResponse(data, []string{}, requestID)
}

func CreateErrorResponseWithRequestID(errors []string, requestID string) APIResponse {
	return CreateAPIResponse(nil, errors, requestID)
}

// RequestID reuses the caller's X-Request-ID or mints one, and exposes it to
// handlers and in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" outside of it.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Success writes data in the envelope under the request's id.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, CreateSuccessResponseWithRequestID(data, RequestIDFrom(c)))
}

// Fail writes errs in the envelope under the request's id.
func Fail(c *gin.Context, status int, errs ...string) {
	c.JSON(status, CreateErrorResponseWithRequestID(errs, RequestIDFrom(c)))
}
