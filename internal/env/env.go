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
package env

import (
	"os"
	"strconv"
	"time"
)

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LookupInt reports whether key is set to a valid integer.
func LookupInt(key string) (int, bool) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return 0, false
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return intValue, true
}

func GetBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Server
const (
	EnvPort = "PORT"
)

// Menu source configuration
const (
	EnvMenuSource        = "MENU_SOURCE"
	EnvMenuDataDir       = "MENU_DATA_DIR"
	EnvMenuDBDSN         = "MENU_DB_DSN"
	EnvMenuRemoteURL     = "MENU_REMOTE_URL"
	EnvMenuRemoteTimeout = "MENU_REMOTE_TIMEOUT"

	// S3 compatible object storage
	EnvMenuS3Endpoint  = "MENU_S3_ENDPOINT"
	EnvMenuS3Bucket    = "MENU_S3_BUCKET"
	EnvMenuS3Prefix    = "MENU_S3_PREFIX"
	EnvMenuS3AccessKey = "MENU_S3_ACCESS_KEY"
	EnvMenuS3SecretKey = "MENU_S3_SECRET_KEY"
	EnvMenuS3UseSSL    = "MENU_S3_USE_SSL"
)

// Deployment profile and rotation calibration
const (
	EnvMenuProfile         = "MENU_PROFILE"
	EnvMenuProfileFile     = "MENU_PROFILE_FILE"
	EnvReferenceMonday     = "REFERENCE_MONDAY"
	EnvReferenceWeekNumber = "REFERENCE_WEEK_NUMBER"
)

// Caching
const (
	EnvCacheSize    = "CACHE_SIZE"
	EnvCacheWeekTTL = "CACHE_WEEK_TTL"
	EnvCacheListTTL = "CACHE_LIST_TTL"
	EnvCacheWarm    = "CACHE_WARM"
)
