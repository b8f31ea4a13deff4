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
// Package config assembles the server configuration from the environment and
// the deployment profile.
package config

import (
	"fmt"
	"strings"
	"time"

	"MessAPI/internal/env"
)

// Menu source kinds.
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite3"
	SourcePgx    = "pgx"
	SourceHTTP   = "http"
	SourceS3     = "s3"
)

type Config struct {
	Port    string
	Source  SourceConfig
	Cache   CacheConfig
	Profile Profile
}

type SourceConfig struct {
	Kind          string
	DataDir       string
	DSN           string
	RemoteURL     string
	RemoteTimeout time.Duration
	S3            S3Config
}

type S3Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type CacheConfig struct {
	Size    int
	WeekTTL time.Duration
	ListTTL time.Duration
	Warm    bool
}

func Load() (Config, error) {
	cfg := Config{
		Port: env.GetEnv(env.EnvPort, "9237"),
		Source: SourceConfig{
			Kind:          strings.ToLower(env.GetEnv(env.EnvMenuSource, SourceFile)),
			DataDir:       env.GetEnv(env.EnvMenuDataDir, "./internal/data/menus"),
			DSN:           env.GetEnv(env.EnvMenuDBDSN, "./internal/databases/menu.db"),
			RemoteURL:     env.GetEnv(env.EnvMenuRemoteURL, ""),
			RemoteTimeout: env.GetDuration(env.EnvMenuRemoteTimeout, 10*time.Second),
			S3: S3Config{
				Endpoint:  env.GetEnv(env.EnvMenuS3Endpoint, ""),
				Bucket:    env.GetEnv(env.EnvMenuS3Bucket, ""),
				Prefix:    env.GetEnv(env.EnvMenuS3Prefix, "menus/"),
				AccessKey: env.GetEnv(env.EnvMenuS3AccessKey, ""),
				SecretKey: env.GetEnv(env.EnvMenuS3SecretKey, ""),
				UseSSL:    env.GetBool(env.EnvMenuS3UseSSL, true),
			},
		},
		Cache: CacheConfig{
			Size:    env.GetInt(env.EnvCacheSize, 64),
			WeekTTL: env.GetDuration(env.EnvCacheWeekTTL, 15*time.Minute),
			ListTTL: env.GetDuration(env.EnvCacheListTTL, time.Hour),
			Warm:    env.GetBool(env.EnvCacheWarm, false),
		},
	}

	profile, err := LoadProfile(env.GetEnv(env.EnvMenuProfile, DefaultProfile), env.GetEnv(env.EnvMenuProfileFile, ""))
	if err != nil {
		return Config{}, err
	}
	// Calibration is observed by hand and may be corrected without a redeploy.
	if monday := env.GetEnv(env.EnvReferenceMonday, ""); monday != "" {
		profile.Rotation.ReferenceMonday = monday
	}
	if week, ok := env.LookupInt(env.EnvReferenceWeekNumber); ok {
		profile.Rotation.ReferenceWeek = week
	}
	if err := profile.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Profile = profile

	if err := cfg.Source.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Cache.Size < 1 {
		return Config{}, fmt.Errorf("%s must be positive", env.EnvCacheSize)
	}
	return cfg, nil
}

func (s SourceConfig) validate() error {
	switch s.Kind {
	case SourceFile:
		if s.DataDir == "" {
			return fmt.Errorf("%s is required for the file source", env.EnvMenuDataDir)
		}
	case SourceSQLite, SourcePgx:
		if s.DSN == "" {
			return fmt.Errorf("%s is required for the %s source", env.EnvMenuDBDSN, s.Kind)
		}
	case SourceHTTP:
		if s.RemoteURL == "" {
			return fmt.Errorf("%s is required for the http source", env.EnvMenuRemoteURL)
		}
	case SourceS3:
		if s.S3.Endpoint == "" || s.S3.Bucket == "" {
			return fmt.Errorf("%s and %s are required for the s3 source", env.EnvMenuS3Endpoint, env.EnvMenuS3Bucket)
		}
	default:
		return fmt.Errorf("unknown menu source %q", s.Kind)
	}
	return nil
}
