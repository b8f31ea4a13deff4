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
// Command import validates menu JSON files and loads them into the SQL menu
// store. It is the only way menus get written; the API stays read-only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	_ "time/tzdata"

	"MessAPI/internal/clock"
	"MessAPI/internal/config"
	"MessAPI/internal/env"
	"MessAPI/internal/provider"
	"MessAPI/internal/weekmenu"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaultDriver := provider.DriverSQLite
	if env.GetEnv(env.EnvMenuSource, "") == provider.DriverPgx {
		defaultDriver = provider.DriverPgx
	}
	driver := flag.String("driver", defaultDriver, "database driver: sqlite3 or pgx")
	dsn := flag.String("dsn", env.GetEnv(env.EnvMenuDBDSN, "./internal/databases/menu.db"), "database file or connection string")
	dir := flag.String("dir", env.GetEnv(env.EnvMenuDataDir, "./internal/data/menus"), "directory of <id>.json files, used when no files are given")
	dryRun := flag.Bool("dry-run", false, "validate only, do not write")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		var err error
		if paths, err = filepath.Glob(filepath.Join(*dir, "*.json")); err != nil {
			return err
		}
		sort.Strings(paths)
	}
	if len(paths) == 0 {
		return errors.New("no menu files to import")
	}

	profile, err := config.LoadProfile(env.GetEnv(env.EnvMenuProfile, config.DefaultProfile), env.GetEnv(env.EnvMenuProfileFile, ""))
	if err != nil {
		return err
	}
	c, err := clock.New(profile.Timezone)
	if err != nil {
		return err
	}
	normalizer, err := weekmenu.NewNormalizer(profile.Layout(), c)
	if err != nil {
		return err
	}

	imp := &importer{normalizer: normalizer, clock: c}
	if !*dryRun {
		store, err := provider.OpenStore(*driver, *dsn)
		if err != nil {
			return err
		}
		defer store.Close()
		imp.store = store
	}

	imported, err := imp.importFiles(context.Background(), paths)
	log.Printf("Imported %d of %d menu files", imported, len(paths))
	return err
}

type importer struct {
	normalizer *weekmenu.Normalizer
	clock      *clock.Clock
	store      *provider.Store // nil on dry runs
}

// importFiles validates every file, then writes them all in one transaction.
// A bad file or a failed write leaves the store untouched.
func (imp *importer) importFiles(ctx context.Context, paths []string) (int, error) {
	docs := make([]provider.Document, 0, len(paths))
	var failed []string
	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		payload, err := imp.validate(id, path)
		if err != nil {
			log.Printf("Rejecting %s: %v", path, err)
			failed = append(failed, filepath.Base(path))
			continue
		}
		docs = append(docs, provider.Document{ID: id, Payload: payload})
	}
	if len(failed) > 0 {
		return 0, fmt.Errorf("%d invalid menu files: %s", len(failed), strings.Join(failed, ", "))
	}
	if imp.store == nil {
		return 0, nil
	}
	if err := imp.store.UpsertAll(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (imp *importer) validate(id, path string) ([]byte, error) {
	if err := provider.ValidateID(id); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	weekStart := imp.clock.Now()
	if r, ok := provider.ParseWeekID(id); ok {
		if weekStart, err = imp.clock.ParseDateKey(r.Start); err != nil {
			return nil, err
		}
	}
	if _, err := imp.normalizer.Normalize(payload, weekStart); err != nil {
		return nil, err
	}
	return payload, nil
}
