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
package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"MessAPI/internal/config"
	"MessAPI/internal/databases/migrations/menu"
	"MessAPI/internal/env"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	defaultDriver := config.SourceSQLite
	if env.GetEnv(env.EnvMenuSource, "") == config.SourcePgx {
		defaultDriver = config.SourcePgx
	}
	driver := flag.String("driver", defaultDriver, "database driver: sqlite3 or pgx")
	dsn := flag.String("dsn", env.GetEnv(env.EnvMenuDBDSN, "./internal/databases/menu.db"), "database file or connection string")
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	databaseURL, err := migrationURL(*driver, *dsn)
	if err != nil {
		log.Fatal(err)
	}

	source, err := iofs.New(menu.FS, ".")
	if err != nil {
		log.Fatal(err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.Printf("Warning: closing migrator: %v", errors.Join(srcErr, dbErr))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}
	log.Println("Database migration complete for the", *driver, "menu store")
}

// migrationURL turns a store DSN into the URL form golang-migrate expects.
func migrationURL(driver, dsn string) (string, error) {
	switch driver {
	case config.SourceSQLite:
		return "sqlite3://" + strings.TrimPrefix(dsn, "file:"), nil
	case config.SourcePgx:
		for _, scheme := range []string{"postgres://", "postgresql://"} {
			if rest, ok := strings.CutPrefix(dsn, scheme); ok {
				return "pgx5://" + rest, nil
			}
		}
		return "", errors.New("pgx migrations need a postgres:// URL")
	default:
		return "", errors.New("migrations run against sqlite3 or pgx only, got " + driver)
	}
}
