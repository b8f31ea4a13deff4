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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite = "sqlite3"
	DriverPgx    = "pgx"
)

// Store keeps raw menu documents in the menu_documents table. The same
// queries run on SQLite and Postgres; placeholders are rewritten for pgx.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// OpenStore opens and pings the database behind dsn.
func OpenStore(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPgx:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enabling WAL: %w", err)
		}
	}
	return NewStore(db, driver), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Name() string {
	return s.driver
}

func (s *Store) FetchWeekMenu(ctx context.Context, id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT payload FROM menu_documents WHERE id = ?"), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading menu %s: %w", id, err)
	}
	return []byte(payload), nil
}

func (s *Store) ListWeekIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM menu_documents")
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Postgres collations may not order punctuation bytewise.
	sort.Strings(ids)
	return ids, nil
}

// Document is one stored menu payload.
type Document struct {
	ID      string
	Payload []byte
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts the document or replaces the stored payload.
func (s *Store) Upsert(ctx context.Context, id string, payload []byte) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.upsert(ctx, s.db, id, payload)
}

// UpsertAll writes docs in one transaction. On any error nothing is written.
func (s *Store) UpsertAll(ctx context.Context, docs []Document) (err error) {
	for _, doc := range docs {
		if err := ValidateID(doc.ID); err != nil {
			return err
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting menu import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, doc := range docs {
		if err = s.upsert(ctx, tx, doc.ID, doc.Payload); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing menu import: %w", err)
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, db execer, id string, payload []byte) error {
	_, err := db.ExecContext(ctx, s.rebind(`
		INSERT INTO menu_documents (id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
		id, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing menu %s: %w", id, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing id reports ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM menu_documents WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting menu %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for pgx.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPgx {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
