/*
Copyright 2025 Parklane Compare Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Datasource is the SQLite-backed store for uploads, runs and report rows.
type Datasource struct {
	Conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	upload_id TEXT NOT NULL UNIQUE,
	side TEXT NOT NULL,
	filename TEXT NOT NULL,
	id_column TEXT NOT NULL DEFAULT '',
	description_column TEXT NOT NULL,
	amount_column TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS upload_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	upload_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	row_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_rows_upload ON upload_rows(upload_id);

CREATE TABLE IF NOT EXISTS reconciliations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reconciliation_id TEXT NOT NULL UNIQUE,
	invoice_upload_id TEXT NOT NULL,
	payment_upload_id TEXT NOT NULL,
	status TEXT NOT NULL,
	matched_records INTEGER NOT NULL DEFAULT 0,
	unmatched_records INTEGER NOT NULL DEFAULT 0,
	is_dry_run BOOLEAN NOT NULL DEFAULT FALSE,
	started_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reconciliation_id TEXT NOT NULL,
	match_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_recon ON matches(reconciliation_id);

CREATE TABLE IF NOT EXISTS report_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reconciliation_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	row_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_report_rows_recon ON report_rows(reconciliation_id);
`

// NewDataSource opens (or creates) the SQLite database at dsn and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func NewDataSource(dsn string) (*Datasource, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	if err := conn.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging sqlite database")
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "creating schema")
	}
	return &Datasource{Conn: conn}, nil
}

// Close releases the underlying connection.
func (d *Datasource) Close() error {
	return errors.Wrap(d.Conn.Close(), "closing sqlite database")
}
