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
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// RecordUpload stores the metadata of one ingested table.
func (d *Datasource) RecordUpload(ctx context.Context, upload *model.Upload) error {
	res, err := d.Conn.ExecContext(ctx, `
		INSERT INTO uploads (upload_id, side, filename, id_column, description_column, amount_column, record_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		upload.UploadID, upload.Side, upload.Filename,
		upload.Columns.ID, upload.Columns.Description, upload.Columns.Amount,
		upload.RecordCount, upload.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "inserting upload")
	}
	upload.ID, _ = res.LastInsertId()
	return nil
}

// GetUpload fetches upload metadata by its public id.
func (d *Datasource) GetUpload(ctx context.Context, uploadID string) (*model.Upload, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, upload_id, side, filename, id_column, description_column, amount_column, record_count, created_at
		FROM uploads WHERE upload_id = ?`, uploadID)
	upload := &model.Upload{}
	err := row.Scan(
		&upload.ID, &upload.UploadID, &upload.Side, &upload.Filename,
		&upload.Columns.ID, &upload.Columns.Description, &upload.Columns.Amount,
		&upload.RecordCount, &upload.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Errorf("upload %s not found", uploadID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching upload")
	}
	return upload, nil
}

// RecordUploadRows stores the raw rows of an upload in table order.
func (d *Datasource) RecordUploadRows(ctx context.Context, uploadID string, rows []model.Row) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO upload_rows (upload_id, position, row_json) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "preparing row insert")
	}
	defer stmt.Close()
	for i, r := range rows {
		payload, err := json.Marshal(r)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "encoding row")
		}
		if _, err := stmt.ExecContext(ctx, uploadID, i, string(payload)); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "inserting row")
		}
	}
	return errors.Wrap(tx.Commit(), "committing rows")
}

// GetUploadRows fetches the raw rows of an upload in their original order.
func (d *Datasource) GetUploadRows(ctx context.Context, uploadID string) ([]model.Row, error) {
	result, err := d.Conn.QueryContext(ctx, `
		SELECT row_json FROM upload_rows WHERE upload_id = ? ORDER BY position`, uploadID)
	if err != nil {
		return nil, errors.Wrap(err, "fetching upload rows")
	}
	defer result.Close()
	var rows []model.Row
	for result.Next() {
		var payload string
		if err := result.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		var r model.Row
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, errors.Wrap(err, "decoding row")
		}
		rows = append(rows, r)
	}
	return rows, errors.Wrap(result.Err(), "iterating upload rows")
}

// RecordReconciliation stores a new run.
func (d *Datasource) RecordReconciliation(ctx context.Context, recon *model.Reconciliation) error {
	res, err := d.Conn.ExecContext(ctx, `
		INSERT INTO reconciliations (reconciliation_id, invoice_upload_id, payment_upload_id, status, matched_records, unmatched_records, is_dry_run, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recon.ReconciliationID, recon.InvoiceUploadID, recon.PaymentUploadID,
		recon.Status, recon.MatchedRecords, recon.UnmatchedRecords,
		recon.IsDryRun, recon.StartedAt, recon.CompletedAt,
	)
	if err != nil {
		return errors.Wrap(err, "inserting reconciliation")
	}
	recon.ID, _ = res.LastInsertId()
	return nil
}

// GetReconciliation fetches a run by its public id.
func (d *Datasource) GetReconciliation(ctx context.Context, reconciliationID string) (*model.Reconciliation, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, reconciliation_id, invoice_upload_id, payment_upload_id, status, matched_records, unmatched_records, is_dry_run, started_at, completed_at
		FROM reconciliations WHERE reconciliation_id = ?`, reconciliationID)
	recon := &model.Reconciliation{}
	var completedAt sql.NullTime
	err := row.Scan(
		&recon.ID, &recon.ReconciliationID, &recon.InvoiceUploadID, &recon.PaymentUploadID,
		&recon.Status, &recon.MatchedRecords, &recon.UnmatchedRecords,
		&recon.IsDryRun, &recon.StartedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Errorf("reconciliation %s not found", reconciliationID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching reconciliation")
	}
	if completedAt.Valid {
		t := completedAt.Time
		recon.CompletedAt = &t
	}
	return recon, nil
}

// UpdateReconciliationStatus advances a run's lifecycle and counters. Terminal
// statuses also stamp the completion time.
func (d *Datasource) UpdateReconciliationStatus(ctx context.Context, reconciliationID, status string, matched, unmatched int) error {
	var completedAt interface{}
	if status == model.StatusCompleted || status == model.StatusFailed {
		completedAt = time.Now()
	}
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE reconciliations
		SET status = ?, matched_records = ?, unmatched_records = ?,
		    completed_at = COALESCE(?, completed_at)
		WHERE reconciliation_id = ?`,
		status, matched, unmatched, completedAt, reconciliationID,
	)
	return errors.Wrap(err, "updating reconciliation status")
}

// RecordMatches stores the surviving one-to-one matches of a run.
func (d *Datasource) RecordMatches(ctx context.Context, reconciliationID string, matches []model.MatchResult) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO matches (reconciliation_id, match_json) VALUES (?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "preparing match insert")
	}
	defer stmt.Close()
	for _, m := range matches {
		payload, err := json.Marshal(m)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "encoding match")
		}
		if _, err := stmt.ExecContext(ctx, reconciliationID, string(payload)); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "inserting match")
		}
	}
	return errors.Wrap(tx.Commit(), "committing matches")
}

// RecordReportRows stores the rendered report of a run in display order.
func (d *Datasource) RecordReportRows(ctx context.Context, reconciliationID string, rows []model.ReportRow) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO report_rows (reconciliation_id, position, row_json) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "preparing report row insert")
	}
	defer stmt.Close()
	for i, r := range rows {
		payload, err := json.Marshal(r)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "encoding report row")
		}
		if _, err := stmt.ExecContext(ctx, reconciliationID, i, string(payload)); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "inserting report row")
		}
	}
	return errors.Wrap(tx.Commit(), "committing report rows")
}

// GetReportRows fetches the rendered report of a run in display order.
func (d *Datasource) GetReportRows(ctx context.Context, reconciliationID string) ([]model.ReportRow, error) {
	result, err := d.Conn.QueryContext(ctx, `
		SELECT row_json FROM report_rows WHERE reconciliation_id = ? ORDER BY position`, reconciliationID)
	if err != nil {
		return nil, errors.Wrap(err, "fetching report rows")
	}
	defer result.Close()
	var rows []model.ReportRow
	for result.Next() {
		var payload string
		if err := result.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "scanning report row")
		}
		var r model.ReportRow
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, errors.Wrap(err, "decoding report row")
		}
		rows = append(rows, r)
	}
	return rows, errors.Wrap(result.Err(), "iterating report rows")
}
