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

package parklane

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dustinlapp44/ParklaneCompare-sub000/database"
	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// Parklane is the reconciliation service. It owns the datasource; the matching
// pipeline itself is pure and tuned per call through a MatcherConfig.
type Parklane struct {
	datasource database.IDataSource
}

// NewParklane constructs the service on a datasource.
func NewParklane(ds database.IDataSource) *Parklane {
	return &Parklane{datasource: ds}
}

// UploadTable ingests one invoice or payment table: the format is detected,
// the rows parsed and persisted under a fresh upload id. Rows whose amount
// cell does not parse are kept with a zero amount; their count is logged for
// audit.
func (p *Parklane) UploadTable(ctx context.Context, data []byte, filename, side string, spec model.ColumnSpec) (*model.Upload, error) {
	if side != model.SideInvoice && side != model.SidePayment {
		return nil, fmt.Errorf("unknown table side %q", side)
	}
	rows, err := ParseTable(data, filename, spec)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", filename, err)
	}

	_, coerced := BuildRecords(rows, spec)
	if coerced > 0 {
		logrus.Warnf("upload %s: %d of %d rows had unparseable amounts, coerced to 0.00", filename, coerced, len(rows))
	}

	upload := &model.Upload{
		UploadID:    model.GenerateUUIDWithSuffix("upload"),
		Side:        side,
		Filename:    filename,
		Columns:     spec,
		RecordCount: len(rows),
		CreatedAt:   time.Now(),
	}
	if err := p.datasource.RecordUpload(ctx, upload); err != nil {
		return nil, fmt.Errorf("recording upload: %w", err)
	}
	if err := p.datasource.RecordUploadRows(ctx, upload.UploadID, rows); err != nil {
		return nil, fmt.Errorf("recording upload rows: %w", err)
	}
	logrus.Infof("upload %s: %d rows from %s (%s side)", upload.UploadID, len(rows), filename, side)
	return upload, nil
}

// StartReconciliation runs a full reconciliation of two uploads synchronously
// and returns the finished run record. A dry run executes the whole pipeline
// but persists neither matches nor report rows.
func (p *Parklane) StartReconciliation(ctx context.Context, invoiceUploadID, paymentUploadID string, cfg model.MatcherConfig, isDryRun bool) (*model.Reconciliation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher config: %w", err)
	}

	recon := &model.Reconciliation{
		ReconciliationID: model.GenerateUUIDWithSuffix("recon"),
		InvoiceUploadID:  invoiceUploadID,
		PaymentUploadID:  paymentUploadID,
		Status:           model.StatusStarted,
		IsDryRun:         isDryRun,
		StartedAt:        time.Now(),
	}
	if err := p.datasource.RecordReconciliation(ctx, recon); err != nil {
		return nil, fmt.Errorf("recording reconciliation: %w", err)
	}

	report, err := p.process(ctx, recon, cfg)
	if err != nil {
		if updErr := p.datasource.UpdateReconciliationStatus(ctx, recon.ReconciliationID, model.StatusFailed, 0, 0); updErr != nil {
			logrus.Errorf("reconciliation %s: failed to mark failed: %v", recon.ReconciliationID, updErr)
		}
		recon.Status = model.StatusFailed
		return recon, err
	}

	matched := len(report.Matches)
	for _, g := range report.Groups {
		matched += g.NumRecords()
	}
	unmatched := len(report.UnmatchedInvoices) + len(report.UnmatchedPayments)

	if err := p.datasource.UpdateReconciliationStatus(ctx, recon.ReconciliationID, model.StatusCompleted, matched, unmatched); err != nil {
		return nil, fmt.Errorf("completing reconciliation: %w", err)
	}
	recon.Status = model.StatusCompleted
	recon.MatchedRecords = matched
	recon.UnmatchedRecords = unmatched
	logrus.Infof("reconciliation %s completed: %d matched, %d unmatched, %d groups",
		recon.ReconciliationID, matched, unmatched, len(report.Groups))
	return recon, nil
}

func (p *Parklane) process(ctx context.Context, recon *model.Reconciliation, cfg model.MatcherConfig) (*model.ReconciliationReport, error) {
	if err := p.datasource.UpdateReconciliationStatus(ctx, recon.ReconciliationID, model.StatusInProgress, 0, 0); err != nil {
		return nil, fmt.Errorf("marking reconciliation in progress: %w", err)
	}

	invoices, err := p.loadRecords(ctx, recon.InvoiceUploadID)
	if err != nil {
		return nil, err
	}
	payments, err := p.loadRecords(ctx, recon.PaymentUploadID)
	if err != nil {
		return nil, err
	}

	report := ReconcileRecords(invoices, payments, cfg)

	if !recon.IsDryRun {
		if err := p.datasource.RecordMatches(ctx, recon.ReconciliationID, report.Matches); err != nil {
			return nil, fmt.Errorf("recording matches: %w", err)
		}
		if err := p.datasource.RecordReportRows(ctx, recon.ReconciliationID, report.Rows); err != nil {
			return nil, fmt.Errorf("recording report rows: %w", err)
		}
	}
	return report, nil
}

func (p *Parklane) loadRecords(ctx context.Context, uploadID string) ([]*model.Record, error) {
	upload, err := p.datasource.GetUpload(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("loading upload %s: %w", uploadID, err)
	}
	rows, err := p.datasource.GetUploadRows(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("loading rows of upload %s: %w", uploadID, err)
	}
	records, coerced := BuildRecords(rows, upload.Columns)
	if coerced > 0 {
		logrus.Warnf("upload %s: %d rows re-coerced to 0.00 amounts during reconciliation", uploadID, coerced)
	}
	return records, nil
}

// GetReconciliation returns a run record.
func (p *Parklane) GetReconciliation(ctx context.Context, reconciliationID string) (*model.Reconciliation, error) {
	return p.datasource.GetReconciliation(ctx, reconciliationID)
}

// GetReportRows returns the stored report of a completed run.
func (p *Parklane) GetReportRows(ctx context.Context, reconciliationID string) ([]model.ReportRow, error) {
	return p.datasource.GetReportRows(ctx, reconciliationID)
}

// ReconcileRecords runs the pure matching pipeline: the greedy one-to-one pass
// first, then the combination pass over the full pools. With consolidation on,
// qualifying combinations merge into per-identifier groups and group
// membership wins conflicts: a record consumed by a group is dropped from the
// match and unmatched outputs. With consolidation off, every qualifying
// combination is reported raw, one row per candidate, claiming nothing.
func ReconcileRecords(invoices, payments []*model.Record, cfg model.MatcherConfig) *model.ReconciliationReport {
	matches, unmatchedInv, unmatchedPay := FindBestMatches(invoices, payments, cfg)

	var entries []model.CombinationEntry
	var combos []model.Combination
	var flagged []string
	if cfg.Consolidate {
		entries, flagged = FindCombinationEntries(invoices, payments, cfg)
	} else {
		combos, flagged = FindCombinationMatches(invoices, payments, cfg)
	}

	claimedInv := make(map[string]struct{})
	claimedPay := make(map[string]struct{})
	for _, e := range entries {
		for _, id := range e.InvoiceIDs() {
			claimedInv[id] = struct{}{}
		}
		for _, id := range e.PaymentIDs() {
			claimedPay[id] = struct{}{}
		}
	}

	keptMatches := make([]model.MatchResult, 0, len(matches))
	for _, m := range matches {
		if _, ok := claimedInv[m.InvoiceID]; ok {
			continue
		}
		if _, ok := claimedPay[m.PaymentID]; ok {
			continue
		}
		keptMatches = append(keptMatches, m)
	}
	keptUnmatchedInv := make([]model.Unmatched, 0, len(unmatchedInv))
	for _, u := range unmatchedInv {
		if _, ok := claimedInv[u.ID]; !ok {
			keptUnmatchedInv = append(keptUnmatchedInv, u)
		}
	}
	keptUnmatchedPay := make([]model.Unmatched, 0, len(unmatchedPay))
	for _, u := range unmatchedPay {
		if _, ok := claimedPay[u.ID]; !ok {
			keptUnmatchedPay = append(keptUnmatchedPay, u)
		}
	}

	rows := BuildReportRows(keptMatches, entries, combos, keptUnmatchedInv, keptUnmatchedPay, flagged, invoices, payments)

	return &model.ReconciliationReport{
		Matches:            keptMatches,
		Groups:             entries,
		Combinations:       combos,
		UnmatchedInvoices:  keptUnmatchedInv,
		UnmatchedPayments:  keptUnmatchedPay,
		FlaggedIdentifiers: flagged,
		Rows:               rows,
	}
}
