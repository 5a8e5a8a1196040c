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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/wacul/ptr"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// reportColumns is the fixed CSV header of the reconciliation artifact.
var reportColumns = []string{
	"Invoice Date", "Invoice Desc", "Invoice Amount",
	"Payment Date", "Payment Desc", "Payment Amount",
	"Difference", "Status",
}

// BuildReportRows renders the full ordered report: group sections first (or
// raw per-combination rows when consolidation is off), then review flags,
// one-to-one matches, unmatched invoices and unmatched payments, each section
// closed by a SpaceHolder row. Group members claim their record ids, so a
// record reported inside a group never reappears as a match or an unmatched
// line. Raw combinations overlap by nature and claim nothing.
func BuildReportRows(
	matches []model.MatchResult,
	entries []model.CombinationEntry,
	combos []model.Combination,
	unmatchedInvoices, unmatchedPayments []model.Unmatched,
	flagged []string,
	invoices, payments []*model.Record,
) []model.ReportRow {
	invByID := indexByID(invoices)
	payByID := indexByID(payments)

	claimedInv := make(map[string]struct{})
	claimedPay := make(map[string]struct{})

	var rows []model.ReportRow

	for _, e := range entries {
		rows = append(rows, model.ReportRow{
			Status:        model.StatusGroupMatch,
			GroupID:       e.Identifier,
			InvoiceAmount: ptr.Float64(model.RoundAmount(e.InvoiceSum())),
			PaymentAmount: ptr.Float64(model.RoundAmount(e.PaymentSum())),
			Difference:    ptr.Float64(e.Difference()),
		})
		for _, r := range e.Invoices {
			claimedInv[r.ID] = struct{}{}
			rows = append(rows, model.ReportRow{
				Status:        model.StatusRelatedInvoice,
				GroupID:       e.Identifier,
				InvoiceID:     r.ID,
				InvoiceDate:   r.Date(),
				InvoiceDesc:   r.Description,
				InvoiceAmount: ptr.Float64(r.Amount),
			})
		}
		for _, r := range e.Payments {
			claimedPay[r.ID] = struct{}{}
			rows = append(rows, model.ReportRow{
				Status:        model.StatusRelatedPayment,
				GroupID:       e.Identifier,
				PaymentID:     r.ID,
				PaymentDate:   r.Date(),
				PaymentDesc:   r.Description,
				PaymentAmount: ptr.Float64(r.Amount),
			})
		}
		rows = append(rows, spaceHolder())
	}

	if len(combos) > 0 {
		for _, c := range combos {
			rows = append(rows, model.ReportRow{
				Status:        model.StatusCombination,
				GroupID:       c.Identifier,
				InvoiceAmount: ptr.Float64(model.RoundAmount(c.InvoiceSum)),
				PaymentAmount: ptr.Float64(model.RoundAmount(c.PaymentSum)),
				Difference:    ptr.Float64(c.Difference),
			})
		}
		rows = append(rows, spaceHolder())
	}

	if len(flagged) > 0 {
		for _, key := range flagged {
			rows = append(rows, model.ReportRow{
				Status:  model.StatusReviewRequired,
				GroupID: key,
			})
		}
		rows = append(rows, spaceHolder())
	}

	for _, m := range matches {
		if _, ok := claimedInv[m.InvoiceID]; ok {
			continue
		}
		if _, ok := claimedPay[m.PaymentID]; ok {
			continue
		}
		claimedInv[m.InvoiceID] = struct{}{}
		claimedPay[m.PaymentID] = struct{}{}
		rows = append(rows, model.ReportRow{
			Status:        model.StatusMatch,
			InvoiceID:     m.InvoiceID,
			PaymentID:     m.PaymentID,
			InvoiceDate:   dateOf(invByID, m.InvoiceID),
			InvoiceDesc:   m.InvoiceDesc,
			InvoiceAmount: ptr.Float64(m.InvoiceAmount),
			PaymentDate:   dateOf(payByID, m.PaymentID),
			PaymentDesc:   m.PaymentDesc,
			PaymentAmount: ptr.Float64(m.PaymentAmount),
			Difference:    ptr.Float64(model.RoundAmount(m.InvoiceAmount - m.PaymentAmount)),
		})
	}
	rows = append(rows, spaceHolder())

	for _, u := range unmatchedInvoices {
		if _, ok := claimedInv[u.ID]; ok {
			continue
		}
		row := model.ReportRow{
			Status:      model.StatusUnmatchedInvoice,
			InvoiceID:   u.ID,
			InvoiceDate: dateOf(invByID, u.ID),
			InvoiceDesc: u.Description,
		}
		if r, ok := invByID[u.ID]; ok {
			row.InvoiceAmount = ptr.Float64(r.Amount)
		}
		rows = append(rows, row)
	}
	rows = append(rows, spaceHolder())

	for _, u := range unmatchedPayments {
		if _, ok := claimedPay[u.ID]; ok {
			continue
		}
		row := model.ReportRow{
			Status:      model.StatusUnmatchedPayment,
			PaymentID:   u.ID,
			PaymentDate: dateOf(payByID, u.ID),
			PaymentDesc: u.Description,
		}
		if r, ok := payByID[u.ID]; ok {
			row.PaymentAmount = ptr.Float64(r.Amount)
		}
		rows = append(rows, row)
	}
	rows = append(rows, spaceHolder())

	return rows
}

// WriteReportCSV renders report rows in the fixed eight-column layout. Nil
// amounts render as empty cells so zero stays distinguishable from absent.
func WriteReportCSV(w io.Writer, rows []model.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportColumns); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.InvoiceDate,
			row.InvoiceDesc,
			formatAmount(row.InvoiceAmount),
			row.PaymentDate,
			row.PaymentDesc,
			formatAmount(row.PaymentAmount),
			formatAmount(row.Difference),
			csvStatus(row),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// csvStatus attaches the group identifier to group-section statuses so the
// flat CSV keeps the association the in-memory rows carry in GroupID.
func csvStatus(row model.ReportRow) string {
	switch row.Status {
	case model.StatusGroupMatch, model.StatusCombination, model.StatusReviewRequired:
		return fmt.Sprintf("%s (%s)", row.Status, row.GroupID)
	default:
		return row.Status
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func spaceHolder() model.ReportRow {
	return model.ReportRow{Status: model.StatusSpaceHolder}
}

func dateOf(byID map[string]*model.Record, id string) string {
	if r, ok := byID[id]; ok {
		return r.Date()
	}
	return ""
}

func indexByID(records []*model.Record) map[string]*model.Record {
	byID := make(map[string]*model.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return byID
}
