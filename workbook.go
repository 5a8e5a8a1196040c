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
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// Workbook sheet names.
const (
	sheetMatches           = "Matches"
	sheetGroupedMatches    = "Grouped Matches"
	sheetUnmatchedInvoices = "Unmatched Invoices"
	sheetUnmatchedPayments = "Unmatched Payments"
)

// WriteReportWorkbook renders the reconciliation result as a four-sheet
// workbook, one sheet per outcome class.
func WriteReportWorkbook(w io.Writer, report *model.ReconciliationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeMatchesSheet(f, report.Matches); err != nil {
		return err
	}
	if err := writeGroupsSheet(f, report.Groups, report.FlaggedIdentifiers); err != nil {
		return err
	}
	if err := writeUnmatchedSheet(f, sheetUnmatchedInvoices, report.UnmatchedInvoices); err != nil {
		return err
	}
	if err := writeUnmatchedSheet(f, sheetUnmatchedPayments, report.UnmatchedPayments); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("dropping default sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeMatchesSheet(f *excelize.File, matches []model.MatchResult) error {
	if _, err := f.NewSheet(sheetMatches); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheetMatches, err)
	}
	header := []interface{}{
		"Invoice ID", "Invoice Desc", "Invoice Amount",
		"Payment ID", "Payment Desc", "Payment Amount",
		"Score", "Confidence",
	}
	if err := f.SetSheetRow(sheetMatches, "A1", &header); err != nil {
		return fmt.Errorf("writing sheet %s: %w", sheetMatches, err)
	}
	for i, m := range matches {
		row := []interface{}{
			m.InvoiceID, m.InvoiceDesc, m.InvoiceAmount,
			m.PaymentID, m.PaymentDesc, m.PaymentAmount,
			m.SimilarityScore, m.Confidence,
		}
		if err := f.SetSheetRow(sheetMatches, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing sheet %s: %w", sheetMatches, err)
		}
	}
	return nil
}

func writeGroupsSheet(f *excelize.File, groups []model.CombinationEntry, flagged []string) error {
	if _, err := f.NewSheet(sheetGroupedMatches); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheetGroupedMatches, err)
	}
	header := []interface{}{
		"Identifier", "Role", "Record ID", "Description", "Amount", "Difference",
	}
	if err := f.SetSheetRow(sheetGroupedMatches, "A1", &header); err != nil {
		return fmt.Errorf("writing sheet %s: %w", sheetGroupedMatches, err)
	}
	line := 2
	writeRow := func(row []interface{}) error {
		err := f.SetSheetRow(sheetGroupedMatches, fmt.Sprintf("A%d", line), &row)
		line++
		if err != nil {
			return fmt.Errorf("writing sheet %s: %w", sheetGroupedMatches, err)
		}
		return nil
	}
	for _, g := range groups {
		if err := writeRow([]interface{}{g.Identifier, "Group", "", "", "", g.Difference()}); err != nil {
			return err
		}
		for _, r := range g.Invoices {
			if err := writeRow([]interface{}{g.Identifier, "Invoice", r.ID, r.Description, r.Amount, ""}); err != nil {
				return err
			}
		}
		for _, r := range g.Payments {
			if err := writeRow([]interface{}{g.Identifier, "Payment", r.ID, r.Description, r.Amount, ""}); err != nil {
				return err
			}
		}
	}
	for _, key := range flagged {
		if err := writeRow([]interface{}{key, "Review Required", "", "", "", ""}); err != nil {
			return err
		}
	}
	return nil
}

func writeUnmatchedSheet(f *excelize.File, sheet string, unmatched []model.Unmatched) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	header := []interface{}{"ID", "Description"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing sheet %s: %w", sheet, err)
	}
	for i, u := range unmatched {
		row := []interface{}{u.ID, u.Description}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing sheet %s: %w", sheet, err)
		}
	}
	return nil
}
