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

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	parklane "github.com/dustinlapp44/ParklaneCompare-sub000"
	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

type reconcileFlags struct {
	invoiceFile       string
	paymentFile       string
	invoiceColumns    model.ColumnSpec
	paymentColumns    model.ColumnSpec
	output            string
	workbook          string
	detectDuplicates  bool
	textWeight        float64
	numberWeight      float64
	threshold         float64
	tolerance         float64
	maxSize           int
	skipConsolidation bool
}

func reconcileCommands(b *parklaneInstance) *cobra.Command {
	flags := &reconcileFlags{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "reconcile an invoice table against a payment table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(b, flags)
		},
	}

	cmd.Flags().StringVar(&flags.invoiceFile, "invoices", "", "invoice table (csv or json)")
	cmd.Flags().StringVar(&flags.paymentFile, "payments", "", "payment table (csv or json)")
	cmd.Flags().StringVar(&flags.invoiceColumns.ID, "invoice-id-column", "InvoiceID", "invoice id column")
	cmd.Flags().StringVar(&flags.invoiceColumns.Description, "invoice-desc-column", "Combined", "invoice description column")
	cmd.Flags().StringVar(&flags.invoiceColumns.Amount, "invoice-amount-column", "Gross", "invoice amount column")
	cmd.Flags().StringVar(&flags.paymentColumns.ID, "payment-id-column", "PaymentID", "payment id column")
	cmd.Flags().StringVar(&flags.paymentColumns.Description, "payment-desc-column", "Reference", "payment description column")
	cmd.Flags().StringVar(&flags.paymentColumns.Amount, "payment-amount-column", "Amount", "payment amount column")
	cmd.Flags().StringVar(&flags.output, "output", "report.csv", "report csv path")
	cmd.Flags().StringVar(&flags.workbook, "workbook", "", "optional report workbook path (xlsx)")
	cmd.Flags().BoolVar(&flags.detectDuplicates, "detect-duplicates", false, "scan each table for internal duplicates")
	cmd.Flags().Float64Var(&flags.textWeight, "text-weight", -1, "text score weight")
	cmd.Flags().Float64Var(&flags.numberWeight, "number-weight", -1, "number score weight")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", -1, "similarity threshold")
	cmd.Flags().Float64Var(&flags.tolerance, "tolerance", -1, "group sum tolerance")
	cmd.Flags().IntVar(&flags.maxSize, "max-combination-size", 0, "maximum records per combination side")
	cmd.Flags().BoolVar(&flags.skipConsolidation, "skip-consolidation", false, "report raw per-combination rows instead of consolidated groups")
	_ = cmd.MarkFlagRequired("invoices")
	_ = cmd.MarkFlagRequired("payments")

	return cmd
}

func runReconcile(b *parklaneInstance, flags *reconcileFlags) error {
	cfg := mergeMatcherConfig(b.cnf.Matcher, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid matcher config: %w", err)
	}

	invoices, err := loadTable(flags.invoiceFile, flags.invoiceColumns)
	if err != nil {
		return err
	}
	payments, err := loadTable(flags.paymentFile, flags.paymentColumns)
	if err != nil {
		return err
	}

	if flags.detectDuplicates {
		reportDuplicates("invoice", parklane.FindDuplicates(invoices, cfg))
		reportDuplicates("payment", parklane.FindDuplicates(payments, cfg))
	}

	report := parklane.ReconcileRecords(invoices, payments, cfg)
	logrus.Infof("%d matches, %d groups, %d unmatched invoices, %d unmatched payments",
		len(report.Matches), len(report.Groups), len(report.UnmatchedInvoices), len(report.UnmatchedPayments))
	for _, key := range report.FlaggedIdentifiers {
		logrus.Warnf("identifier %s needs manual review: combination space too large", key)
	}

	out, err := os.Create(flags.output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flags.output, err)
	}
	defer out.Close()
	if err := parklane.WriteReportCSV(out, report.Rows); err != nil {
		return err
	}
	logrus.Infof("report written to %s", flags.output)

	if flags.workbook != "" {
		wb, err := os.Create(flags.workbook)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flags.workbook, err)
		}
		defer wb.Close()
		if err := parklane.WriteReportWorkbook(wb, report); err != nil {
			return err
		}
		logrus.Infof("workbook written to %s", flags.workbook)
	}
	return nil
}

func loadTable(path string, spec model.ColumnSpec) ([]*model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rows, err := parklane.ParseTable(data, path, spec)
	if err != nil {
		return nil, err
	}
	records, coerced := parklane.BuildRecords(rows, spec)
	if coerced > 0 {
		logrus.Warnf("%s: %d of %d rows had unparseable amounts, coerced to 0.00", path, coerced, len(rows))
	}
	return records, nil
}

func mergeMatcherConfig(cfg model.MatcherConfig, flags *reconcileFlags) model.MatcherConfig {
	if flags.textWeight >= 0 {
		cfg.TextWeight = flags.textWeight
	}
	if flags.numberWeight >= 0 {
		cfg.NumberWeight = flags.numberWeight
	}
	if flags.threshold >= 0 {
		cfg.SimilarityThreshold = flags.threshold
	}
	if flags.tolerance >= 0 {
		cfg.Tolerance = flags.tolerance
	}
	if flags.maxSize > 0 {
		cfg.MaxCombinationSize = flags.maxSize
	}
	if flags.skipConsolidation {
		cfg.Consolidate = false
	}
	return cfg
}

func reportDuplicates(side string, pairs []model.DuplicatePair) {
	for _, p := range pairs {
		logrus.Warnf("possible duplicate %s rows: %s / %s (score %.2f)", side, p.FirstID, p.SecondID, p.Score)
	}
	if len(pairs) == 0 {
		logrus.Infof("no duplicate %s rows detected", side)
	}
}
