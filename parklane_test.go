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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dustinlapp44/ParklaneCompare-sub000/database/mocks"
	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

var invoiceSpec = model.ColumnSpec{ID: "InvoiceID", Description: "Combined", Amount: "Gross"}
var paymentSpec = model.ColumnSpec{ID: "PaymentID", Description: "Reference", Amount: "Amount"}

func TestUploadTable(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)

		ds.On("RecordUpload", mock.Anything, mock.Anything).Return(nil)
		ds.On("RecordUploadRows", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		data := []byte("InvoiceID,Combined,Gross\nI-1,JB100 siding,100.00\nI-2,JB101 roof,200.00\n")
		upload, err := svc.UploadTable(ctx, data, "invoices.csv", model.SideInvoice, invoiceSpec)
		require.NoError(t, err)
		assert.Equal(t, 2, upload.RecordCount)
		assert.Equal(t, model.SideInvoice, upload.Side)
		assert.NotEmpty(t, upload.UploadID)
		ds.AssertExpectations(t)
	})

	t.Run("unknown side is rejected", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)
		_, err := svc.UploadTable(ctx, []byte("a,b\n1,2\n"), "x.csv", "vendor", invoiceSpec)
		assert.Error(t, err)
	})

	t.Run("unparseable table is rejected", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)
		_, err := svc.UploadTable(ctx, []byte("free text, no table"), "x.dat", model.SideInvoice, invoiceSpec)
		assert.Error(t, err)
	})
}

func TestStartReconciliation(t *testing.T) {
	ctx := context.Background()
	cfg := model.DefaultMatcherConfig()

	invoiceRows := []model.Row{
		{"InvoiceID": "i1", "Combined": "INV-100 rent june", "Gross": "500"},
		{"InvoiceID": "i2", "Combined": "INV-200 stray", "Gross": "75"},
	}
	paymentRows := []model.Row{
		{"PaymentID": "p1", "Reference": "INV-100 rent june", "Amount": "500"},
	}

	setupUploads := func(ds *mocks.MockDataSource) {
		ds.On("GetUpload", mock.Anything, "up_inv").Return(&model.Upload{UploadID: "up_inv", Columns: invoiceSpec}, nil)
		ds.On("GetUpload", mock.Anything, "up_pay").Return(&model.Upload{UploadID: "up_pay", Columns: paymentSpec}, nil)
		ds.On("GetUploadRows", mock.Anything, "up_inv").Return(invoiceRows, nil)
		ds.On("GetUploadRows", mock.Anything, "up_pay").Return(paymentRows, nil)
	}

	t.Run("completed run persists matches and report", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)
		setupUploads(ds)
		ds.On("RecordReconciliation", mock.Anything, mock.Anything).Return(nil)
		ds.On("UpdateReconciliationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		ds.On("RecordMatches", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		ds.On("RecordReportRows", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		recon, err := svc.StartReconciliation(ctx, "up_inv", "up_pay", cfg, false)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, recon.Status)
		assert.Equal(t, 1, recon.MatchedRecords)
		assert.Equal(t, 1, recon.UnmatchedRecords)
		ds.AssertCalled(t, "RecordMatches", mock.Anything, recon.ReconciliationID, mock.Anything)
		ds.AssertCalled(t, "RecordReportRows", mock.Anything, recon.ReconciliationID, mock.Anything)
	})

	t.Run("dry run skips persistence of results", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)
		setupUploads(ds)
		ds.On("RecordReconciliation", mock.Anything, mock.Anything).Return(nil)
		ds.On("UpdateReconciliationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		recon, err := svc.StartReconciliation(ctx, "up_inv", "up_pay", cfg, true)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, recon.Status)
		ds.AssertNotCalled(t, "RecordMatches", mock.Anything, mock.Anything, mock.Anything)
		ds.AssertNotCalled(t, "RecordReportRows", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing upload fails the run", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)
		ds.On("RecordReconciliation", mock.Anything, mock.Anything).Return(nil)
		ds.On("UpdateReconciliationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		ds.On("GetUpload", mock.Anything, "nope").Return(nil, assert.AnError)
		ds.On("GetUpload", mock.Anything, "up_pay").Return(&model.Upload{UploadID: "up_pay", Columns: paymentSpec}, nil)
		ds.On("GetUploadRows", mock.Anything, "up_pay").Return(paymentRows, nil)

		recon, err := svc.StartReconciliation(ctx, "nope", "up_pay", cfg, false)
		require.Error(t, err)
		assert.Equal(t, model.StatusFailed, recon.Status)
	})

	t.Run("invalid matcher config is rejected up front", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		svc := NewParklane(ds)
		bad := cfg
		bad.TextWeight = 2.0

		_, err := svc.StartReconciliation(ctx, "up_inv", "up_pay", bad, false)
		assert.Error(t, err)
		ds.AssertNotCalled(t, "RecordReconciliation", mock.Anything, mock.Anything)
	})
}

func TestReconcileRecords(t *testing.T) {
	cfg := model.DefaultMatcherConfig()

	t.Run("group consumes its greedy match", func(t *testing.T) {
		// The greedy pass pairs the invoice with one of the split payments;
		// the combination pass claims all three records into a group and the
		// greedy pair must disappear from the match output.
		invoices := []*model.Record{rec("i1", "JB100 siding job", 100)}
		payments := []*model.Record{
			rec("p1", "JB100 deposit", 60),
			rec("p2", "JB100 final", 40),
		}

		report := ReconcileRecords(invoices, payments, cfg)
		require.Len(t, report.Groups, 1)
		assert.Empty(t, report.Matches)
		assert.Empty(t, report.UnmatchedInvoices)
		assert.Empty(t, report.UnmatchedPayments)
	})

	t.Run("disabling consolidation reports raw combinations", func(t *testing.T) {
		noGroups := cfg
		noGroups.Consolidate = false
		invoices := []*model.Record{rec("i1", "JB100 siding job", 100)}
		payments := []*model.Record{
			rec("p1", "JB100 deposit", 60),
			rec("p2", "JB100 final", 40),
		}

		report := ReconcileRecords(invoices, payments, noGroups)
		assert.Empty(t, report.Groups)
		require.Len(t, report.Combinations, 1)
		assert.Equal(t, "100", report.Combinations[0].Identifier)
		assert.ElementsMatch(t, []string{"p1", "p2"}, report.Combinations[0].PaymentIDs)
		// The tolerance search still runs; the greedy match stays since raw
		// combinations claim nothing.
		assert.Len(t, report.Matches, 1)

		var combinationRows int
		for _, r := range report.Rows {
			if r.Status == model.StatusCombination {
				combinationRows++
			}
		}
		assert.Equal(t, 1, combinationRows)
	})

	t.Run("report rows are always rendered", func(t *testing.T) {
		report := ReconcileRecords(nil, nil, cfg)
		assert.NotEmpty(t, report.Rows)
	})
}
