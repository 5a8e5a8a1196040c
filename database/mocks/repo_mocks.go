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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// MockDataSource is a testify mock of database.IDataSource.
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) RecordUpload(ctx context.Context, upload *model.Upload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockDataSource) GetUpload(ctx context.Context, uploadID string) (*model.Upload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Upload), args.Error(1)
}

func (m *MockDataSource) RecordUploadRows(ctx context.Context, uploadID string, rows []model.Row) error {
	args := m.Called(ctx, uploadID, rows)
	return args.Error(0)
}

func (m *MockDataSource) GetUploadRows(ctx context.Context, uploadID string) ([]model.Row, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Row), args.Error(1)
}

func (m *MockDataSource) RecordReconciliation(ctx context.Context, recon *model.Reconciliation) error {
	args := m.Called(ctx, recon)
	return args.Error(0)
}

func (m *MockDataSource) GetReconciliation(ctx context.Context, reconciliationID string) (*model.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reconciliation), args.Error(1)
}

func (m *MockDataSource) UpdateReconciliationStatus(ctx context.Context, reconciliationID, status string, matched, unmatched int) error {
	args := m.Called(ctx, reconciliationID, status, matched, unmatched)
	return args.Error(0)
}

func (m *MockDataSource) RecordMatches(ctx context.Context, reconciliationID string, matches []model.MatchResult) error {
	args := m.Called(ctx, reconciliationID, matches)
	return args.Error(0)
}

func (m *MockDataSource) RecordReportRows(ctx context.Context, reconciliationID string, rows []model.ReportRow) error {
	args := m.Called(ctx, reconciliationID, rows)
	return args.Error(0)
}

func (m *MockDataSource) GetReportRows(ctx context.Context, reconciliationID string) ([]model.ReportRow, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReportRow), args.Error(1)
}
