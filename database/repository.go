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

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// IDataSource is the persistence surface of the reconciliation service.
type IDataSource interface {
	RecordUpload(ctx context.Context, upload *model.Upload) error
	GetUpload(ctx context.Context, uploadID string) (*model.Upload, error)
	RecordUploadRows(ctx context.Context, uploadID string, rows []model.Row) error
	GetUploadRows(ctx context.Context, uploadID string) ([]model.Row, error)
	RecordReconciliation(ctx context.Context, recon *model.Reconciliation) error
	GetReconciliation(ctx context.Context, reconciliationID string) (*model.Reconciliation, error)
	UpdateReconciliationStatus(ctx context.Context, reconciliationID, status string, matched, unmatched int) error
	RecordMatches(ctx context.Context, reconciliationID string, matches []model.MatchResult) error
	RecordReportRows(ctx context.Context, reconciliationID string, rows []model.ReportRow) error
	GetReportRows(ctx context.Context, reconciliationID string) ([]model.ReportRow, error)
}
