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

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation run statuses.
const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Upload sides.
const (
	SideInvoice = "invoice"
	SidePayment = "payment"
)

// Report row statuses.
const (
	StatusGroupMatch       = "Group Match"
	StatusCombination      = "Combination"
	StatusMatch            = "Match"
	StatusRelatedInvoice   = "Related Invoice"
	StatusRelatedPayment   = "Related Payment"
	StatusUnmatchedInvoice = "Unmatched Invoice"
	StatusUnmatchedPayment = "Unmatched Payment"
	StatusSpaceHolder      = "SpaceHolder"
	StatusReviewRequired   = "Review Required"
)

// Confidence labels derived from the composite similarity score.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceReview = "review"
	ConfidenceLow    = "low"
)

// MatchResult is a confirmed one-to-one pairing between an invoice record and a
// payment record. Once created by the greedy pass, a record id appears in at
// most one MatchResult.
type MatchResult struct {
	InvoiceID       string  `json:"invoice_id"`
	PaymentID       string  `json:"payment_id"`
	InvoiceDesc     string  `json:"invoice_desc"`
	PaymentDesc     string  `json:"payment_desc"`
	InvoiceAmount   float64 `json:"invoice_amount"`
	PaymentAmount   float64 `json:"payment_amount"`
	SimilarityScore float64 `json:"similarity_score"`
	TextScore       float64 `json:"text_score"`
	NumberScore     float64 `json:"number_score"`
	Confidence      string  `json:"confidence"`
}

// Unmatched identifies a record that never got consumed by a match.
type Unmatched struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Combination is one tolerance-qualifying invoice-subset x payment-subset pair
// found under a shared identifier. Candidate combinations may overlap; the
// consolidation step merges them per identifier.
type Combination struct {
	Identifier string   `json:"identifier"`
	InvoiceIDs []string `json:"invoice_ids"`
	PaymentIDs []string `json:"payment_ids"`
	InvoiceSum float64  `json:"invoice_sum"`
	PaymentSum float64  `json:"payment_sum"`
	Difference float64  `json:"difference"`
}

// CombinationEntry is a consolidated multi-record group sharing an identifier.
// An entry with two or fewer records is degenerate and is demoted back to a
// plain MatchResult rather than reported as a group.
type CombinationEntry struct {
	Identifier string    `json:"identifier"`
	Invoices   []*Record `json:"invoices"`
	Payments   []*Record `json:"payments"`
}

// InvoiceSum returns the total amount of the invoices in the group.
func (e *CombinationEntry) InvoiceSum() float64 {
	var sum float64
	for _, r := range e.Invoices {
		sum += r.Amount
	}
	return sum
}

// PaymentSum returns the total amount of the payments in the group.
func (e *CombinationEntry) PaymentSum() float64 {
	var sum float64
	for _, r := range e.Payments {
		sum += r.Amount
	}
	return sum
}

// Difference returns the signed invoice-sum minus payment-sum, rounded to two
// decimal places.
func (e *CombinationEntry) Difference() float64 {
	return RoundAmount(e.InvoiceSum() - e.PaymentSum())
}

// InvoiceIDs returns the ids of the invoices in the group, in member order.
func (e *CombinationEntry) InvoiceIDs() []string {
	ids := make([]string, len(e.Invoices))
	for i, r := range e.Invoices {
		ids[i] = r.ID
	}
	return ids
}

// PaymentIDs returns the ids of the payments in the group, in member order.
func (e *CombinationEntry) PaymentIDs() []string {
	ids := make([]string, len(e.Payments))
	for i, r := range e.Payments {
		ids[i] = r.ID
	}
	return ids
}

// NumRecords returns the total number of records in the group.
func (e *CombinationEntry) NumRecords() int {
	return len(e.Invoices) + len(e.Payments)
}

// RoundAmount rounds a monetary value to two decimal places.
func RoundAmount(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// DuplicatePair flags two records within the same table that look like the
// same underlying entry.
type DuplicatePair struct {
	FirstID    string  `json:"first_id"`
	SecondID   string  `json:"second_id"`
	FirstDesc  string  `json:"first_desc"`
	SecondDesc string  `json:"second_desc"`
	Score      float64 `json:"score"`
	Confidence string  `json:"confidence"`
}

// ReportRow is one line of the consolidated reconciliation artifact. Pointer
// amounts distinguish "no value" cells from genuine zero amounts.
type ReportRow struct {
	Status        string   `json:"status"`
	GroupID       string   `json:"group_id,omitempty"`
	InvoiceID     string   `json:"invoice_id,omitempty"`
	PaymentID     string   `json:"payment_id,omitempty"`
	InvoiceDate   string   `json:"invoice_date,omitempty"`
	InvoiceDesc   string   `json:"invoice_desc,omitempty"`
	InvoiceAmount *float64 `json:"invoice_amount,omitempty"`
	PaymentDate   string   `json:"payment_date,omitempty"`
	PaymentDesc   string   `json:"payment_desc,omitempty"`
	PaymentAmount *float64 `json:"payment_amount,omitempty"`
	Difference    *float64 `json:"difference,omitempty"`
}

// Upload describes one ingested table.
type Upload struct {
	ID          int64      `json:"-"`
	UploadID    string     `json:"upload_id"`
	Side        string     `json:"side"`
	Filename    string     `json:"filename"`
	Columns     ColumnSpec `json:"columns"`
	RecordCount int        `json:"record_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Reconciliation tracks the lifecycle of one reconciliation run.
type Reconciliation struct {
	ID               int64      `json:"-"`
	ReconciliationID string     `json:"reconciliation_id"`
	InvoiceUploadID  string     `json:"invoice_upload_id"`
	PaymentUploadID  string     `json:"payment_upload_id"`
	Status           string     `json:"status"`
	MatchedRecords   int        `json:"matched_records"`
	UnmatchedRecords int        `json:"unmatched_records"`
	IsDryRun         bool       `json:"is_dry_run"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// ReconciliationReport is the in-memory result of one full reconciliation run:
// the surviving one-to-one matches, either the consolidated groups or the raw
// per-combination candidates (depending on the consolidate setting), the
// leftovers and the rendered report rows.
type ReconciliationReport struct {
	Matches            []MatchResult      `json:"matches"`
	Groups             []CombinationEntry `json:"groups"`
	Combinations       []Combination      `json:"combinations,omitempty"`
	UnmatchedInvoices  []Unmatched        `json:"unmatched_invoices"`
	UnmatchedPayments  []Unmatched        `json:"unmatched_payments"`
	FlaggedIdentifiers []string           `json:"flagged_identifiers,omitempty"`
	Rows               []ReportRow        `json:"rows"`
}
