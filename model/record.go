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

// Row is a single raw tabular row, keyed by column name. Rows only exist at the
// ingestion boundary; the matching algorithms work on the typed Record fields.
type Row map[string]string

// ColumnSpec names the columns of a source table that carry the record id, the
// free-text description and the monetary amount. Column names are caller
// supplied and differ per source (e.g. InvoiceID/Combined/Gross for PMC
// exports, PaymentID/Reference/Amount for payment-processor exports).
type ColumnSpec struct {
	ID          string `json:"id_column"`
	Description string `json:"description_column"`
	Amount      string `json:"amount_column"`
}

// Record is the normalized representation of one invoice or payment row.
// Instances are created once during ingestion and never mutated afterwards.
type Record struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Numbers     []string `json:"numbers"`
	Amount      float64  `json:"amount"`
	Invoice     string   `json:"invoice,omitempty"`
	Job         string   `json:"job,omitempty"`
	RawData     Row      `json:"raw_data,omitempty"`
}

// Identifier returns the grouping key for combination matching: the job number
// if present, otherwise the invoice number, otherwise "".
func (r *Record) Identifier() string {
	if r.Job != "" {
		return r.Job
	}
	return r.Invoice
}

// IdentifierKeys returns every grouping key the record carries. A record with
// both a job and an invoice token belongs to both groups, since either token
// may be the true shared key between the two sides.
func (r *Record) IdentifierKeys() []string {
	keys := make([]string, 0, 2)
	if r.Job != "" {
		keys = append(keys, r.Job)
	}
	if r.Invoice != "" && r.Invoice != r.Job {
		keys = append(keys, r.Invoice)
	}
	return keys
}

// Date returns the display date carried in the raw row, if any. Dates are not
// part of the matching model, they only surface in reports.
func (r *Record) Date() string {
	if r.RawData == nil {
		return ""
	}
	return r.RawData["Date"]
}
