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
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

var (
	numberPattern  = regexp.MustCompile(`\d+`)
	invoicePattern = regexp.MustCompile(`(?i)(INV-\d+)`)
	// JB tokens tolerate a colon or whitespace separator and a stray dot,
	// e.g. "JB100", "jb: 100", "JB .100".
	jobPattern = regexp.MustCompile(`(?i)JB[:\s]*\.?(\d+)`)
)

// ExtractNumbers returns every run of consecutive digits in the text, in order
// of appearance, duplicates included.
func ExtractNumbers(text string) []string {
	return numberPattern.FindAllString(text, -1)
}

// ExtractInvoiceNumber returns the first INV-style token in the text, uppercased,
// or "" when none is present.
func ExtractInvoiceNumber(text string) string {
	m := invoicePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// ExtractJobNumber returns the digits of the first JB-style token in the text,
// or "" when none is present.
func ExtractJobNumber(text string) string {
	m := jobPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseAmount converts a raw amount cell into a float. Thousands separators are
// stripped first. Unparseable values coerce to 0.0 and the second return is
// false so the caller can count coercions.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// NewRecord builds a normalized record from a raw row using the given column
// spec. The second return reports whether the amount cell parsed cleanly; a
// failed parse still yields a usable record with a zero amount. A row whose id
// column is missing or empty gets a deterministic id synthesized from the
// description.
func NewRecord(row model.Row, spec model.ColumnSpec) (*model.Record, bool) {
	desc := row[spec.Description]
	id := strings.TrimSpace(row[spec.ID])
	if id == "" {
		id = model.SynthesizeID(desc)
	}
	amount, ok := ParseAmount(row[spec.Amount])
	return &model.Record{
		ID:          id,
		Description: desc,
		Numbers:     ExtractNumbers(desc),
		Amount:      amount,
		Invoice:     ExtractInvoiceNumber(desc),
		Job:         ExtractJobNumber(desc),
		RawData:     row,
	}, ok
}

// BuildRecords converts a whole table, returning the records plus the number of
// rows whose amount cell failed to parse.
func BuildRecords(rows []model.Row, spec model.ColumnSpec) ([]*model.Record, int) {
	records := make([]*model.Record, 0, len(rows))
	coerced := 0
	for _, row := range rows {
		rec, ok := NewRecord(row, spec)
		if !ok {
			coerced++
		}
		records = append(records, rec)
	}
	return records, coerced
}
