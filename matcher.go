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
	"github.com/sirupsen/logrus"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// FindBestMatches runs the greedy one-to-one pass. Invoices are visited in
// input order; each takes the highest-scoring still-unclaimed payment at or
// above the similarity threshold, first encountered winning ties. The result
// is order dependent on purpose: earlier invoices get first pick.
func FindBestMatches(invoices, payments []*model.Record, cfg model.MatcherConfig) ([]model.MatchResult, []model.Unmatched, []model.Unmatched) {
	matcher := NewFuzzyMatcher(cfg)

	matches := make([]model.MatchResult, 0)
	used := make([]bool, len(payments))

	for _, inv := range invoices {
		bestIdx := -1
		var bestScore, bestText, bestNumber float64
		for i, pay := range payments {
			if used[i] {
				continue
			}
			score, text, number := matcher.Similarity(inv, pay)
			if score >= cfg.SimilarityThreshold && score > bestScore {
				bestIdx = i
				bestScore, bestText, bestNumber = score, text, number
			}
		}
		if bestIdx < 0 {
			continue
		}
		used[bestIdx] = true
		pay := payments[bestIdx]
		matches = append(matches, model.MatchResult{
			InvoiceID:       inv.ID,
			PaymentID:       pay.ID,
			InvoiceDesc:     inv.Description,
			PaymentDesc:     pay.Description,
			InvoiceAmount:   inv.Amount,
			PaymentAmount:   pay.Amount,
			SimilarityScore: bestScore,
			TextScore:       bestText,
			NumberScore:     bestNumber,
			Confidence:      matcher.Confidence(bestScore),
		})
	}

	matchedInvoices := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		matchedInvoices[m.InvoiceID] = struct{}{}
	}

	unmatchedInvoices := make([]model.Unmatched, 0)
	for _, inv := range invoices {
		if _, ok := matchedInvoices[inv.ID]; !ok {
			unmatchedInvoices = append(unmatchedInvoices, model.Unmatched{ID: inv.ID, Description: inv.Description})
		}
	}
	unmatchedPayments := make([]model.Unmatched, 0)
	for i, pay := range payments {
		if !used[i] {
			unmatchedPayments = append(unmatchedPayments, model.Unmatched{ID: pay.ID, Description: pay.Description})
		}
	}

	logrus.Debugf("greedy pass: %d matches, %d unmatched invoices, %d unmatched payments",
		len(matches), len(unmatchedInvoices), len(unmatchedPayments))

	return matches, unmatchedInvoices, unmatchedPayments
}
