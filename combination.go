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
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// GroupByIdentifier buckets records by their primary identifier (job number,
// falling back to invoice number). Records with neither are left out.
func GroupByIdentifier(records []*model.Record) map[string][]*model.Record {
	groups := make(map[string][]*model.Record)
	for _, r := range records {
		if key := r.Identifier(); key != "" {
			groups[key] = append(groups[key], r)
		}
	}
	return groups
}

// GroupByBothKeys buckets records under every identifier they carry. A record
// with both a job and an invoice token appears in both buckets, since either
// token may be the key the other side used.
func GroupByBothKeys(records []*model.Record) map[string][]*model.Record {
	groups := make(map[string][]*model.Record)
	for _, r := range records {
		for _, key := range r.IdentifierKeys() {
			groups[key] = append(groups[key], r)
		}
	}
	return groups
}

// FindCombinationMatches searches each shared primary identifier for invoice
// and payment subsets (sizes 1 through MaxCombinationSize) whose sums agree
// within the tolerance. All qualifying subset pairs are returned, overlaps
// included; consolidation is the caller's concern. Identifiers whose subset
// space exceeds MaxCombinationSpace are skipped and returned for manual review.
func FindCombinationMatches(invoices, payments []*model.Record, cfg model.MatcherConfig) ([]model.Combination, []string) {
	return searchCombinations(GroupByIdentifier(invoices), GroupByIdentifier(payments), cfg)
}

func searchCombinations(invGroups, payGroups map[string][]*model.Record, cfg model.MatcherConfig) ([]model.Combination, []string) {
	shared := make([]string, 0, len(invGroups))
	for key := range invGroups {
		if _, ok := payGroups[key]; ok {
			shared = append(shared, key)
		}
	}
	sort.Strings(shared)

	var combos []model.Combination
	var flagged []string
	for _, key := range shared {
		invs := invGroups[key]
		pays := payGroups[key]

		space := satMul(subsetCount(len(invs), cfg.MaxCombinationSize), subsetCount(len(pays), cfg.MaxCombinationSize))
		if space > cfg.MaxCombinationSpace {
			logrus.Warnf("identifier %s: subset space %d exceeds ceiling %d, flagging for review", key, space, cfg.MaxCombinationSpace)
			flagged = append(flagged, key)
			continue
		}

		invSubsets := subsets(invs, cfg.MaxCombinationSize)
		paySubsets := subsets(pays, cfg.MaxCombinationSize)
		for _, is := range invSubsets {
			invSum := sumAmounts(is)
			for _, ps := range paySubsets {
				paySum := sumAmounts(ps)
				diff := model.RoundAmount(invSum - paySum)
				if math.Abs(diff) <= cfg.Tolerance {
					combos = append(combos, model.Combination{
						Identifier: key,
						InvoiceIDs: recordIDs(is),
						PaymentIDs: recordIDs(ps),
						InvoiceSum: invSum,
						PaymentSum: paySum,
						Difference: diff,
					})
				}
			}
		}
	}
	return combos, flagged
}

// FindCombinationEntries is the production grouping pass. Every record on both
// sides is pooled, bucketed under every identifier it carries, and searched
// for tolerance-qualifying subset pairs. All qualifying combinations under one
// identifier are consolidated into a single entry holding the union of their
// members. Entries with two or fewer records duplicate what the greedy pass
// already handles and are dropped; one that confirms an existing greedy match
// simply leaves that match in place.
func FindCombinationEntries(invoices, payments []*model.Record, cfg model.MatcherConfig) ([]model.CombinationEntry, []string) {
	invGroups := GroupByBothKeys(invoices)
	payGroups := GroupByBothKeys(payments)

	combos, flagged := searchCombinations(invGroups, payGroups, cfg)

	byIdentifier := make(map[string][]model.Combination)
	order := make([]string, 0)
	for _, c := range combos {
		if _, ok := byIdentifier[c.Identifier]; !ok {
			order = append(order, c.Identifier)
		}
		byIdentifier[c.Identifier] = append(byIdentifier[c.Identifier], c)
	}

	var entries []model.CombinationEntry
	for _, key := range order {
		entry := consolidate(key, byIdentifier[key], invGroups[key], payGroups[key])
		if entry.NumRecords() <= 2 {
			// Degenerate group. A 1:1 pair either already exists as a greedy
			// match or failed the similarity threshold; either way it is not
			// a group result.
			continue
		}
		entries = append(entries, entry)
	}

	logrus.Debugf("combination pass: %d candidate combinations consolidated into %d groups, %d identifiers flagged",
		len(combos), len(entries), len(flagged))

	return entries, flagged
}

// consolidate merges every qualifying combination under one identifier into a
// single entry holding the union of the member records, in group order.
func consolidate(key string, combos []model.Combination, invs, pays []*model.Record) model.CombinationEntry {
	invSet := make(map[string]struct{})
	paySet := make(map[string]struct{})
	for _, c := range combos {
		for _, id := range c.InvoiceIDs {
			invSet[id] = struct{}{}
		}
		for _, id := range c.PaymentIDs {
			paySet[id] = struct{}{}
		}
	}
	entry := model.CombinationEntry{Identifier: key}
	for _, r := range invs {
		if _, ok := invSet[r.ID]; ok {
			entry.Invoices = append(entry.Invoices, r)
		}
	}
	for _, r := range pays {
		if _, ok := paySet[r.ID]; ok {
			entry.Payments = append(entry.Payments, r)
		}
	}
	return entry
}

// subsets returns every subset of records with size 1 through maxSize.
func subsets(records []*model.Record, maxSize int) [][]*model.Record {
	if maxSize > len(records) {
		maxSize = len(records)
	}
	var out [][]*model.Record
	var pick func(start int, current []*model.Record)
	pick = func(start int, current []*model.Record) {
		if len(current) > 0 {
			subset := make([]*model.Record, len(current))
			copy(subset, current)
			out = append(out, subset)
		}
		if len(current) == maxSize {
			return
		}
		for i := start; i < len(records); i++ {
			pick(i+1, append(current, records[i]))
		}
	}
	pick(0, nil)
	return out
}

// subsetCount returns the number of subsets of size 1 through maxSize drawn
// from n records, saturating at MaxInt so oversized groups always trip the
// ceiling instead of wrapping negative.
func subsetCount(n, maxSize int) int {
	if maxSize > n {
		maxSize = n
	}
	total := 0
	for k := 1; k <= maxSize; k++ {
		b := binomial(n, k)
		if total > math.MaxInt-b {
			return math.MaxInt
		}
		total += b
	}
	return total
}

// binomial computes C(n, k), saturating at MaxInt on overflow.
func binomial(n, k int) int {
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		if result > math.MaxInt/(n-i) {
			return math.MaxInt
		}
		result = result * (n - i) / (i + 1)
	}
	return result
}

// satMul multiplies two non-negative counts, saturating at MaxInt.
func satMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

func sumAmounts(records []*model.Record) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Amount
	}
	return sum
}

func recordIDs(records []*model.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
