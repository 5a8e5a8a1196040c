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
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// FindDuplicates scans one table for rows that look like the same underlying
// entry. A pair is reported when its composite similarity reaches the high
// confidence bar, or when one description nearly contains the other. The scan
// is pairwise, so it is meant for tables of at most a few thousand rows.
func FindDuplicates(records []*model.Record, cfg model.MatcherConfig) []model.DuplicatePair {
	matcher := NewFuzzyMatcher(cfg)
	var pairs []model.DuplicatePair
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			a, b := records[i], records[j]
			score, _, _ := matcher.Similarity(a, b)
			if score < cfg.ConfidenceHigh && !partialMatch(a.Description, b.Description) {
				continue
			}
			pairs = append(pairs, model.DuplicatePair{
				FirstID:    a.ID,
				SecondID:   b.ID,
				FirstDesc:  a.Description,
				SecondDesc: b.Description,
				Score:      score,
				Confidence: matcher.Confidence(score),
			})
		}
	}
	return pairs
}

// partialMatch reports whether one description contains the other, or whether
// they sit within a small edit distance of each other.
func partialMatch(s1, s2 string) bool {
	s1 = strings.ToLower(strings.TrimSpace(s1))
	s2 = strings.ToLower(strings.TrimSpace(s2))
	if s1 == "" || s2 == "" {
		return false
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return true
	}
	distance := levenshtein.DistanceForStrings([]rune(s1), []rune(s2), levenshtein.DefaultOptions)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	return distance <= maxLen/5
}
