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
	"strings"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// FuzzyMatcher scores pairs of records on their descriptions and embedded
// number tokens. A matcher is cheap to construct and safe for concurrent use.
type FuzzyMatcher struct {
	cfg model.MatcherConfig
}

// NewFuzzyMatcher returns a matcher tuned by cfg.
func NewFuzzyMatcher(cfg model.MatcherConfig) *FuzzyMatcher {
	return &FuzzyMatcher{cfg: cfg}
}

// TextSimilarity scores two descriptions in [0,1]: the average of a
// matching-blocks sequence ratio over the lowercased runes and a word-set
// cosine over the whitespace-split tokens. An empty description on either
// side scores 0.
func (m *FuzzyMatcher) TextSimilarity(desc1, desc2 string) float64 {
	if desc1 == "" || desc2 == "" {
		return 0
	}
	a := strings.ToLower(desc1)
	b := strings.ToLower(desc2)
	return (sequenceRatio(a, b) + wordCosine(a, b)) / 2
}

// NumberSimilarity scores the number tokens of record one against record two.
// Every token pair contributes: 1.0 for an exact match, 0.5 when one token is
// a substring of the other. The total is normalized by the token count of the
// FIRST record only, so the score is asymmetric and can exceed 1.0 when the
// second record repeats tokens.
func (m *FuzzyMatcher) NumberSimilarity(nums1, nums2 []string) float64 {
	if len(nums1) == 0 || len(nums2) == 0 {
		return 0
	}
	var score float64
	for _, n1 := range nums1 {
		for _, n2 := range nums2 {
			switch {
			case n1 == n2:
				score += 1.0
			case strings.Contains(n1, n2) || strings.Contains(n2, n1):
				score += 0.5
			}
		}
	}
	return score / float64(len(nums1))
}

// Similarity combines the text and number scores with the configured weights.
func (m *FuzzyMatcher) Similarity(r1, r2 *model.Record) (composite, text, number float64) {
	text = m.TextSimilarity(r1.Description, r2.Description)
	number = m.NumberSimilarity(r1.Numbers, r2.Numbers)
	composite = m.cfg.TextWeight*text + m.cfg.NumberWeight*number
	return composite, text, number
}

// Confidence maps a composite score to a review label.
func (m *FuzzyMatcher) Confidence(score float64) string {
	switch {
	case score >= m.cfg.ConfidenceHigh:
		return model.ConfidenceHigh
	case score >= m.cfg.ConfidenceMedium:
		return model.ConfidenceMedium
	case score >= m.cfg.ConfidenceReview:
		return model.ConfidenceReview
	default:
		return model.ConfidenceLow
	}
}

// sequenceRatio is the classic matching-blocks similarity: twice the total
// length of the longest common blocks divided by the combined length. Empty
// input on either side scores 0.
func sequenceRatio(s1, s2 string) float64 {
	a := []rune(s1)
	b := []rune(s2)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(matchingBlocksTotal(a, b)) / float64(len(a)+len(b))
}

// matchingBlocksTotal sums the sizes of the maximal matching blocks between a
// and b, found by recursively locating the longest matching block and
// splitting around it.
func matchingBlocksTotal(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	total := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		bi, bj, size := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if size == 0 {
			continue
		}
		total += size
		queue = append(queue,
			span{s.alo, bi, s.blo, bj},
			span{bi + size, s.ahi, bj + size, s.bhi},
		)
	}
	return total
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the given
// window, preferring the earliest block in a, then in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

// wordCosine treats each description as a set of whitespace-separated words
// and returns |intersection| / (sqrt(n1) * sqrt(n2)).
func wordCosine(s1, s2 string) float64 {
	w1 := strings.Fields(s1)
	w2 := strings.Fields(s2)
	if len(w1) == 0 || len(w2) == 0 {
		return 0
	}
	set1 := make(map[string]struct{}, len(w1))
	for _, w := range w1 {
		set1[w] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(w2))
	for _, w := range w2 {
		set2[w] = struct{}{}
	}
	common := 0
	for w := range set1 {
		if _, ok := set2[w]; ok {
			common++
		}
	}
	return float64(common) / (math.Sqrt(float64(len(set1))) * math.Sqrt(float64(len(set2))))
}
