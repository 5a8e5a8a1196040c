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
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MatcherConfig carries every tunable of the matching pipeline. It is a plain
// value struct threaded through the engine calls so the algorithms never reach
// into global configuration.
type MatcherConfig struct {
	TextWeight          float64 `json:"text_weight" envconfig:"TEXT_WEIGHT"`
	NumberWeight        float64 `json:"number_weight" envconfig:"NUMBER_WEIGHT"`
	SimilarityThreshold float64 `json:"similarity_threshold" envconfig:"SIMILARITY_THRESHOLD"`
	Tolerance           float64 `json:"tolerance" envconfig:"TOLERANCE"`
	MaxCombinationSize  int     `json:"max_combination_size" envconfig:"MAX_COMBINATION_SIZE"`
	MaxCombinationSpace int     `json:"max_combination_space" envconfig:"MAX_COMBINATION_SPACE"`
	Consolidate         bool    `json:"consolidate" envconfig:"CONSOLIDATE"`
	ConfidenceHigh      float64 `json:"confidence_high" envconfig:"CONFIDENCE_HIGH"`
	ConfidenceMedium    float64 `json:"confidence_medium" envconfig:"CONFIDENCE_MEDIUM"`
	ConfidenceReview    float64 `json:"confidence_review" envconfig:"CONFIDENCE_REVIEW"`
}

// DefaultMatcherConfig returns the stock tuning: equal text/number weighting,
// a 0.55 match threshold and a 1.00 currency tolerance for group sums.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		TextWeight:          0.5,
		NumberWeight:        0.5,
		SimilarityThreshold: 0.55,
		Tolerance:           1.0,
		MaxCombinationSize:  3,
		MaxCombinationSpace: 10000,
		Consolidate:         true,
		ConfidenceHigh:      0.8,
		ConfidenceMedium:    0.6,
		ConfidenceReview:    0.5,
	}
}

// Validate checks the tuning for values the pipeline cannot work with.
func (c MatcherConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TextWeight, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.NumberWeight, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.SimilarityThreshold, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.Tolerance, validation.Min(0.0)),
		validation.Field(&c.MaxCombinationSize, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxCombinationSpace, validation.Required, validation.Min(1)),
		validation.Field(&c.ConfidenceHigh, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.ConfidenceMedium, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.ConfidenceReview, validation.Min(0.0), validation.Max(1.0)),
	)
}
