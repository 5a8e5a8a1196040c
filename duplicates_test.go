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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

func TestFindDuplicates(t *testing.T) {
	cfg := model.DefaultMatcherConfig()

	t.Run("identical rows are reported", func(t *testing.T) {
		records := []*model.Record{
			rec("a", "JB100 siding repair", 100),
			rec("b", "JB100 siding repair", 100),
		}
		pairs := FindDuplicates(records, cfg)
		require.Len(t, pairs, 1)
		assert.Equal(t, "a", pairs[0].FirstID)
		assert.Equal(t, "b", pairs[0].SecondID)
		assert.Equal(t, model.ConfidenceHigh, pairs[0].Confidence)
	})

	t.Run("contained description is reported even with a low score", func(t *testing.T) {
		records := []*model.Record{
			rec("a", "acme april rent", 100),
			rec("b", "acme april rent second notice", 100),
		}
		pairs := FindDuplicates(records, cfg)
		require.Len(t, pairs, 1)
	})

	t.Run("unrelated rows pass", func(t *testing.T) {
		records := []*model.Record{
			rec("a", "qqq www eee", 100),
			rec("b", "completely different wording", 200),
		}
		pairs := FindDuplicates(records, cfg)
		assert.Empty(t, pairs)
	})

	t.Run("empty table", func(t *testing.T) {
		assert.Empty(t, FindDuplicates(nil, cfg))
	})
}

func TestPartialMatch(t *testing.T) {
	assert.True(t, partialMatch("acme rent", "ACME RENT extra"))
	assert.True(t, partialMatch("acme april rental", "acme april rentals"))
	assert.False(t, partialMatch("qqq www", "zzz xxx"))
	assert.False(t, partialMatch("", "anything"))
}
