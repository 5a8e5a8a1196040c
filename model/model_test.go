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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("upload")
	assert.True(t, strings.HasPrefix(id, "upload_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("upload"))
}

func TestSynthesizeID(t *testing.T) {
	a := SynthesizeID("JB100 siding")
	b := SynthesizeID("JB100 siding")
	c := SynthesizeID("JB100 roofing")
	assert.True(t, strings.HasPrefix(a, "auto_"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRecordIdentifier(t *testing.T) {
	t.Run("job wins over invoice", func(t *testing.T) {
		r := &Record{Job: "100", Invoice: "INV-7"}
		assert.Equal(t, "100", r.Identifier())
		assert.Equal(t, []string{"100", "INV-7"}, r.IdentifierKeys())
	})

	t.Run("invoice fallback", func(t *testing.T) {
		r := &Record{Invoice: "INV-7"}
		assert.Equal(t, "INV-7", r.Identifier())
		assert.Equal(t, []string{"INV-7"}, r.IdentifierKeys())
	})

	t.Run("no identifier", func(t *testing.T) {
		r := &Record{}
		assert.Equal(t, "", r.Identifier())
		assert.Empty(t, r.IdentifierKeys())
	})
}

func TestCombinationEntrySums(t *testing.T) {
	e := &CombinationEntry{
		Identifier: "100",
		Invoices:   []*Record{{ID: "i1", Amount: 33.335}, {ID: "i2", Amount: 66.665}},
		Payments:   []*Record{{ID: "p1", Amount: 100.0}},
	}
	assert.InDelta(t, 100.0, e.InvoiceSum(), 1e-9)
	assert.InDelta(t, 100.0, e.PaymentSum(), 1e-9)
	assert.InDelta(t, 0.0, e.Difference(), 1e-9)
	assert.Equal(t, []string{"i1", "i2"}, e.InvoiceIDs())
	assert.Equal(t, []string{"p1"}, e.PaymentIDs())
	assert.Equal(t, 3, e.NumRecords())
}

func TestRoundAmount(t *testing.T) {
	assert.InDelta(t, 0.1, RoundAmount(0.1+0.2-0.2), 1e-9)
	assert.InDelta(t, 12.35, RoundAmount(12.345001), 1e-9)
	assert.InDelta(t, -1.23, RoundAmount(-1.234), 1e-9)
}

func TestMatcherConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultMatcherConfig().Validate())

	bad := DefaultMatcherConfig()
	bad.TextWeight = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultMatcherConfig()
	bad.MaxCombinationSize = 0
	assert.Error(t, bad.Validate())
}
