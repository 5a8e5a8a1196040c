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
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

func fakeCSV(n int) []byte {
	var sb strings.Builder
	sb.WriteString("InvoiceID,Combined,Gross\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "I-%d,JB%d %s,%0.2f\n", i, 100+i, gofakeit.BuzzWord(), gofakeit.Price(10, 5000))
	}
	return []byte(sb.String())
}

func TestDetectFileType(t *testing.T) {
	t.Run("csv extension wins", func(t *testing.T) {
		format, err := DetectFileType([]byte("anything"), "table.csv")
		require.NoError(t, err)
		assert.Equal(t, FormatCSV, format)
	})

	t.Run("json extension wins", func(t *testing.T) {
		format, err := DetectFileType([]byte("anything"), "table.json")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, format)
	})

	t.Run("json content sniffed", func(t *testing.T) {
		format, err := DetectFileType([]byte(`[{"a": 1}]`), "upload.dat")
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, format)
	})

	t.Run("csv content sniffed", func(t *testing.T) {
		format, err := DetectFileType(fakeCSV(5), "upload.dat")
		require.NoError(t, err)
		assert.Equal(t, FormatCSV, format)
	})

	t.Run("free text is rejected", func(t *testing.T) {
		_, err := DetectFileType([]byte("just a plain sentence with no structure"), "upload.dat")
		assert.Error(t, err)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		_, err := DetectFileType([]byte("  "), "upload.dat")
		assert.Error(t, err)
	})
}

func TestParseTable(t *testing.T) {
	spec := model.ColumnSpec{ID: "InvoiceID", Description: "Combined", Amount: "Gross"}

	t.Run("csv table", func(t *testing.T) {
		rows, err := ParseTable(fakeCSV(10), "invoices.csv", spec)
		require.NoError(t, err)
		require.Len(t, rows, 10)
		assert.Equal(t, "I-0", rows[0]["InvoiceID"])
		assert.Contains(t, rows[0]["Combined"], "JB100")
	})

	t.Run("json table", func(t *testing.T) {
		data := []byte(`[
			{"InvoiceID": "I-1", "Combined": "JB100 siding", "Gross": 250.5},
			{"InvoiceID": "I-2", "Combined": "JB101 roof", "Gross": "1,000.00"}
		]`)
		rows, err := ParseTable(data, "invoices.json", spec)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "250.5", rows[0]["Gross"])
		assert.Equal(t, "1,000.00", rows[1]["Gross"])
	})

	t.Run("missing required column", func(t *testing.T) {
		data := []byte("InvoiceID,Description\nI-1,JB100\n")
		_, err := ParseTable(data, "invoices.csv", spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Combined")
	})

	t.Run("rows feed straight into record construction", func(t *testing.T) {
		rows, err := ParseTable(fakeCSV(25), "invoices.csv", spec)
		require.NoError(t, err)
		records, coerced := BuildRecords(rows, spec)
		assert.Len(t, records, 25)
		assert.Zero(t, coerced)
		for _, r := range records {
			assert.NotEmpty(t, r.Job)
			assert.Greater(t, r.Amount, 0.0)
		}
	})
}
