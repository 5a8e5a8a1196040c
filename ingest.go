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
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// Supported table formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DetectFileType determines whether data is a CSV or JSON table. The filename
// extension decides when it is recognized; otherwise the content is sniffed.
func DetectFileType(data []byte, filename string) (string, error) {
	if format, ok := detectByExtension(filename); ok {
		return format, nil
	}
	return detectByContent(data)
}

func detectByExtension(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

func detectByContent(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if !utf8.Valid(trimmed) {
		return "", fmt.Errorf("unable to detect file type: not valid text")
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		if json.Valid(trimmed) {
			return FormatJSON, nil
		}
	}
	if looksLikeCSV(trimmed) {
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unable to detect file type from content")
}

// looksLikeCSV accepts text whose first lines carry a consistent comma count.
func looksLikeCSV(data []byte) bool {
	lines := strings.Split(string(data), "\n")
	sampled := 0
	commas := -1
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := strings.Count(line, ",")
		if n == 0 {
			return false
		}
		if commas == -1 {
			commas = n
		} else if n != commas {
			return false
		}
		sampled++
		if sampled == 5 {
			break
		}
	}
	return sampled > 0
}

// ParseTable decodes a CSV or JSON table into raw rows. The column spec's
// description and amount columns must be present in the table; the id column
// is optional since ids can be synthesized.
func ParseTable(data []byte, filename string, spec model.ColumnSpec) ([]model.Row, error) {
	format, err := DetectFileType(data, filename)
	if err != nil {
		return nil, fmt.Errorf("detecting file type of %s: %w", filename, err)
	}
	var rows []model.Row
	switch format {
	case FormatCSV:
		rows, err = parseCSV(data)
	case FormatJSON:
		rows, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if err := checkColumns(rows, spec); err != nil {
		return nil, fmt.Errorf("validating columns of %s: %w", filename, err)
	}
	return rows, nil
}

func parseCSV(data []byte) ([]model.Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("csv has no header row")
	}
	header := records[0]
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}
	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(model.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseJSON(data []byte) ([]model.Row, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw []map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding json array: %w", err)
	}
	rows := make([]model.Row, 0, len(raw))
	for _, obj := range raw {
		row := make(model.Row, len(obj))
		for k, v := range obj {
			if v == nil {
				row[k] = ""
				continue
			}
			row[k] = fmt.Sprintf("%v", v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// checkColumns verifies the first row carries the description and amount
// columns the caller named. An empty table passes; it just yields no records.
func checkColumns(rows []model.Row, spec model.ColumnSpec) error {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]
	for _, required := range []string{spec.Description, spec.Amount} {
		if required == "" {
			return fmt.Errorf("column spec is incomplete: description and amount columns are required")
		}
		if _, ok := first[required]; !ok {
			return fmt.Errorf("required column %q not found in table", required)
		}
	}
	return nil
}
