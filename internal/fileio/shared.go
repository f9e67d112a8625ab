package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadRows picks a parser by extension and returns the sheet as a slice of
// string rows, preserving file order.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

// HeaderIndex scans for the first row containing keyword in any cell and
// returns its 1-based index, or 0 when no row matches. Marketplace exports
// carry preamble rows above the real header (eBay order reports, Amazon
// transaction reports), so callers locate the header by a known column name.
func HeaderIndex(rows [][]string, keyword string) int {
	kw := strings.ToLower(keyword)
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), kw) {
				return i + 1
			}
		}
	}
	return 0
}

// ToMaps converts rows to []map[header]value using headerRow (1-based) as the
// header line, substituting "Column N" for blank header cells and skipping
// fully empty rows.
func ToMaps(rows [][]string, headerRow int) []map[string]string {
	if len(rows) == 0 {
		return nil
	}
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	headers := make([]string, len(rows[idx]))
	for i, v := range rows[idx] {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		headers[i] = v
	}

	var out []map[string]string
	for r := idx + 1; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// ReadAnyMaps is the one-shot convenience for files whose header row is known
// up front (the CMS catalogue always has it on line 1).
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	rows, err := ReadRows(r, filename)
	if err != nil {
		return nil, err
	}
	return ToMaps(rows, headerRow), nil
}

// normalizeCell trims cell padding and collapses internal runs of whitespace.
func normalizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
