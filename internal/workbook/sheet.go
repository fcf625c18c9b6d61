// Package workbook reads the three source workbooks and writes and reloads the
// merged export.
package workbook

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"assessments/internal/dataset"
	"assessments/internal/types"
)

// sheet is the first worksheet of a workbook with its header mapped by name.
type sheet struct {
	path   string
	header map[string]int
	rows   [][]string
}

// readSheet loads the first worksheet. Row 1 is the header; headers match
// case-insensitively with surrounding space ignored.
func readSheet(path string) (*sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", name, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s: sheet %q is empty", path, name)
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		h = normalizeHeader(h)
		if _, dup := header[h]; !dup && h != "" {
			header[h] = i
		}
	}
	return &sheet{path: path, header: header, rows: rows[1:]}, nil
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

// columns resolves the positions of the named columns.
func (s *sheet) columns(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for _, n := range names {
		i, ok := s.header[normalizeHeader(n)]
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", s.path, dataset.ErrMissingColumn, n)
		}
		idx[n] = i
	}
	return idx, nil
}

// cell returns the trimmed value at position i; rows are ragged when trailing cells are empty.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads a numeric cell. Thousands separators and a leading $ are
// accepted; blank and NaN cells are missing. inf and -inf parse to infinities.
func parseNumber(s string) (sql.NullFloat64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("parse number %q: %w", s, err)
	}
	if math.IsNaN(v) {
		return sql.NullFloat64{}, nil
	}
	return types.Valid(v), nil
}

// parseYear reads a roll year, which spreadsheets may store as 2019 or 2019.0.
func parseYear(s string) (int, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if !v.Valid || v.Float64 != math.Trunc(v.Float64) || math.IsInf(v.Float64, 0) {
		return 0, fmt.Errorf("parse roll year %q: not a whole number", s)
	}
	return int(v.Float64), nil
}

// parseID normalises identifiers that spreadsheets may store as 1234.0.
func parseID(s string) string {
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.ParseInt(strings.TrimSuffix(s, ".0"), 10, 64); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}
