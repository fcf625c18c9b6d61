package workbook

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"assessments/internal/dataset"
	"assessments/internal/types"
)

// ExportSheet is the name of the single worksheet written by Export.
const ExportSheet = "merged_data"

var textColumns = []string{types.ColRollYear, types.ColCommCode, types.ColCommName, types.ColRollNumber, types.ColAddress}

// ExportColumns returns the header row of the export.
func ExportColumns() []string {
	cols := append([]string(nil), textColumns...)
	for _, f := range types.NumericFields {
		cols = append(cols, f.Name)
	}
	return cols
}

// Export writes every record of t to a new workbook at path. Missing values
// are left blank and infinite growth is written as inf or -inf.
func Export(path string, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("name export sheet: %w", err)
	}

	for i, h := range ExportColumns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExportSheet, cell, h); err != nil {
			return fmt.Errorf("write export header: %w", err)
		}
	}

	for i, r := range t.Rows() {
		row := i + 2
		values := []any{r.RollYear, r.CommCode, r.CommName, r.RollNumber, r.Address}
		for _, nf := range types.NumericFields {
			values = append(values, cellValue(nf.Get(&r)))
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(ExportSheet, cell, v); err != nil {
				return fmt.Errorf("write export row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save export %s: %w", path, err)
	}
	slog.Info("export written", slog.String("path", path), slog.Int("rows", t.Len()))
	return nil
}

func cellValue(v sql.NullFloat64) any {
	switch {
	case !v.Valid || math.IsNaN(v.Float64):
		return nil
	case math.IsInf(v.Float64, 1):
		return "inf"
	case math.IsInf(v.Float64, -1):
		return "-inf"
	}
	return v.Float64
}

// ReadExport loads a workbook written by Export.
func ReadExport(path string) ([]types.Record, error) {
	sh, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	col, err := sh.columns(ExportColumns()...)
	if err != nil {
		return nil, err
	}

	out := make([]types.Record, 0, len(sh.rows))
	for i, row := range sh.rows {
		if isBlank(row) {
			continue
		}
		year, err := parseYear(cell(row, col[types.ColRollYear]))
		if err != nil {
			return nil, rowError(path, i, err)
		}
		r := types.Record{
			RollYear:   year,
			CommCode:   cell(row, col[types.ColCommCode]),
			CommName:   cell(row, col[types.ColCommName]),
			RollNumber: parseID(cell(row, col[types.ColRollNumber])),
			Address:    cell(row, col[types.ColAddress]),
		}
		for _, nf := range types.NumericFields {
			v, err := parseNumber(cell(row, col[nf.Name]))
			if err != nil {
				return nil, rowError(path, i, fmt.Errorf("%s: %w", nf.Name, err))
			}
			nf.Set(&r, v)
		}
		out = append(out, r)
	}
	return out, nil
}
