package workbook

import (
	"context"
	"fmt"
	"log/slog"

	"assessments/internal/types"
)

// Source loads the three datasets from xlsx workbooks.
type Source struct {
	ConstructionPath string
	LandPath         string
	AssessmentPath   string
}

// Load reads the construction, land and assessment workbooks in that order.
// A missing required column aborts the load with dataset.ErrMissingColumn.
func (s Source) Load(ctx context.Context) (types.Sources, error) {
	var src types.Sources
	var err error

	if src.Construction, err = loadConstruction(s.ConstructionPath); err != nil {
		return types.Sources{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.Sources{}, err
	}
	if src.Land, err = loadLand(s.LandPath); err != nil {
		return types.Sources{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.Sources{}, err
	}
	if src.Assessment, err = loadAssessment(s.AssessmentPath); err != nil {
		return types.Sources{}, err
	}
	return src, nil
}

func loadConstruction(path string) ([]types.ConstructionRecord, error) {
	sh, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	col, err := sh.columns(types.ColRollYear, types.ColRollNumber, types.ColAddress, types.ColYearOfConstruction)
	if err != nil {
		return nil, err
	}

	out := make([]types.ConstructionRecord, 0, len(sh.rows))
	for i, row := range sh.rows {
		if isBlank(row) {
			continue
		}
		year, err := parseYear(cell(row, col[types.ColRollYear]))
		if err != nil {
			return nil, rowError(path, i, err)
		}
		built, err := parseNumber(cell(row, col[types.ColYearOfConstruction]))
		if err != nil {
			return nil, rowError(path, i, err)
		}
		out = append(out, types.ConstructionRecord{
			RollYear:           year,
			RollNumber:         parseID(cell(row, col[types.ColRollNumber])),
			Address:            cell(row, col[types.ColAddress]),
			YearOfConstruction: built,
		})
	}
	slog.Debug("construction workbook loaded", slog.String("path", path), slog.Int("rows", len(out)))
	return out, nil
}

func loadLand(path string) ([]types.LandRecord, error) {
	sh, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	col, err := sh.columns(types.ColRollYear, types.ColRollNumber, types.ColLandSizeSM, types.ColLandSizeSF, types.ColLandSizeAC)
	if err != nil {
		return nil, err
	}

	out := make([]types.LandRecord, 0, len(sh.rows))
	for i, row := range sh.rows {
		if isBlank(row) {
			continue
		}
		rec := types.LandRecord{RollNumber: parseID(cell(row, col[types.ColRollNumber]))}
		if rec.RollYear, err = parseYear(cell(row, col[types.ColRollYear])); err != nil {
			return nil, rowError(path, i, err)
		}
		if rec.LandSizeSM, err = parseNumber(cell(row, col[types.ColLandSizeSM])); err != nil {
			return nil, rowError(path, i, err)
		}
		if rec.LandSizeSF, err = parseNumber(cell(row, col[types.ColLandSizeSF])); err != nil {
			return nil, rowError(path, i, err)
		}
		if rec.LandSizeAC, err = parseNumber(cell(row, col[types.ColLandSizeAC])); err != nil {
			return nil, rowError(path, i, err)
		}
		out = append(out, rec)
	}
	slog.Debug("land workbook loaded", slog.String("path", path), slog.Int("rows", len(out)))
	return out, nil
}

func loadAssessment(path string) ([]types.AssessmentRecord, error) {
	sh, err := readSheet(path)
	if err != nil {
		return nil, err
	}
	col, err := sh.columns(types.ColRollYear, types.ColAddress, types.ColRollNumber, types.ColCommCode, types.ColCommName, types.ColAssessedValue)
	if err != nil {
		return nil, err
	}

	out := make([]types.AssessmentRecord, 0, len(sh.rows))
	for i, row := range sh.rows {
		if isBlank(row) {
			continue
		}
		year, err := parseYear(cell(row, col[types.ColRollYear]))
		if err != nil {
			return nil, rowError(path, i, err)
		}
		value, err := parseNumber(cell(row, col[types.ColAssessedValue]))
		if err != nil {
			return nil, rowError(path, i, err)
		}
		out = append(out, types.AssessmentRecord{
			RollYear:      year,
			Address:       cell(row, col[types.ColAddress]),
			RollNumber:    parseID(cell(row, col[types.ColRollNumber])),
			CommCode:      cell(row, col[types.ColCommCode]),
			CommName:      cell(row, col[types.ColCommName]),
			AssessedValue: value,
		})
	}
	slog.Debug("assessment workbook loaded", slog.String("path", path), slog.Int("rows", len(out)))
	return out, nil
}

// rowError reports a data row by its spreadsheet row number.
func rowError(path string, i int, err error) error {
	return fmt.Errorf("%s row %d: %w", path, i+2, err)
}
