package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"assessments/internal/config"
	"assessments/internal/selector"
	"assessments/internal/workbook"
)

func writeSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(f.GetSheetName(0), cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Files = config.FilesConfig{
		Construction: filepath.Join(dir, "year_of_construction_data.xlsx"),
		Land:         filepath.Join(dir, "land_data.xlsx"),
		Assessment:   filepath.Join(dir, "assessment_data.xlsx"),
	}
	cfg.Output = config.OutputConfig{
		Export:    filepath.Join(dir, "merged_data_export.xlsx"),
		ChartPNG:  filepath.Join(dir, "yearly_averages_plot.png"),
		ChartHTML: filepath.Join(dir, "yearly_averages_plot.html"),
	}

	type property struct {
		roll, address, code, name string
		built                     int
		sm                        float64
		values                    [2]float64
	}
	props := []property{
		{"1", "1 17 AV SE", "FLN", "FOREST LAWN", 1955, 500, [2]float64{250000, 260000}},
		{"2", "2 17 AV SE", "FLN", "FOREST LAWN", 1962, 450, [2]float64{320000, 336000}},
		{"3", "3 NEW BRIGHTON DR SE", "NEB", "NEW BRIGHTON", 2008, 400, [2]float64{450000, 441000}},
		{"4", "4 KENSINGTON RD NW", "HIL", "HILLHURST", 1925, 300, [2]float64{900000, 0}},
	}

	construction := [][]any{{"ROLL_YEAR", "ROLL_NUMBER", "ADDRESS", "YEAR_OF_CONSTRUCTION"}}
	land := [][]any{{"ROLL_YEAR", "ROLL_NUMBER", "LAND_SIZE_SM", "LAND_SIZE_SF", "LAND_SIZE_AC"}}
	assessment := [][]any{{"ROLL_YEAR", "ADDRESS", "ROLL_NUMBER", "COMM_CODE", "COMM_NAME", "ASSESSED_VALUE"}}
	for i, year := range []int{2018, 2019} {
		for _, p := range props {
			construction = append(construction, []any{year, p.roll, p.address, p.built})
			land = append(land, []any{year, p.roll, p.sm, p.sm * 10.7639, p.sm / 4046.86})
			assessment = append(assessment, []any{year, p.address, p.roll, p.code, p.name, p.values[i]})
		}
	}
	writeSheet(t, cfg.Files.Construction, construction)
	writeSheet(t, cfg.Files.Land, land)
	writeSheet(t, cfg.Files.Assessment, assessment)
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := run(context.Background(), cfg, strings.NewReader("2016\n2019\nforest lawn\n"), &out, false)
	require.NoError(t, err)
	got := out.String()

	assert.Contains(t, got, "*** Property Analysis for Three Communities in Calgary ***")
	assert.Contains(t, got, "Please enter a valid year.")
	assert.Contains(t, got, "Forest Lawn = FLN, New Brighton = NEB, Hillhurst = HIL")
	assert.Contains(t, got, "*** Statistics for FOREST LAWN in 2019 ***")
	assert.Contains(t, got, "The total number of houses in the selected year and community is: 2")
	assert.Contains(t, got, "The number and % of houses under $300,000 is: 1 and 50.00%")
	assert.Contains(t, got, "Maximum: 5.00%    Minimum: 4.00%    Median: 4.50%")
	assert.Contains(t, got, "*** Statistics for All Three Communities ***")
	assert.Contains(t, got, "*** Pivot Table for Median House Assessment Value ***")

	assert.FileExists(t, cfg.Output.ChartPNG)
	assert.NoFileExists(t, cfg.Output.ChartHTML, "no interactive chart without a terminal")

	records, err := workbook.ReadExport(cfg.Output.Export)
	require.NoError(t, err)
	assert.Len(t, records, 8)
	assert.Equal(t, 2018, records[0].RollYear)
	assert.Equal(t, "FLN", records[0].CommCode)
	for _, r := range records {
		if r.RollYear == 2019 && r.CommCode == "HIL" {
			assert.False(t, r.AssessedValue.Valid, "zero assessment exported blank")
			assert.Equal(t, -100.0, r.Growth.Float64)
		}
	}
}

func TestRunBaseYear(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(t), strings.NewReader("2018\nHIL\n"), &out, false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "The % growth for 2018 was 0% since this was the base year in the data.")
}

func TestRunInputClosed(t *testing.T) {
	cfg := testConfig(t)
	err := run(context.Background(), cfg, strings.NewReader("2019\n"), &bytes.Buffer{}, false)
	assert.True(t, errors.Is(err, selector.ErrNoInput))
	assert.NoFileExists(t, cfg.Output.Export)
}

func TestRunMissingWorkbook(t *testing.T) {
	cfg := testConfig(t)
	cfg.Files.Land = filepath.Join(t.TempDir(), "absent.xlsx")
	err := run(context.Background(), cfg, strings.NewReader("2019\nFLN\n"), &bytes.Buffer{}, false)
	assert.Error(t, err)
}
