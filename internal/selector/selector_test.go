package selector

import (
	"bytes"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessments/internal/dataset"
	"assessments/internal/types"
)

func testTable() *dataset.Table {
	val := sql.NullFloat64{Float64: 400000, Valid: true}
	return dataset.Index([]types.Record{
		{RollYear: 2018, CommCode: "FLN", CommName: "FOREST LAWN", RollNumber: "1", AssessedValue: val},
		{RollYear: 2018, CommCode: "FLN", CommName: "FOREST LAWN", RollNumber: "2", AssessedValue: val},
		{RollYear: 2018, CommCode: "NEB", CommName: "NEW BRIGHTON", RollNumber: "3", AssessedValue: val},
		{RollYear: 2019, CommCode: "FLN", CommName: "FOREST LAWN", RollNumber: "1", AssessedValue: val},
		{RollYear: 2019, CommCode: "HIL", CommName: "HILLHURST", RollNumber: "4", AssessedValue: val},
	})
}

func run(t *testing.T, input string) (Selection, string, error) {
	t.Helper()
	var out bytes.Buffer
	sel, err := New(testTable(), strings.NewReader(input), &out).Run()
	return sel, out.String(), err
}

func TestSelectByCode(t *testing.T) {
	sel, out, err := run(t, "2018\nfln\n")
	require.NoError(t, err)

	assert.Equal(t, 2018, sel.Year)
	assert.Equal(t, "FOREST LAWN", sel.Name)
	assert.Equal(t, dataset.Key{Year: 2018, Code: "FLN", Name: "FOREST LAWN"}, sel.Key)
	assert.Len(t, sel.Rows, 2)
	assert.Contains(t, out, "Please enter a year from 2018 up to and including 2019: ")
	assert.Contains(t, out, "Forest Lawn = FLN, Hillhurst = HIL, New Brighton = NEB")
	assert.NotContains(t, out, "valid")
}

func TestSelectByNameIgnoresCaseAndSpace(t *testing.T) {
	sel, _, err := run(t, " 2019 \n   Hillhurst  \n")
	require.NoError(t, err)
	assert.Equal(t, "HIL", sel.Key.Code)
	assert.Equal(t, "HILLHURST", sel.Name)
	assert.Len(t, sel.Rows, 1)
}

func TestNonNumericYearRepromptsOnce(t *testing.T) {
	sel, out, err := run(t, "abc\n2018\nNEB\n")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "Please enter a valid year."))
	assert.Equal(t, 2, strings.Count(out, "Please enter a year from"))
	assert.Equal(t, "NEW BRIGHTON", sel.Name)
}

func TestRepromptsUntilValid(t *testing.T) {
	sel, out, err := run(t, "2017\n2023\n\n2019\nXYZ\nNEB\nforest lawn\n")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "Please enter a valid year."))
	assert.Equal(t, 2, strings.Count(out, "Please enter a valid community code or name."), "NEB has no 2019 rows")
	assert.Equal(t, 2019, sel.Year)
	assert.Equal(t, "FLN", sel.Key.Code)
}

func TestStateTransitions(t *testing.T) {
	s := New(testTable(), strings.NewReader("x\n2018\nHIL\nFLN\n"), &bytes.Buffer{})
	assert.Equal(t, AwaitingYear, s.State())

	require.NoError(t, s.Step())
	assert.Equal(t, AwaitingYear, s.State())
	require.NoError(t, s.Step())
	assert.Equal(t, AwaitingCommunity, s.State())
	require.NoError(t, s.Step())
	assert.Equal(t, AwaitingCommunity, s.State(), "HIL has no 2018 rows")
	require.NoError(t, s.Step())
	assert.Equal(t, Complete, s.State())
	assert.Equal(t, "complete", s.State().String())
}

func TestLastLineWithoutNewline(t *testing.T) {
	sel, _, err := run(t, "2018\nFLN")
	require.NoError(t, err)
	assert.Equal(t, "FLN", sel.Key.Code)
}

func TestInputClosed(t *testing.T) {
	_, _, err := run(t, "abc\n")
	assert.True(t, errors.Is(err, ErrNoInput))
}

func TestLegendOrder(t *testing.T) {
	var out bytes.Buffer
	s := New(testTable(), strings.NewReader("2018\nFLN\n"), &out).OrderLegend("FLN", "NEB", "HIL")
	_, err := s.Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Forest Lawn = FLN, New Brighton = NEB, Hillhurst = HIL")

	out.Reset()
	s = New(testTable(), strings.NewReader("2018\nFLN\n"), &out).OrderLegend("NEB")
	_, err = s.Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "New Brighton = NEB, Forest Lawn = FLN, Hillhurst = HIL", "unlisted codes follow in code order")
}
