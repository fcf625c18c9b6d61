package report

import (
	"database/sql"
	"sort"

	"assessments/internal/stats"
	"assessments/internal/types"
)

// noValue replaces any missing field in printed output.
const noValue = "No reported value"

// Options holds the fixed parameters of the per-community report.
type Options struct {
	BaseYear  int     // growth is reported as 0% for this year
	Threshold float64 // price threshold for the "houses under" count
	TopN      int     // length of the most-expensive list
	FirstYear int     // first roll year in the data, for the growth note
	LastYear  int     // last roll year in the data, for the growth note
}

// TopProperty is one ranked row of the most-expensive list.
type TopProperty struct {
	Rank               int
	AssessedValue      sql.NullFloat64
	Address            string
	YearOfConstruction sql.NullFloat64
	PerSM              sql.NullFloat64
}

// CommunityStats is the statistics block for one (year, community) selection.
type CommunityStats struct {
	Community string
	Year      int

	HouseCount     int
	UnderThreshold int
	PercentUnder   float64

	MaxValue sql.NullFloat64
	MinValue sql.NullFloat64

	BaseYear     bool
	GrowthCount  int // finite growth values behind the figures below
	GrowthMax    float64
	GrowthMin    float64
	GrowthMedian float64

	ConstructionModes []int

	Top []TopProperty
}

// ComputeCommunityStats derives the statistics block for the rows of one
// selection. Rows are not modified.
func ComputeCommunityStats(rows []types.Record, community string, year int, opts Options) CommunityStats {
	cs := CommunityStats{Community: community, Year: year}

	houses := make(map[string]struct{})
	under := make(map[string]struct{})
	values := make([]sql.NullFloat64, 0, len(rows))
	growth := make([]sql.NullFloat64, 0, len(rows))
	built := make([]sql.NullFloat64, 0, len(rows))
	for _, r := range rows {
		houses[r.RollNumber] = struct{}{}
		if r.AssessedValue.Valid && r.AssessedValue.Float64 < opts.Threshold {
			under[r.RollNumber] = struct{}{}
		}
		values = append(values, r.AssessedValue)
		growth = append(growth, r.Growth)
		built = append(built, r.YearOfConstruction)
	}

	cs.HouseCount = len(houses)
	cs.UnderThreshold = len(under)
	if cs.HouseCount > 0 {
		cs.PercentUnder = float64(cs.UnderThreshold) / float64(cs.HouseCount) * 100
	}

	if v := stats.Finite(values); len(v) > 0 {
		cs.MaxValue = types.Valid(stats.Max(v))
		cs.MinValue = types.Valid(stats.Min(v))
	}

	if year == opts.BaseYear {
		cs.BaseYear = true
	} else if g := stats.Finite(growth); len(g) > 0 {
		cs.GrowthCount = len(g)
		cs.GrowthMax = stats.Max(g)
		cs.GrowthMin = stats.Min(g)
		cs.GrowthMedian = stats.Median(g)
	}

	cs.ConstructionModes = stats.Modes(stats.Present(built))
	cs.Top = topByValue(rows, opts.TopN)
	return cs
}

// topByValue ranks rows by assessed value, highest first, missing values last.
// Ties keep row order and the cut is positional.
func topByValue(rows []types.Record, n int) []TopProperty {
	sorted := make([]types.Record, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].AssessedValue, sorted[j].AssessedValue
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Float64 > b.Float64
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	top := make([]TopProperty, 0, n)
	for i, r := range sorted[:n] {
		top = append(top, TopProperty{
			Rank:               i + 1,
			AssessedValue:      r.AssessedValue,
			Address:            r.Address,
			YearOfConstruction: r.YearOfConstruction,
			PerSM:              r.PerSM,
		})
	}
	return top
}
