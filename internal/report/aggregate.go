package report

import (
	"database/sql"
	"sort"

	"assessments/internal/dataset"
	"assessments/internal/stats"
	"assessments/internal/types"
)

// ColumnSummary is the describe output of one numeric column.
type ColumnSummary struct {
	Name string
	stats.Summary
}

// Describe summarises every numeric column of the table. Infinite values are
// treated as missing.
func Describe(t *dataset.Table) []ColumnSummary {
	rows := t.Rows()
	out := make([]ColumnSummary, 0, len(types.NumericFields))
	for _, f := range types.NumericFields {
		col := make([]sql.NullFloat64, len(rows))
		for i := range rows {
			col[i] = f.Get(&rows[i])
		}
		out = append(out, ColumnSummary{Name: f.Name, Summary: stats.Describe(stats.Finite(col))})
	}
	return out
}

// Pivot holds the median assessed value by roll year (rows) and community name (columns).
type Pivot struct {
	Years       []int
	Communities []string
	cells       map[int]map[string]sql.NullFloat64
}

// Cell returns the median for a year and community, missing when the pair has no values.
func (p Pivot) Cell(year int, community string) sql.NullFloat64 {
	return p.cells[year][community]
}

// MedianPivot builds the median assessed value pivot over the full table.
func MedianPivot(t *dataset.Table) Pivot {
	groups := make(map[int]map[string][]sql.NullFloat64)
	rows := t.Rows()
	for i := range rows {
		r := &rows[i]
		if groups[r.RollYear] == nil {
			groups[r.RollYear] = make(map[string][]sql.NullFloat64)
		}
		groups[r.RollYear][r.CommName] = append(groups[r.RollYear][r.CommName], r.AssessedValue)
	}

	p := Pivot{
		Years:       t.Years(),
		Communities: t.CommunityNames(),
		cells:       make(map[int]map[string]sql.NullFloat64, len(groups)),
	}
	for year, byName := range groups {
		p.cells[year] = make(map[string]sql.NullFloat64, len(byName))
		for name, vals := range byName {
			if v := stats.Finite(vals); len(v) > 0 {
				p.cells[year][name] = types.Valid(stats.Median(v))
			}
		}
	}
	return p
}

// YearlyAverage is the mean value per square meter of one community in one year.
type YearlyAverage struct {
	Year      int
	Community string
	PerSM     sql.NullFloat64
}

// YearlyAverages groups the table by (roll year, community name) and averages
// $/SM, ignoring missing values. Output is ordered by year, then community.
func YearlyAverages(t *dataset.Table) []YearlyAverage {
	type group struct {
		year int
		name string
	}
	vals := make(map[group][]sql.NullFloat64)
	var order []group
	rows := t.Rows()
	for i := range rows {
		g := group{rows[i].RollYear, rows[i].CommName}
		if _, ok := vals[g]; !ok {
			order = append(order, g)
		}
		vals[g] = append(vals[g], rows[i].PerSM)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].name < order[j].name
	})

	out := make([]YearlyAverage, 0, len(order))
	for _, g := range order {
		avg := YearlyAverage{Year: g.year, Community: g.name}
		if v := stats.Finite(vals[g]); len(v) > 0 {
			avg.PerSM = types.Valid(stats.Mean(v))
		}
		out = append(out, avg)
	}
	return out
}
