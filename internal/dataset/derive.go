package dataset

import (
	"database/sql"
	"sort"

	"assessments/internal/types"
)

// ComputeGrowth sorts records by (roll number, roll year) and sets Growth to the
// percent change of AssessedValue from the property's previous row. The first
// row of every property stays null. A zero previous value yields ±Inf, which is
// kept; reporting filters it out.
func ComputeGrowth(records []types.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].RollNumber != records[j].RollNumber {
			return records[i].RollNumber < records[j].RollNumber
		}
		return records[i].RollYear < records[j].RollYear
	})

	for i := range records {
		if i == 0 || records[i].RollNumber != records[i-1].RollNumber {
			records[i].Growth = sql.NullFloat64{}
			continue
		}
		records[i].Growth = percentChange(records[i-1].AssessedValue, records[i].AssessedValue)
	}
}

func percentChange(prev, cur sql.NullFloat64) sql.NullFloat64 {
	if !prev.Valid || !cur.Valid {
		return sql.NullFloat64{}
	}
	if prev.Float64 == 0 && cur.Float64 == 0 {
		return sql.NullFloat64{} // 0/0
	}
	return types.Valid((cur.Float64/prev.Float64 - 1) * 100)
}

// ComputeDensity sets the assessed value per square meter, square foot and acre.
func ComputeDensity(r *types.Record) {
	r.PerSM = perUnit(r.AssessedValue, r.LandSizeSM)
	r.PerSF = perUnit(r.AssessedValue, r.LandSizeSF)
	r.PerAC = perUnit(r.AssessedValue, r.LandSizeAC)
}

func perUnit(value, size sql.NullFloat64) sql.NullFloat64 {
	if !value.Valid || !size.Valid || size.Float64 == 0 {
		return sql.NullFloat64{}
	}
	return types.Valid(value.Float64 / size.Float64)
}

// replaceZeros treats a reported zero as "not reported".
func replaceZeros(r *types.Record) {
	for _, f := range types.NumericFields {
		if v := f.Get(r); v.Valid && v.Float64 == 0 {
			f.Set(r, sql.NullFloat64{})
		}
	}
}
