package dataset

import (
	"assessments/internal/types"
)

type rollKey struct {
	year int
	roll string
}

type addressKey struct {
	year    int
	address string
}

// Merge inner-joins construction and land records on (roll year, roll number),
// joins the result to assessments on (roll year, address) and drops exact
// duplicate rows, keeping the first. Left order is preserved; a left row with
// several matches yields one row per match in right-source order.
func Merge(src types.Sources) []types.Record {
	landByRoll := make(map[rollKey][]int, len(src.Land))
	for i, l := range src.Land {
		k := rollKey{l.RollYear, l.RollNumber}
		landByRoll[k] = append(landByRoll[k], i)
	}

	assessByAddr := make(map[addressKey][]int, len(src.Assessment))
	for i, a := range src.Assessment {
		k := addressKey{a.RollYear, a.Address}
		assessByAddr[k] = append(assessByAddr[k], i)
	}

	var merged []types.Record
	for _, c := range src.Construction {
		for _, li := range landByRoll[rollKey{c.RollYear, c.RollNumber}] {
			l := src.Land[li]
			for _, ai := range assessByAddr[addressKey{c.RollYear, c.Address}] {
				a := src.Assessment[ai]
				merged = append(merged, types.Record{
					RollYear:           c.RollYear,
					CommCode:           a.CommCode,
					CommName:           a.CommName,
					RollNumber:         c.RollNumber,
					Address:            c.Address,
					YearOfConstruction: c.YearOfConstruction,
					LandSizeSM:         l.LandSizeSM,
					LandSizeSF:         l.LandSizeSF,
					LandSizeAC:         l.LandSizeAC,
					AssessedValue:      a.AssessedValue,
				})
			}
		}
	}

	return dropDuplicates(merged)
}

// dropDuplicates keeps the first occurrence of every exact duplicate row.
func dropDuplicates(records []types.Record) []types.Record {
	seen := make(map[types.Record]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
