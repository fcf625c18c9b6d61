package dataset

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"assessments/internal/types"
)

// Key identifies one community in one roll year.
type Key struct {
	Year int
	Code string
	Name string
}

func (k Key) less(o Key) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Code != o.Code {
		return k.Code < o.Code
	}
	return k.Name < o.Name
}

// Community pairs a community code with its display name.
type Community struct {
	Code string
	Name string
}

// Table is the merged, derived and indexed dataset. It is read-only once built.
type Table struct {
	rows []types.Record
	keys []Key
}

func keyOf(r *types.Record) Key {
	return Key{Year: r.RollYear, Code: r.CommCode, Name: r.CommName}
}

// Index sorts records by (roll year, community code, community name), replaces
// zeros with missing values and computes value density. The slice is reordered
// in place and owned by the returned table.
func Index(records []types.Record) *Table {
	sort.SliceStable(records, func(i, j int) bool {
		return keyOf(&records[i]).less(keyOf(&records[j]))
	})

	t := &Table{rows: records}
	for i := range records {
		replaceZeros(&records[i])
		ComputeDensity(&records[i])

		k := keyOf(&records[i])
		if n := len(t.keys); n == 0 || t.keys[n-1] != k {
			t.keys = append(t.keys, k)
		}
	}
	return t
}

// Build runs the merge, growth and index stages over loaded sources.
func Build(src types.Sources) *Table {
	start := time.Now()
	merged := Merge(src)
	slog.Debug("sources merged",
		slog.Int("construction", len(src.Construction)),
		slog.Int("land", len(src.Land)),
		slog.Int("assessment", len(src.Assessment)),
		slog.Int("merged", len(merged)))

	ComputeGrowth(merged)
	t := Index(merged)
	slog.Info("dataset indexed",
		slog.Int("rows", t.Len()),
		slog.Int("groups", len(t.keys)),
		slog.Duration("elapsed", time.Since(start)))
	return t
}

// Rows returns every record in key order.
func (t *Table) Rows() []types.Record { return t.rows }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Keys returns the distinct composite keys in sorted order.
func (t *Table) Keys() []Key { return t.keys }

// Years returns the distinct roll years in ascending order.
func (t *Table) Years() []int {
	var years []int
	for _, k := range t.keys {
		if n := len(years); n == 0 || years[n-1] != k.Year {
			years = append(years, k.Year)
		}
	}
	return years
}

// HasYear reports whether any record belongs to the roll year.
func (t *Table) HasYear(year int) bool {
	for _, k := range t.keys {
		if k.Year == year {
			return true
		}
	}
	return false
}

// Communities returns the distinct communities ordered by code.
func (t *Table) Communities() []Community {
	seen := make(map[Community]bool)
	var out []Community
	for _, k := range t.keys {
		c := Community{Code: k.Code, Name: k.Name}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CommunityNames returns the distinct community names in ascending order.
func (t *Table) CommunityNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range t.keys {
		if !seen[k.Name] {
			seen[k.Name] = true
			names = append(names, k.Name)
		}
	}
	sort.Strings(names)
	return names
}

// LookupCode finds the key for a community code in a roll year. Codes match exactly.
func (t *Table) LookupCode(year int, code string) (Key, bool) {
	for _, k := range t.keys {
		if k.Year == year && k.Code == code {
			return k, true
		}
	}
	return Key{}, false
}

// LookupName finds the key for a community name in a roll year, ignoring case.
func (t *Table) LookupName(year int, name string) (Key, bool) {
	for _, k := range t.keys {
		if k.Year == year && strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return Key{}, false
}

// Filter returns the records of one community code in one roll year.
func (t *Table) Filter(year int, code string) []types.Record {
	var out []types.Record
	for i := range t.rows {
		if t.rows[i].RollYear == year && t.rows[i].CommCode == code {
			out = append(out, t.rows[i])
		}
	}
	return out
}

// Slice returns the records whose composite key equals k.
func (t *Table) Slice(k Key) []types.Record {
	var out []types.Record
	for i := range t.rows {
		if keyOf(&t.rows[i]) == k {
			out = append(out, t.rows[i])
		}
	}
	return out
}
