// Package report computes and prints the per-community statistics block and
// the whole-dataset aggregate tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"assessments/internal/dataset"
	"assessments/internal/stats"
)

// Reporter writes the console report.
type Reporter struct {
	w       io.Writer
	money   *CurrencyFormatter
	opts    Options
	heading *color.Color
}

// NewReporter returns a Reporter writing to w. Headings are coloured only when
// colorize is set.
func NewReporter(w io.Writer, money *CurrencyFormatter, opts Options, colorize bool) *Reporter {
	heading := color.New(color.FgCyan, color.Bold)
	if colorize {
		heading.EnableColor()
	} else {
		heading.DisableColor()
	}
	return &Reporter{w: w, money: money, opts: opts, heading: heading}
}

func (r *Reporter) title(format string, a ...any) {
	r.heading.Fprintf(r.w, format, a...)
	fmt.Fprintln(r.w)
}

// PrintBanner prints the program banner.
func (r *Reporter) PrintBanner(communities int) {
	fmt.Fprintln(r.w)
	r.title("*** Property Analysis for %s Communities in Calgary ***", countWord(communities))
	fmt.Fprintln(r.w)
}

// PrintCommunityStats prints the statistics block of one selection.
func (r *Reporter) PrintCommunityStats(cs CommunityStats) {
	fmt.Fprintln(r.w)
	r.title("*** Statistics for %s in %d ***", cs.Community, cs.Year)

	fmt.Fprintf(r.w, "\nThe total number of houses in the selected year and community is: %d\n", cs.HouseCount)
	fmt.Fprintf(r.w, "The number and %% of houses under %s is: %d and %.2f%%\n",
		r.money.FormatWhole(r.opts.Threshold), cs.UnderThreshold, cs.PercentUnder)
	fmt.Fprintf(r.w, "The maximum property value for this year is %s and the minimum is %s.\n",
		r.moneyOrMarker(cs.MaxValue.Float64, cs.MaxValue.Valid), r.moneyOrMarker(cs.MinValue.Float64, cs.MinValue.Valid))

	fmt.Fprintf(r.w, "\nFrom years %d to %d, %% growth was calculated as %% change of a property's assessment value from its previous year.\n",
		r.opts.FirstYear, r.opts.LastYear)
	fmt.Fprintln(r.w, "The statistics for % growth for the selected year and community are as follows:")
	switch {
	case cs.BaseYear:
		fmt.Fprintf(r.w, "The %% growth for %d was 0%% since this was the base year in the data.\n", cs.Year)
	case cs.GrowthCount == 0:
		fmt.Fprintln(r.w, "There was no reported % growth for the selected year and community.")
	default:
		fmt.Fprintf(r.w, "Maximum: %.2f%%    Minimum: %.2f%%    Median: %.2f%%\n", cs.GrowthMax, cs.GrowthMin, cs.GrowthMedian)
	}

	if len(cs.ConstructionModes) == 0 {
		fmt.Fprintln(r.w, "There were no reported property construction years.")
	} else {
		years := make([]string, len(cs.ConstructionModes))
		for i, y := range cs.ConstructionModes {
			years[i] = strconv.Itoa(y)
		}
		fmt.Fprintf(r.w, "The most frequent reported property year of construction is: %s\n", strings.Join(years, " "))
	}

	fmt.Fprintln(r.w)
	r.title("*** The Top %d Most Expensive Properties for %s in %d ***", r.opts.TopN, cs.Community, cs.Year)
	table := r.newTable([]string{"", "ASSESSED_VALUE", "ADDRESS", "YEAR_OF_CONSTRUCTION", "$/SM"})
	for _, p := range cs.Top {
		year := noValue
		if p.YearOfConstruction.Valid {
			year = strconv.Itoa(int(p.YearOfConstruction.Float64))
		}
		address := p.Address
		if strings.TrimSpace(address) == "" {
			address = noValue
		}
		table.Append([]string{
			strconv.Itoa(p.Rank),
			orMarker(p.AssessedValue.Float64, p.AssessedValue.Valid),
			address,
			year,
			orMarker(p.PerSM.Float64, p.PerSM.Valid),
		})
	}
	table.Render()
}

// PrintAggregates prints the describe table, the median pivot and the yearly
// $/SM averages for the full table.
func (r *Reporter) PrintAggregates(t *dataset.Table, averages []YearlyAverage) {
	fmt.Fprintln(r.w)
	r.title("*** Statistics for All %s Communities ***", countWord(len(t.Communities())))
	fmt.Fprintln(r.w)
	r.printDescribe(Describe(t))

	fmt.Fprintln(r.w)
	r.title("*** Pivot Table for Median House Assessment Value ***")
	fmt.Fprintln(r.w)
	r.printPivot(MedianPivot(t))

	fmt.Fprintln(r.w)
	r.title("*** Yearly Average $/Square Meter for Each Community ***")
	fmt.Fprintln(r.w)
	table := r.newTable([]string{"ROLL_YEAR", "COMM_NAME", "$/SM"})
	for _, a := range averages {
		table.Append([]string{strconv.Itoa(a.Year), a.Community, formatFloat(a.PerSM.Float64, a.PerSM.Valid)})
	}
	table.Render()
}

func (r *Reporter) printDescribe(cols []ColumnSummary) {
	header := []string{""}
	for _, c := range cols {
		header = append(header, c.Name)
	}
	table := r.newTable(header)

	rows := []struct {
		label string
		get   func(s stats.Summary) float64
	}{
		{"count", func(s stats.Summary) float64 { return float64(s.Count) }},
		{"mean", func(s stats.Summary) float64 { return s.Mean }},
		{"std", func(s stats.Summary) float64 { return s.Std }},
		{"min", func(s stats.Summary) float64 { return s.Min }},
		{"25%", func(s stats.Summary) float64 { return s.Q25 }},
		{"50%", func(s stats.Summary) float64 { return s.Median }},
		{"75%", func(s stats.Summary) float64 { return s.Q75 }},
		{"max", func(s stats.Summary) float64 { return s.Max }},
	}
	for _, row := range rows {
		line := []string{row.label}
		for _, c := range cols {
			v := row.get(c.Summary)
			line = append(line, formatFloat(v, !math.IsNaN(v)))
		}
		table.Append(line)
	}
	table.Render()
}

func (r *Reporter) printPivot(p Pivot) {
	table := r.newTable(append([]string{"ROLL_YEAR"}, p.Communities...))
	for _, year := range p.Years {
		line := []string{strconv.Itoa(year)}
		for _, name := range p.Communities {
			c := p.Cell(year, name)
			line = append(line, formatFloat(c.Float64, c.Valid))
		}
		table.Append(line)
	}
	table.Render()
}

func (r *Reporter) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func (r *Reporter) moneyOrMarker(v float64, ok bool) string {
	if !ok {
		return noValue
	}
	return r.money.Format(v)
}

// formatFloat renders v with two decimals, or NaN when missing.
func formatFloat(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// orMarker renders v with two decimals, or the no-value marker when missing.
func orMarker(v float64, ok bool) string {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return noValue
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var countWords = []string{"No", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten"}

func countWord(n int) string {
	if n >= 0 && n < len(countWords) {
		return countWords[n]
	}
	return strconv.Itoa(n)
}
