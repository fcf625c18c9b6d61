// Package chart draws the yearly average $/SM line chart as a PNG and as an
// interactive HTML page.
package chart

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strconv"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"assessments/internal/report"
)

const (
	Title  = "Yearly Average $/Square Meter"
	XLabel = "Year"
	YLabel = "Average $/Square Meter"
)

// Series is one community's line.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Chart is a multi-series line chart with integer year ticks.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Years  []int
	Series []Series
}

// FromAverages builds one series per community. Missing averages leave a gap
// in that community's line; every year still gets a tick.
func FromAverages(avgs []report.YearlyAverage) *Chart {
	c := &Chart{Title: Title, XLabel: XLabel, YLabel: YLabel}

	years := make(map[int]bool)
	byName := make(map[string]*Series)
	var names []string
	for _, a := range avgs {
		years[a.Year] = true
		s, ok := byName[a.Community]
		if !ok {
			s = &Series{Name: a.Community}
			byName[a.Community] = s
			names = append(names, a.Community)
		}
		if a.PerSM.Valid {
			s.X = append(s.X, float64(a.Year))
			s.Y = append(s.Y, a.PerSM.Float64)
		}
	}

	for y := range years {
		c.Years = append(c.Years, y)
	}
	sort.Ints(c.Years)
	sort.Strings(names)
	for _, n := range names {
		c.Series = append(c.Series, *byName[n])
	}
	return c
}

// SavePNG renders the chart to a PNG file.
func (c *Chart) SavePNG(path string) error {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	ticks := make([]plot.Tick, len(c.Years))
	for i, y := range c.Years {
		ticks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	for i, s := range c.Series {
		if len(s.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j].X = s.X[j]
			pts[j].Y = s.Y[j]
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("plot series %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	slog.Info("chart saved", slog.String("path", path))
	return nil
}

// Figure returns the chart as a plotly figure.
func (c *Chart) Figure() *grob.Fig {
	fig := &grob.Fig{
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{Text: c.Title},
			Xaxis: &grob.LayoutXaxis{
				Title:    &grob.LayoutXaxisTitle{Text: c.XLabel},
				Tickmode: grob.LayoutXaxisTickmodeArray,
				Tickvals: c.Years,
			},
			Yaxis: &grob.LayoutYaxis{
				Title: &grob.LayoutYaxisTitle{Text: c.YLabel},
			},
			Showlegend: grob.True,
		},
	}
	for _, s := range c.Series {
		fig.AddTraces(&grob.Scatter{
			Type: grob.TraceTypeScatter,
			Name: s.Name,
			X:    s.X,
			Y:    s.Y,
			Mode: grob.ScatterModeLines,
		})
	}
	return fig
}

// WriteHTML writes the interactive chart page. offline.ToHtml reports no
// errors, so the file is checked afterwards.
func (c *Chart) WriteHTML(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace chart page %s: %w", path, err)
	}
	offline.ToHtml(c.Figure(), path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("write chart page %s: %w", path, err)
	}
	return nil
}

// Show writes the interactive page to path and opens it with browser.
func (c *Chart) Show(path, browser string) error {
	if err := c.WriteHTML(path); err != nil {
		return err
	}
	cmd := exec.Command(browser, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open chart in %s: %w", browser, err)
	}
	go cmd.Wait()
	return nil
}
