package eda

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartHour      = "hour"
	ChartDayOfWeek = "day_of_week"
	ChartSeries    = "temp_humidity"

	chartHeight = 320
	barWidth    = 24
	barSpacing  = 8
)

// Chart is one rendered figure. Err is set instead of SVG when the data
// behind the chart is unusable.
type Chart struct {
	ID  string
	SVG []byte
	Err error
}

// Series is a named sequence of values plotted against row position
type Series struct {
	Name   string
	Values []float64
	Color  drawing.Color
}

// RenderCharts renders the three figures of a report in display order.
func RenderCharts(report *Report) []Chart {
	charts := make([]Chart, 0, 3)

	charts = append(charts, renderCounts(ChartHour, report.HourCounts, report.HourErr))
	charts = append(charts, renderCounts(ChartDayOfWeek, report.DayOfWeekCounts, report.DayOfWeekErr))

	line := Chart{ID: ChartSeries, Err: report.SeriesErr}
	if line.Err == nil {
		line.SVG, line.Err = RenderLine(
			Series{Name: ColumnTemp, Values: report.Temp, Color: chart.ColorBlue},
			Series{Name: ColumnHumidity, Values: report.Humidity, Color: chart.ColorGreen},
		)
	}
	charts = append(charts, line)

	return charts
}

func renderCounts(id string, buckets []Bucket, err error) Chart {
	c := Chart{ID: id, Err: err}
	if err == nil {
		c.SVG, c.Err = RenderBar(buckets)
	}
	return c
}

// RenderBar draws one bar per bucket labelled with its key.
func RenderBar(buckets []Bucket) ([]byte, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("%w: nothing to count", ErrDataFormat)
	}

	bars := make([]chart.Value, len(buckets))
	maxCount := 0
	for i, b := range buckets {
		bars[i] = chart.Value{Value: float64(b.Count), Label: strconv.Itoa(b.Key)}
		maxCount = max(maxCount, b.Count)
	}

	bc := chart.BarChart{
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		Width:      max(320, len(bars)*(barWidth+barSpacing)+120),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		// The y range must be explicit: go-chart rejects a zero range.
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	err := bc.Render(chart.SVG, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderLine draws each series against its row index. NaN values are
// gaps; series without any value are left out.
func RenderLine(series ...Series) ([]byte, error) {
	var lines []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)

	for _, s := range series {
		var xs, ys []float64
		for i, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, v)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 {
			// A single point has no x range; duplicate it one step to the right.
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}

		lines = append(lines, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: s.Color,
				StrokeWidth: 1.5,
			},
		})
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: nothing to plot", ErrDataFormat)
	}

	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	ch := chart.Chart{
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		Width:      960,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: "row"},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	err := ch.Render(chart.SVG, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to render line chart: %w", err)
	}
	return buf.Bytes(), nil
}

func countValues(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
