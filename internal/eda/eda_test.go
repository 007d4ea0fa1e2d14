package eda

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dayCSV builds one row per hour 0-23, the row for hour h falling h%7 days
// after Monday 2024-01-01.
func dayCSV() string {
	var b strings.Builder
	b.WriteString("datetime,season,temp,humidity,count\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := range 24 {
		ts := start.AddDate(0, 0, h%7).Add(time.Duration(h) * time.Hour)
		fmt.Fprintf(&b, "%s,1,%.1f,%d,%d\n", ts.Format("2006-01-02 15:04:05"), 9.8+float64(h)/10, 60+h, 10*h)
	}
	return b.String()
}

func TestAnalyze_Aggregation(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader(dayCSV()))
	require.NoError(t, err)

	assert.Equal(t, 24, report.Rows)
	require.NoError(t, report.HourErr)
	require.NoError(t, report.DayOfWeekErr)
	require.NoError(t, report.SeriesErr)

	require.Len(t, report.HourCounts, 24)
	assert.Equal(t, 24, Total(report.HourCounts))
	for i, b := range report.HourCounts {
		assert.Equal(t, Bucket{Key: i, Count: 1}, b)
	}

	assert.Equal(t, 24, Total(report.DayOfWeekCounts))
	assert.Equal(t, []Bucket{
		{Key: 0, Count: 4}, {Key: 1, Count: 4}, {Key: 2, Count: 4},
		{Key: 3, Count: 3}, {Key: 4, Count: 3}, {Key: 5, Count: 3}, {Key: 6, Count: 3},
	}, report.DayOfWeekCounts)

	require.Len(t, report.Temp, 24)
	assert.InDelta(t, 9.8, report.Temp[0], 1e-9)
	assert.Equal(t, float64(83), report.Humidity[23])
}

func TestAnalyze_Preview(t *testing.T) {
	report, err := NewEngine(3).Analyze(strings.NewReader(dayCSV()))
	require.NoError(t, err)

	assert.Equal(t, []string{"datetime", "season", "temp", "humidity", "count"}, report.Preview.Header)
	require.Len(t, report.Preview.Rows, 3)
	assert.Equal(t, "2024-01-01 00:00:00", report.Preview.Rows[0][0])

	report, err = NewEngine(100).Analyze(strings.NewReader("datetime,temp,humidity\n2024-01-01 10:00:00,1,2\n"))
	require.NoError(t, err)
	assert.Len(t, report.Preview.Rows, 1)
}

func TestAnalyze_MissingDatetimeKeepsLineChart(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader("temp,humidity\n1,2\n3,4\n"))
	require.NoError(t, err)

	assert.ErrorIs(t, report.HourErr, ErrDataFormat)
	assert.ErrorIs(t, report.DayOfWeekErr, ErrDataFormat)
	assert.Empty(t, report.HourCounts)
	assert.NoError(t, report.SeriesErr)
	assert.Equal(t, []float64{1, 3}, report.Temp)
}

func TestAnalyze_UnparsableDatetime(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader("datetime,temp,humidity\nyesterday,1,2\n"))
	require.NoError(t, err)

	assert.ErrorIs(t, report.HourErr, ErrDataFormat)
	assert.NoError(t, report.SeriesErr)
}

func TestAnalyze_MissingNumericColumnKeepsCalendarCharts(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader("datetime,temp\n2024-01-01 10:00:00,1\n"))
	require.NoError(t, err)

	assert.NoError(t, report.HourErr)
	assert.Equal(t, []Bucket{{Key: 10, Count: 1}}, report.HourCounts)
	assert.ErrorIs(t, report.SeriesErr, ErrDataFormat)
}

func TestAnalyze_NonNumericValue(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader("datetime,temp,humidity\n2024-01-01 10:00:00,warm,2\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, report.SeriesErr, ErrDataFormat)
}

func TestAnalyze_EmptyCells(t *testing.T) {
	csv := "datetime,temp,humidity\n2024-01-01 10:00:00,,2\n,5,\n2024-01-02 11:00:00,6,7\n"
	report, err := NewEngine(5).Analyze(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 2, Total(report.HourCounts))
	require.NoError(t, report.SeriesErr)
	assert.True(t, math.IsNaN(report.Temp[0]))
	assert.True(t, math.IsNaN(report.Humidity[1]))
}

func TestAnalyze_UnreadableTable(t *testing.T) {
	for name, input := range map[string]string{
		"empty":       "",
		"header only": "datetime,temp,humidity\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewEngine(5).Analyze(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrDataFormat)
		})
	}
}

func TestReadCSV_DelimiterBOMAndTrim(t *testing.T) {
	input := "\xEF\xBB\xBF datetime ; temp ;humidity\n2024-01-01 10:00:00;1,5;2\n"
	ds, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"datetime", "temp", "humidity"}, ds.Header)
	assert.True(t, ds.HasColumn("datetime"))
	assert.Equal(t, "1,5", ds.Cell(0, 1))

	tsv := "datetime\ttemp\thumidity\n2024-01-01 10:00:00\t1\t2\n"
	ds, err = ReadCSV(strings.NewReader(tsv))
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Cell(0, 1))
}

func TestReadCSV_ShortRows(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b,c\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Cell(0, 0))
	assert.Equal(t, "", ds.Cell(0, 2))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b,c\n1;2;3")))
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb")))
	assert.Equal(t, ',', sniffDelimiter([]byte(`"x;y;z",b`)))
	assert.Equal(t, ',', sniffDelimiter(nil))
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2011-01-01 05:00:00",
		"2011-01-01T05:00:00Z",
		"2011-01-01T05:00:00",
		"2011-01-01 05:00",
		"2011/01/01 05:00:00",
		"01/01/2011 05:00",
		"1/1/2011 5:00",
	} {
		ts, ok := parseTime(s)
		require.True(t, ok, s)
		assert.Equal(t, 5, Hour(ts), s)
		assert.Equal(t, 5, DayOfWeek(ts), s) // 2011-01-01 was a Saturday
	}
}

func TestDayOfWeek_MondayIsZero(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 7 {
		assert.Equal(t, i, DayOfWeek(monday.AddDate(0, 0, i)))
	}
}

func TestCountBy(t *testing.T) {
	assert.Equal(t, []Bucket{{Key: 1, Count: 1}, {Key: 3, Count: 2}, {Key: 7, Count: 1}}, CountBy([]int{3, 7, 3, 1}))
	assert.Empty(t, CountBy(nil))
}

func TestRenderCharts(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader(dayCSV()))
	require.NoError(t, err)

	charts := RenderCharts(report)
	require.Len(t, charts, 3)
	assert.Equal(t, []string{ChartHour, ChartDayOfWeek, ChartSeries}, []string{charts[0].ID, charts[1].ID, charts[2].ID})
	for _, c := range charts {
		require.NoError(t, c.Err, c.ID)
		assert.Contains(t, string(c.SVG), "<svg", c.ID)
	}
}

func TestRenderCharts_PartialFailure(t *testing.T) {
	report, err := NewEngine(5).Analyze(strings.NewReader("datetime,temp,humidity\nnope,1,2\n"))
	require.NoError(t, err)

	charts := RenderCharts(report)
	assert.ErrorIs(t, charts[0].Err, ErrDataFormat)
	assert.ErrorIs(t, charts[1].Err, ErrDataFormat)
	assert.Nil(t, charts[0].SVG)
	assert.NoError(t, charts[2].Err)
	assert.NotEmpty(t, charts[2].SVG)
}

func TestRenderLine_EdgeCases(t *testing.T) {
	// single point and a flat line
	svg, err := RenderLine(Series{Name: "temp", Values: []float64{3}})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	svg, err = RenderLine(Series{Name: "temp", Values: []float64{2, 2, 2}}, Series{Name: "humidity", Values: []float64{math.NaN(), 2}})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = RenderLine(Series{Name: "temp", Values: []float64{math.NaN()}})
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestRenderBar_Empty(t *testing.T) {
	_, err := RenderBar(nil)
	assert.ErrorIs(t, err, ErrDataFormat)

	svg, err := RenderBar([]Bucket{{Key: 4, Count: 1}})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}
