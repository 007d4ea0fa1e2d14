package eda

import (
	"fmt"
	"io"
	"slices"
)

// Bucket is one bar of a frequency chart
type Bucket struct {
	Key   int
	Count int
}

// Preview is the head of the uploaded table
type Preview struct {
	Header []string
	Rows   [][]string
}

// Report holds the aggregates behind the three charts. Each chart has its
// own error so one malformed column does not hide the others.
type Report struct {
	Rows    int
	Preview Preview

	HourCounts []Bucket
	HourErr    error

	DayOfWeekCounts []Bucket
	DayOfWeekErr    error

	// Temp and Humidity are in row order; NaN marks an empty cell
	Temp      []float64
	Humidity  []float64
	SeriesErr error
}

type Engine struct {
	previewRows int
}

func NewEngine(previewRows int) *Engine {
	if previewRows < 0 {
		previewRows = 0
	}
	return &Engine{previewRows: previewRows}
}

// Analyze reads the dataset and computes every chart it can. The returned
// error is non-nil only when the table itself cannot be read.
func (e *Engine) Analyze(r io.Reader) (*Report, error) {
	ds, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Rows:    len(ds.Rows),
		Preview: e.preview(ds),
	}

	times, err := ds.Times(ColumnDatetime)
	if err != nil {
		report.HourErr = err
		report.DayOfWeekErr = err
	} else {
		hours := make([]int, len(times))
		days := make([]int, len(times))
		for i, t := range times {
			hours[i] = Hour(t)
			days[i] = DayOfWeek(t)
		}
		report.HourCounts = CountBy(hours)
		report.DayOfWeekCounts = CountBy(days)
	}

	report.Temp, report.Humidity, report.SeriesErr = series(ds)

	return report, nil
}

func series(ds *Dataset) (temp, humidity []float64, err error) {
	temp, err = ds.Floats(ColumnTemp)
	if err != nil {
		return nil, nil, err
	}
	humidity, err = ds.Floats(ColumnHumidity)
	if err != nil {
		return nil, nil, err
	}
	if countValues(temp) == 0 && countValues(humidity) == 0 {
		return nil, nil, fmt.Errorf("%w: columns %q and %q have no values", ErrDataFormat, ColumnTemp, ColumnHumidity)
	}
	return temp, humidity, nil
}

func (e *Engine) preview(ds *Dataset) Preview {
	n := min(e.previewRows, len(ds.Rows))

	rows := make([][]string, n)
	for i := range n {
		row := make([]string, len(ds.Header))
		for col := range row {
			row[col] = ds.Cell(i, col)
		}
		rows[i] = row
	}

	return Preview{Header: slices.Clone(ds.Header), Rows: rows}
}

// CountBy returns the frequency of each distinct key, ascending by key.
func CountBy(keys []int) []Bucket {
	counts := make(map[int]int)
	for _, k := range keys {
		counts[k]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, Bucket{Key: k, Count: c})
	}
	slices.SortFunc(buckets, func(a, b Bucket) int { return a.Key - b.Key })

	return buckets
}

// Total sums the bucket counts
func Total(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}
