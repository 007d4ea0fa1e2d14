package eda

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrDataFormat = errors.New("data format error")

const (
	ColumnDatetime = "datetime"
	ColumnTemp     = "temp"
	ColumnHumidity = "humidity"
)

// timeLayouts are tried in order for every datetime cell
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006",
}

// Dataset is an uploaded table held in memory for one analysis.
type Dataset struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// ReadCSV parses delimited text with a header row. The delimiter is
// sniffed from the header line among ',', ';' and tab.
func ReadCSV(r io.Reader) (*Dataset, error) {
	br := bufio.NewReaderSize(r, 64<<10)

	bom, _ := br.Peek(3)
	if bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	head, _ := br.Peek(br.Size())

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(head)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", ErrDataFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrDataFormat, err)
	}

	ds := &Dataset{
		Header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		ds.Header[i] = name
		if _, dup := ds.index[name]; !dup {
			ds.index[name] = i
		}
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataFormat, err)
		}
		ds.Rows = append(ds.Rows, record)
	}

	if len(ds.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrDataFormat)
	}

	return ds, nil
}

// sniffDelimiter counts candidate delimiters on the first line, ignoring
// quoted sections. Comma wins ties and is the default.
func sniffDelimiter(head []byte) rune {
	line, _, _ := bytes.Cut(head, []byte{'\n'})

	counts := map[rune]int{}
	quoted := false
	for _, c := range string(line) {
		switch c {
		case '"':
			quoted = !quoted
		case ',', ';', '\t':
			if !quoted {
				counts[c]++
			}
		}
	}

	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Cell returns the trimmed value at row i of column col; short rows read as empty.
func (d *Dataset) Cell(i, col int) string {
	row := d.Rows[i]
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Times parses every non-empty cell of the column. Empty cells are
// skipped; any other unparsable cell fails the whole column.
func (d *Dataset) Times(name string) ([]time.Time, error) {
	col, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrDataFormat, name)
	}

	times := make([]time.Time, 0, len(d.Rows))
	for i := range d.Rows {
		v := d.Cell(i, col)
		if v == "" {
			continue
		}
		t, ok := parseTime(v)
		if !ok {
			return nil, fmt.Errorf("%w: row %d: cannot parse %q in column %q", ErrDataFormat, i+1, v, name)
		}
		times = append(times, t)
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("%w: column %q has no values", ErrDataFormat, name)
	}

	return times, nil
}

// Floats parses the column in row order. Empty cells become NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	col, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrDataFormat, name)
	}

	values := make([]float64, len(d.Rows))
	for i := range d.Rows {
		v := d.Cell(i, col)
		if v == "" {
			values[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q in column %q is not a number", ErrDataFormat, i+1, v, name)
		}
		values[i] = f
	}

	return values, nil
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Hour is the hour-of-day, 0-23
func Hour(t time.Time) int {
	return t.Hour()
}

// DayOfWeek numbers weekdays from Monday = 0 to Sunday = 6
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
