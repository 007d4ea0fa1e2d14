package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEDA_WritesCharts(t *testing.T) {
	dir := t.TempDir()

	var csv strings.Builder
	csv.WriteString("datetime,temp,humidity\n")
	for h := range 6 {
		fmt.Fprintf(&csv, "2011-01-0%d %02d:00:00,%d,%d\n", h+1, h, 10+h, 50+h)
	}
	input := filepath.Join(dir, "train.csv")
	require.NoError(t, os.WriteFile(input, []byte(csv.String()), 0644))

	var out bytes.Buffer
	err := runEDA(&out, input, filepath.Join(dir, "charts"), 2)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "6 rows")
	for _, name := range []string{"hour.svg", "day_of_week.svg", "temp_humidity.svg"} {
		b, err := os.ReadFile(filepath.Join(dir, "charts", name))
		require.NoError(t, err, name)
		assert.Contains(t, string(b), "<svg")
	}
}

func TestRunEDA_ReportsSkippedCharts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "train.csv")
	require.NoError(t, os.WriteFile(input, []byte("datetime,count\n2011-01-01 00:00:00,3\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, runEDA(&out, input, dir, 5))

	assert.Contains(t, out.String(), "temp_humidity: skipped")
	_, err := os.Stat(filepath.Join(dir, "temp_humidity.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunEDA_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(input, nil, 0644))

	err := runEDA(&bytes.Buffer{}, input, dir, 5)
	assert.Error(t, err)
}
