package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bus-scraper/models"
)

func TestCSVWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "offers.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	table := models.NewTable(models.ScrapedColumns...)
	table.Append(models.Row{
		models.ColBusID:        "bus-1",
		models.ColBusName:      "VRL Travels, Volvo B11R",
		models.ColPrice:        "1250",
		models.ColDroppingTime: "07:15 AM",
	})
	table.Append(models.Row{models.ColBusID: "bus-2", models.ColRating: "4.1"})

	require.NoError(t, w.Write(table))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), utf8BOM), "file should start with a UTF-8 BOM")

	got, err := NewCSVReader(path).ReadTable()
	require.NoError(t, err)

	assert.Equal(t, models.ScrapedColumns, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "VRL Travels, Volvo B11R", got.Rows[0][models.ColBusName])
	assert.Equal(t, "07:15 AM", got.Rows[0][models.ColDroppingTime])
	_, hasPrice := got.Rows[1][models.ColPrice]
	assert.False(t, hasPrice, "blank cells are read back as absent")
}

func TestCSVWriteReplacesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	defer w.Close()

	first := models.NewTable(models.ColBusName)
	first.Append(models.Row{models.ColBusName: "old"})
	first.Append(models.Row{models.ColBusName: "older"})
	require.NoError(t, w.Write(first))

	second := models.NewTable(models.ColBusName)
	second.Append(models.Row{models.ColBusName: "new"})
	require.NoError(t, w.Write(second))

	got, err := NewCSVReader(path).ReadTable()
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "new", got.Rows[0][models.ColBusName])
}

func TestReadTableToleratesShortRecordsAndMissingFile(t *testing.T) {
	got, err := readTable(strings.NewReader("Bus Name,Price,Rating\nA,900\nB,1000,4.5,extra\n"))
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, models.Row{"Bus Name": "A", "Price": "900"}, got.Rows[0])
	assert.Equal(t, "4.5", got.Rows[1]["Rating"])

	empty, err := readTable(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = NewCSVReader(filepath.Join(t.TempDir(), "nope.csv")).ReadTable()
	assert.Error(t, err)
}

func TestResultsFileName(t *testing.T) {
	tests := []struct {
		source, dest, date string
		want               string
	}{
		{"Bangalore", "Mumbai", "25/12/2026", "vrl_results_Bangalore_Mumbai_25-12-2026.csv"},
		{"Navi Mumbai (Vashi)", "Hubli", "01/01/2027", "vrl_results_Navi_Mumbai_Vashi__Hubli_01-01-2027.csv"},
		{strings.Repeat("a", 60), "B", "1 1", "vrl_results_" + strings.Repeat("a", 40) + "_B_1_1.csv"},
	}

	for _, tt := range tests {
		got := ResultsFileName(tt.source, tt.dest, tt.date)
		if got != tt.want {
			t.Errorf("ResultsFileName(%q, %q, %q) = %q; want %q", tt.source, tt.dest, tt.date, got, tt.want)
		}
	}
}
