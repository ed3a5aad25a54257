package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"bus-scraper/models"
)

// utf8BOM lets spreadsheet tools detect the encoding of rupee signs and
// non-ASCII bus names.
const utf8BOM = "\uFEFF"

var nonWordRegexp = regexp.MustCompile(`\W+`)

// CSVWriter writes an offer table to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, eris.Wrap(err, "csv: create output dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: create file %q", path)
	}

	return &CSVWriter{path: path, file: f}, nil
}

// Path returns the file being written.
func (c *CSVWriter) Path() string {
	return c.path
}

// Write writes the header and every row of t, replacing any previous content.
func (c *CSVWriter) Write(t *models.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.file.Truncate(0); err != nil {
		return eris.Wrap(err, "csv: truncate")
	}
	if _, err := c.file.Seek(0, 0); err != nil {
		return eris.Wrap(err, "csv: seek")
	}
	if _, err := c.file.WriteString(utf8BOM); err != nil {
		return eris.Wrap(err, "csv: write BOM")
	}

	w := csv.NewWriter(c.file)
	if err := w.Write(t.Columns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	w.Flush()
	return w.Error()
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}

// ResultsFileName builds the output file name for a search, e.g.
// "vrl_results_Bangalore_Mumbai_25-12-2026.csv".
func ResultsFileName(source, dest, date string) string {
	safeDate := strings.NewReplacer("/", "-", " ", "_").Replace(date)
	return fmt.Sprintf("vrl_results_%s_%s_%s.csv", safeName(source), safeName(dest), safeDate)
}

func safeName(s string) string {
	s = nonWordRegexp.ReplaceAllString(s, "_")
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
