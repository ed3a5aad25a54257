package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"bus-scraper/models"
)

// CSVReader loads an offer table from a CSV file with a header row.
type CSVReader struct {
	path string
}

// NewCSVReader returns a reader for the file at path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// ReadTable reads the whole file. A file with only a header yields an empty
// table. Blank cells and cells missing from short records are left absent.
func (r *CSVReader) ReadTable() (*models.Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %q", r.path)
	}
	defer f.Close()

	t, err := readTable(f)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %q", r.path)
	}
	return t, nil
}

func readTable(src io.Reader) (*models.Table, error) {
	br := bufio.NewReader(src)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.NewTable(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := models.NewTable(header...)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read record")
		}

		row := make(models.Row, len(header))
		for i, v := range record {
			if i >= len(header) || strings.TrimSpace(v) == "" {
				continue
			}
			row[header[i]] = v
		}
		t.Append(row)
	}
	return t, nil
}
