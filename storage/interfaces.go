package storage

import "bus-scraper/models"

// TableWriter is the interface any output-table backend must satisfy.
type TableWriter interface {
	Write(t *models.Table) error
	Close() error
}

// TableReader loads a previously written offer table.
type TableReader interface {
	ReadTable() (*models.Table, error)
}
