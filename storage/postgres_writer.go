package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"

	"bus-scraper/models"
)

// pgColumns maps offer-table columns to bus_offers columns, in insert order.
var pgColumns = []struct {
	table  string
	column string
}{
	{models.ColBusID, "bus_id"},
	{models.ColBusName, "bus_name"},
	{models.ColBusType, "bus_type"},
	{models.ColBoardingTime, "boarding_time"},
	{models.ColDroppingTime, "dropping_time"},
	{models.ColDuration, "duration"},
	{models.ColRating, "rating"},
	{models.ColSeatsAvailable, "seats_available"},
	{models.ColWindowSeats, "window_seats"},
	{models.ColPrice, "price"},
	{models.ColOriginalPrice, "original_price"},
	{models.ColSavings, "savings"},
	{models.ColBookingLink, "booking_link"},
}

// PostgresWriter keeps the offer table in PostgreSQL. Values are stored as
// scraped text; parsing happens in the analyzer.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: open")
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "postgres: ping failed after retries")
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "postgres: migrate")
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS bus_offers (
			id              SERIAL PRIMARY KEY,
			bus_id          TEXT,
			bus_name        TEXT,
			bus_type        TEXT,
			boarding_time   TEXT,
			dropping_time   TEXT,
			duration        TEXT,
			rating          TEXT,
			seats_available TEXT,
			window_seats    TEXT,
			price           TEXT,
			original_price  TEXT,
			savings         TEXT,
			booking_link    TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// Write replaces the stored offers with the rows of t, keeping row order.
func (pw *PostgresWriter) Write(t *models.Table) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM bus_offers"); err != nil {
		return eris.Wrap(err, "postgres: clear")
	}

	const batchSize = 50
	for i := 0; i < len(t.Rows); i += batchSize {
		end := i + batchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		query, args := buildInsert(t.Rows[i:end])
		if _, err := tx.Exec(query, args...); err != nil {
			return eris.Wrapf(err, "postgres: insert rows %d-%d", i, end-1)
		}
	}

	return eris.Wrap(tx.Commit(), "postgres: commit")
}

func buildInsert(batch []models.Row) (string, []interface{}) {
	cols := make([]string, len(pgColumns))
	for i, c := range pgColumns {
		cols[i] = pq.QuoteIdentifier(c.column)
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*len(pgColumns))
	for idx, row := range batch {
		placeholders := make([]string, len(pgColumns))
		for j, c := range pgColumns {
			placeholders[j] = fmt.Sprintf("$%d", idx*len(pgColumns)+j+1)
			valueArgs = append(valueArgs, nullable(row.Get(c.table)))
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
	}

	query := fmt.Sprintf("INSERT INTO bus_offers (%s) VALUES %s",
		strings.Join(cols, ","), strings.Join(valueStrings, ","))
	return query, valueArgs
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ReadTable returns the stored offers in insertion order.
func (pw *PostgresWriter) ReadTable() (*models.Table, error) {
	cols := make([]string, len(pgColumns))
	for i, c := range pgColumns {
		cols[i] = pq.QuoteIdentifier(c.column)
	}

	rows, err := pw.db.Query("SELECT " + strings.Join(cols, ",") + " FROM bus_offers ORDER BY id")
	if err != nil {
		return nil, eris.Wrap(err, "postgres: fetch offers")
	}
	defer rows.Close()

	t := models.NewTable(models.ScrapedColumns...)
	values := make([]sql.NullString, len(pgColumns))
	dest := make([]interface{}, len(pgColumns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "postgres: scan row")
		}
		row := make(models.Row, len(pgColumns))
		for i, c := range pgColumns {
			if values[i].Valid {
				row[c.table] = values[i].String
			}
		}
		t.Append(row)
	}
	return t, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
