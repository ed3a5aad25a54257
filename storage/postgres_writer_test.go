package storage

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bus-scraper/models"
)

func TestBuildInsert(t *testing.T) {
	batch := []models.Row{
		{models.ColBusName: "A", models.ColPrice: "900"},
		{models.ColBusName: "B", models.ColBookingLink: "https://www.vrlbus.in/b"},
	}

	query, args := buildInsert(batch)

	assert.True(t, strings.HasPrefix(query, `INSERT INTO bus_offers ("bus_id","bus_name",`))
	assert.Contains(t, query, "($1,$2,")
	assert.Contains(t, query, "$26)")
	require.Len(t, args, 2*len(pgColumns))

	assert.Equal(t, sql.NullString{String: "A", Valid: true}, args[1])
	assert.Equal(t, sql.NullString{}, args[0], "absent values are stored as NULL")
	assert.Equal(t, sql.NullString{String: "https://www.vrlbus.in/b", Valid: true}, args[2*len(pgColumns)-1])
}

func TestPgColumnsCoverScrapedColumns(t *testing.T) {
	require.Len(t, pgColumns, len(models.ScrapedColumns))
	for i, c := range pgColumns {
		assert.Equal(t, models.ScrapedColumns[i], c.table)
	}
}
