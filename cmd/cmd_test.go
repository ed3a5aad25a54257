package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bus-scraper/config"
	"bus-scraper/models"
	"bus-scraper/services"
	"bus-scraper/storage"
	"bus-scraper/utils"
)

func writeCSV(t *testing.T, dir, name string, rows ...models.Row) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := storage.NewCSVWriter(path)
	require.NoError(t, err)

	table := models.NewTable(models.ScrapedColumns...)
	for _, r := range rows {
		table.Append(r)
	}
	require.NoError(t, w.Write(table))
	require.NoError(t, w.Close())
	return path
}

func TestRankAllKeepsSourceOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeCSV(t, dir, "a.csv",
		models.Row{models.ColBusName: "Pricey", models.ColPrice: "2000"},
		models.Row{models.ColBusName: "Cheap", models.ColPrice: "900"},
	)
	empty := writeCSV(t, dir, "b.csv")
	missing := filepath.Join(dir, "missing.csv")

	sources := []namedReader{
		{name: first, reader: storage.NewCSVReader(first)},
		{name: empty, reader: storage.NewCSVReader(empty)},
		{name: missing, reader: storage.NewCSVReader(missing)},
	}
	c := &config.Config{MaxConcurrency: 3}
	analyzer := services.NewAnalyzer(utils.NewNopLogger(), services.DefaultWeights())

	outcomes := rankAll(context.Background(), c, analyzer, sources)
	require.Len(t, outcomes, 3)

	assert.Equal(t, first, outcomes[0].name)
	require.NoError(t, outcomes[0].err)
	assert.Equal(t, "Cheap", outcomes[0].result.Best.Name)

	assert.Equal(t, empty, outcomes[1].name)
	assert.ErrorIs(t, outcomes[1].err, services.ErrNoResult)

	assert.Equal(t, missing, outcomes[2].name)
	assert.Error(t, outcomes[2].err)
}

func TestRankAllStopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "a.csv", models.Row{models.ColBusName: "Only", models.ColPrice: "900"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := services.NewAnalyzer(utils.NewNopLogger(), services.DefaultWeights())
	outcomes := rankAll(ctx, &config.Config{}, analyzer, []namedReader{{name: path, reader: storage.NewCSVReader(path)}})
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].err, context.Canceled)
}

func TestPersistCSV(t *testing.T) {
	dir := t.TempDir()
	c := &config.Config{OutputDir: filepath.Join(dir, "out"), StorageBackend: config.BackendCSV}
	req := models.SearchRequest{
		Source:      "Bangalore",
		Destination: "Mumbai",
		Date:        time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
	}
	table := models.NewTable(models.ScrapedColumns...)
	table.Append(models.Row{models.ColBusName: "VRL Travels", models.ColPrice: "1450"})

	location, err := persist(c, req, table)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "vrl_results_Bangalore_Mumbai_25-12-2026.csv"), location)

	_, err = os.Stat(location)
	require.NoError(t, err)

	got, err := storage.NewCSVReader(location).ReadTable()
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "1450", got.Rows[0][models.ColPrice])
}

func TestPersistUnknownBackend(t *testing.T) {
	c := &config.Config{StorageBackend: "s3"}
	_, err := persist(c, models.SearchRequest{}, models.NewTable())
	assert.Error(t, err)
}

func TestNewAnalyzerAppliesWeightsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("price: 10\nwindow: 0\n"), 0o644))

	a, err := newAnalyzer(&config.Config{WeightsFile: path}, utils.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 10.0, a.Weights().Price)
	assert.Equal(t, 0.0, a.Weights().WindowSeats)
	assert.Equal(t, services.DefaultWeights().Rating, a.Weights().Rating)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "x", orDefault("", "x"))
	assert.Equal(t, "y", orDefault("y", "x"))
}

type syncBuffer struct {
	bytes.Buffer
	syncs int
}

func (b *syncBuffer) Sync() error {
	b.syncs++
	return nil
}

func TestExecuteFlushesLoggerWhenCommandFails(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	out := &syncBuffer{}
	failing := &cobra.Command{
		Use:           "fail",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger = utils.NewLoggerTo(out, "info")
			logger.Error("[main] about to fail")
			return errors.New("boom")
		},
	}
	failing.SetArgs([]string{})

	err := execute(context.Background(), failing)
	require.Error(t, err)
	assert.Equal(t, 1, out.syncs)
	assert.Contains(t, out.String(), "about to fail")
}
