package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"bus-scraper/config"
	"bus-scraper/models"
	"bus-scraper/scraper/vrl"
	"bus-scraper/services"
	"bus-scraper/storage"
)

var (
	searchFrom string
	searchTo   string
	searchDate string
)

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "source city (defaults to SOURCE_CITY)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "destination city (defaults to DEST_CITY)")
	searchCmd.Flags().StringVar(&searchDate, "date", "", "journey date DD/MM/YYYY (defaults to today)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [--from <city>] [--to <city>] [--date DD/MM/YYYY]",
	Short: "Searches vrlbus.in, stores the offer table and prints the best offer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		date := searchDate
		if date == "" {
			date = now.Format("02/01/2006")
		}

		req, err := vrl.NewSearchRequest(orDefault(searchFrom, cfg.SourceCity), orDefault(searchTo, cfg.DestinationCity), date, now)
		if err != nil {
			return err
		}

		analyzer, err := newAnalyzer(cfg, logger)
		if err != nil {
			return err
		}

		logger.Info("=== VRL bus search: %s -> %s on %s ===", req.Source, req.Destination, req.Date.Format("02/01/2006"))
		logger.Info("Config: headless=%v | max items: %d | backend: %s | retries: %d",
			cfg.Headless, cfg.MaxItems, cfg.StorageBackend, cfg.MaxRetries)

		table, _, err := vrl.New(cfg, logger).Search(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "search failed")
		}
		if table.Len() == 0 {
			return eris.New("no bus offers were scraped")
		}

		location, err := persist(cfg, req, table)
		if err != nil {
			return err
		}
		logger.Info("Saved %d offers to %s", table.Len(), location)

		res, err := analyzer.Rank(table)
		if errors.Is(err, services.ErrNoResult) {
			logger.Warn("No offers to rank")
			return nil
		}
		if err != nil {
			return err
		}

		title := req.Source + " -> " + req.Destination + " (" + req.Date.Format("02/01/2006") + ")"
		services.NewReporter(os.Stdout, cfg.TopN).Print(title, res)
		return nil
	},
}

// persist writes the offer table to the configured backend and returns where
// it went.
func persist(c *config.Config, req models.SearchRequest, table *models.Table) (string, error) {
	var (
		writer   storage.TableWriter
		location string
	)

	switch c.StorageBackend {
	case config.BackendPostgres:
		pw, err := storage.NewPostgresWriter(c.DSN())
		if err != nil {
			return "", eris.Wrap(err, "connect to PostgreSQL")
		}
		writer, location = pw, "PostgreSQL (table: bus_offers)"
	case config.BackendCSV, "":
		if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
			return "", eris.Wrapf(err, "create output dir %s", c.OutputDir)
		}
		path := filepath.Join(c.OutputDir,
			storage.ResultsFileName(req.Source, req.Destination, req.Date.Format("02-01-2006")))
		cw, err := storage.NewCSVWriter(path)
		if err != nil {
			return "", err
		}
		writer, location = cw, path
	default:
		return "", eris.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if err := writer.Write(table); err != nil {
		_ = writer.Close()
		return "", err
	}
	return location, writer.Close()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
