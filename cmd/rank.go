package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"bus-scraper/config"
	"bus-scraper/models"
	"bus-scraper/services"
	"bus-scraper/storage"
	"bus-scraper/utils"
)

var rankFromDB bool

func init() {
	rankCmd.Flags().BoolVar(&rankFromDB, "from-db", false, "rank the offers stored in PostgreSQL")
	rootCmd.AddCommand(rankCmd)
}

var rankCmd = &cobra.Command{
	Use:   "rank [<results.csv>...] [--from-db]",
	Short: "Ranks previously stored offer tables and prints the best offer of each.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !rankFromDB {
			return eris.New("give at least one CSV file or --from-db")
		}

		analyzer, err := newAnalyzer(cfg, logger)
		if err != nil {
			return err
		}

		var sources []namedReader
		for _, path := range args {
			sources = append(sources, namedReader{name: path, reader: storage.NewCSVReader(path)})
		}
		if rankFromDB {
			pw, err := storage.NewPostgresWriter(cfg.DSN())
			if err != nil {
				return eris.Wrap(err, "connect to PostgreSQL")
			}
			defer pw.Close()
			sources = append(sources, namedReader{name: "PostgreSQL bus_offers", reader: pw})
		}

		outcomes := rankAll(cmd.Context(), cfg, analyzer, sources)

		reporter := services.NewReporter(os.Stdout, cfg.TopN)
		failed := 0
		for _, o := range outcomes {
			switch {
			case errors.Is(o.err, services.ErrNoResult):
				logger.Warn("[main] %s has no offers to rank", o.name)
				reporter.Print(o.name, nil)
			case o.err != nil:
				logger.Error("[main] %s: %v", o.name, o.err)
				failed++
			default:
				reporter.Print(o.name, o.result)
			}
		}
		if failed > 0 {
			return eris.Errorf("%d of %d tables could not be ranked", failed, len(outcomes))
		}
		return nil
	},
}

type namedReader struct {
	name   string
	reader storage.TableReader
}

type rankOutcome struct {
	name   string
	result *models.RankResult
	err    error
}

// rankAll loads and ranks every source through the worker pool. Outcomes are
// returned in source order.
func rankAll(ctx context.Context, c *config.Config, analyzer *services.Analyzer, sources []namedReader) []rankOutcome {
	outcomes := make([]rankOutcome, len(sources))
	pool := utils.NewWorkerPool(c.MaxConcurrency, c.RateLimitMs)

	for i, src := range sources {
		i, src := i, src
		pool.Submit(func() {
			outcomes[i].name = src.name
			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return
			}
			table, err := src.reader.ReadTable()
			if err != nil {
				outcomes[i].err = err
				return
			}
			outcomes[i].result, outcomes[i].err = analyzer.Rank(table)
		})
	}

	pool.Wait()
	return outcomes
}
