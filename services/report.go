package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"bus-scraper/models"
)

// Reporter prints ranking results for a terminal.
type Reporter struct {
	out  io.Writer
	topN int
}

// NewReporter creates a Reporter that shows the topN best offers.
func NewReporter(out io.Writer, topN int) *Reporter {
	if topN <= 0 {
		topN = 5
	}
	return &Reporter{out: out, topN: topN}
}

// Print renders the top candidates and the selected best offer. title names
// the table being reported, e.g. the route or the source file.
func (r *Reporter) Print(title string, res *models.RankResult) {
	sep := strings.Repeat("═", 64)

	fmt.Fprintf(r.out, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(r.out, "\033[1;35m  🚌 BEST BUS: %s\033[0m\n", title)
	fmt.Fprintf(r.out, "\033[1;35m%s\033[0m\n\n", sep)

	if res == nil || res.Best == nil {
		fmt.Fprintf(r.out, "  No offers to rank\n\n")
		return
	}

	fmt.Fprintf(r.out, "\033[1;33m  Top %d candidates by score (higher is better, dropping-time mode: %s)\033[0m\n",
		min(r.topN, len(res.Ranked)), res.DropMode)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Bus", "Price", "Rating", "Windows", "Seats", "Duration", "Boarding", "Dropping", "Score"})
	for i, o := range res.Ranked {
		if i >= r.topN {
			break
		}
		t.AppendRow(table.Row{
			i + 1,
			truncate(o.Name, 40),
			cell(o.Row, models.ColPrice),
			cell(o.Row, models.ColRating),
			cell(o.Row, models.ColWindowSeats),
			cell(o.Row, models.ColSeatsAvailable),
			cell(o.Row, models.ColDuration),
			cell(o.Row, models.ColBoardingTime),
			cell(o.Row, models.ColDroppingTime),
			fmt.Sprintf("%.4f", o.Score),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 10, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(r.out)

	best := res.Best
	fmt.Fprintf(r.out, "\033[1;33m  Selected offer\033[0m\n")
	fmt.Fprintf(r.out, "  Bus      : \033[1m%s\033[0m\n", orNA(best.Name))
	fmt.Fprintf(r.out, "  Price    : \033[1;32m%s\033[0m\n", cell(best.Row, models.ColPrice))
	fmt.Fprintf(r.out, "  Timing   : %s → %s (%s)\n",
		cell(best.Row, models.ColBoardingTime), cell(best.Row, models.ColDroppingTime), cell(best.Row, models.ColDuration))
	fmt.Fprintf(r.out, "  Score    : %.4f\n", best.Score)
	if best.BookingLink != "" {
		fmt.Fprintf(r.out, "  Book at  : %s\n", best.BookingLink)
	}
	fmt.Fprintf(r.out, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func cell(r models.Row, col string) string {
	return orNA(r.Get(col))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// truncate shortens s to max terminal columns.
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "...")
}
