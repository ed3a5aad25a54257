package services

import (
	"errors"
	"sort"

	"bus-scraper/models"
	"bus-scraper/utils"
)

// ErrNoResult is returned when there is nothing to rank.
var ErrNoResult = errors.New("analyzer: no offers to rank")

// Analyzer parses an offer table and ranks its rows by a weighted composite
// of normalised criteria. It holds no mutable state and is safe for
// concurrent use on independent tables.
type Analyzer struct {
	logger  *utils.Logger
	weights Weights
}

// NewAnalyzer creates an Analyzer using the given weights.
func NewAnalyzer(logger *utils.Logger, weights Weights) *Analyzer {
	return &Analyzer{logger: logger, weights: weights}
}

// Weights returns the weighting in effect.
func (a *Analyzer) Weights() Weights {
	return a.weights
}

// ParseOffers converts every row of t into an Offer. Columns the analyzer
// needs but t lacks are treated as entirely absent.
func (a *Analyzer) ParseOffers(t *models.Table) []models.Offer {
	schema, synthesised := t.WithColumns(models.AnalyzedColumns...)
	if len(synthesised) > 0 {
		a.logger.Warn("[analyzer] Input table lacks columns %v; treating them as missing", synthesised)
	}

	offers := make([]models.Offer, len(schema.Rows))
	for i, row := range schema.Rows {
		offers[i] = parseOffer(i, row)
		offers[i].Columns = schema.Columns
	}
	return offers
}

func parseOffer(index int, row models.Row) models.Offer {
	return models.Offer{
		Index:          index,
		Name:           row.Get(models.ColBusName),
		Price:          optional(ParseInt(row.Get(models.ColPrice))),
		Rating:         optional(ParseRating(row.Get(models.ColRating))),
		WindowSeats:    optional(ParseInt(row.Get(models.ColWindowSeats))),
		SeatsAvailable: optional(ParseInt(row.Get(models.ColSeatsAvailable))),
		BoardingTime:   optional(ParseClock(row.Get(models.ColBoardingTime))),
		DroppingTime:   optional(ParseClock(row.Get(models.ColDroppingTime))),
		Duration:       optional(ParseDuration(row.Get(models.ColDuration))),
		BookingLink:    row.Get(models.ColBookingLink),
		Row:            row,
	}
}

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

// Rank scores every row of t and returns them best first, along with the
// single best offer. An empty table yields ErrNoResult. Rows with equal
// scores keep their table order.
func (a *Analyzer) Rank(t *models.Table) (*models.RankResult, error) {
	if t.Len() == 0 {
		a.logger.Warn("[analyzer] Offer table is empty, nothing to rank")
		return nil, ErrNoResult
	}
	return a.RankOffers(a.ParseOffers(t))
}

// RankOffers ranks already-parsed offers. The slice is not modified.
func (a *Analyzer) RankOffers(offers []models.Offer) (*models.RankResult, error) {
	if len(offers) == 0 {
		return nil, ErrNoResult
	}

	price := normalize(fillPrice(intColumn(offers, func(o *models.Offer) *int { return o.Price })), true)
	rating := normalize(fillRating(floatColumn(offers, func(o *models.Offer) *float64 { return o.Rating })), false)
	window := normalize(fillMissing(intColumn(offers, func(o *models.Offer) *int { return o.WindowSeats }), 0), false)
	seats := normalize(fillMissing(intColumn(offers, func(o *models.Offer) *int { return o.SeatsAvailable }), 0), false)
	duration := normalize(fillDuration(intColumn(offers, func(o *models.Offer) *int { return o.Duration })), true)
	boarding := normalize(fillBoarding(intColumn(offers, func(o *models.Offer) *int { return o.BoardingTime })), true)

	prefs, mode := dropPreference(intColumn(offers, func(o *models.Offer) *int { return o.DroppingTime }))
	dropping := normalize(prefs, false)

	w := a.weights
	ranked := make([]models.RankedOffer, len(offers))
	for i, o := range offers {
		c := models.Criteria{
			Price:          price[i],
			Rating:         rating[i],
			WindowSeats:    window[i],
			SeatsAvailable: seats[i],
			Duration:       duration[i],
			BoardingTime:   boarding[i],
			DroppingPref:   dropping[i],
		}
		ranked[i] = models.RankedOffer{
			Offer:    o,
			Criteria: c,
			Score: w.Price*c.Price +
				w.Rating*c.Rating +
				w.WindowSeats*c.WindowSeats +
				w.SeatsAvailable*c.SeatsAvailable +
				w.Duration*c.Duration +
				w.BoardingTime*c.BoardingTime +
				w.DroppingPref*c.DroppingPref,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	best := ranked[0]
	a.logger.Info("[analyzer] Ranked %d offers (dropping-time mode: %s), best: %q score=%.4f",
		len(ranked), mode, best.Name, best.Score)

	return &models.RankResult{
		Best:     &best,
		Ranked:   ranked,
		DropMode: mode,
	}, nil
}
