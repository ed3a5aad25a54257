package models

import (
	"strconv"
	"time"
)

// Column names of the offer table as produced by the results scraper.
const (
	ColBusID          = "Bus ID"
	ColBusName        = "Bus Name"
	ColBusType        = "Bus Type"
	ColBoardingTime   = "Boarding Time"
	ColDroppingTime   = "Dropping Time"
	ColDuration       = "Duration"
	ColRating         = "Rating"
	ColSeatsAvailable = "Seats Available"
	ColWindowSeats    = "Window Seats"
	ColPrice          = "Price"
	ColOriginalPrice  = "Original Price"
	ColSavings        = "Savings"
	ColBookingLink    = "Booking Link"

	// ColScore is the derived composite score added to ranked rows.
	ColScore = "Score"
)

// ScrapedColumns is the column order written to the output table.
var ScrapedColumns = []string{
	ColBusID, ColBusName, ColBusType, ColBoardingTime, ColDroppingTime, ColDuration,
	ColRating, ColSeatsAvailable, ColWindowSeats, ColPrice, ColOriginalPrice, ColSavings,
	ColBookingLink,
}

// AnalyzedColumns are the columns the analyzer reads. Any of them missing from
// an input table is synthesised as an all-absent column.
var AnalyzedColumns = []string{
	ColBusName, ColPrice, ColRating, ColWindowSeats, ColSeatsAvailable,
	ColBoardingTime, ColDroppingTime, ColDuration, ColBookingLink,
}

// Offer is one bus listing with its fields parsed into canonical units.
// A nil pointer means the source value was missing or unparseable.
type Offer struct {
	Index          int // position in the source table
	Name           string
	Price          *int
	Rating         *float64
	WindowSeats    *int
	SeatsAvailable *int
	BoardingTime   *int // minutes since midnight
	DroppingTime   *int // minutes since midnight
	Duration       *int // minutes
	BookingLink    string

	Row     Row
	Columns []string // schema of the source table, missing columns included
}

// Criteria holds the normalised [0,1] score of every ranking criterion,
// larger always being better.
type Criteria struct {
	Price          float64
	Rating         float64
	WindowSeats    float64
	SeatsAvailable float64
	Duration       float64
	BoardingTime   float64
	DroppingPref   float64
}

// RankedOffer is an Offer together with its derived scores.
type RankedOffer struct {
	Offer
	Criteria Criteria
	Score    float64
}

// Fields returns every column of the source table plus the composite score.
// Columns without a value map to "".
func (o RankedOffer) Fields() map[string]string {
	out := make(map[string]string, len(o.Columns)+len(o.Row)+1)
	for _, c := range o.Columns {
		out[c] = ""
	}
	for k, v := range o.Row {
		out[k] = v
	}
	out[ColScore] = strconv.FormatFloat(o.Score, 'f', 4, 64)
	return out
}

// DropMode names the strategy used to score dropping times in one ranking pass.
type DropMode string

const (
	// DropModeWindow scores closeness to the ideal arrival window.
	DropModeWindow DropMode = "window"
	// DropModeEarliest prefers the earliest arrival.
	DropModeEarliest DropMode = "earliest"
)

// RankResult is the output of one ranking pass.
type RankResult struct {
	Best     *RankedOffer
	Ranked   []RankedOffer // sorted by descending score
	DropMode DropMode
}

// SearchRequest is a route/date query against the booking site.
type SearchRequest struct {
	Source      string
	Destination string
	Date        time.Time
}

// RunSummary records which steps of a browser search succeeded.
type RunSummary struct {
	PageOpened        bool
	ModalRemoved      bool
	SourceFilled      bool
	DestinationFilled bool
	DateSelected      bool
	SearchClicked     bool
	ResultsFound      bool
	CardsScraped      int
}
