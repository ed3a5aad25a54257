package vrl

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"bus-scraper/models"
)

// maxBookingHorizon is how far ahead a journey date may be.
const maxBookingHorizon = 2 * 365 * 24 * time.Hour

// Journey-date validation errors.
var (
	ErrInvalidDate  = eris.New("journey date must be DD/MM/YYYY")
	ErrDateInPast   = eris.New("journey date cannot be in the past")
	ErrDateTooFar   = eris.New("journey date is too far in the future")
	ErrMissingRoute = eris.New("source and destination are required")
)

// NewSearchRequest validates user input for a search. The date must be
// DD/MM/YYYY, not before today and at most two years after now.
func NewSearchRequest(source, destination, date string, now time.Time) (models.SearchRequest, error) {
	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)
	if source == "" || destination == "" {
		return models.SearchRequest{}, ErrMissingRoute
	}

	day, err := time.ParseInLocation("02/01/2006", strings.TrimSpace(date), now.Location())
	if err != nil {
		day, err = time.ParseInLocation("2/1/2006", strings.TrimSpace(date), now.Location())
	}
	if err != nil {
		return models.SearchRequest{}, eris.Wrapf(ErrInvalidDate, "got %q", date)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return models.SearchRequest{}, ErrDateInPast
	}
	if day.After(now.Add(maxBookingHorizon)) {
		return models.SearchRequest{}, ErrDateTooFar
	}

	return models.SearchRequest{Source: source, Destination: destination, Date: day}, nil
}
