package services

import (
	"math"

	"bus-scraper/models"
)

const (
	neutralScore = 0.5

	// Ideal arrival window, minutes since midnight (06:30–09:00).
	idealDropStart = 6*60 + 30
	idealDropEnd   = 9 * 60
	// dropSensitivity is the distance from the window, in minutes, at which
	// the window-mode preference reaches zero.
	dropSensitivity = 720.0

	fallbackMaxPrice    = 999999
	fallbackMaxDuration = 9999
	boardingPenalty     = 60
	droppingPenalty     = 120
	missingPenaltyRatio = 1.5
)

// normalize min-max rescales values into [0,1]; NaN marks a missing value.
// An empty, all-missing or constant column scores neutralScore everywhere, as
// does any individual missing value. With invert set, smaller raw values score
// higher.
func normalize(values []float64, invert bool) []float64 {
	out := make([]float64, len(values))

	lo, hi, ok := observedRange(values)
	if !ok || lo == hi {
		for i := range out {
			out[i] = neutralScore
		}
		return out
	}

	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = neutralScore
			continue
		}
		n := (v - lo) / (hi - lo)
		if invert {
			n = 1 - n
		}
		out[i] = clamp01(n)
	}
	return out
}

func observedRange(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return neutralScore
	}
	return math.Max(0, math.Min(1, v))
}

// fillMissing returns a copy of values with every NaN replaced by fill.
func fillMissing(values []float64, fill float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = fill
		} else {
			out[i] = v
		}
	}
	return out
}

func intColumn(offers []models.Offer, field func(*models.Offer) *int) []float64 {
	col := make([]float64, len(offers))
	for i := range offers {
		if p := field(&offers[i]); p != nil {
			col[i] = float64(*p)
		} else {
			col[i] = math.NaN()
		}
	}
	return col
}

func floatColumn(offers []models.Offer, field func(*models.Offer) *float64) []float64 {
	col := make([]float64, len(offers))
	for i := range offers {
		if p := field(&offers[i]); p != nil {
			col[i] = *p
		} else {
			col[i] = math.NaN()
		}
	}
	return col
}

// Missing-data substitution. Each policy is conservative: a missing value is
// never rewarded over an observed one.

func fillPrice(prices []float64) []float64 {
	_, hi, ok := observedRange(prices)
	if !ok {
		hi = fallbackMaxPrice
	}
	return fillMissing(prices, hi*missingPenaltyRatio)
}

func fillRating(ratings []float64) []float64 {
	lo, _, ok := observedRange(ratings)
	if !ok {
		lo = 0
	}
	return fillMissing(ratings, lo)
}

func fillDuration(durations []float64) []float64 {
	_, hi, ok := observedRange(durations)
	if !ok {
		hi = fallbackMaxDuration
	}
	return fillMissing(durations, hi*missingPenaltyRatio)
}

func fillBoarding(boarding []float64) []float64 {
	_, hi, ok := observedRange(boarding)
	if !ok {
		hi = minutesPerDay
	}
	return fillMissing(boarding, hi+boardingPenalty)
}

func inIdealWindow(minutes float64) bool {
	return !math.IsNaN(minutes) && minutes >= idealDropStart && minutes <= idealDropEnd
}

// dropPreference scores each dropping time in [0,1]. When at least one offer
// arrives inside the ideal window, offers are scored by closeness to it and
// offers without a dropping time score 0. Otherwise the earliest arrival wins
// and a missing time is treated as later than the latest observed one.
func dropPreference(drops []float64) ([]float64, models.DropMode) {
	windowMode := false
	for _, d := range drops {
		if inIdealWindow(d) {
			windowMode = true
			break
		}
	}

	if windowMode {
		prefs := make([]float64, len(drops))
		for i, d := range drops {
			switch {
			case math.IsNaN(d):
				prefs[i] = 0
			case inIdealWindow(d):
				prefs[i] = 1
			default:
				dist := math.Min(math.Abs(d-idealDropStart), math.Abs(d-idealDropEnd))
				prefs[i] = math.Max(0, 1-dist/dropSensitivity)
			}
		}
		return prefs, models.DropModeWindow
	}

	_, latest, ok := observedRange(drops)
	if !ok {
		latest = minutesPerDay
	}
	return normalize(fillMissing(drops, latest+droppingPenalty), true), models.DropModeEarliest
}
