package services

import "strings"

// Weights controls how much each normalised criterion contributes to the
// composite score. Larger means more influence. Values are not validated:
// zero disables a criterion and a negative weight inverts it.
type Weights struct {
	Price          float64 `yaml:"price"`
	Rating         float64 `yaml:"rating"`
	WindowSeats    float64 `yaml:"window_seats"`
	SeatsAvailable float64 `yaml:"seats_available"`
	Duration       float64 `yaml:"duration"`
	BoardingTime   float64 `yaml:"boarding_time"`
	DroppingPref   float64 `yaml:"dropping_time_preference"`
}

// DefaultWeights returns the stock weighting: price first, rating next.
func DefaultWeights() Weights {
	return Weights{
		Price:          3.0,
		Rating:         2.0,
		WindowSeats:    1.0,
		SeatsAvailable: 0.6,
		Duration:       1.0,
		BoardingTime:   0.2,
		DroppingPref:   1.1,
	}
}

// weightKeys maps accepted override names to their field. Short aliases come
// first so that a canonical name given alongside its alias wins.
var weightKeys = []struct {
	name  string
	field func(*Weights) *float64
}{
	{"window", func(w *Weights) *float64 { return &w.WindowSeats }},
	{"seats", func(w *Weights) *float64 { return &w.SeatsAvailable }},
	{"boarding", func(w *Weights) *float64 { return &w.BoardingTime }},
	{"dropping_pref", func(w *Weights) *float64 { return &w.DroppingPref }},

	{"price", func(w *Weights) *float64 { return &w.Price }},
	{"rating", func(w *Weights) *float64 { return &w.Rating }},
	{"window_seats", func(w *Weights) *float64 { return &w.WindowSeats }},
	{"seats_available", func(w *Weights) *float64 { return &w.SeatsAvailable }},
	{"duration", func(w *Weights) *float64 { return &w.Duration }},
	{"boarding_time", func(w *Weights) *float64 { return &w.BoardingTime }},
	{"dropping_time_preference", func(w *Weights) *float64 { return &w.DroppingPref }},
}

// Merge returns a copy of w with every recognised key in overrides applied.
// Keys are matched case-insensitively; unknown keys are ignored.
func (w Weights) Merge(overrides map[string]float64) Weights {
	if len(overrides) == 0 {
		return w
	}

	normalised := make(map[string]float64, len(overrides))
	for k, v := range overrides {
		normalised[strings.ToLower(strings.TrimSpace(k))] = v
	}

	merged := w
	for _, key := range weightKeys {
		if v, ok := normalised[key.name]; ok {
			*key.field(&merged) = v
		}
	}
	return merged
}
