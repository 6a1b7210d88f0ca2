package model

import (
	"math"
	"time"
)

// DefaultSymbol is the Yahoo Finance ticker for the CBOE Volatility Index.
const DefaultSymbol = "^VIX"

// Threshold maps a minimum index level to a purchase multiplier, expressed
// in months worth of the cash reserve.
type Threshold struct {
	Min    float64 `json:"min" yaml:"min"`
	Months float64 `json:"months" yaml:"months"`
}

// Reading is a single index observation fetched for one run.
type Reading struct {
	Symbol string    `json:"symbol"`
	Value  float64   `json:"value"`
	AsOf   time.Time `json:"as_of"`
}

// Valid reports whether the reading carries a usable value.
func (r Reading) Valid() bool {
	return !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// Recommendation is the buy signal handed to notifiers.
type Recommendation struct {
	Reading      Reading `json:"reading"`
	Months       float64 `json:"months"`
	CooldownDays int     `json:"cooldown_days"`
}

// PurchaseRecord is the single persisted marker of the last successful alert.
type PurchaseRecord struct {
	Date time.Time `json:"date"`
}

// ElapsedDays returns the number of whole days between from and to.
// Negative spans (a timestamp in the future) count as zero days.
func ElapsedDays(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
