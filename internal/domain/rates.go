package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	CurrencyUSD = "USD"
	CurrencyGBP = "GBP"
	CurrencyEUR = "EUR"
)

type Rates struct {
	Base      string
	Date      string
	Timestamp time.Time
	Values    map[string]float64
}

// Rate returns the rate of code against r.Base.
func (r *Rates) Rate(code string) (float64, error) {
	v, ok := r.Values[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRateNotFound, code)
	}
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%v", ErrInvalidRate, code, v)
	}
	return v, nil
}

// CrossRate returns how many units of to one unit of from buys, derived
// from two rates that share the same base.
func (r *Rates) CrossRate(from, to string) (float64, error) {
	fromRate, err := r.Rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := r.Rate(to)
	if err != nil {
		return 0, err
	}
	return toRate / fromRate, nil
}
