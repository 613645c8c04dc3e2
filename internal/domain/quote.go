package domain

import (
	"fmt"
	"math"
	"time"
)

var currencySigns = map[string]string{
	CurrencyGBP: "£",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
}

type Quote struct {
	ID        string
	From      string
	To        string
	Amount    float64
	Rate      float64
	Converted float64
	Provider  string
	FetchedAt time.Time
}

// String renders the converted amount the way it is printed to the user,
// e.g. "£78.73".
func (q *Quote) String() string {
	return FormatMoney(q.To, q.Converted)
}

func FormatMoney(currency string, amount float64) string {
	if sign, ok := currencySigns[currency]; ok {
		return fmt.Sprintf("%s%.2f", sign, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
