package domain

import "context"

// RateProvider fetches the latest rates for the given currency codes.
// Rates are quoted against the provider's base currency.
type RateProvider interface {
	GetRates(ctx context.Context, symbols ...string) (*Rates, error)
	GetName() string
}
