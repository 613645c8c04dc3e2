package publisher

import "time"

type QuoteEvent struct {
	EventID   string    `json:"event_id"`
	QuoteID   string    `json:"quote_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    float64   `json:"amount"`
	Rate      float64   `json:"rate"`
	Converted float64   `json:"converted"`
	Provider  string    `json:"provider"`
	FetchedAt time.Time `json:"fetched_at"`
}
