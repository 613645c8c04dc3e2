package domain

import "context"

type QuotePublisher interface {
	PublishQuote(ctx context.Context, quote *Quote) error
}
