package publisher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-fx-quote/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers    []string
	Topic      string
	Username   string
	Password   string
	Mechanism  string // "", "plain", "scram-sha-256", "scram-sha-512"
	TLSEnabled bool
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaQuotePublisher struct {
	writer messageWriter
}

func NewKafkaQuotePublisher(cfg KafkaConfig) (*KafkaQuotePublisher, error) {
	transport := &kafka.Transport{}
	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}
	transport.SASL = mechanism

	return &KafkaQuotePublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 10 * time.Second,
			Transport:    transport,
		},
	}, nil
}

func saslMechanism(cfg KafkaConfig) (sasl.Mechanism, error) {
	switch strings.ToLower(cfg.Mechanism) {
	case "":
		return nil, nil
	case "plain":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "scram-sha-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "scram-sha-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported sasl mechanism: %s", cfg.Mechanism)
	}
}

func (k *KafkaQuotePublisher) PublishQuote(ctx context.Context, quote *domain.Quote) error {
	event := QuoteEvent{
		EventID:   uuid.New().String(),
		QuoteID:   quote.ID,
		From:      quote.From,
		To:        quote.To,
		Amount:    quote.Amount,
		Rate:      quote.Rate,
		Converted: quote.Converted,
		Provider:  quote.Provider,
		FetchedAt: quote.FetchedAt,
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(quote.From + "/" + quote.To),
		Value: msg,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}
	return nil
}

func (k *KafkaQuotePublisher) Close() error {
	return k.writer.Close()
}
