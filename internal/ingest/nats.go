package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for the NATS event source
type NATSConfig struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig subscribes to the full match event subject space
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Subject:       "match.events.>",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// NATSSource consumes timeline events pushed over a NATS subject, as
// an alternative to the WebSocket streamer feed. Message bodies use
// the same JSON envelope.
type NATSSource struct {
	store  Appender
	config NATSConfig
	nc     *nats.Conn
}

// NewNATSSource connects to NATS and prepares a source for the store
func NewNATSSource(store Appender, config NATSConfig) (*NATSSource, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSSource{store: store, config: config, nc: nc}, nil
}

// Run subscribes and appends decoded events until the context is
// cancelled. Decoding runs on a single channel consumer so ingestion
// stays serialized in subscription order.
func (n *NATSSource) Run(ctx context.Context) error {
	msgCh := make(chan *nats.Msg, 128)
	sub, err := n.nc.ChanSubscribe(n.config.Subject, msgCh)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", n.config.Subject, err)
	}
	defer sub.Unsubscribe()

	log.Info().
		Str("subject", n.config.Subject).
		Str("url", n.config.URL).
		Msg("NATS event source started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("NATS event source stopped")
			return nil
		case msg := <-msgCh:
			n.handleMessage(msg)
		}
	}
}

func (n *NATSSource) handleMessage(msg *nats.Msg) {
	ev, err := DecodeEvent(msg.Data)
	if err != nil {
		if errors.Is(err, ErrUnknownType) {
			log.Debug().Err(err).Str("subject", msg.Subject).Msg("dropping unknown event type")
		} else {
			log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping malformed event")
		}
		return
	}
	n.store.AddEvent(ev)
}

// Close releases the NATS connection
func (n *NATSSource) Close() {
	if n.nc != nil {
		n.nc.Close()
	}
}
