package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/avnordli/matchcast/internal/models"
)

// Appender is the write-only store surface ingestion sources feed
type Appender interface {
	AddEvent(ev models.TimelineEvent) bool
}

// Clock is the timer source for the reconnect backoff. Real clock in
// production, fake in tests.
type Clock interface {
	NewTimer(d time.Duration) clockwork.Timer
}

// WebSocketConfig holds configuration for the streamer connection
type WebSocketConfig struct {
	URL           string
	ReconnectWait time.Duration
	ReadLimit     int64
}

// DefaultWebSocketConfig returns sane streamer connection defaults
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		ReconnectWait: 2 * time.Second,
		ReadLimit:     64 * 1024,
	}
}

// WebSocketSource consumes the demo event streamer feed and appends
// decoded events to the session store. Malformed or unknown messages
// are logged and dropped; the feed itself must never take the
// timeline down.
type WebSocketSource struct {
	store  Appender
	clock  Clock
	config WebSocketConfig
	dialer *websocket.Dialer
}

// NewWebSocketSource creates a streamer source for the given store
func NewWebSocketSource(store Appender, clock Clock, config WebSocketConfig) *WebSocketSource {
	if config.ReconnectWait <= 0 {
		config.ReconnectWait = DefaultWebSocketConfig().ReconnectWait
	}
	if config.ReadLimit <= 0 {
		config.ReadLimit = DefaultWebSocketConfig().ReadLimit
	}
	return &WebSocketSource{
		store:  store,
		clock:  clock,
		config: config,
		dialer: websocket.DefaultDialer,
	}
}

// Run connects and consumes until the context is cancelled,
// redialling with a fixed wait on connection loss.
func (w *WebSocketSource) Run(ctx context.Context) error {
	log.Info().Str("url", w.config.URL).Msg("websocket event source started")

	for {
		if err := w.consume(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("websocket event source stopped")
				return nil
			}
			log.Error().Err(err).
				Dur("reconnect_wait", w.config.ReconnectWait).
				Msg("websocket feed dropped, reconnecting")
		}

		timer := w.clock.NewTimer(w.config.ReconnectWait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("websocket event source stopped")
			return nil
		case <-timer.Chan():
		}
	}
}

func (w *WebSocketSource) consume(ctx context.Context) error {
	conn, _, err := w.dialer.DialContext(ctx, w.config.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	conn.SetReadLimit(w.config.ReadLimit)

	log.Info().Str("url", w.config.URL).Msg("websocket feed connected")

	// Unblock ReadMessage on cancellation
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		w.handleMessage(message)
	}
}

func (w *WebSocketSource) handleMessage(message []byte) {
	ev, err := DecodeEvent(message)
	if err != nil {
		if errors.Is(err, ErrUnknownType) {
			log.Debug().Err(err).Msg("dropping unknown event type")
		} else {
			log.Warn().Err(err).Msg("dropping malformed event")
		}
		return
	}
	w.store.AddEvent(ev)
}
