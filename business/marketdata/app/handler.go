package app

import (
	"context"
	"sync"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/bus"
	"github.com/marketfeed/connector/internal/logger"
)

// Publisher is the subset of the bus client Handler needs: publish a wire
// frame to a subject under the connector's status-header convention.
type Publisher interface {
	SendMessage(subject string, payload []byte) error
}

// NewState builds an empty State for a freshly subscribed market. Each
// channel (ticker/trades/book) supplies its own constructor.
type NewState[Dto, Msg any] func() State[Dto, Msg]

// Subscriber is how Handler tells the exchange session to start or stop
// streaming a channel for a market, mirroring ws_client.send(subscribe)
// / send(unsubscribe) in the source.
type Subscriber interface {
	Subscribe(market domain.Market, channel string)
	Unsubscribe(market domain.Market, channel string)
}

// Encode renders Msg as the wire payload to publish.
type Encode[Msg any] func(Msg) []byte

// Handler lazily spawns one worker goroutine per market the first time an
// event for that market arrives, and routes subsequent events for the same
// market to the same worker. Grounded on
// public-cryptocom/src/utils/handler.rs.
type Handler[Dto, Msg any] struct {
	bus        Publisher
	subscriber Subscriber
	newState   NewState[Dto, Msg]
	encode     Encode[Msg]
	log        logger.LoggerInterface
	bufferSize int

	mu       sync.Mutex
	channels map[domain.Market]chan Event[Dto]
}

// NewHandler creates a Handler. bufferSize bounds each per-market worker's
// inbox, mirroring the source's config.max_buffer_size.
func NewHandler[Dto, Msg any](
	busClient Publisher,
	subscriber Subscriber,
	newState NewState[Dto, Msg],
	encode Encode[Msg],
	log logger.LoggerInterface,
	bufferSize int,
) *Handler[Dto, Msg] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Handler[Dto, Msg]{
		bus:        busClient,
		subscriber: subscriber,
		newState:   newState,
		encode:     encode,
		log:        log,
		bufferSize: bufferSize,
		channels:   make(map[domain.Market]chan Event[Dto]),
	}
}

// Dispatch routes ev to its market's worker, spawning one lazily on first
// sight of that market.
func (h *Handler[Dto, Msg]) Dispatch(ctx context.Context, ev Event[Dto]) {
	h.mu.Lock()
	ch, ok := h.channels[ev.Market]
	if !ok {
		ch = make(chan Event[Dto], h.bufferSize)
		h.channels[ev.Market] = ch
		state := h.newState()
		channel := state.Channel()
		h.subscriber.Subscribe(ev.Market, channel)
		go h.run(ctx, ev.Market, state, ch)
	}
	h.mu.Unlock()

	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

// Shutdown closes every per-market worker's inbox and drops it from the
// registry. Each worker handles what is already queued, then returns once
// it sees its inbox closed, sending an Unsubscribe on the way out.
// Shutdown does not block for them.
func (h *Handler[Dto, Msg]) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for market, ch := range h.channels {
		close(ch)
		delete(h.channels, market)
	}
}

func (h *Handler[Dto, Msg]) run(ctx context.Context, market domain.Market, state State[Dto, Msg], ch chan Event[Dto]) {
	channel := state.Channel()
	h.log.Info(ctx, "running channel worker", "channel", channel, "market", market.NatsFormat())

	defer func() {
		h.subscriber.Unsubscribe(market, channel)
		h.mu.Lock()
		delete(h.channels, market)
		h.mu.Unlock()
	}()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			topic := state.Topic(market)
			msg, err := Publish[Dto, Msg](state, ev)
			if err != nil {
				h.log.Warn(ctx, "closing channel worker", "channel", channel,
					"market", market.NatsFormat(), "error", err)
				return
			}
			if err := h.bus.SendMessage(topic, h.encode(msg)); err != nil {
				h.log.Warn(ctx, "closing channel worker", "channel", channel,
					"market", market.NatsFormat(), "error", apperror.Wrap(err, apperror.CodeSend, "publish"))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

var _ Publisher = (*bus.Client)(nil)
