// Package app implements the per-market stream coordination: folding raw
// exchange updates into normalized messages and republishing them, and the
// bounded pool that answers markets-metadata requests.
package app

import "github.com/marketfeed/connector/business/marketdata/domain"

// EventKind distinguishes a late-subscriber snapshot request from a fresh
// exchange update, mirroring utils/handler.rs's Event<T> enum.
type EventKind int

const (
	EventGet EventKind = iota
	EventUpdated
)

// Event carries either a snapshot request for Market or a freshly decoded
// Dto to fold into state.
type Event[Dto any] struct {
	Kind   EventKind
	Market domain.Market
	Dto    Dto
}

// NewGetEvent builds a snapshot-request event.
func NewGetEvent[Dto any](market domain.Market) Event[Dto] {
	return Event[Dto]{Kind: EventGet, Market: market}
}

// NewUpdatedEvent builds a fresh-update event.
func NewUpdatedEvent[Dto any](market domain.Market, dto Dto) Event[Dto] {
	return Event[Dto]{Kind: EventUpdated, Market: market, Dto: dto}
}

// State is the per-channel fold contract: accumulate Dto updates and emit
// the normalized Msg to publish, or answer a snapshot request from
// accumulated state. Every method must be safe to call from a single
// owning goroutine only — Handler never shares a State across goroutines.
type State[Dto, Msg any] interface {
	// Update folds dto into state and returns the message to publish, or an
	// error if dto breaks the channel's continuity invariant.
	Update(dto Dto) (Msg, error)
	// Get returns a full snapshot of the accumulated state.
	Get() Msg
	// Topic returns the bus subject this state's messages publish to.
	Topic(market domain.Market) string
	// Channel names the exchange subscription channel this state folds.
	Channel() string
}

// Publish is the free-function equivalent of Rust's State::publish default
// method — Go interfaces carry no method bodies, so every State
// implementation's Update/Get plugs into this instead of repeating the
// Get/Updated dispatch.
func Publish[Dto, Msg any](s State[Dto, Msg], ev Event[Dto]) (Msg, error) {
	switch ev.Kind {
	case EventGet:
		return s.Get(), nil
	default:
		return s.Update(ev.Dto)
	}
}
