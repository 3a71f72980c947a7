package app

import (
	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/bus/topics"
)

// TickerState folds RawTicker updates into TickerMessage, latest-wins, with
// no continuity check: every update simply replaces the prior tick.
// Grounded on public-cryptocom/src/ticker/state.rs.
type TickerState struct {
	exchange domain.Exchange
	tick     domain.Tick
	sequence int64
}

// NewTickerState creates a fresh TickerState for the given exchange, with
// sequence starting at the pre-first-update sentinel.
func NewTickerState(exchange domain.Exchange) *TickerState {
	return &TickerState{exchange: exchange, sequence: -1}
}

var _ State[domain.RawTicker, *domain.TickerMessage] = (*TickerState)(nil)

// Update folds dto into state. The first update emits a Snapshot, every
// subsequent one an Update.
func (s *TickerState) Update(dto domain.RawTicker) (*domain.TickerMessage, error) {
	s.sequence++
	s.tick = domain.Tick{
		Timestamp: dto.Timestamp,
		AskPrice:  dto.AskPrice.String(),
		AskSize:   dto.AskSize.String(),
		BidPrice:  dto.BidPrice.String(),
		BidSize:   dto.BidSize.String(),
	}

	msgType := domain.MessageTypeUpdate
	if s.sequence == 0 {
		msgType = domain.MessageTypeSnapshot
	}

	tick := s.tick
	return &domain.TickerMessage{
		Type:     msgType,
		Sequence: s.sequence,
		Exchange: s.exchange,
		Tick:     &tick,
	}, nil
}

// Get returns the current tick as a Snapshot message.
func (s *TickerState) Get() *domain.TickerMessage {
	tick := s.tick
	return &domain.TickerMessage{
		Type:     domain.MessageTypeSnapshot,
		Sequence: s.sequence,
		Exchange: s.exchange,
		Tick:     &tick,
	}
}

// Topic returns the ticker stream subject for market.
func (s *TickerState) Topic(market domain.Market) string {
	return topics.Stream(s.exchange, domain.EndpointTicker, market)
}

// Channel names the exchange subscription channel this state folds.
func (s *TickerState) Channel() string {
	return "ticker"
}
