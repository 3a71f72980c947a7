package app

import (
	"github.com/shopspring/decimal"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/bus/topics"
)

// tradeHistoryCap bounds the accumulated trade history a snapshot request
// returns. Grounded on trades/state.rs's SNAPSHOT_SIZE.
const tradeHistoryCap = 50

var sequenceSentinel = decimal.NewFromInt(-1)

// TradesState folds batches of RawTrade into TradesMessage. It keeps a
// bounded, newest-first history for snapshot requests, and enforces that
// each incoming batch's newest trade continues the venue's monotonic
// sequence counter. Grounded on public-cryptocom/src/trades/state.rs.
type TradesState struct {
	exchange domain.Exchange
	history  []domain.Trade
	lastID   decimal.Decimal
	sequence int64
}

// NewTradesState creates a fresh TradesState for the given exchange.
func NewTradesState(exchange domain.Exchange) *TradesState {
	return &TradesState{exchange: exchange, lastID: sequenceSentinel, sequence: -1}
}

var _ State[[]domain.RawTrade, *domain.TradesMessage] = (*TradesState)(nil)

// Update folds a batch of new trades into state. The batch's newest trade
// (index 0) must continue the last seen sequence id, unless this is the
// first batch ever seen.
func (s *TradesState) Update(trades []domain.RawTrade) (*domain.TradesMessage, error) {
	if len(trades) > 0 {
		newest := trades[0].SequenceID
		if err := s.checkSequence(newest); err != nil {
			return nil, err
		}
		s.lastID = newest
	}

	update := make([]domain.Trade, len(trades))
	for i, t := range trades {
		update[i] = domain.Trade{
			Timestamp: t.Timestamp,
			ID:        t.TradeID.String(),
			Rate:      t.Price.String(),
			Size:      t.Quantity.String(),
			Side:      t.Side,
		}
	}

	s.sequence++
	s.history = append(update, s.history...)
	if len(s.history) > tradeHistoryCap {
		s.history = s.history[:tradeHistoryCap]
	}

	msgType := domain.MessageTypeUpdate
	if s.sequence == 0 {
		msgType = domain.MessageTypeSnapshot
	}

	return &domain.TradesMessage{
		Type:     msgType,
		Sequence: s.sequence,
		Exchange: s.exchange,
		Trades:   update,
	}, nil
}

func (s *TradesState) checkSequence(id decimal.Decimal) error {
	if s.lastID.Equal(sequenceSentinel) || s.lastID.Add(decimal.NewFromInt(1)).Equal(id) {
		return nil
	}
	return apperror.New(apperror.CodeSequenceMissed,
		apperror.WithMessage("transaction sequence id missed"))
}

// Get returns the accumulated trade history as a Snapshot message.
func (s *TradesState) Get() *domain.TradesMessage {
	history := make([]domain.Trade, len(s.history))
	copy(history, s.history)
	return &domain.TradesMessage{
		Type:     domain.MessageTypeSnapshot,
		Sequence: s.sequence,
		Exchange: s.exchange,
		Trades:   history,
	}
}

// Topic returns the trades stream subject for market.
func (s *TradesState) Topic(market domain.Market) string {
	return topics.Stream(s.exchange, domain.EndpointTrades, market)
}

// Channel names the exchange subscription channel this state folds.
func (s *TradesState) Channel() string {
	return "trade"
}
