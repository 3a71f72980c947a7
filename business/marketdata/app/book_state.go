package app

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/bus/topics"
)

// bookLevel pairs a price level's original rate with its resting size.
// Levels are keyed by rateKey rather than decimal.String(), because
// decimal.Decimal preserves the scale it was parsed with: "96448.0" and
// "96448.00" are Equal but have different String() forms, which would let
// the same rate occupy two map entries.
type bookLevel struct {
	rate decimal.Decimal
	size decimal.Decimal
}

// rateKey canonicalizes a decimal to its reduced rational form so that two
// decimal-equal rates at different scales collide to the same map key.
func rateKey(d decimal.Decimal) string {
	return d.Rat().RatString()
}

// BookState folds order book snapshots and incremental updates into
// OrderBookMessage. It keeps the accumulated book (asks ascending by rate,
// bids descending by rate) for snapshot requests, but the message it
// publishes on each update carries only the delta that arrived, matching
// the exchange's own update semantics. Grounded on
// public-cryptocom/src/book/state.rs.
type BookState struct {
	exchange   domain.Exchange
	asks       map[string]bookLevel
	bids       map[string]bookLevel
	sequence   int64
	lastUpdate decimal.Decimal
	timestamp  int64
}

// NewBookState creates a fresh BookState for the given exchange.
func NewBookState(exchange domain.Exchange) *BookState {
	return &BookState{
		exchange:   exchange,
		asks:       make(map[string]bookLevel),
		bids:       make(map[string]bookLevel),
		sequence:   -1,
		lastUpdate: sequenceSentinel,
	}
}

var _ State[domain.RawBookEvent, *domain.OrderBookMessage] = (*BookState)(nil)

// Update folds a snapshot or incremental event into state. A snapshot
// clears both sides of the book before applying its levels. Incremental
// events must continue from the last seen update id, unless this is the
// first event seen since construction (the sentinel lastUpdate of -1),
// which is treated as an implicit snapshot regardless of the IsSnapshot
// flag — see DESIGN.md for why this departs from the literal source guard.
func (s *BookState) Update(dto domain.RawBookEvent) (*domain.OrderBookMessage, error) {
	delta := &domain.Book{
		Asks:      offersFrom(dto.Asks),
		Bids:      offersFrom(dto.Bids),
		Timestamp: dto.Timestamp,
	}

	if dto.IsSnapshot {
		clear(s.asks)
		clear(s.bids)
		s.sequence = 0
		s.lastUpdate = dto.UpdateID
		s.timestamp = dto.Timestamp
		applyLevels(s.asks, dto.Asks)
		applyLevels(s.bids, dto.Bids)

		return &domain.OrderBookMessage{
			Type:     domain.MessageTypeSnapshot,
			Sequence: s.sequence,
			Exchange: s.exchange,
			Book:     delta,
		}, nil
	}

	if !s.lastUpdate.Equal(sequenceSentinel) && !s.lastUpdate.Equal(dto.PrevUpdateID) {
		return nil, apperror.New(apperror.CodeSequenceMissed,
			apperror.WithMessage("order book sequence id missed"))
	}

	s.sequence++
	s.timestamp = dto.Timestamp
	s.lastUpdate = dto.UpdateID
	applyLevels(s.asks, dto.Asks)
	applyLevels(s.bids, dto.Bids)

	msgType := domain.MessageTypeUpdate
	if s.sequence == 0 {
		msgType = domain.MessageTypeSnapshot
	}

	return &domain.OrderBookMessage{
		Type:     msgType,
		Sequence: s.sequence,
		Exchange: s.exchange,
		Book:     delta,
	}, nil
}

// Get returns the full accumulated book as a Snapshot message.
func (s *BookState) Get() *domain.OrderBookMessage {
	return &domain.OrderBookMessage{
		Type:     domain.MessageTypeSnapshot,
		Sequence: s.sequence,
		Exchange: s.exchange,
		Book:     s.book(),
	}
}

// Topic returns the order book stream subject for market.
func (s *BookState) Topic(market domain.Market) string {
	return topics.Stream(s.exchange, domain.EndpointBook, market)
}

// Channel names the exchange subscription channel this state folds.
func (s *BookState) Channel() string {
	return "book"
}

func (s *BookState) book() *domain.Book {
	return &domain.Book{
		Asks:      sortedOffers(s.asks, true),
		Bids:      sortedOffers(s.bids, false),
		Timestamp: s.timestamp,
	}
}

func applyLevels(levels map[string]bookLevel, offers []domain.RawOffer) {
	for _, o := range offers {
		key := rateKey(o.Rate)
		if o.Size.IsPositive() {
			levels[key] = bookLevel{rate: o.Rate, size: o.Size}
		} else {
			delete(levels, key)
		}
	}
}

func offersFrom(offers []domain.RawOffer) []domain.Offer {
	out := make([]domain.Offer, len(offers))
	for i, o := range offers {
		out[i] = domain.Offer{Rate: o.Rate.String(), Size: o.Size.String()}
	}
	return out
}

// sortedOffers renders levels ascending by rate if ascending, else
// descending — asks climb from the best ask, bids descend from the best
// bid.
func sortedOffers(levels map[string]bookLevel, ascending bool) []domain.Offer {
	sorted := make([]bookLevel, 0, len(levels))
	for _, lvl := range levels {
		sorted = append(sorted, lvl)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].rate.LessThan(sorted[j].rate)
		}
		return sorted[i].rate.GreaterThan(sorted[j].rate)
	})

	out := make([]domain.Offer, len(sorted))
	for i, lvl := range sorted {
		out[i] = domain.Offer{Rate: lvl.rate.String(), Size: lvl.size.String()}
	}
	return out
}
