package domain

import "github.com/shopspring/decimal"

// RawTicker is a venue-decoded best bid/ask update, prior to normalization.
// Amounts are shopspring/decimal throughout: price/size math is never float.
type RawTicker struct {
	BidPrice decimal.Decimal
	BidSize  decimal.Decimal
	AskPrice decimal.Decimal
	AskSize  decimal.Decimal
	Timestamp int64
}

// RawTrade is a single venue-decoded transaction prior to normalization.
// SequenceID is the venue's monotonically increasing trade counter (`m` in
// the cryptocom feed), used to detect gaps; TradeID is the venue's public
// trade identifier (`d`), which is not guaranteed monotonic.
type RawTrade struct {
	Timestamp  int64
	TradeID    decimal.Decimal
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	Side       Side
	SequenceID decimal.Decimal
}

// RawOffer is a single venue-decoded order book price level.
type RawOffer struct {
	Rate decimal.Decimal
	Size decimal.Decimal
}

// RawBookEvent is a venue-decoded order book snapshot or incremental
// update. PrevUpdateID is only meaningful when IsSnapshot is false.
type RawBookEvent struct {
	IsSnapshot   bool
	Asks         []RawOffer
	Bids         []RawOffer
	Timestamp    int64
	UpdateID     decimal.Decimal
	PrevUpdateID decimal.Decimal
}
