package domain

// Tick is the per-symbol ticker state: best bid/ask price and size.
type Tick struct {
	Timestamp int64
	AskPrice  string
	AskSize   string
	BidPrice  string
	BidSize   string
}

// Trade is a single normalized transaction.
type Trade struct {
	Timestamp int64
	ID        string
	Rate      string
	Size      string
	Side      Side
}

// Offer is a single order book price level.
type Offer struct {
	Rate string
	Size string
}

// Book is the current top-of-book view: asks ascending by rate, bids
// descending by rate.
type Book struct {
	Asks      []Offer
	Bids      []Offer
	Timestamp int64
}

// TickerMessage is the normalized wire envelope for ticker updates.
type TickerMessage struct {
	Type     MessageType
	Sequence int64
	Exchange Exchange
	Tick     *Tick
}

// TradesMessage is the normalized wire envelope for trade batches.
type TradesMessage struct {
	Type     MessageType
	Sequence int64
	Exchange Exchange
	Trades   []Trade
}

// OrderBookMessage is the normalized wire envelope for order book state.
type OrderBookMessage struct {
	Type     MessageType
	Sequence int64
	Exchange Exchange
	Book     *Book
}

// MarketInfo is the normalized metadata for one tradable instrument.
type MarketInfo struct {
	Symbol           string
	PricePrecision   int32
	RatePrecision    int32
	SizePrecision    int32
	MinSize          string
	MaxSize          string
	MinPrice         string
	MaxPrice         string
	MarketType       MarketType
	ExpiryTimestamp  int64
	HasExpiry        bool
}

// MarketsMessage is the reply to a markets-metadata request.
type MarketsMessage struct {
	Timestamp int64
	Exchange  Exchange
	Markets   []MarketInfo
}

// MarketsRequest filters the markets-metadata reply.
type MarketsRequest struct {
	Symbols    []string
	MarketType MarketType
	HasType    bool
}
