// Package wire hand-encodes the connector's normalized messages as binary
// protobuf frames using protowire directly — no protoc/codegen pipeline,
// per the connector's explicit scope boundary, while still exercising the
// real google.golang.org/protobuf wire format. A frame is the bare encoded
// message: no outer length prefix is written, and the decoders expect none.
package wire

import (
	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers are fixed by this package; there is no .proto source of
// truth, so they're chosen once here and never renumbered across release.
const (
	fieldTickerType     = 1
	fieldTickerSequence = 2
	fieldTickerExchange = 3
	fieldTickerTick     = 4

	fieldTickTimestamp = 1
	fieldTickAskPrice  = 2
	fieldTickAskSize   = 3
	fieldTickBidPrice  = 4
	fieldTickBidSize   = 5

	fieldTradesType     = 1
	fieldTradesSequence = 2
	fieldTradesExchange = 3
	fieldTradesTrades   = 4

	fieldTradeTimestamp = 1
	fieldTradeID        = 2
	fieldTradeRate      = 3
	fieldTradeSize      = 4
	fieldTradeSide      = 5

	fieldBookMsgType     = 1
	fieldBookMsgSequence = 2
	fieldBookMsgExchange = 3
	fieldBookMsgBook     = 4

	fieldBookAsks      = 1
	fieldBookBids      = 2
	fieldBookTimestamp = 3

	fieldOfferRate = 1
	fieldOfferSize = 2

	fieldMarketsTimestamp = 1
	fieldMarketsExchange  = 2
	fieldMarketsMarkets   = 3

	fieldMarketSymbol          = 1
	fieldMarketPricePrecision  = 2
	fieldMarketRatePrecision   = 3
	fieldMarketSizePrecision   = 4
	fieldMarketMinSize         = 5
	fieldMarketMaxSize         = 6
	fieldMarketMinPrice        = 7
	fieldMarketMaxPrice        = 8
	fieldMarketType            = 9
	fieldMarketExpiryTimestamp = 10

	fieldMarketsReqSymbols    = 1
	fieldMarketsReqMarketType = 2

	fieldErrorCode            = 1
	fieldErrorMessage         = 2
	fieldErrorTimestampMs     = 3
	fieldErrorExchangeMessage = 4
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// EncodeTick encodes a Tick as a standalone submessage.
func EncodeTick(t *domain.Tick) []byte {
	var b []byte
	b = appendVarint(b, fieldTickTimestamp, uint64(t.Timestamp))
	b = appendString(b, fieldTickAskPrice, t.AskPrice)
	b = appendString(b, fieldTickAskSize, t.AskSize)
	b = appendString(b, fieldTickBidPrice, t.BidPrice)
	b = appendString(b, fieldTickBidSize, t.BidSize)
	return b
}

// DecodeTick decodes a Tick submessage.
func DecodeTick(b []byte) (*domain.Tick, error) {
	t := &domain.Tick{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldTickTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			t.Timestamp = int64(v)
			b = b[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldTickAskPrice:
				t.AskPrice = string(v)
			case fieldTickAskSize:
				t.AskSize = string(v)
			case fieldTickBidPrice:
				t.BidPrice = string(v)
			case fieldTickBidSize:
				t.BidSize = string(v)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return t, nil
}

// EncodeTickerMessage encodes a TickerMessage frame.
func EncodeTickerMessage(m *domain.TickerMessage) []byte {
	var b []byte
	b = appendVarint(b, fieldTickerType, uint64(m.Type))
	b = appendVarint(b, fieldTickerSequence, uint64(m.Sequence))
	b = appendVarint(b, fieldTickerExchange, uint64(m.Exchange))
	if m.Tick != nil {
		b = appendMessage(b, fieldTickerTick, EncodeTick(m.Tick))
	}
	return b
}

// DecodeTickerMessage decodes a TickerMessage frame.
func DecodeTickerMessage(b []byte) (*domain.TickerMessage, error) {
	m := &domain.TickerMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldTickerType:
				m.Type = domain.MessageType(v)
			case fieldTickerSequence:
				m.Sequence = int64(v)
			case fieldTickerExchange:
				m.Exchange = domain.Exchange(v)
			}
			b = b[n:]
		case num == fieldTickerTick && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			tick, err := DecodeTick(v)
			if err != nil {
				return nil, err
			}
			m.Tick = tick
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}

// EncodeTrade encodes a Trade as a standalone submessage.
func EncodeTrade(t *domain.Trade) []byte {
	var b []byte
	b = appendVarint(b, fieldTradeTimestamp, uint64(t.Timestamp))
	b = appendString(b, fieldTradeID, t.ID)
	b = appendString(b, fieldTradeRate, t.Rate)
	b = appendString(b, fieldTradeSize, t.Size)
	b = appendVarint(b, fieldTradeSide, uint64(t.Side))
	return b
}

// DecodeTrade decodes a Trade submessage.
func DecodeTrade(b []byte) (domain.Trade, error) {
	var t domain.Trade
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return t, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return t, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldTradeTimestamp:
				t.Timestamp = int64(v)
			case fieldTradeSide:
				t.Side = domain.Side(v)
			}
			b = b[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return t, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldTradeID:
				t.ID = string(v)
			case fieldTradeRate:
				t.Rate = string(v)
			case fieldTradeSize:
				t.Size = string(v)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return t, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return t, nil
}

// EncodeTradesMessage encodes a TradesMessage frame.
func EncodeTradesMessage(m *domain.TradesMessage) []byte {
	var b []byte
	b = appendVarint(b, fieldTradesType, uint64(m.Type))
	b = appendVarint(b, fieldTradesSequence, uint64(m.Sequence))
	b = appendVarint(b, fieldTradesExchange, uint64(m.Exchange))
	for i := range m.Trades {
		b = appendMessage(b, fieldTradesTrades, EncodeTrade(&m.Trades[i]))
	}
	return b
}

// DecodeTradesMessage decodes a TradesMessage frame.
func DecodeTradesMessage(b []byte) (*domain.TradesMessage, error) {
	m := &domain.TradesMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldTradesType:
				m.Type = domain.MessageType(v)
			case fieldTradesSequence:
				m.Sequence = int64(v)
			case fieldTradesExchange:
				m.Exchange = domain.Exchange(v)
			}
			b = b[n:]
		case num == fieldTradesTrades && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			trade, err := DecodeTrade(v)
			if err != nil {
				return nil, err
			}
			m.Trades = append(m.Trades, trade)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}

// EncodeOffer encodes an Offer as a standalone submessage.
func EncodeOffer(o *domain.Offer) []byte {
	var b []byte
	b = appendString(b, fieldOfferRate, o.Rate)
	b = appendString(b, fieldOfferSize, o.Size)
	return b
}

// DecodeOffer decodes an Offer submessage.
func DecodeOffer(b []byte) (domain.Offer, error) {
	var o domain.Offer
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return o, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return o, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return o, decodeErr(protowire.ParseError(n))
		}
		switch num {
		case fieldOfferRate:
			o.Rate = string(v)
		case fieldOfferSize:
			o.Size = string(v)
		}
		b = b[n:]
	}
	return o, nil
}

// EncodeBook encodes a Book as a standalone submessage.
func EncodeBook(book *domain.Book) []byte {
	var b []byte
	for i := range book.Asks {
		b = appendMessage(b, fieldBookAsks, EncodeOffer(&book.Asks[i]))
	}
	for i := range book.Bids {
		b = appendMessage(b, fieldBookBids, EncodeOffer(&book.Bids[i]))
	}
	b = appendVarint(b, fieldBookTimestamp, uint64(book.Timestamp))
	return b
}

// DecodeBook decodes a Book submessage.
func DecodeBook(b []byte) (*domain.Book, error) {
	book := &domain.Book{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldBookTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			book.Timestamp = int64(v)
			b = b[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldBookAsks:
				offer, err := DecodeOffer(v)
				if err != nil {
					return nil, err
				}
				book.Asks = append(book.Asks, offer)
			case fieldBookBids:
				offer, err := DecodeOffer(v)
				if err != nil {
					return nil, err
				}
				book.Bids = append(book.Bids, offer)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return book, nil
}

// EncodeOrderBookMessage encodes an OrderBookMessage frame.
func EncodeOrderBookMessage(m *domain.OrderBookMessage) []byte {
	var b []byte
	b = appendVarint(b, fieldBookMsgType, uint64(m.Type))
	b = appendVarint(b, fieldBookMsgSequence, uint64(m.Sequence))
	b = appendVarint(b, fieldBookMsgExchange, uint64(m.Exchange))
	if m.Book != nil {
		b = appendMessage(b, fieldBookMsgBook, EncodeBook(m.Book))
	}
	return b
}

// DecodeOrderBookMessage decodes an OrderBookMessage frame.
func DecodeOrderBookMessage(b []byte) (*domain.OrderBookMessage, error) {
	m := &domain.OrderBookMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldBookMsgType:
				m.Type = domain.MessageType(v)
			case fieldBookMsgSequence:
				m.Sequence = int64(v)
			case fieldBookMsgExchange:
				m.Exchange = domain.Exchange(v)
			}
			b = b[n:]
		case num == fieldBookMsgBook && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			book, err := DecodeBook(v)
			if err != nil {
				return nil, err
			}
			m.Book = book
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}

// EncodeMarket encodes a MarketInfo as a standalone submessage.
func EncodeMarket(mk *domain.MarketInfo) []byte {
	var b []byte
	b = appendString(b, fieldMarketSymbol, mk.Symbol)
	b = appendVarint(b, fieldMarketPricePrecision, uint64(int64(mk.PricePrecision)))
	b = appendVarint(b, fieldMarketRatePrecision, uint64(int64(mk.RatePrecision)))
	b = appendVarint(b, fieldMarketSizePrecision, uint64(int64(mk.SizePrecision)))
	b = appendString(b, fieldMarketMinSize, mk.MinSize)
	b = appendString(b, fieldMarketMaxSize, mk.MaxSize)
	b = appendString(b, fieldMarketMinPrice, mk.MinPrice)
	b = appendString(b, fieldMarketMaxPrice, mk.MaxPrice)
	b = appendVarint(b, fieldMarketType, uint64(mk.MarketType))
	if mk.HasExpiry {
		b = appendVarint(b, fieldMarketExpiryTimestamp, uint64(mk.ExpiryTimestamp))
	}
	return b
}

// DecodeMarket decodes a MarketInfo submessage.
func DecodeMarket(b []byte) (domain.MarketInfo, error) {
	var mk domain.MarketInfo
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return mk, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return mk, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldMarketPricePrecision:
				mk.PricePrecision = int32(v)
			case fieldMarketRatePrecision:
				mk.RatePrecision = int32(v)
			case fieldMarketSizePrecision:
				mk.SizePrecision = int32(v)
			case fieldMarketType:
				mk.MarketType = domain.MarketType(v)
			case fieldMarketExpiryTimestamp:
				mk.ExpiryTimestamp = int64(v)
				mk.HasExpiry = true
			}
			b = b[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return mk, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldMarketSymbol:
				mk.Symbol = string(v)
			case fieldMarketMinSize:
				mk.MinSize = string(v)
			case fieldMarketMaxSize:
				mk.MaxSize = string(v)
			case fieldMarketMinPrice:
				mk.MinPrice = string(v)
			case fieldMarketMaxPrice:
				mk.MaxPrice = string(v)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return mk, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return mk, nil
}

// EncodeMarketsMessage encodes a MarketsMessage frame.
func EncodeMarketsMessage(m *domain.MarketsMessage) []byte {
	var b []byte
	b = appendVarint(b, fieldMarketsTimestamp, uint64(m.Timestamp))
	b = appendVarint(b, fieldMarketsExchange, uint64(m.Exchange))
	for i := range m.Markets {
		b = appendMessage(b, fieldMarketsMarkets, EncodeMarket(&m.Markets[i]))
	}
	return b
}

// DecodeMarketsMessage decodes a MarketsMessage frame.
func DecodeMarketsMessage(b []byte) (*domain.MarketsMessage, error) {
	m := &domain.MarketsMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldMarketsTimestamp:
				m.Timestamp = int64(v)
			case fieldMarketsExchange:
				m.Exchange = domain.Exchange(v)
			}
			b = b[n:]
		case num == fieldMarketsMarkets && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			mk, err := DecodeMarket(v)
			if err != nil {
				return nil, err
			}
			m.Markets = append(m.Markets, mk)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}

// EncodeMarketsRequest encodes a MarketsRequest frame.
func EncodeMarketsRequest(r *domain.MarketsRequest) []byte {
	var b []byte
	for _, s := range r.Symbols {
		b = appendString(b, fieldMarketsReqSymbols, s)
	}
	if r.HasType {
		b = appendVarint(b, fieldMarketsReqMarketType, uint64(r.MarketType))
	}
	return b
}

// DecodeMarketsRequest decodes a MarketsRequest frame.
func DecodeMarketsRequest(b []byte) (*domain.MarketsRequest, error) {
	r := &domain.MarketsRequest{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldMarketsReqSymbols && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			r.Symbols = append(r.Symbols, string(v))
			b = b[n:]
		case num == fieldMarketsReqMarketType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			r.MarketType = domain.MarketType(v)
			r.HasType = true
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return r, nil
}

// EncodeErrorMessage encodes an ErrorMessage frame.
func EncodeErrorMessage(m *domain.ErrorMessage) []byte {
	var b []byte
	b = appendString(b, fieldErrorCode, m.Code)
	b = appendString(b, fieldErrorMessage, m.Message)
	b = appendVarint(b, fieldErrorTimestampMs, uint64(m.TimestampMs))
	if m.HasExchangeMsg {
		b = appendString(b, fieldErrorExchangeMessage, m.ExchangeMessage)
	}
	return b
}

// DecodeErrorMessage decodes an ErrorMessage frame.
func DecodeErrorMessage(b []byte) (*domain.ErrorMessage, error) {
	m := &domain.ErrorMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldErrorTimestampMs && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			m.TimestampMs = int64(v)
			b = b[n:]
		case typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			switch num {
			case fieldErrorCode:
				m.Code = string(v)
			case fieldErrorMessage:
				m.Message = string(v)
			case fieldErrorExchangeMessage:
				m.ExchangeMessage = string(v)
				m.HasExchangeMsg = true
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}

func decodeErr(cause error) error {
	return apperror.New(apperror.CodeDecode, apperror.WithCause(cause))
}
