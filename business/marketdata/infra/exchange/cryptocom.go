// Package exchange adapts a venue's WebSocket feed to the connector's
// per-channel broadcast streams. It reuses internal/wsconn for the
// connection lifecycle (dial, backoff, reconnect, ping) and layers the
// venue's wire format and subscribe/unsubscribe requests on top, grounded
// on public-cryptocom/src/client/{ws_client,request,response}.rs.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/broadcast"
	"github.com/marketfeed/connector/internal/logger"
	"github.com/marketfeed/connector/internal/wsconn"
)

// WsResult pairs a market with a batch of venue-decoded updates for it,
// mirroring ws_client.rs's WsResult<T>.
type WsResult[T any] struct {
	Market domain.Market
	Data   []T
}

const (
	channelTicker = "ticker"
	channelTrade  = "trade"
	channelBook   = "book"

	methodHeartbeat          = "public/heartbeat"
	methodRespondHeartbeat   = "public/respond-heartbeat"
	methodSubscribe          = "subscribe"
	methodUnsubscribe        = "unsubscribe"
	bookSubscriptionSnapshot = "SNAPSHOT_AND_UPDATE"
	bookDepthSuffix          = ".10"
)

// CryptocomSession streams crypto.com's public market data feed and fans
// out normalized per-channel updates.
type CryptocomSession struct {
	ws  *wsconn.Client
	log logger.LoggerInterface

	tickers  *broadcast.Broadcaster[WsResult[domain.RawTicker]]
	trades   *broadcast.Broadcaster[WsResult[domain.RawTrade]]
	books    *broadcast.Broadcaster[WsResult[domain.RawBookEvent]]
	shutdown *broadcast.Broadcaster[struct{}]
}

// NewCryptocomSession builds a session that will dial wsURL once Run is
// called.
func NewCryptocomSession(wsURL string, bufferSize int, log logger.LoggerInterface) (*CryptocomSession, error) {
	cfg := wsconn.DefaultConfig(wsURL, "cryptocom")
	cfg.BufferSize = bufferSize

	client, err := wsconn.New(cfg)
	if err != nil {
		return nil, apperror.New(apperror.CodeFatalInit,
			apperror.WithMessage("cannot build cryptocom session"), apperror.WithCause(err))
	}

	s := &CryptocomSession{
		ws:       client,
		log:      log,
		tickers:  broadcast.New[WsResult[domain.RawTicker]](bufferSize),
		trades:   broadcast.New[WsResult[domain.RawTrade]](bufferSize),
		books:    broadcast.New[WsResult[domain.RawBookEvent]](bufferSize),
		shutdown: broadcast.New[struct{}](1),
	}

	s.tickers.OnDrop(func(i int) { log.Warn(context.Background(), "dropped ticker update", "subscriber", i) })
	s.trades.OnDrop(func(i int) { log.Warn(context.Background(), "dropped trade update", "subscriber", i) })
	s.books.OnDrop(func(i int) { log.Warn(context.Background(), "dropped book update", "subscriber", i) })

	client.OnMessage(func(ctx context.Context, msg []byte) { s.handleMessage(ctx, msg) })
	client.OnStateChange(func(state wsconn.State, err error) {
		if state == wsconn.StateClosed {
			s.shutdown.Send(struct{}{})
		}
	})

	return s, nil
}

// Run dials the feed, retrying with backoff until the first connection
// succeeds or ctx is cancelled. Later connection drops are redialled in the
// background by internal/wsconn.
func (s *CryptocomSession) Run(ctx context.Context) error {
	return s.ws.ConnectWithRetry(ctx)
}

// Close tears down the underlying connection.
func (s *CryptocomSession) Close() error {
	return s.ws.Close()
}

// SubscribeTicker returns a live channel of ticker updates across all
// subscribed markets.
func (s *CryptocomSession) SubscribeTicker() <-chan WsResult[domain.RawTicker] { return s.tickers.Subscribe() }

// SubscribeTrades returns a live channel of trade batches.
func (s *CryptocomSession) SubscribeTrades() <-chan WsResult[domain.RawTrade] { return s.trades.Subscribe() }

// SubscribeBook returns a live channel of order book events.
func (s *CryptocomSession) SubscribeBook() <-chan WsResult[domain.RawBookEvent] { return s.books.Subscribe() }

// SubscribeShutdown returns a channel that fires when the underlying
// connection is closed through Close. A dropped connection is redialled by
// internal/wsconn (with no reconnect limit by default) and does not fire it.
func (s *CryptocomSession) SubscribeShutdown() <-chan struct{} { return s.shutdown.Subscribe() }

// Subscribe sends a subscribe request for (market, channel), implementing
// app.Subscriber.
func (s *CryptocomSession) Subscribe(market domain.Market, channel string) {
	s.send(market, channel, methodSubscribe)
}

// Unsubscribe sends an unsubscribe request for (market, channel).
func (s *CryptocomSession) Unsubscribe(market domain.Market, channel string) {
	s.send(market, channel, methodUnsubscribe)
}

func (s *CryptocomSession) send(market domain.Market, channel, method string) {
	req := newExchangeRequest(market, channel, method)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ws.SendJSON(ctx, req); err != nil {
		s.log.Warn(ctx, "cannot send exchange request", "method", method, "channel", channel, "error", err)
	}
}

type exchangeRequest struct {
	ID     *int64             `json:"id,omitempty"`
	Method string             `json:"method"`
	Params *exchangeReqParams `json:"params,omitempty"`
	Nonce  int64              `json:"nonce"`
}

type exchangeReqParams struct {
	Channels             []string `json:"channels"`
	BookSubscriptionType *string  `json:"book_subscription_type,omitempty"`
}

func newExchangeRequest(market domain.Market, channel, method string) exchangeRequest {
	name := channel + "." + market.CryptocomExchangeFormat()
	params := &exchangeReqParams{Channels: []string{name}}
	if channel == channelBook {
		subType := bookSubscriptionSnapshot
		params.Channels = []string{name + bookDepthSuffix}
		params.BookSubscriptionType = &subType
	}
	return exchangeRequest{Method: method, Params: params, Nonce: time.Now().UnixMilli()}
}

func heartbeatResponse(id int64) exchangeRequest {
	return exchangeRequest{ID: &id, Method: methodRespondHeartbeat, Nonce: time.Now().UnixMilli()}
}

type inboundEnvelope struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
}

type wsResultEnvelope struct {
	InstrumentName string          `json:"instrument_name"`
	Channel        string          `json:"channel"`
	Data           json.RawMessage `json:"data"`
}

func (s *CryptocomSession) handleMessage(ctx context.Context, msg []byte) {
	var env inboundEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		s.log.Warn(ctx, "cannot decode exchange message", "error", err)
		return
	}

	switch env.Method {
	case methodHeartbeat:
		if err := s.ws.SendJSON(ctx, heartbeatResponse(env.ID)); err != nil {
			s.log.Warn(ctx, "cannot respond to heartbeat", "error", err)
		}
	case methodSubscribe:
		s.handleSubscribeResult(ctx, env.Result)
	case methodUnsubscribe:
		// acknowledged, nothing to fold
	default:
		s.log.Warn(ctx, "unrecognized exchange message", "method", env.Method)
	}
}

func (s *CryptocomSession) handleSubscribeResult(ctx context.Context, raw json.RawMessage) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}

	var result wsResultEnvelope
	if err := json.Unmarshal(raw, &result); err != nil {
		s.log.Warn(ctx, "cannot decode subscribe result", "error", err)
		return
	}

	market, err := domain.ParseCryptocomExchangeFormat(result.InstrumentName)
	if err != nil {
		s.log.Warn(ctx, "cannot parse instrument name", "instrument", result.InstrumentName, "error", err)
		return
	}

	switch result.Channel {
	case channelTicker:
		var wires []tickerWire
		if err := json.Unmarshal(result.Data, &wires); err != nil {
			s.log.Warn(ctx, "cannot decode ticker payload", "error", err)
			return
		}
		data := make([]domain.RawTicker, len(wires))
		for i, w := range wires {
			data[i] = w.toDomain()
		}
		s.tickers.Send(WsResult[domain.RawTicker]{Market: market, Data: data})
	case channelTrade:
		var wires []tradeWire
		if err := json.Unmarshal(result.Data, &wires); err != nil {
			s.log.Warn(ctx, "cannot decode trade payload", "error", err)
			return
		}
		data := make([]domain.RawTrade, len(wires))
		for i, w := range wires {
			data[i] = w.toDomain()
		}
		s.trades.Send(WsResult[domain.RawTrade]{Market: market, Data: data})
	case channelBook, "book.update":
		var wires []bookWire
		if err := json.Unmarshal(result.Data, &wires); err != nil {
			s.log.Warn(ctx, "cannot decode book payload", "error", err)
			return
		}
		data := make([]domain.RawBookEvent, len(wires))
		for i, w := range wires {
			data[i] = w.toDomain()
		}
		s.books.Send(WsResult[domain.RawBookEvent]{Market: market, Data: data})
	default:
		s.log.Warn(ctx, "unrecognized subscribe channel", "channel", result.Channel)
	}
}

type tickerWire struct {
	BidPrice decimal.Decimal `json:"b"`
	BidSize  decimal.Decimal `json:"bs"`
	AskPrice decimal.Decimal `json:"k"`
	AskSize  decimal.Decimal `json:"ks"`
	Instr    string          `json:"i"`
	Time     int64           `json:"t"`
}

func (w tickerWire) toDomain() domain.RawTicker {
	return domain.RawTicker{
		BidPrice:  w.BidPrice,
		BidSize:   w.BidSize,
		AskPrice:  w.AskPrice,
		AskSize:   w.AskSize,
		Timestamp: w.Time,
	}
}

type tradeWire struct {
	TradeID  decimal.Decimal `json:"d"`
	Price    decimal.Decimal `json:"p"`
	Quantity decimal.Decimal `json:"q"`
	Side     string          `json:"s"`
	Time     int64           `json:"t"`
	Sequence decimal.Decimal `json:"m"`
}

func (w tradeWire) toDomain() domain.RawTrade {
	side := domain.SideBuy
	if w.Side == "SELL" {
		side = domain.SideSell
	}
	return domain.RawTrade{
		Timestamp:  w.Time,
		TradeID:    w.TradeID,
		Price:      w.Price,
		Quantity:   w.Quantity,
		Side:       side,
		SequenceID: w.Sequence,
	}
}

type pairWire struct {
	Rate decimal.Decimal
	Size decimal.Decimal
}

func (p *pairWire) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) < 2 {
		return fmt.Errorf("expected [rate, size, ...], got %d elements", len(arr))
	}
	rate, err := decimal.NewFromString(arr[0])
	if err != nil {
		return err
	}
	size, err := decimal.NewFromString(arr[1])
	if err != nil {
		return err
	}
	p.Rate, p.Size = rate, size
	return nil
}

type bookUpdateWire struct {
	Asks []pairWire `json:"asks"`
	Bids []pairWire `json:"bids"`
}

type bookWire struct {
	Asks         []pairWire       `json:"asks,omitempty"`
	Bids         []pairWire       `json:"bids,omitempty"`
	Update       *bookUpdateWire  `json:"update,omitempty"`
	Time         int64            `json:"t"`
	UpdateID     decimal.Decimal  `json:"u"`
	PrevUpdateID *decimal.Decimal `json:"pu,omitempty"`
}

func (w bookWire) toDomain() domain.RawBookEvent {
	ev := domain.RawBookEvent{Timestamp: w.Time, UpdateID: w.UpdateID}
	if w.Update == nil {
		ev.IsSnapshot = true
		ev.Asks = offersFromWire(w.Asks)
		ev.Bids = offersFromWire(w.Bids)
		return ev
	}
	ev.Asks = offersFromWire(w.Update.Asks)
	ev.Bids = offersFromWire(w.Update.Bids)
	if w.PrevUpdateID != nil {
		ev.PrevUpdateID = *w.PrevUpdateID
	}
	return ev
}

func offersFromWire(pairs []pairWire) []domain.RawOffer {
	out := make([]domain.RawOffer, len(pairs))
	for i, p := range pairs {
		out[i] = domain.RawOffer{Rate: p.Rate, Size: p.Size}
	}
	return out
}
