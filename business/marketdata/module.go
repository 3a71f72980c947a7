// Package marketdata implements the marketdata bounded context: stream a
// venue's public WebSocket feed, fold it into normalized per-market state,
// and republish over the bus, answering markets-metadata and per-channel
// snapshot requests along the way.
package marketdata

import (
	"context"
	"time"

	"github.com/marketfeed/connector/business/marketdata/app"
	marketdataDI "github.com/marketfeed/connector/business/marketdata/di"
	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/business/marketdata/infra/exchange"
	"github.com/marketfeed/connector/business/marketdata/infra/rest"
	"github.com/marketfeed/connector/internal/bus"
	"github.com/marketfeed/connector/internal/bus/topics"
	"github.com/marketfeed/connector/internal/config"
	"github.com/marketfeed/connector/internal/di"
	"github.com/marketfeed/connector/internal/logger"
	"github.com/marketfeed/connector/internal/monolith"
	"github.com/marketfeed/connector/internal/wire"

	"github.com/nats-io/nats.go"
)

const sessionToken = "marketdata.Session"

// Module implements the marketdata bounded context.
type Module struct{}

// RegisterServices registers the bus client, the exchange session and the
// markets request handler with the DI container. The per-channel handlers
// are built in Startup.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, marketdataDI.BusClient, func(sr di.ServiceRegistry) *bus.Client {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := bus.Connect(bus.Config{
			Host:          cfg.Bus.Host,
			Port:          cfg.Bus.Port,
			MaxReconnects: cfg.Bus.MaxReconnects,
		}, log)
		if err != nil {
			panic("failed to connect to bus: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, sessionToken, func(sr di.ServiceRegistry) *exchange.CryptocomSession {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		session, err := exchange.NewCryptocomSession(cfg.Exchange.WSURL, cfg.Exchange.MaxBufferSize, log)
		if err != nil {
			panic("failed to build exchange session: " + err.Error())
		}
		return session
	})

	di.RegisterToken(c, marketdataDI.MarketsHandler, func(sr di.ServiceRegistry) *app.RequestHandler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		busClient := marketdataDI.GetBusClient(sr)

		fetcher, err := rest.NewCryptocomMarkets(cfg.Exchange.MarketsURL, cfg.Exchange.RequestsPerMin, log)
		if err != nil {
			panic("failed to build markets client: " + err.Error())
		}

		return app.NewRequestHandler(fetcher, busClient, domain.ExchangeCryptocom,
			cfg.Exchange.MaxConcurrency, log, func() int64 { return time.Now().UnixMilli() })
	})

	return nil
}

// Startup dials the exchange session, starts every channel worker, and wires
// the bus subscriptions that feed them.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()
	sr := mono.Services()

	busClient := marketdataDI.GetBusClient(sr)
	session := di.Resolve[*exchange.CryptocomSession](sr, sessionToken)
	market := domain.NewMarket(cfg.Exchange.Markets.From, cfg.Exchange.Markets.To)

	go func() {
		if err := session.Run(ctx); err != nil && ctx.Err() == nil {
			log.Warn(ctx, "exchange session stopped", "error", err)
		}
	}()

	tickerHandler := app.NewHandler[domain.RawTicker, *domain.TickerMessage](
		busClient, session, func() app.State[domain.RawTicker, *domain.TickerMessage] {
			return app.NewTickerState(domain.ExchangeCryptocom)
		}, wire.EncodeTickerMessage, log, cfg.Exchange.MaxBufferSize)

	tradesHandler := app.NewHandler[[]domain.RawTrade, *domain.TradesMessage](
		busClient, session, func() app.State[[]domain.RawTrade, *domain.TradesMessage] {
			return app.NewTradesState(domain.ExchangeCryptocom)
		}, wire.EncodeTradesMessage, log, cfg.Exchange.MaxBufferSize)

	bookHandler := app.NewHandler[domain.RawBookEvent, *domain.OrderBookMessage](
		busClient, session, func() app.State[domain.RawBookEvent, *domain.OrderBookMessage] {
			return app.NewBookState(domain.ExchangeCryptocom)
		}, wire.EncodeOrderBookMessage, log, cfg.Exchange.MaxBufferSize)

	go fanTicker(ctx, session, tickerHandler)
	go fanTrades(ctx, session, tradesHandler)
	go fanBook(ctx, session, bookHandler)
	go fanShutdown(ctx, session, tickerHandler, tradesHandler, bookHandler)

	if err := subscribeSnapshot(busClient, domain.EndpointTicker, market,
		func() { tickerHandler.Dispatch(ctx, app.NewGetEvent[domain.RawTicker](market)) }, log); err != nil {
		return err
	}
	if err := subscribeSnapshot(busClient, domain.EndpointTrades, market,
		func() { tradesHandler.Dispatch(ctx, app.NewGetEvent[[]domain.RawTrade](market)) }, log); err != nil {
		return err
	}
	if err := subscribeSnapshot(busClient, domain.EndpointBook, market,
		func() { bookHandler.Dispatch(ctx, app.NewGetEvent[domain.RawBookEvent](market)) }, log); err != nil {
		return err
	}

	requestHandler := di.Resolve[*app.RequestHandler](sr, marketdataDI.MarketsHandler)
	if _, err := busClient.QueueSubscribe(topics.Request(domain.ExchangeCryptocom), "cryptocom.markets",
		func(msg *nats.Msg) { requestHandler.HandleRequest(ctx, msg) }); err != nil {
		return err
	}

	log.Info(ctx, "marketdata module started", "market", market.NatsFormat())
	return nil
}

// fanTicker dispatches only the first tick of each frame, matching
// ticker/stream.rs's result.data.first() — the venue sends at most one
// meaningful update per frame and treating the rest as distinct updates
// would advance the sequence counter more than once per tick.
func fanTicker(ctx context.Context, session *exchange.CryptocomSession, h *app.Handler[domain.RawTicker, *domain.TickerMessage]) {
	for {
		select {
		case result, ok := <-session.SubscribeTicker():
			if !ok {
				return
			}
			if len(result.Data) == 0 {
				continue
			}
			h.Dispatch(ctx, app.NewUpdatedEvent(result.Market, result.Data[0]))
		case <-ctx.Done():
			return
		}
	}
}

func fanTrades(ctx context.Context, session *exchange.CryptocomSession, h *app.Handler[[]domain.RawTrade, *domain.TradesMessage]) {
	for {
		select {
		case result, ok := <-session.SubscribeTrades():
			if !ok {
				return
			}
			if len(result.Data) == 0 {
				continue
			}
			h.Dispatch(ctx, app.NewUpdatedEvent(result.Market, result.Data))
		case <-ctx.Done():
			return
		}
	}
}

func fanBook(ctx context.Context, session *exchange.CryptocomSession, h *app.Handler[domain.RawBookEvent, *domain.OrderBookMessage]) {
	for {
		select {
		case result, ok := <-session.SubscribeBook():
			if !ok {
				return
			}
			for _, ev := range result.Data {
				h.Dispatch(ctx, app.NewUpdatedEvent(result.Market, ev))
			}
		case <-ctx.Done():
			return
		}
	}
}

func fanShutdown(ctx context.Context, session *exchange.CryptocomSession, handlers ...interface{ Shutdown() }) {
	select {
	case <-session.SubscribeShutdown():
		for _, h := range handlers {
			h.Shutdown()
		}
	case <-ctx.Done():
	}
}

// subscribeSnapshot wires a channel's "request a snapshot" subject: any
// message received there (payload ignored — this instance serves exactly
// one configured market) triggers the dispatch closure.
func subscribeSnapshot(busClient *bus.Client, endpoint domain.Endpoint, market domain.Market,
	dispatch func(), log logger.LoggerInterface) error {
	subject := topics.Snapshot(topics.Stream(domain.ExchangeCryptocom, endpoint, market))
	queue := "cryptocom." + endpoint.String()
	_, err := busClient.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		log.Debug(context.Background(), "snapshot requested", "subject", subject)
		dispatch()
	})
	return err
}
