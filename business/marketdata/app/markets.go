package app

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/bus"
	"github.com/marketfeed/connector/internal/logger"
	"github.com/marketfeed/connector/internal/semaphore"
	"github.com/marketfeed/connector/internal/wire"
)

// InstrumentFetcher calls out to the venue's REST API for the current
// instrument list. Implementations wrap circuit-breaking and pacing.
type InstrumentFetcher interface {
	FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error)
}

// RequestHandler answers markets-metadata requests received over the bus,
// bounding how many REST calls can be in flight at once. Grounded on
// public-cryptocom/src/markets/handler.rs.
type RequestHandler struct {
	fetcher  InstrumentFetcher
	bus      *bus.Client
	exchange domain.Exchange
	sem      *semaphore.Semaphore
	log      logger.LoggerInterface
	now      func() int64
}

// NewRequestHandler creates a RequestHandler bounded to maxConcurrency
// in-flight requests.
func NewRequestHandler(
	fetcher InstrumentFetcher,
	busClient *bus.Client,
	exchange domain.Exchange,
	maxConcurrency int,
	log logger.LoggerInterface,
	now func() int64,
) *RequestHandler {
	return &RequestHandler{
		fetcher:  fetcher,
		bus:      busClient,
		exchange: exchange,
		sem:      semaphore.New(maxConcurrency),
		log:      log,
		now:      now,
	}
}

// HandleRequest is the nats.go subscription callback: it decodes the
// request, bounds concurrent processing with the semaphore, and always
// replies on msg.Reply — with an ErrorMessage payload when anything fails.
func (h *RequestHandler) HandleRequest(ctx context.Context, msg *nats.Msg) {
	if msg.Reply == "" {
		h.log.Warn(ctx, "markets request missing reply subject")
		return
	}

	request, err := wire.DecodeMarketsRequest(msg.Data)
	if err != nil {
		h.log.Warn(ctx, "cannot decode markets request", "error", err)
		h.respondError(ctx, msg)
		return
	}

	if err := h.sem.Acquire(ctx); err != nil {
		h.log.Warn(ctx, "request pool saturated", "error", err)
		h.respondError(ctx, msg)
		return
	}

	go func() {
		defer h.sem.Release()
		h.process(ctx, msg, request)
	}()
}

func (h *RequestHandler) process(ctx context.Context, msg *nats.Msg, request *domain.MarketsRequest) {
	markets, err := h.fetcher.FetchMarkets(ctx)
	if err != nil {
		h.log.Warn(ctx, "fetch markets failed", "error", err)
		h.respondError(ctx, msg)
		return
	}

	filtered := filterMarkets(markets, request)
	message := &domain.MarketsMessage{
		Timestamp: h.now(),
		Exchange:  h.exchange,
		Markets:   filtered,
	}

	if err := h.bus.Respond(msg, wire.EncodeMarketsMessage(message), bus.StatusOK); err != nil {
		h.log.Warn(ctx, "cannot reply to markets request", "error", err)
	}
}

// respondError always replies with the same fixed envelope regardless of
// what failed internally — matching http_client.rs's from_error, which
// collapses every REST/decode/capacity failure into one generic message
// rather than leaking upstream codes or status text to the requester.
func (h *RequestHandler) respondError(ctx context.Context, msg *nats.Msg) {
	errMsg := &domain.ErrorMessage{
		Code:        string(apperror.CodeUnknown),
		Message:     "Error during request!",
		TimestampMs: h.now(),
	}
	if respErr := h.bus.Respond(msg, wire.EncodeErrorMessage(errMsg), bus.StatusError); respErr != nil {
		h.log.Warn(ctx, "cannot reply error to markets request", "error", respErr)
	}
}

// filterMarkets applies the request's symbol and market-type filters. When
// Symbols is empty every market is returned unconditionally — the market
// type filter only applies alongside a non-empty symbol filter, matching
// the source's documented asymmetry: an empty symbols list is "give me
// everything", not "and also filter by type".
func filterMarkets(markets []domain.MarketInfo, request *domain.MarketsRequest) []domain.MarketInfo {
	if request == nil || len(request.Symbols) == 0 {
		return markets
	}

	wanted := make(map[string]bool, len(request.Symbols))
	for _, s := range request.Symbols {
		wanted[s] = true
	}

	out := make([]domain.MarketInfo, 0, len(markets))
	for _, m := range markets {
		if !wanted[m.Symbol] {
			continue
		}
		if request.HasType && m.MarketType != request.MarketType {
			continue
		}
		out = append(out, m)
	}
	return out
}
