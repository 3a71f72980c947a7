// Package rest fetches venue instrument lists over HTTP, wrapped in a
// circuit breaker and a rate limiter so a degraded upstream never turns
// into a thundering herd of retries. Grounded on
// public-cryptocom/src/markets/{handler,models}.rs.
package rest

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/httpclient"
	"github.com/marketfeed/connector/internal/logger"
	"github.com/marketfeed/connector/internal/ratelimit"
)

// cryptocomInstType mirrors markets/models.rs's InstType.
const (
	cryptocomInstCcyPair       = "CCY_PAIR"
	cryptocomInstFuture        = "FUTURE"
	cryptocomInstPerpetualSwap = "PERPETUAL_SWAP"
)

type cryptocomInstrument struct {
	BaseCcy           string `json:"base_ccy"`
	QuoteCcy          string `json:"quote_ccy"`
	InstType          string `json:"inst_type"`
	QuoteDecimals     int32  `json:"quote_decimals"`
	QuantityDecimals  int32  `json:"quantity_decimals"`
	PriceTickSize     string `json:"price_tick_size"`
	QtyTickSize       string `json:"qty_tick_size"`
	ExpiryTimestampMs int64  `json:"expiry_timestamp_ms"`
}

type cryptocomInstrumentsResult struct {
	Data []cryptocomInstrument `json:"data"`
}

type cryptocomInstrumentsResponse struct {
	Result cryptocomInstrumentsResult `json:"result"`
}

// CryptocomMarkets fetches and normalizes crypto.com's instrument list.
type CryptocomMarkets struct {
	client  httpclient.Client
	url     string
	breaker *gobreaker.CircuitBreaker[[]domain.MarketInfo]
	limiter *ratelimit.Limiter
	log     logger.LoggerInterface
}

// NewCryptocomMarkets builds a CryptocomMarkets fetcher against url,
// allowing requestsPerMinute upstream calls.
func NewCryptocomMarkets(url string, requestsPerMinute int, log logger.LoggerInterface) (*CryptocomMarkets, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("cryptocom-markets"),
		httpclient.WithBaseURL(url),
		httpclient.WithRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeFatalInit,
			apperror.WithMessage("cannot build cryptocom markets client"), apperror.WithCause(err))
	}

	breakerSettings := gobreaker.Settings{
		Name:    "cryptocom-markets",
		Timeout: 30 * time.Second,
	}

	return &CryptocomMarkets{
		client:  client,
		url:     url,
		breaker: gobreaker.NewCircuitBreaker[[]domain.MarketInfo](breakerSettings),
		limiter: ratelimit.New(requestsPerMinute),
		log:     log,
	}, nil
}

// FetchMarkets implements app.InstrumentFetcher.
func (c *CryptocomMarkets) FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeUnavailable,
			apperror.WithMessage("rate limit wait cancelled"), apperror.WithCause(err))
	}

	return c.breaker.Execute(func() ([]domain.MarketInfo, error) {
		var result cryptocomInstrumentsResponse
		resp, err := c.client.NewRequest().SetResult(&result).Get(ctx, "")
		if err != nil {
			return nil, apperror.New(apperror.CodeTransport,
				apperror.WithMessage("cannot fetch cryptocom instruments"), apperror.WithCause(err))
		}
		if resp.IsError() {
			return nil, apperror.New(apperror.CodeTransport,
				apperror.WithMessage("cryptocom instruments request failed: "+strconv.Itoa(resp.StatusCode)))
		}

		markets := make([]domain.MarketInfo, 0, len(result.Result.Data))
		for _, inst := range result.Result.Data {
			markets = append(markets, cryptocomToMarket(inst))
		}
		return markets, nil
	})
}

func cryptocomToMarket(inst cryptocomInstrument) domain.MarketInfo {
	priceTick, _ := decimal.NewFromString(inst.PriceTickSize)
	qtyTick, _ := decimal.NewFromString(inst.QtyTickSize)

	market := domain.MarketInfo{
		Symbol:         domain.NewMarket(inst.BaseCcy, inst.QuoteCcy).NatsFormat(),
		PricePrecision: inst.QuoteDecimals,
		RatePrecision:  inst.QuoteDecimals,
		SizePrecision:  inst.QuantityDecimals,
		MinSize:        qtyTick.String(),
		MaxSize:        maxInt64String,
		MinPrice:       priceTick.String(),
		MaxPrice:       maxInt64String,
		MarketType:     cryptocomMarketType(inst.InstType),
	}
	if inst.ExpiryTimestampMs != 0 {
		market.ExpiryTimestamp = inst.ExpiryTimestampMs
		market.HasExpiry = true
	}
	return market
}

const maxInt64String = "9223372036854775807"

func cryptocomMarketType(instType string) domain.MarketType {
	switch instType {
	case cryptocomInstCcyPair:
		return domain.MarketTypeSpot
	case cryptocomInstFuture:
		return domain.MarketTypeFuture
	default:
		return domain.MarketTypePerpetual
	}
}
