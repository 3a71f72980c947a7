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

type krakenAssetPair struct {
	WsName       string `json:"wsname"`
	PairDecimals int32  `json:"pair_decimals"`
	LotDecimals  int32  `json:"lot_decimals"`
	OrderMin     string `json:"ordermin"`
	CostMin      string `json:"costmin"`
}

type krakenAssetPairsResponse struct {
	Error  []string                   `json:"error"`
	Result map[string]krakenAssetPair `json:"result"`
}

// KrakenMarkets fetches and normalizes Kraken's AssetPairs list. Grounded
// on public-kraken/src/markets/models.rs.
type KrakenMarkets struct {
	client  httpclient.Client
	breaker *gobreaker.CircuitBreaker[[]domain.MarketInfo]
	limiter *ratelimit.Limiter
	log     logger.LoggerInterface
}

// NewKrakenMarkets builds a KrakenMarkets fetcher against url.
func NewKrakenMarkets(url string, requestsPerMinute int, log logger.LoggerInterface) (*KrakenMarkets, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("kraken-markets"),
		httpclient.WithBaseURL(url),
		httpclient.WithRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeFatalInit,
			apperror.WithMessage("cannot build kraken markets client"), apperror.WithCause(err))
	}

	breakerSettings := gobreaker.Settings{
		Name:    "kraken-markets",
		Timeout: 30 * time.Second,
	}

	return &KrakenMarkets{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]domain.MarketInfo](breakerSettings),
		limiter: ratelimit.New(requestsPerMinute),
		log:     log,
	}, nil
}

// FetchMarkets implements app.InstrumentFetcher.
func (k *KrakenMarkets) FetchMarkets(ctx context.Context) ([]domain.MarketInfo, error) {
	if err := k.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeUnavailable,
			apperror.WithMessage("rate limit wait cancelled"), apperror.WithCause(err))
	}

	return k.breaker.Execute(func() ([]domain.MarketInfo, error) {
		var result krakenAssetPairsResponse
		resp, err := k.client.NewRequest().SetResult(&result).Get(ctx, "")
		if err != nil {
			return nil, apperror.New(apperror.CodeTransport,
				apperror.WithMessage("cannot fetch kraken asset pairs"), apperror.WithCause(err))
		}
		if resp.IsError() {
			return nil, apperror.New(apperror.CodeTransport,
				apperror.WithMessage("kraken asset pairs request failed: "+strconv.Itoa(resp.StatusCode)))
		}
		if len(result.Error) > 0 {
			return nil, apperror.New(apperror.CodeTransport,
				apperror.WithMessage("kraken asset pairs error: "+result.Error[0]))
		}

		markets := make([]domain.MarketInfo, 0, len(result.Result))
		for _, pair := range result.Result {
			market, err := krakenToMarket(pair)
			if err != nil {
				k.log.Warn(ctx, "skipping unparseable kraken pair", "wsname", pair.WsName, "error", err)
				continue
			}
			markets = append(markets, market)
		}
		return markets, nil
	})
}

func krakenToMarket(pair krakenAssetPair) (domain.MarketInfo, error) {
	if pair.WsName == "" {
		return domain.MarketInfo{}, apperror.New(apperror.CodeDecode,
			apperror.WithMessage("kraken asset pair missing wsname"))
	}
	market, err := domain.ParseKrakenExchangeFormat(pair.WsName)
	if err != nil {
		return domain.MarketInfo{}, err
	}

	orderMin, _ := decimal.NewFromString(pair.OrderMin)
	costMin, _ := decimal.NewFromString(pair.CostMin)

	return domain.MarketInfo{
		Symbol:         market.NatsFormat(),
		PricePrecision: pair.PairDecimals,
		RatePrecision:  pair.PairDecimals,
		SizePrecision:  pair.LotDecimals,
		MinSize:        orderMin.String(),
		MaxSize:        maxInt64String,
		MinPrice:       costMin.String(),
		MaxPrice:       maxInt64String,
		MarketType:     domain.MarketTypeSpot,
	}, nil
}
