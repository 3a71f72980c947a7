package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func TestCryptocomToMarket_Spot(t *testing.T) {
	inst := cryptocomInstrument{
		BaseCcy:          "BTC",
		QuoteCcy:         "USD",
		InstType:         cryptocomInstCcyPair,
		QuoteDecimals:    2,
		QuantityDecimals: 6,
		PriceTickSize:    "0.01",
		QtyTickSize:      "0.000001",
	}

	market := cryptocomToMarket(inst)
	if market.Symbol != "btc_usd" {
		t.Fatalf("Symbol = %q, want %q", market.Symbol, "btc_usd")
	}
	if market.MarketType != domain.MarketTypeSpot {
		t.Fatalf("MarketType = %v, want Spot", market.MarketType)
	}
	if market.HasExpiry {
		t.Fatal("spot market should not carry an expiry")
	}
}

func TestCryptocomToMarket_FutureWithExpiry(t *testing.T) {
	inst := cryptocomInstrument{
		BaseCcy:           "BTC",
		QuoteCcy:          "USD",
		InstType:          cryptocomInstFuture,
		ExpiryTimestampMs: 1700000000000,
	}

	market := cryptocomToMarket(inst)
	if market.MarketType != domain.MarketTypeFuture {
		t.Fatalf("MarketType = %v, want Future", market.MarketType)
	}
	if !market.HasExpiry || market.ExpiryTimestamp != 1700000000000 {
		t.Fatalf("expiry = (%v, %d), want (true, 1700000000000)", market.HasExpiry, market.ExpiryTimestamp)
	}
}

func TestCryptocomToMarket_PerpetualSwap(t *testing.T) {
	inst := cryptocomInstrument{BaseCcy: "ETH", QuoteCcy: "USD", InstType: cryptocomInstPerpetualSwap}
	if got := cryptocomToMarket(inst).MarketType; got != domain.MarketTypePerpetual {
		t.Fatalf("MarketType = %v, want Perpetual", got)
	}
}

func TestCryptocomMarkets_FetchMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"data":[{"base_ccy":"BTC","quote_ccy":"USD","inst_type":"CCY_PAIR","quote_decimals":2,"quantity_decimals":6,"price_tick_size":"0.01","qty_tick_size":"0.000001"}]}}`))
	}))
	defer server.Close()

	fetcher, err := NewCryptocomMarkets(server.URL, 600, noopLogger{})
	if err != nil {
		t.Fatalf("NewCryptocomMarkets: unexpected error: %v", err)
	}

	markets, err := fetcher.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("FetchMarkets: unexpected error: %v", err)
	}
	if len(markets) != 1 || markets[0].Symbol != "btc_usd" {
		t.Fatalf("markets = %+v, want a single btc_usd market", markets)
	}
}

func TestCryptocomMarkets_FetchMarkets_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher, err := NewCryptocomMarkets(server.URL, 600, noopLogger{})
	if err != nil {
		t.Fatalf("NewCryptocomMarkets: unexpected error: %v", err)
	}

	if _, err := fetcher.FetchMarkets(context.Background()); err == nil {
		t.Fatal("expected error for a 500 response, got nil")
	}
}
