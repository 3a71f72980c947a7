package app

import (
	"testing"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func sampleMarkets() []domain.MarketInfo {
	return []domain.MarketInfo{
		{Symbol: "btc_usd", MarketType: domain.MarketTypeSpot},
		{Symbol: "btc_usd", MarketType: domain.MarketTypePerpetual},
		{Symbol: "eth_usd", MarketType: domain.MarketTypeSpot},
	}
}

func TestFilterMarkets_NilRequestReturnsEverything(t *testing.T) {
	got := filterMarkets(sampleMarkets(), nil)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestFilterMarkets_EmptySymbolsReturnsEverythingEvenWithTypeSet(t *testing.T) {
	req := &domain.MarketsRequest{HasType: true, MarketType: domain.MarketTypeSpot}
	got := filterMarkets(sampleMarkets(), req)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (empty symbols means 'everything', type filter does not apply alone)", len(got))
	}
}

func TestFilterMarkets_SymbolsWithoutTypeReturnsAllMatchingSymbol(t *testing.T) {
	req := &domain.MarketsRequest{Symbols: []string{"btc_usd"}}
	got := filterMarkets(sampleMarkets(), req)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (both btc_usd markets, no type filter)", len(got))
	}
}

func TestFilterMarkets_SymbolsAndTypeNarrowsFurther(t *testing.T) {
	req := &domain.MarketsRequest{Symbols: []string{"btc_usd"}, HasType: true, MarketType: domain.MarketTypePerpetual}
	got := filterMarkets(sampleMarkets(), req)
	if len(got) != 1 || got[0].MarketType != domain.MarketTypePerpetual {
		t.Fatalf("got %+v, want exactly the perpetual btc_usd market", got)
	}
}

func TestFilterMarkets_UnknownSymbolReturnsEmpty(t *testing.T) {
	req := &domain.MarketsRequest{Symbols: []string{"doge_usd"}}
	got := filterMarkets(sampleMarkets(), req)
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
