package topics

import (
	"testing"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func TestRequest(t *testing.T) {
	if got, want := Request(domain.ExchangeCryptocom), "cryptocom.markets"; got != want {
		t.Fatalf("Request() = %q, want %q", got, want)
	}
}

func TestStream(t *testing.T) {
	market := domain.NewMarket("BTC", "USD")
	got := Stream(domain.ExchangeCryptocom, domain.EndpointTicker, market)
	want := "cryptocom.ticker.btc.usd"
	if got != want {
		t.Fatalf("Stream() = %q, want %q", got, want)
	}
}

func TestSnapshot(t *testing.T) {
	market := domain.NewMarket("btc", "usd")
	stream := Stream(domain.ExchangeCryptocom, domain.EndpointBook, market)
	got := Snapshot(stream)
	want := "cryptocom.book.btc.usd.snapshot"
	if got != want {
		t.Fatalf("Snapshot() = %q, want %q", got, want)
	}
}

func TestParseStream(t *testing.T) {
	market := domain.NewMarket("eth", "usd")
	subject := Stream(domain.ExchangeCryptocom, domain.EndpointTrades, market)

	from, to, err := ParseStream(subject)
	if err != nil {
		t.Fatalf("ParseStream: unexpected error: %v", err)
	}
	if from != "eth" || to != "usd" {
		t.Fatalf("ParseStream() = (%q, %q), want (eth, usd)", from, to)
	}
}

func TestParseStream_TooFewParts(t *testing.T) {
	if _, _, err := ParseStream("cryptocom.ticker"); err == nil {
		t.Fatal("expected error for a subject with too few parts, got nil")
	}
}
