package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func TestTickerState_FirstUpdateIsSnapshot(t *testing.T) {
	s := NewTickerState(domain.ExchangeCryptocom)

	msg, err := s.Update(domain.RawTicker{
		BidPrice: decimal.NewFromFloat(100.5),
		BidSize:  decimal.NewFromFloat(1),
		AskPrice: decimal.NewFromFloat(100.6),
		AskSize:  decimal.NewFromFloat(2),
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if msg.Type != domain.MessageTypeSnapshot {
		t.Fatalf("first update Type = %v, want Snapshot", msg.Type)
	}
	if msg.Sequence != 0 {
		t.Fatalf("first update Sequence = %d, want 0", msg.Sequence)
	}
}

func TestTickerState_SubsequentUpdatesAreUpdate(t *testing.T) {
	s := NewTickerState(domain.ExchangeCryptocom)
	tick := domain.RawTicker{BidPrice: decimal.NewFromInt(1), AskPrice: decimal.NewFromInt(2)}

	if _, err := s.Update(tick); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	msg, err := s.Update(tick)
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if msg.Type != domain.MessageTypeUpdate {
		t.Fatalf("second update Type = %v, want Update", msg.Type)
	}
	if msg.Sequence != 1 {
		t.Fatalf("second update Sequence = %d, want 1", msg.Sequence)
	}
}

func TestTickerState_GetReflectsLastUpdate(t *testing.T) {
	s := NewTickerState(domain.ExchangeCryptocom)
	if _, err := s.Update(domain.RawTicker{BidPrice: decimal.NewFromInt(5), AskPrice: decimal.NewFromInt(6)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap := s.Get()
	if snap.Type != domain.MessageTypeSnapshot {
		t.Fatalf("Get().Type = %v, want Snapshot", snap.Type)
	}
	if snap.Tick.BidPrice != "5" {
		t.Fatalf("Get().Tick.BidPrice = %q, want %q", snap.Tick.BidPrice, "5")
	}
}

func TestTickerState_Topic(t *testing.T) {
	s := NewTickerState(domain.ExchangeCryptocom)
	market := domain.NewMarket("btc", "usd")
	if got, want := s.Topic(market), "cryptocom.ticker.btc.usd"; got != want {
		t.Fatalf("Topic() = %q, want %q", got, want)
	}
}
