package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func newRawTrade(seq int64) domain.RawTrade {
	return domain.RawTrade{
		TradeID:    decimal.NewFromInt(seq),
		Price:      decimal.NewFromInt(100),
		Quantity:   decimal.NewFromInt(1),
		Side:       domain.SideBuy,
		SequenceID: decimal.NewFromInt(seq),
	}
}

func TestTradesState_FirstBatchIsSnapshot(t *testing.T) {
	s := NewTradesState(domain.ExchangeCryptocom)

	msg, err := s.Update([]domain.RawTrade{newRawTrade(1)})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if msg.Type != domain.MessageTypeSnapshot {
		t.Fatalf("Type = %v, want Snapshot", msg.Type)
	}
}

func TestTradesState_SequenceGapIsRejected(t *testing.T) {
	s := NewTradesState(domain.ExchangeCryptocom)

	if _, err := s.Update([]domain.RawTrade{newRawTrade(1)}); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	_, err := s.Update([]domain.RawTrade{newRawTrade(3)})
	if err == nil {
		t.Fatal("expected sequence-gap error, got nil")
	}
}

func TestTradesState_ContiguousSequenceIsAccepted(t *testing.T) {
	s := NewTradesState(domain.ExchangeCryptocom)

	if _, err := s.Update([]domain.RawTrade{newRawTrade(1)}); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	msg, err := s.Update([]domain.RawTrade{newRawTrade(2)})
	if err != nil {
		t.Fatalf("second Update: unexpected error: %v", err)
	}
	if msg.Type != domain.MessageTypeUpdate {
		t.Fatalf("Type = %v, want Update", msg.Type)
	}
}

func TestTradesState_HistoryCappedAndNewestFirst(t *testing.T) {
	s := NewTradesState(domain.ExchangeCryptocom)

	for i := int64(0); i < tradeHistoryCap+10; i++ {
		if _, err := s.Update([]domain.RawTrade{newRawTrade(i)}); err != nil {
			t.Fatalf("Update(%d): %v", i, err)
		}
	}

	snap := s.Get()
	if len(snap.Trades) != tradeHistoryCap {
		t.Fatalf("len(Trades) = %d, want %d", len(snap.Trades), tradeHistoryCap)
	}
	if snap.Trades[0].ID != "59" {
		t.Fatalf("Trades[0].ID = %q, want newest trade %q", snap.Trades[0].ID, "59")
	}
}

func TestTradesState_EmptyBatchDoesNotBreakSequence(t *testing.T) {
	s := NewTradesState(domain.ExchangeCryptocom)

	if _, err := s.Update(nil); err != nil {
		t.Fatalf("empty Update: unexpected error: %v", err)
	}
	if _, err := s.Update([]domain.RawTrade{newRawTrade(1)}); err != nil {
		t.Fatalf("Update after empty batch: %v", err)
	}
}
