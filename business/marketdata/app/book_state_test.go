package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func offer(rate, size float64) domain.RawOffer {
	return domain.RawOffer{Rate: decimal.NewFromFloat(rate), Size: decimal.NewFromFloat(size)}
}

func TestBookState_SnapshotThenIncrementalUpdate(t *testing.T) {
	s := NewBookState(domain.ExchangeCryptocom)

	snap, err := s.Update(domain.RawBookEvent{
		IsSnapshot: true,
		Asks:       []domain.RawOffer{offer(101, 1)},
		Bids:       []domain.RawOffer{offer(99, 1)},
		UpdateID:   decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("snapshot Update: unexpected error: %v", err)
	}
	if snap.Type != domain.MessageTypeSnapshot {
		t.Fatalf("snapshot Type = %v, want Snapshot", snap.Type)
	}

	upd, err := s.Update(domain.RawBookEvent{
		IsSnapshot:   false,
		Asks:         []domain.RawOffer{offer(102, 2)},
		Bids:         nil,
		UpdateID:     decimal.NewFromInt(2),
		PrevUpdateID: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("incremental Update: unexpected error: %v", err)
	}
	if upd.Type != domain.MessageTypeUpdate {
		t.Fatalf("incremental Type = %v, want Update", upd.Type)
	}

	full := s.Get()
	if len(full.Book.Asks) != 2 {
		t.Fatalf("accumulated Asks = %d levels, want 2", len(full.Book.Asks))
	}
}

func TestBookState_IncrementalGapIsRejected(t *testing.T) {
	s := NewBookState(domain.ExchangeCryptocom)

	if _, err := s.Update(domain.RawBookEvent{
		IsSnapshot: true,
		UpdateID:   decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("snapshot Update: %v", err)
	}

	_, err := s.Update(domain.RawBookEvent{
		IsSnapshot:   false,
		UpdateID:     decimal.NewFromInt(5),
		PrevUpdateID: decimal.NewFromInt(3),
	})
	if err == nil {
		t.Fatal("expected sequence-gap error, got nil")
	}
}

func TestBookState_FirstEventTreatedAsSnapshotRegardlessOfFlag(t *testing.T) {
	s := NewBookState(domain.ExchangeCryptocom)

	msg, err := s.Update(domain.RawBookEvent{
		IsSnapshot:   false,
		Asks:         []domain.RawOffer{offer(101, 1)},
		UpdateID:     decimal.NewFromInt(1),
		PrevUpdateID: decimal.NewFromInt(0),
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if msg.Sequence != 0 {
		t.Fatalf("Sequence = %d, want 0 (treated as first snapshot)", msg.Sequence)
	}
}

func TestBookState_ZeroSizeLevelRemoves(t *testing.T) {
	s := NewBookState(domain.ExchangeCryptocom)

	if _, err := s.Update(domain.RawBookEvent{
		IsSnapshot: true,
		Asks:       []domain.RawOffer{offer(101, 1), offer(102, 1)},
		UpdateID:   decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("snapshot Update: %v", err)
	}

	if _, err := s.Update(domain.RawBookEvent{
		IsSnapshot:   false,
		Asks:         []domain.RawOffer{offer(101, 0)},
		UpdateID:     decimal.NewFromInt(2),
		PrevUpdateID: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("incremental Update: %v", err)
	}

	full := s.Get()
	if len(full.Book.Asks) != 1 {
		t.Fatalf("Asks = %d levels, want 1 (level 101 removed)", len(full.Book.Asks))
	}
	if full.Book.Asks[0].Rate != "102" {
		t.Fatalf("remaining ask Rate = %q, want %q", full.Book.Asks[0].Rate, "102")
	}
}

func TestBookState_DecimalEqualRatesAtDifferentScaleDoNotDuplicate(t *testing.T) {
	s := NewBookState(domain.ExchangeCryptocom)

	if _, err := s.Update(domain.RawBookEvent{
		IsSnapshot: true,
		Asks:       []domain.RawOffer{{Rate: decimal.RequireFromString("96448.0"), Size: decimal.NewFromInt(1)}},
		UpdateID:   decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("snapshot Update: %v", err)
	}

	if _, err := s.Update(domain.RawBookEvent{
		IsSnapshot:   false,
		Asks:         []domain.RawOffer{{Rate: decimal.RequireFromString("96448.00"), Size: decimal.NewFromInt(2)}},
		UpdateID:     decimal.NewFromInt(2),
		PrevUpdateID: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("incremental Update: %v", err)
	}

	full := s.Get()
	if len(full.Book.Asks) != 1 {
		t.Fatalf("Asks = %d levels, want 1 (96448.0 and 96448.00 are the same rate)", len(full.Book.Asks))
	}
	if full.Book.Asks[0].Size != "2" {
		t.Fatalf("Size = %q, want %q (updated by the second event)", full.Book.Asks[0].Size, "2")
	}
}

func TestBookState_Topic(t *testing.T) {
	s := NewBookState(domain.ExchangeCryptocom)
	market := domain.NewMarket("btc", "usd")
	if got, want := s.Topic(market), "cryptocom.book.btc.usd"; got != want {
		t.Fatalf("Topic() = %q, want %q", got, want)
	}
}
