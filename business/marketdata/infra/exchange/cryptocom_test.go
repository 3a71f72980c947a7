package exchange

import (
	"encoding/json"
	"testing"

	"github.com/marketfeed/connector/business/marketdata/domain"
)

func TestNewExchangeRequest_Ticker(t *testing.T) {
	market := domain.NewMarket("btc", "usd")
	req := newExchangeRequest(market, channelTicker, methodSubscribe)

	if req.Method != methodSubscribe {
		t.Fatalf("Method = %q, want %q", req.Method, methodSubscribe)
	}
	if len(req.Params.Channels) != 1 || req.Params.Channels[0] != "ticker.BTC_USD" {
		t.Fatalf("Channels = %v, want [ticker.BTC_USD]", req.Params.Channels)
	}
	if req.Params.BookSubscriptionType != nil {
		t.Fatal("BookSubscriptionType should be nil for a non-book channel")
	}
}

func TestNewExchangeRequest_Book(t *testing.T) {
	market := domain.NewMarket("eth", "usd")
	req := newExchangeRequest(market, channelBook, methodSubscribe)

	if len(req.Params.Channels) != 1 || req.Params.Channels[0] != "book.ETH_USD.10" {
		t.Fatalf("Channels = %v, want [book.ETH_USD.10]", req.Params.Channels)
	}
	if req.Params.BookSubscriptionType == nil || *req.Params.BookSubscriptionType != bookSubscriptionSnapshot {
		t.Fatalf("BookSubscriptionType = %v, want %q", req.Params.BookSubscriptionType, bookSubscriptionSnapshot)
	}
}

func TestHeartbeatResponse(t *testing.T) {
	resp := heartbeatResponse(42)
	if resp.Method != methodRespondHeartbeat {
		t.Fatalf("Method = %q, want %q", resp.Method, methodRespondHeartbeat)
	}
	if resp.ID == nil || *resp.ID != 42 {
		t.Fatalf("ID = %v, want 42", resp.ID)
	}
}

func TestTickerWire_Decode(t *testing.T) {
	raw := []byte(`{"b":"100.1","bs":"2","k":"100.2","ks":"3","i":"BTC_USD","t":1700000000000}`)
	var w tickerWire
	if err := json.Unmarshal(raw, &w); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}

	tick := w.toDomain()
	if tick.BidPrice.String() != "100.1" || tick.AskPrice.String() != "100.2" {
		t.Fatalf("toDomain() = %+v, unexpected prices", tick)
	}
	if tick.Timestamp != 1700000000000 {
		t.Fatalf("Timestamp = %d, want 1700000000000", tick.Timestamp)
	}
}

func TestTradeWire_DecodeSellSide(t *testing.T) {
	raw := []byte(`{"d":"12345","p":"100","q":"0.5","s":"SELL","t":1700000000000,"m":"999"}`)
	var w tradeWire
	if err := json.Unmarshal(raw, &w); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}

	trade := w.toDomain()
	if trade.Side != domain.SideSell {
		t.Fatalf("Side = %v, want SideSell", trade.Side)
	}
	if trade.TradeID.String() != "12345" || trade.SequenceID.String() != "999" {
		t.Fatalf("toDomain() = %+v, unexpected ids", trade)
	}
}

func TestTradeWire_DecodeBuySide(t *testing.T) {
	raw := []byte(`{"d":"1","p":"100","q":"1","s":"BUY","t":1,"m":"1"}`)
	var w tradeWire
	if err := json.Unmarshal(raw, &w); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if w.toDomain().Side != domain.SideBuy {
		t.Fatal("expected SideBuy")
	}
}

func TestPairWire_Decode(t *testing.T) {
	var p pairWire
	if err := json.Unmarshal([]byte(`["101.5","2.25"]`), &p); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	if p.Rate.String() != "101.5" || p.Size.String() != "2.25" {
		t.Fatalf("pairWire = %+v, unexpected values", p)
	}
}

func TestPairWire_Decode_TooFewElements(t *testing.T) {
	var p pairWire
	if err := json.Unmarshal([]byte(`["101.5"]`), &p); err == nil {
		t.Fatal("expected error for a 1-element array, got nil")
	}
}

func TestBookWire_Snapshot(t *testing.T) {
	raw := []byte(`{"asks":[["101","1"]],"bids":[["99","2"]],"t":1700000000000,"u":"10"}`)
	var w bookWire
	if err := json.Unmarshal(raw, &w); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}

	ev := w.toDomain()
	if !ev.IsSnapshot {
		t.Fatal("expected IsSnapshot=true when no 'update' object is present")
	}
	if len(ev.Asks) != 1 || ev.Asks[0].Rate.String() != "101" {
		t.Fatalf("Asks = %+v, unexpected", ev.Asks)
	}
	if ev.UpdateID.String() != "10" {
		t.Fatalf("UpdateID = %q, want %q", ev.UpdateID.String(), "10")
	}
}

func TestBookWire_IncrementalUpdate(t *testing.T) {
	raw := []byte(`{"update":{"asks":[["102","3"]],"bids":[]},"t":1700000000001,"u":"11","pu":"10"}`)
	var w bookWire
	if err := json.Unmarshal(raw, &w); err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}

	ev := w.toDomain()
	if ev.IsSnapshot {
		t.Fatal("expected IsSnapshot=false when an 'update' object is present")
	}
	if len(ev.Asks) != 1 || ev.Asks[0].Rate.String() != "102" {
		t.Fatalf("Asks = %+v, unexpected", ev.Asks)
	}
	if ev.PrevUpdateID.String() != "10" {
		t.Fatalf("PrevUpdateID = %q, want %q", ev.PrevUpdateID.String(), "10")
	}
}
