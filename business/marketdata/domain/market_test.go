package domain

import "testing"

func TestMarket_NatsFormat(t *testing.T) {
	m := NewMarket("BTC", "USD")
	if got := m.NatsFormat(); got != "btc_usd" {
		t.Fatalf("NatsFormat() = %q, want %q", got, "btc_usd")
	}
}

func TestParseNatsFormat(t *testing.T) {
	cases := []struct {
		raw     string
		want    Market
		wantErr bool
	}{
		{"btc_usd", NewMarket("btc", "usd"), false},
		{"ETH_BTC", NewMarket("eth", "btc"), false},
		{"btcusd", Market{}, true},
		{"btc_usd_eth", Market{}, true},
	}
	for _, c := range cases {
		got, err := ParseNatsFormat(c.raw)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseNatsFormat(%q): expected error, got none", c.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNatsFormat(%q): unexpected error: %v", c.raw, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNatsFormat(%q) = %+v, want %+v", c.raw, got, c.want)
		}
	}
}

func TestMarket_CryptocomExchangeFormat(t *testing.T) {
	m := NewMarket("btc", "usd")
	if got := m.CryptocomExchangeFormat(); got != "BTC_USD" {
		t.Fatalf("CryptocomExchangeFormat() = %q, want %q", got, "BTC_USD")
	}

	back, err := ParseCryptocomExchangeFormat("BTC_USD")
	if err != nil {
		t.Fatalf("ParseCryptocomExchangeFormat: unexpected error: %v", err)
	}
	if back != m {
		t.Fatalf("ParseCryptocomExchangeFormat(%q) = %+v, want %+v", "BTC_USD", back, m)
	}
}

func TestParseKrakenExchangeFormat(t *testing.T) {
	cases := []struct {
		raw     string
		want    Market
		wantErr bool
	}{
		{"XBT/USD", NewMarket("btc", "usd"), false},
		{"XDG/EUR", NewMarket("doge", "eur"), false},
		{"ETH/USD", NewMarket("eth", "usd"), false},
		{"XBTUSD", Market{}, true},
	}
	for _, c := range cases {
		got, err := ParseKrakenExchangeFormat(c.raw)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseKrakenExchangeFormat(%q): expected error, got none", c.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKrakenExchangeFormat(%q): unexpected error: %v", c.raw, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseKrakenExchangeFormat(%q) = %+v, want %+v", c.raw, got, c.want)
		}
	}
}

func TestMarket_KrakenExchangeFormat_NotARoundTrip(t *testing.T) {
	m := NewMarket("btc", "usd")
	if got := m.KrakenExchangeFormat(); got != "BTC_USD" {
		t.Fatalf("KrakenExchangeFormat() = %q, want %q", got, "BTC_USD")
	}
}
