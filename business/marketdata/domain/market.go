package domain

import (
	"fmt"
	"strings"

	"github.com/marketfeed/connector/internal/apperror"
)

const natsSeparator = "_"

// Market is an ordered pair (from, to) of currencies, canonical lowercase.
// Two external renderings exist: the bus form "from_to" and a venue-specific
// exchange form.
type Market struct {
	From Currency
	To   Currency
}

// NewMarket canonicalizes from/to into a Market.
func NewMarket(from, to string) Market {
	return Market{From: NewCurrency(from), To: NewCurrency(to)}
}

// NatsFormat renders the bus-form subject component "from_to".
func (m Market) NatsFormat() string {
	return m.From.String() + natsSeparator + m.To.String()
}

func (m Market) String() string {
	return m.NatsFormat()
}

// ParseNatsFormat parses the "from_to" bus form shared across venues.
func ParseNatsFormat(raw string) (Market, error) {
	parts := strings.Split(raw, natsSeparator)
	if len(parts) != 2 {
		return Market{}, apperror.New(apperror.CodeDecode,
			apperror.WithMessage(fmt.Sprintf("wrong market format: %s", raw)))
	}
	return NewMarket(parts[0], parts[1]), nil
}

// CryptocomExchangeFormat renders the Crypto.com wire form: the uppercase
// NATS form, e.g. "BTC_USD". Grounded on public-cryptocom/src/model.rs.
func (m Market) CryptocomExchangeFormat() string {
	return strings.ToUpper(m.NatsFormat())
}

// ParseCryptocomExchangeFormat parses a Crypto.com instrument_name. The venue
// uses the same separator as the bus form.
func ParseCryptocomExchangeFormat(raw string) (Market, error) {
	return ParseNatsFormat(raw)
}

const krakenSeparator = "/"

var krakenAliases = map[string]string{
	"xbt": "btc",
	"xdg": "doge",
}

func fromKrakenCurrency(code string) string {
	lower := strings.ToLower(code)
	if alias, ok := krakenAliases[lower]; ok {
		return alias
	}
	return lower
}

// ParseKrakenExchangeFormat parses a Kraken pair name such as "XBT/USD",
// translating venue-specific currency aliases. Grounded on
// public-kraken/src/model.rs.
func ParseKrakenExchangeFormat(raw string) (Market, error) {
	parts := strings.Split(raw, krakenSeparator)
	if len(parts) != 2 {
		return Market{}, apperror.New(apperror.CodeDecode,
			apperror.WithMessage(fmt.Sprintf("wrong market format: %s", raw)))
	}
	return NewMarket(fromKrakenCurrency(parts[0]), fromKrakenCurrency(parts[1])), nil
}

// KrakenExchangeFormat mirrors public-kraken/src/model.rs's exchange_format,
// which (faithfully, not a round-trip with ParseKrakenExchangeFormat) renders
// the uppercase NATS form rather than the "/"-joined venue form.
func (m Market) KrakenExchangeFormat() string {
	return strings.ToUpper(m.NatsFormat())
}
