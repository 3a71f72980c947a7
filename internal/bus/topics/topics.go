// Package topics derives bus subject strings deterministically from
// (exchange, endpoint, market). Pure string algebra, no I/O. Grounded on
// protocol/src/topics.rs.
package topics

import (
	"strings"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/apperror"
)

const separator = "."
const snapshotSuffix = "snapshot"

// Request builds the markets metadata request subject: "<exchange>.markets".
func Request(exchange domain.Exchange) string {
	return strings.Join([]string{exchange.String(), domain.EndpointMarkets.String()}, separator)
}

// Stream builds a continuous stream subject:
// "<exchange>.<endpoint>.<from>.<to>".
func Stream(exchange domain.Exchange, endpoint domain.Endpoint, market domain.Market) string {
	return strings.Join([]string{
		exchange.String(),
		endpoint.String(),
		market.From.String(),
		market.To.String(),
	}, separator)
}

// Snapshot appends the one-shot snapshot suffix to any subject.
func Snapshot(subject string) string {
	return subject + separator + snapshotSuffix
}

// ParseStream recovers (from, to) from a stream subject. A stream subject is
// "<exchange>.<endpoint>.<from>.<to>", so the 3rd and 4th dot-separated
// parts are from/to; fewer parts is InvalidTopic.
func ParseStream(subject string) (from, to string, err error) {
	parts := strings.Split(subject, separator)
	if len(parts) < 4 {
		return "", "", apperror.New(apperror.CodeInvalidTopic,
			apperror.WithMessage("subject has too few parts: "+subject))
	}
	return parts[2], parts[3], nil
}
