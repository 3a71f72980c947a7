// Package di contains dependency injection tokens for the marketdata
// bounded context, and typed accessors over internal/di's service registry.
package di

import (
	"github.com/marketfeed/connector/internal/bus"
	busdi "github.com/marketfeed/connector/internal/di"
)

// DI tokens for the marketdata module.
const (
	BusClient      = "marketdata.BusClient"
	MarketsHandler = "marketdata.MarketsHandler"
	TickerHandler  = "marketdata.TickerHandler"
	TradesHandler  = "marketdata.TradesHandler"
	BookHandler    = "marketdata.BookHandler"
)

// GetBusClient resolves the shared bus client.
func GetBusClient(sr busdi.ServiceRegistry) *bus.Client {
	return busdi.Resolve[*bus.Client](sr, BusClient)
}
