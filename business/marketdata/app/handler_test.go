package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marketfeed/connector/business/marketdata/domain"
	"github.com/marketfeed/connector/internal/logger"
)

type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...any) {}
func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (n noopLogger) With(...any) logger.LoggerInterface  { return n }

var _ logger.LoggerInterface = noopLogger{}

type fakePublisher struct {
	mu   sync.Mutex
	sent []fakeSend
}

type fakeSend struct {
	subject string
	payload []byte
}

func (f *fakePublisher) SendMessage(subject string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fakeSend{subject, payload})
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeSubscriber struct {
	mu           sync.Mutex
	subscribed   []string
	unsubscribed []string
}

func (f *fakeSubscriber) Subscribe(market domain.Market, channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, channel)
}

func (f *fakeSubscriber) Unsubscribe(market domain.Market, channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, channel)
}

func encodeTickerForTest(msg *domain.TickerMessage) []byte { return []byte(msg.Tick.BidPrice) }

func TestHandler_DispatchSubscribesOncePerMarket(t *testing.T) {
	pub := &fakePublisher{}
	sub := &fakeSubscriber{}
	h := NewHandler[domain.RawTicker, *domain.TickerMessage](pub, sub,
		func() State[domain.RawTicker, *domain.TickerMessage] { return NewTickerState(domain.ExchangeCryptocom) },
		encodeTickerForTest, noopLogger{}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	market := domain.NewMarket("btc", "usd")
	for i := 0; i < 3; i++ {
		h.Dispatch(ctx, NewUpdatedEvent(market, domain.RawTicker{}))
	}

	deadline := time.After(time.Second)
	for pub.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for 3 published messages, got %d", pub.count())
		case <-time.After(time.Millisecond):
		}
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.subscribed) != 1 {
		t.Fatalf("Subscribe called %d times, want exactly 1 (lazy per-market spawn)", len(sub.subscribed))
	}
}

func TestHandler_ShutdownUnsubscribes(t *testing.T) {
	pub := &fakePublisher{}
	sub := &fakeSubscriber{}
	h := NewHandler[domain.RawTicker, *domain.TickerMessage](pub, sub,
		func() State[domain.RawTicker, *domain.TickerMessage] { return NewTickerState(domain.ExchangeCryptocom) },
		encodeTickerForTest, noopLogger{}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	market := domain.NewMarket("btc", "usd")
	h.Dispatch(ctx, NewUpdatedEvent(market, domain.RawTicker{}))

	deadline := time.After(time.Second)
	for pub.count() < 1 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for first publish")
		case <-time.After(time.Millisecond):
		}
	}

	h.Shutdown()

	deadline = time.After(time.Second)
	for {
		sub.mu.Lock()
		n := len(sub.unsubscribed)
		sub.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for Unsubscribe after Shutdown")
		case <-time.After(time.Millisecond):
		}
	}
}
