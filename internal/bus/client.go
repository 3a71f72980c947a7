// Package bus wraps a NATS connection with the connector's publish
// conventions: every payload carries a status header (ok/error) and the
// connection tracks its own health independent of nats.Conn's state machine.
// Grounded on protocol/src/client.rs's NatsClient.
package bus

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/marketfeed/connector/internal/apperror"
	"github.com/marketfeed/connector/internal/logger"
)

// StatusHeader is the header key carrying Status on every published message.
const StatusHeader = "status"

// Status tags a published message as a success or an error payload.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Config configures the bus connection.
type Config struct {
	Host          string
	Port          int
	MaxReconnects int
}

// Address returns the nats:// connection URL for Config.
func (c Config) Address() string {
	port := c.Port
	if port <= 0 {
		port = 4222
	}
	return "nats://" + c.Host + ":" + strconv.Itoa(port)
}

// Client is a NATS connection scoped to the connector's publish/request
// conventions.
type Client struct {
	conn    *nats.Conn
	healthy atomic.Bool
	log     logger.LoggerInterface
}

// Connect dials the bus and installs the connection-health tracking that
// mirrors NatsClient's Arc<RwLock<Event>> cell.
func Connect(cfg Config, log logger.LoggerInterface) (*Client, error) {
	c := &Client{log: log}
	c.healthy.Store(true)

	conn, err := nats.Connect(cfg.Address(),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn(context.Background(), "bus disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.healthy.Store(true)
			log.Info(context.Background(), "bus reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			c.healthy.Store(false)
			log.Warn(context.Background(), "bus connection closed")
		}),
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeConnectionRefused,
			apperror.WithMessage("cannot connect to bus at "+cfg.Address()),
			apperror.WithCause(err))
	}
	c.conn = conn
	log.Info(context.Background(), "bus connected", "address", cfg.Address())
	return c, nil
}

// IsHealthy reports whether the connection is currently usable: not closed
// and not given up after exhausting max reconnects.
func (c *Client) IsHealthy() bool {
	return c.healthy.Load() && c.conn.Status() != nats.CLOSED
}

// SendMessage publishes payload on subject with a status=ok header.
func (c *Client) SendMessage(subject string, payload []byte) error {
	return c.send(subject, payload, StatusOK)
}

// SendError publishes payload on subject with a status=error header.
func (c *Client) SendError(subject string, payload []byte) error {
	return c.send(subject, payload, StatusError)
}

func (c *Client) send(subject string, payload []byte, status Status) error {
	msg := &nats.Msg{
		Subject: subject,
		Data:    payload,
		Header:  nats.Header{StatusHeader: []string{string(status)}},
	}
	if err := c.conn.PublishMsg(msg); err != nil {
		return apperror.New(apperror.CodePublishError,
			apperror.WithMessage("cannot publish to "+subject),
			apperror.WithCause(err))
	}
	return nil
}

// SendRequest performs a request/reply round trip on subject, returning the
// raw reply payload and its status header.
func (c *Client) SendRequest(ctx context.Context, subject string, payload []byte) ([]byte, Status, error) {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	reply, err := c.conn.Request(subject, payload, timeout)
	if err != nil {
		return nil, "", apperror.New(apperror.CodeConnectionRefused,
			apperror.WithMessage("request to "+subject+" failed"),
			apperror.WithCause(err))
	}
	status := Status(reply.Header.Get(StatusHeader))
	return reply.Data, status, nil
}

// Subscribe delivers every message published on subject to handler.
func (c *Client) Subscribe(subject string, handler func(*nats.Msg)) (*nats.Subscription, error) {
	sub, err := c.conn.Subscribe(subject, handler)
	if err != nil {
		return nil, apperror.New(apperror.CodeConnectionRefused,
			apperror.WithMessage("cannot subscribe to "+subject),
			apperror.WithCause(err))
	}
	return sub, nil
}

// QueueSubscribe delivers messages on subject to exactly one member of
// queue, load-balancing across the group — used for the markets request
// handler pool so only one worker answers each request.
func (c *Client) QueueSubscribe(subject, queue string, handler func(*nats.Msg)) (*nats.Subscription, error) {
	sub, err := c.conn.QueueSubscribe(subject, queue, handler)
	if err != nil {
		return nil, apperror.New(apperror.CodeConnectionRefused,
			apperror.WithMessage("cannot queue-subscribe to "+subject),
			apperror.WithCause(err))
	}
	return sub, nil
}

// Respond replies to a received request message with payload and status.
func (c *Client) Respond(msg *nats.Msg, payload []byte, status Status) error {
	reply := &nats.Msg{
		Subject: msg.Reply,
		Data:    payload,
		Header:  nats.Header{StatusHeader: []string{string(status)}},
	}
	if err := msg.RespondMsg(reply); err != nil {
		return apperror.New(apperror.CodePublishError,
			apperror.WithMessage("cannot respond to "+msg.Subject),
			apperror.WithCause(err))
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
