// Package relay maintains the live connection to the message relay. It
// delivers inbound pushes to a registered handler and emits fire-and-forget
// frames for the recipient's real-time update; the authoritative send path
// lives in the api package.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"potluck/internal/models"
)

const (
	initialRedialDelay = 500 * time.Millisecond
	maxRedialDelay     = 30 * time.Second
)

var ErrNotConnected = errors.New("relay channel is not connected")

type wsConn interface {
	Close() error
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
}

// Dialer opens a websocket connection to the relay. Tests swap it out.
type Dialer func(ctx context.Context, url string) (wsConn, error)

func defaultDialer(ctx context.Context, url string) (wsConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	return conn, err
}

// Handler receives one inbound push per invocation.
type Handler func(evt models.ServerEvent)

// Channel is one live relay connection, scoped to a single identity.
// Open after login, Close on logout; an identity change requires a fresh
// Open, which tears down the stale connection first.
type Channel struct {
	url    string
	dial   Dialer
	logger *slog.Logger

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    wsConn
	userID  string
	handler Handler
	cancel  context.CancelFunc
	gen     int
}

func NewChannel(url string, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		url:    url,
		dial:   defaultDialer,
		logger: logger,
	}
}

// OnInbound registers the push handler. Register before Open; pushes
// arriving with no handler are dropped.
func (c *Channel) OnInbound(handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Open connects to the relay and registers the caller under identityID so
// the relay can route pushes to it. A previous connection for any identity
// is closed first. The connection is kept alive with exponential-backoff
// redials until Close or ctx cancellation.
func (c *Channel) Open(ctx context.Context, identityID string) {
	c.closeCurrent()

	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.userID = identityID
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(runCtx, identityID, gen)
}

// Close terminates the connection. Inbound pushes after Close are never
// delivered to the handler. Safe to call more than once.
func (c *Channel) Close() {
	c.closeCurrent()
}

// Connected reports whether a live connection is currently established.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// EmitMessage pushes a sendMessage frame over the live connection so the
// recipient sees the message immediately. Fire-and-forget: the caller's own
// transcript is never updated from this path.
func (c *Channel) EmitMessage(recipientID, body string) error {
	c.mu.Lock()
	conn := c.conn
	userID := c.userID
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	evt := models.ClientEvent{
		Type:        models.ClientEventTypeSend,
		EchoID:      uuid.NewString(),
		UserID:      userID,
		RecipientID: recipientID,
		Message:     body,
	}
	return c.write(conn, evt)
}

func (c *Channel) run(ctx context.Context, identityID string, gen int) {
	delay := initialRedialDelay

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dial(ctx, c.url)
		if err != nil {
			c.logger.Warn("relay dial failed", "error", err, "retry_in", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			delay = min(delay*2, maxRedialDelay)
			continue
		}

		join := models.ClientEvent{
			Type:   models.ClientEventTypeJoin,
			UserID: identityID,
		}
		if err := c.write(conn, join); err != nil {
			c.logger.Warn("relay join failed", "error", err)
			_ = conn.Close()
			continue
		}

		if !c.install(conn, gen) {
			// A newer Open or a Close raced us.
			_ = conn.Close()
			return
		}
		delay = initialRedialDelay

		c.pump(ctx, conn, gen)

		c.uninstall(conn, gen)
		_ = conn.Close()
	}
}

// pump reads frames until the connection drops or the context is done.
func (c *Channel) pump(ctx context.Context, conn wsConn, gen int) {
	for {
		var evt models.ServerEvent
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("relay read failed", "error", err)
			}
			return
		}

		c.mu.Lock()
		handler := c.handler
		stale := c.gen != gen
		c.mu.Unlock()

		if stale {
			return
		}
		if handler != nil && evt.Type == models.ServerEventTypeNewMessage {
			handler(evt)
		}
	}
}

func (c *Channel) install(conn wsConn, gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.conn = conn
	return true
}

func (c *Channel) uninstall(conn wsConn, gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen && c.conn == conn {
		c.conn = nil
	}
}

func (c *Channel) closeCurrent() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.cancel = nil
	c.conn = nil
	c.gen++ // anything still pumping for an older gen goes stale
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Channel) write(conn wsConn, v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}
