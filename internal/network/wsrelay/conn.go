package wsrelay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/iudanet/docsync/internal/network"
	"github.com/iudanet/docsync/pkg/api"
)

// roomConn is the reconnecting websocket of one room. It is also the
// network.Subscription handed to the caller.
type roomConn struct {
	t      *Transport
	ws     *websocket.Conn
	out    chan network.Message
	cancel context.CancelFunc
	room   string
	url    string
	once   sync.Once
	mu     sync.Mutex
}

func (c *roomConn) Messages() <-chan network.Message { return c.out }

func (c *roomConn) Cancel() {
	c.once.Do(func() {
		c.cancel()
		c.t.rooms.Compute(c.room, func(old *roomConn, loaded bool) (*roomConn, bool) {
			if !loaded {
				return nil, true
			}
			return old, old == c
		})
	})
}

// write sends one frame; the gorilla connection allows a single concurrent writer
func (c *roomConn) write(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws == nil {
		return fmt.Errorf("%w: relay disconnected", network.ErrNoPeers)
	}

	deadline := time.Now().Add(c.t.settings.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.ws.SetWriteDeadline(deadline)

	if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
		// после ошибки записи соединение не восстановить
		_ = c.ws.Close()
		c.ws = nil
		return fmt.Errorf("relay write failed: %w", err)
	}
	return nil
}

func (c *roomConn) setConn(ws *websocket.Conn) {
	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
}

func (c *roomConn) run(ctx context.Context) {
	defer close(c.out)
	logger := c.t.logger.With("room", c.room)

	reconnect := backoff.NewExponentialBackOff()
	reconnect.InitialInterval = c.t.settings.ReconnectInitial
	reconnect.MaxInterval = c.t.settings.ReconnectMax
	reconnect.MaxElapsedTime = 0

	for {
		ws, err := c.t.dial(ctx, c.room, c.url)
		if err == nil {
			reconnect.Reset()
			logger.Info("Connected to relay")

			c.setConn(ws)
			err = c.serve(ctx, ws)
			c.setConn(nil)
			_ = ws.Close()
		}

		if ctx.Err() != nil {
			return
		}
		logger.Warn("Relay connection lost", "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnect.NextBackOff()):
		}
	}
}

// serve pumps frames from ws into out until the connection fails or ctx ends
func (c *roomConn) serve(ctx context.Context, ws *websocket.Conn) error {
	handleCtx, handleCancel := context.WithCancel(ctx)
	defer handleCancel()

	go func() {
		ticker := time.NewTicker(c.t.settings.PingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-handleCtx.Done():
				// разблокирует ReadMessage
				_ = ws.Close()
				return
			case <-ticker.C:
				// пустое бинарное сообщение служит ping
				if err := c.write(handleCtx, []byte{}); err != nil {
					handleCancel()
					return
				}
			}
		}
	}()

	for {
		_ = ws.SetReadDeadline(time.Now().Add(c.t.settings.ReadTimeout))
		messageType, message, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		if messageType != websocket.BinaryMessage || len(message) == 0 {
			continue
		}

		frame, err := api.UnmarshalRelayFrame(message)
		if err != nil {
			c.t.logger.Warn("Dropping malformed relay frame", "room", c.room, "error", err)
			continue
		}
		if frame.PeerID == c.t.peerID {
			continue
		}

		select {
		case c.out <- network.Message{PeerID: frame.PeerID, Data: frame.Data}:
		case <-handleCtx.Done():
			return handleCtx.Err()
		default:
			c.t.logger.Warn("Receive buffer full, frame dropped", "room", c.room, "from", frame.PeerID)
		}
	}
}
