// Package wsrelay is a network.Transport that talks to the docsync relay over websockets.
package wsrelay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/iudanet/docsync/internal/network"
)

// Settings tunes connection handling
type Settings struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
	Buffer           int
}

// DefaultSettings returns settings suitable for most deployments
func DefaultSettings() *Settings {
	return &Settings{
		HandshakeTimeout: 5 * time.Second,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      30 * time.Second,
		PingInterval:     10 * time.Second,
		ReconnectInitial: 250 * time.Millisecond,
		ReconnectMax:     15 * time.Second,
		Buffer:           1024,
	}
}

// TokenFunc returns the bearer token for a room
type TokenFunc func(ctx context.Context, roomID string) (string, error)

// Transport keeps one websocket per subscribed room
type Transport struct {
	ctx      context.Context
	logger   *slog.Logger
	dialer   *websocket.Dialer
	settings *Settings
	rooms    *xsync.MapOf[string, *roomConn]
	cancel   context.CancelFunc
	token    TokenFunc
	baseURL  string
	peerID   string
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  atomic.Bool
}

var _ network.Transport = (*Transport)(nil)

// New creates a relay transport.
// baseURL is the relay address, e.g. ws://127.0.0.1:8080.
// peerID must match the peer claim of the tokens returned by token.
func New(baseURL, peerID string, token TokenFunc, settings *Settings, logger *slog.Logger) *Transport {
	if settings == nil {
		settings = DefaultSettings()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transport{
		logger:   logger.With("component", "wsrelay", "peer", peerID),
		dialer:   &websocket.Dialer{HandshakeTimeout: settings.HandshakeTimeout},
		settings: settings,
		rooms:    xsync.NewMapOf[string, *roomConn](),
		token:    token,
		baseURL:  strings.TrimRight(baseURL, "/"),
		peerID:   peerID,
	}
}

func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started.Load() {
		return nil
	}
	// Соединения живут дольше ctx вызова Start
	t.ctx, t.cancel = context.WithCancel(context.WithoutCancel(ctx))
	t.started.Store(true)
	return nil
}

// Stop closes every room connection and waits for their goroutines
func (t *Transport) Stop() error {
	t.mu.Lock()
	if !t.started.Swap(false) {
		t.mu.Unlock()
		return nil
	}
	t.cancel()
	t.mu.Unlock()

	t.wg.Wait()
	t.rooms.Clear()
	return nil
}

func (t *Transport) LocalPeerID() string {
	return t.peerID
}

func (t *Transport) Publish(ctx context.Context, topic string, data []byte) error {
	if !t.started.Load() {
		return network.ErrNotStarted
	}

	room, err := network.TopicRoom(topic)
	if err != nil {
		return err
	}
	c, ok := t.rooms.Load(room.String())
	if !ok {
		return fmt.Errorf("%w: not subscribed to %s", network.ErrNotStarted, topic)
	}
	return c.write(ctx, data)
}

func (t *Transport) Subscribe(ctx context.Context, topic string) (network.Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started.Load() {
		return nil, network.ErrNotStarted
	}

	room, err := network.TopicRoom(topic)
	if err != nil {
		return nil, err
	}

	connCtx, cancel := context.WithCancel(t.ctx)
	c := &roomConn{
		t:      t,
		room:   room.String(),
		url:    fmt.Sprintf("%s/api/v1/rooms/%s/ws", t.baseURL, room),
		out:    make(chan network.Message, t.settings.Buffer),
		cancel: cancel,
	}
	if _, loaded := t.rooms.LoadOrStore(c.room, c); loaded {
		cancel()
		return nil, fmt.Errorf("already subscribed to %s", topic)
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		c.run(connCtx)
	}()

	return c, nil
}

// dial opens an authenticated websocket to url
func (t *Transport) dial(ctx context.Context, room, url string) (*websocket.Conn, error) {
	token, err := t.token(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("failed to get room token: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	ws, resp, err := t.dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("relay dial failed: %w", err)
	}
	return ws, nil
}
