package relay

import (
	"log/slog"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// peer is one connected websocket; the write loop drains send
type peer struct {
	send   chan []byte
	closed chan struct{}
	id     string
	once   sync.Once
}

// kick closes the peer's write loop, which closes the socket
func (p *peer) kick() {
	p.once.Do(func() { close(p.closed) })
}

// room holds the peers currently connected to one room
type room struct {
	peers map[string]*peer
	mu    sync.RWMutex
}

// Hub fans frames out to the members of a room
type Hub struct {
	logger  *slog.Logger
	metrics *metrics
	rooms   *xsync.MapOf[string, *room]
}

func newHub(logger *slog.Logger, m *metrics) *Hub {
	return &Hub{
		logger:  logger,
		metrics: m,
		rooms:   xsync.NewMapOf[string, *room](),
	}
}

// join registers p in roomID. A previous connection of the same peer is kicked.
func (h *Hub) join(roomID string, p *peer) {
	r, _ := h.rooms.LoadOrCompute(roomID, func() *room {
		return &room{peers: make(map[string]*peer)}
	})

	r.mu.Lock()
	old := r.peers[p.id]
	r.peers[p.id] = p
	r.mu.Unlock()

	if old != nil {
		h.logger.Info("Replacing existing peer connection", "room", roomID, "peer", p.id)
		old.kick()
	} else {
		h.metrics.peers.Inc()
	}
}

// leave removes p if it is still the registered connection of its peer id
func (h *Hub) leave(roomID string, p *peer) {
	r, ok := h.rooms.Load(roomID)
	if !ok {
		return
	}

	r.mu.Lock()
	if r.peers[p.id] == p {
		delete(r.peers, p.id)
		h.metrics.peers.Dec()
	}
	empty := len(r.peers) == 0
	r.mu.Unlock()

	if empty {
		h.rooms.Compute(roomID, func(old *room, loaded bool) (*room, bool) {
			if !loaded {
				return nil, true
			}
			old.mu.RLock()
			defer old.mu.RUnlock()
			return old, len(old.peers) == 0
		})
	}
}

// broadcast sends frame to every member of roomID except the sender
func (h *Hub) broadcast(roomID, from string, frame []byte) int {
	r, ok := h.rooms.Load(roomID)
	if !ok {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for id, p := range r.peers {
		if id == from {
			continue
		}
		select {
		case p.send <- frame:
			delivered++
		default:
			h.metrics.dropped.Inc()
			h.logger.Warn("Peer send buffer full, frame dropped", "room", roomID, "peer", id)
		}
	}
	return delivered
}

// stats returns the number of rooms and connected peers
func (h *Hub) stats() (rooms, peers int) {
	h.rooms.Range(func(_ string, r *room) bool {
		rooms++
		r.mu.RLock()
		peers += len(r.peers)
		r.mu.RUnlock()
		return true
	})
	return rooms, peers
}
