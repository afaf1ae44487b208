// Package memory is an in-process network.Transport used by tests and local demos.
package memory

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/docsync/internal/network"
)

// DefaultBuffer is the per-subscription delivery buffer
const DefaultBuffer = 1024

type subscription struct {
	closed bool
	ch     chan network.Message
	peerID string
	topic  string
	id     int64
	once   sync.Once
	hub    *Hub
}

func (s *subscription) Messages() <-chan network.Message { return s.ch }

func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.hub.send(&unsubscribe{topic: s.topic, id: s.id})
	})
}

type publish struct {
	reply  chan error
	topic  string
	peerID string
	data   []byte
}

type unsubscribe struct {
	topic string
	id    int64
}

type dropPeer struct {
	peerID string
	done   chan struct{}
}

type partition struct {
	peers    []string
	isolated bool
}

// Hub routes messages between transports of the same process.
// A single goroutine owns the subscriber map; everything else talks to it over msgChan.
type Hub struct {
	logger    *slog.Logger
	streams   map[string][]*subscription
	isolated  map[string]bool
	msgChan   chan any
	quit      chan struct{}
	closeOnce sync.Once
	globalIDs int64
	idMu      sync.Mutex
	buffer    int
}

// NewHub creates a hub and starts its routing goroutine
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Hub{
		logger:   logger,
		streams:  make(map[string][]*subscription),
		isolated: make(map[string]bool),
		msgChan:  make(chan any),
		quit:     make(chan struct{}),
		buffer:   DefaultBuffer,
	}
	go h.run()
	return h
}

// Close stops the routing goroutine and closes every subscription
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}

// Join returns a transport for peerID. An empty peerID gets a random UUID.
func (h *Hub) Join(peerID string) *Transport {
	if peerID == "" {
		peerID = uuid.NewString()
	}
	return &Transport{hub: h, peerID: peerID}
}

// Partition cuts the given peers off: their publishes fail with
// network.ErrNoPeers and nothing is delivered to them.
func (h *Hub) Partition(peerIDs ...string) {
	h.send(&partition{peers: peerIDs, isolated: true})
}

// Heal reconnects previously partitioned peers
func (h *Hub) Heal(peerIDs ...string) {
	h.send(&partition{peers: peerIDs, isolated: false})
}

// send hands msg to the routing goroutine. Returns false when the hub is closed.
func (h *Hub) send(msg any) bool {
	select {
	case h.msgChan <- msg:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) nextID() int64 {
	h.idMu.Lock()
	defer h.idMu.Unlock()
	h.globalIDs++
	return h.globalIDs
}

func (h *Hub) run() {
	for {
		select {
		case msg := <-h.msgChan:
			switch m := msg.(type) {
			case *subscription:
				h.streams[m.topic] = append(h.streams[m.topic], m)

			case *unsubscribe:
				h.remove(m.topic, func(s *subscription) bool { return s.id == m.id })

			case *dropPeer:
				for topic := range h.streams {
					h.remove(topic, func(s *subscription) bool { return s.peerID == m.peerID })
				}
				close(m.done)

			case *partition:
				for _, p := range m.peers {
					if m.isolated {
						h.isolated[p] = true
					} else {
						delete(h.isolated, p)
					}
				}

			case *publish:
				m.reply <- h.deliver(m)
			}

		case <-h.quit:
			for topic := range h.streams {
				h.remove(topic, func(*subscription) bool { return true })
			}
			return
		}
	}
}

func (h *Hub) remove(topic string, match func(*subscription) bool) {
	var keep []*subscription
	for _, sub := range h.streams[topic] {
		if !match(sub) {
			keep = append(keep, sub)
			continue
		}
		if !sub.closed {
			sub.closed = true
			close(sub.ch)
		}
	}
	delete(h.streams, topic)
	if len(keep) > 0 {
		h.streams[topic] = keep
	}
}

func (h *Hub) deliver(m *publish) error {
	if h.isolated[m.peerID] {
		return network.ErrNoPeers
	}

	for _, sub := range h.streams[m.topic] {
		if sub.peerID == m.peerID || h.isolated[sub.peerID] {
			continue
		}
		msg := network.Message{PeerID: m.peerID, Data: bytes.Clone(m.data)}
		select {
		case sub.ch <- msg:
		default:
			h.logger.Warn("Subscriber buffer full, message dropped",
				"topic", m.topic,
				"peer", sub.peerID)
		}
	}
	return nil
}
