package memory

import (
	"context"
	"sync/atomic"

	"github.com/iudanet/docsync/internal/network"
)

// Transport is one peer's endpoint on a Hub
type Transport struct {
	hub     *Hub
	peerID  string
	started atomic.Bool
}

var _ network.Transport = (*Transport)(nil)

func (t *Transport) Start(ctx context.Context) error {
	select {
	case <-t.hub.quit:
		return network.ErrClosed
	default:
	}
	t.started.Store(true)
	return nil
}

// Stop closes every subscription of this peer
func (t *Transport) Stop() error {
	if !t.started.Swap(false) {
		return nil
	}
	done := make(chan struct{})
	if t.hub.send(&dropPeer{peerID: t.peerID, done: done}) {
		<-done
	}
	return nil
}

func (t *Transport) LocalPeerID() string {
	return t.peerID
}

func (t *Transport) Publish(ctx context.Context, topic string, data []byte) error {
	if !t.started.Load() {
		return network.ErrNotStarted
	}

	reply := make(chan error, 1)
	msg := &publish{reply: reply, topic: topic, peerID: t.peerID, data: data}
	select {
	case t.hub.msgChan <- msg:
	case <-t.hub.quit:
		return network.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transport) Subscribe(ctx context.Context, topic string) (network.Subscription, error) {
	if !t.started.Load() {
		return nil, network.ErrNotStarted
	}

	sub := &subscription{
		ch:     make(chan network.Message, t.hub.buffer),
		peerID: t.peerID,
		topic:  topic,
		id:     t.hub.nextID(),
		hub:    t.hub,
	}
	if !t.hub.send(sub) {
		return nil, network.ErrClosed
	}
	return sub, nil
}
