// Package network defines the publish/subscribe overlay the sync engine runs on.
package network

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate moq -out transport_mock.go . Transport Subscription

// Transport errors
var (
	// ErrNotStarted indicates that the transport was used before Start
	ErrNotStarted = errors.New("transport not started")

	// ErrNoPeers indicates that a publish reached nobody
	ErrNoPeers = errors.New("no peers reachable")

	// ErrClosed indicates that the transport or subscription is closed
	ErrClosed = errors.New("transport closed")
)

// Message is a payload received on a topic
type Message struct {
	// PeerID identifies the publishing peer
	PeerID string
	Data   []byte
}

// Subscription delivers messages of one topic.
type Subscription interface {
	// Messages returns the delivery channel. It is closed after Cancel
	// or when the transport stops.
	Messages() <-chan Message

	// Cancel stops the delivery. Safe to call more than once.
	Cancel()
}

// Transport is a publish/subscribe overlay.
type Transport interface {
	// Start connects the transport
	Start(ctx context.Context) error

	// Stop disconnects the transport and closes every subscription
	Stop() error

	// LocalPeerID returns the identifier other peers see as the sender
	LocalPeerID() string

	// Publish sends data to every other subscriber of topic
	Publish(ctx context.Context, topic string, data []byte) error

	// Subscribe starts receiving messages published on topic by other peers
	Subscribe(ctx context.Context, topic string) (Subscription, error)
}

// TopicPrefix prefixes every room topic
const TopicPrefix = "docsync/"

// RoomTopic returns the topic name of a room
func RoomTopic(roomID uuid.UUID) string {
	return TopicPrefix + roomID.String()
}

// TopicRoom extracts the room id from a topic built by RoomTopic
func TopicRoom(topic string) (uuid.UUID, error) {
	room, ok := strings.CutPrefix(topic, TopicPrefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("topic %q is not a room topic", topic)
	}
	id, err := uuid.Parse(room)
	if err != nil {
		return uuid.Nil, fmt.Errorf("topic %q: %w", topic, err)
	}
	return id, nil
}
