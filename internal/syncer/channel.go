package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/iudanet/docsync/internal/codec"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/network"
)

// Sealer protects message bytes on the wire. Open must reject foreign or altered messages.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Channel connects an engine to one room of a transport.
// A sender goroutine publishes committed records, a receiver goroutine applies remote bursts.
type Channel struct {
	engine    *Engine
	transport network.Transport
	sub       network.Subscription
	sealer    Sealer
	logger    *slog.Logger
	members   *xsync.MapOf[string, time.Time]

	sendCtx    context.Context
	sendCancel context.CancelFunc
	recvCtx    context.Context
	recvCancel context.CancelFunc

	notify       chan struct{}
	draining     chan struct{}
	senderDone   chan struct{}
	receiverDone chan struct{}

	requested time.Time // последний запрос catch-up по пропуску

	topic   string
	pending [][]models.ChangeRecord
	queued  int
	wg      sync.WaitGroup
	mu      sync.Mutex
	once    sync.Once
	closed  bool
}

// Start subscribes to the room, starts the sender and receiver and asks
// room members for the records missed while offline. The request is repeated
// every CatchUpInterval. A nil sealer sends messages in clear.
func (e *Engine) Start(ctx context.Context, transport network.Transport, roomID uuid.UUID, sealer Sealer) (*Channel, error) {
	if roomID == uuid.Nil {
		return nil, ErrInvalidRoom
	}

	topic := network.RoomTopic(roomID)
	sub, err := transport.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to room %s: %w", roomID, err)
	}

	c := &Channel{
		engine:       e,
		transport:    transport,
		sub:          sub,
		sealer:       sealer,
		logger:       e.logger.With("room", roomID.String()),
		members:      xsync.NewMapOf[string, time.Time](),
		notify:       make(chan struct{}, 1),
		draining:     make(chan struct{}),
		senderDone:   make(chan struct{}),
		receiverDone: make(chan struct{}),
		topic:        topic,
	}
	// Loops outlive the caller's context; Close stops them
	c.sendCtx, c.sendCancel = context.WithCancel(context.WithoutCancel(ctx))
	c.recvCtx, c.recvCancel = context.WithCancel(context.WithoutCancel(ctx))

	if err := e.attach(c); err != nil {
		sub.Cancel()
		return nil, err
	}

	go c.sendLoop()
	go c.receiveLoop()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.requestCatchUp()
	}()

	if interval := e.cfg.CatchUpInterval; interval > 0 {
		c.wg.Add(1)
		go c.antiEntropyLoop(interval)
	}

	c.logger.Info("Joined room", "topic", topic)
	return c, nil
}

// Members returns the peers seen in the room, sorted
func (c *Channel) Members() []string {
	out := make([]string, 0, c.members.Size())
	c.members.Range(func(peer string, _ time.Time) bool {
		out = append(out, peer)
		return true
	})
	sort.Strings(out)
	return out
}

// Queued returns the number of records waiting to be published
func (c *Channel) Queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queued
}

// enqueue adds one committed batch. At capacity the oldest unsent records are dropped;
// they stay in the outbox for catch-up.
func (c *Channel) enqueue(records []models.ChangeRecord) {
	batch := make([]models.ChangeRecord, 0, len(records))
	for i := range records {
		batch = append(batch, records[i].Clone())
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("Channel closed, records kept in outbox", "count", len(batch))
		return
	}

	c.pending = append(c.pending, batch)
	c.queued += len(batch)

	dropped := 0
	for depth := c.engine.cfg.QueueDepth; c.queued > depth; {
		head := c.pending[0]
		n := min(len(head), c.queued-depth)
		if n == len(head) {
			c.pending = c.pending[1:]
		} else {
			c.pending[0] = head[n:]
		}
		c.queued -= n
		dropped += n
	}
	queued := c.queued
	c.mu.Unlock()

	c.engine.metrics.queueDepth.Set(float64(queued))
	if dropped > 0 {
		c.engine.metrics.backlogDropped.Add(float64(dropped))
		c.logger.Warn("Publish queue full, dropped oldest records", "dropped", dropped, "queued", queued)
		c.engine.events.backlogged.emit(dropped)
	}

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// take removes whole batches from the queue while they fit next to have records.
// With have == 0 the first batch is taken regardless of its size.
func (c *Channel) take(have int) []models.ChangeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []models.ChangeRecord
	for len(c.pending) > 0 {
		head := c.pending[0]
		total := have + len(out)
		if total > 0 && total+len(head) > c.engine.cfg.MaxBatchRecords {
			break
		}
		out = append(out, head...)
		c.pending = c.pending[1:]
		c.queued -= len(head)
	}
	c.engine.metrics.queueDepth.Set(float64(c.queued))
	return out
}

func (c *Channel) sendLoop() {
	defer close(c.senderDone)

	for {
		batch := c.take(0)
		if len(batch) > 0 {
			c.send(batch)
			continue
		}

		select {
		case <-c.notify:
		case <-c.draining:
			if c.Queued() == 0 {
				return
			}
		case <-c.sendCtx.Done():
			return
		}
	}
}

// send publishes batch with exponential backoff. Records committed meanwhile
// stay queued with a full attempt budget of their own.
func (c *Channel) send(batch []models.ChangeRecord) {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = c.engine.cfg.InitialBackoff
	retry.MaxInterval = c.engine.cfg.MaxBackoff
	retry.MaxElapsedTime = 0

	var lastErr error
	for attempt := 1; ; attempt++ {
		lastErr = c.publish(c.sendCtx, models.Message{Type: models.MessageRecords, Records: batch})
		if lastErr == nil {
			c.engine.metrics.published.Add(float64(len(batch)))
			c.logger.Debug("Published records", "count", len(batch), "attempt", attempt)
			return
		}
		c.engine.metrics.publishErrors.Inc()

		if attempt >= c.engine.cfg.MaxAttempts || c.sendCtx.Err() != nil {
			break
		}

		wait := retry.NextBackOff()
		c.logger.Debug("Publish failed, retrying", "count", len(batch), "attempt", attempt, "wait", wait, "error", lastErr)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-c.sendCtx.Done():
			timer.Stop()
		}
		if c.sendCtx.Err() != nil {
			break
		}
	}

	if c.sendCtx.Err() != nil {
		c.logger.Warn("Abandoning unsent records", "count", len(batch))
		return
	}

	c.logger.Error("Failed to publish records", "count", len(batch), "error", lastErr)
	c.engine.metrics.publishFailed.Add(float64(len(batch)))
	for i := range batch {
		c.engine.events.publishFailed.emit(batch[i])
	}
}

// publish makes one attempt bounded by the publish timeout
func (c *Channel) publish(ctx context.Context, msg models.Message) error {
	data := codec.EncodeMessage(msg)
	if c.sealer != nil {
		sealed, err := c.sealer.Seal(data)
		if err != nil {
			return fmt.Errorf("failed to seal message: %w", err)
		}
		data = sealed
	}

	ctx, cancel := context.WithTimeout(ctx, c.engine.cfg.PublishTimeout)
	defer cancel()
	return c.transport.Publish(ctx, c.topic, data)
}

func (c *Channel) receiveLoop() {
	defer close(c.receiverDone)

	messages := c.sub.Messages()
	for {
		select {
		case <-c.recvCtx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				c.logger.Warn("Room subscription closed")
				return
			}

			burst := []network.Message{msg}
		drain:
			for len(burst) < c.engine.cfg.MaxBurst {
				select {
				case next, ok := <-messages:
					if !ok {
						break drain
					}
					burst = append(burst, next)
				default:
					break drain
				}
			}

			c.handleBurst(burst)
		}
	}
}

// handleBurst applies all records of a burst in one transaction
func (c *Channel) handleBurst(burst []network.Message) {
	c.engine.metrics.bursts.Inc()
	self := c.engine.PeerID()

	var records []models.ChangeRecord
	for _, m := range burst {
		if m.PeerID == self {
			continue
		}
		msg, err := c.decode(m.Data)
		if err != nil {
			c.engine.metrics.codecErrors.Inc()
			c.logger.Warn("Dropping malformed message", "from", m.PeerID, "size", len(m.Data), "error", err)
			continue
		}
		isNew := c.touch(m.PeerID)

		switch msg.Type {
		case models.MessageRecords, models.MessageCatchUpReply:
			records = append(records, msg.Records...)
		case models.MessageCatchUpRequest:
			// Отстаем от запрашивающего: просим его записи в ответ
			behind := msg.Head > c.engine.cursor.Position(m.PeerID)
			c.serveCatchUp(m.PeerID, msg.Cursors, isNew || behind)
		}
	}

	if len(records) == 0 {
		return
	}

	result, err := c.engine.Apply(c.recvCtx, records)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Error("Failed to apply burst", "records", len(records), "error", err)
		return
	}

	if len(result.Gaps) > 0 && c.allowRequest() {
		c.logger.Info("Missing records detected, requesting catch-up", "origins", result.Gaps, "after_gap", result.AfterGap)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.requestCatchUp()
		}()
	}
}

// allowRequest limits gap-driven catch-up requests to one per InitialBackoff
func (c *Channel) allowRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.requested) < c.engine.cfg.InitialBackoff {
		return false
	}
	c.requested = now
	return true
}

// antiEntropyLoop periodically asks the room for missed records. Records lost
// to publish failures or queue drops are recovered here when no newer record
// from their origin reveals the gap.
func (c *Channel) antiEntropyLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.recvCtx.Done():
			return
		case <-ticker.C:
			c.requestCatchUp()
		}
	}
}

func (c *Channel) decode(data []byte) (models.Message, error) {
	if c.sealer != nil {
		opened, err := c.sealer.Open(data)
		if err != nil {
			return models.Message{}, err
		}
		data = opened
	}
	return codec.DecodeMessage(data)
}

// touch records a room member and reports whether it was unknown
func (c *Channel) touch(peer string) bool {
	_, loaded := c.members.LoadAndStore(peer, time.Now())
	if !loaded {
		c.engine.metrics.members.Set(float64(c.members.Size()))
		c.logger.Info("Peer joined room", "member", peer)
	}
	return !loaded
}

// serveCatchUp answers a catch-up request with local outbox records above the
// requester's cursor. When reciprocate is set (unknown member or one whose head
// is above our cursor) our own request follows, so both sides catch up after a
// reconnect or a healed partition.
func (c *Channel) serveCatchUp(peer string, cursors map[string]uint64, reciprocate bool) {
	after := cursors[c.engine.PeerID()]

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		records, err := c.engine.store.OutboxAfter(c.recvCtx, after, c.engine.cfg.CatchUpLimit)
		if err != nil {
			c.logger.Error("Failed to read outbox for catch-up", "requester", peer, "error", err)
			return
		}

		if len(records) > 0 {
			// Outbox trimmed past the requester's cursor: what is gone cannot be served
			if first := &records[0]; first.Previous > after {
				c.logger.Warn("Outbox trimmed beyond requester cursor, history lost",
					"requester", peer,
					"after", after,
					"oldest_previous", first.Previous)
				first.Previous = after
			}

			err := c.publish(c.recvCtx, models.Message{Type: models.MessageCatchUpReply, Records: records})
			if err != nil {
				c.logger.Warn("Failed to send catch-up reply", "requester", peer, "count", len(records), "error", err)
			} else {
				c.engine.metrics.catchUpServed.Add(float64(len(records)))
				c.logger.Debug("Catch-up reply sent", "requester", peer, "after", after, "count", len(records))
			}
		}

		if reciprocate {
			c.requestCatchUp()
		}
	}()
}

// requestCatchUp asks room members for records above our cursors and
// announces our head. Single attempt.
func (c *Channel) requestCatchUp() {
	msg := models.Message{
		Type:    models.MessageCatchUpRequest,
		Cursors: c.engine.Cursors(),
		Head:    c.engine.Head(),
	}
	if err := c.publish(c.recvCtx, msg); err != nil {
		if errors.Is(err, network.ErrNoPeers) {
			c.logger.Debug("No peers for catch-up request")
			return
		}
		c.logger.Warn("Failed to send catch-up request", "error", err)
	}
}

// Close stops accepting records and drains the publish queue until ctx expires;
// whatever is left then is abandoned and stays in the outbox.
func (c *Channel) Close(ctx context.Context) error {
	err := ErrChannelClosed
	c.once.Do(func() {
		err = nil
		c.engine.detach(c)

		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.draining)

		select {
		case <-c.senderDone:
		case <-ctx.Done():
			c.logger.Warn("Shutdown deadline reached, abandoning publish queue", "queued", c.Queued())
			c.sendCancel()
			<-c.senderDone
		}
		c.sendCancel()

		c.recvCancel()
		c.sub.Cancel()
		<-c.receiverDone
		c.wg.Wait()

		c.logger.Info("Left room")
	})
	return err
}
