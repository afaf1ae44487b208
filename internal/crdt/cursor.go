package crdt

import (
	"sync"
)

// ApplyCursor хранит для каждого узла-источника наибольший обработанный номер
// последовательности. Используется для отбрасывания повторно доставленных записей.
type ApplyCursor struct {
	positions map[string]uint64 // map[originPeer]sequence
	mu        sync.RWMutex      // мьютекс для потокобезопасности
}

// NewApplyCursor создает пустой курсор.
func NewApplyCursor() *ApplyCursor {
	return &ApplyCursor{
		positions: make(map[string]uint64),
	}
}

// Load заменяет состояние курсора сохраненным снимком.
func (c *ApplyCursor) Load(snapshot map[string]uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.positions = make(map[string]uint64, len(snapshot))
	for origin, seq := range snapshot {
		c.positions[origin] = seq
	}
}

// Position возвращает последний обработанный номер для узла (0, если записей не было).
func (c *ApplyCursor) Position(origin string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.positions[origin]
}

// Seen сообщает, что запись (origin, sequence) уже обработана.
func (c *ApplyCursor) Seen(origin string, sequence uint64) bool {
	return sequence <= c.Position(origin)
}

// Advance поднимает курсор узла до sequence. Курсор никогда не уменьшается.
// Возвращает true, если позиция изменилась.
func (c *ApplyCursor) Advance(origin string, sequence uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sequence <= c.positions[origin] {
		return false
	}
	c.positions[origin] = sequence
	return true
}

// Snapshot возвращает копию всех позиций.
func (c *ApplyCursor) Snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]uint64, len(c.positions))
	for origin, seq := range c.positions {
		result[origin] = seq
	}
	return result
}
