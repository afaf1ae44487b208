package crdt

import (
	"sync"
)

// SequenceClock выдает номера последовательности для записей локального узла.
// Это логические часы Лампорта: локальное событие увеличивает счетчик,
// а наблюдение удаленного номера поднимает счетчик до него, так что следующая
// локальная запись выигрывает LWW у всего, что узел уже видел.
// Номера строго возрастают в рамках одного узла; пропуски допустимы.
type SequenceClock struct {
	peerID  string     // идентификатор локального узла
	counter uint64     // последний выданный или наблюденный номер
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// NewSequenceClock создает часы для узла peerID, начиная с нуля.
func NewSequenceClock(peerID string) *SequenceClock {
	return &SequenceClock{peerID: peerID}
}

// Tick увеличивает счетчик и возвращает новый номер для локальной записи.
func (c *SequenceClock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	return c.counter
}

// Witness учитывает номер удаленной записи: counter = max(counter, remote).
// Возвращает текущее значение счетчика.
func (c *SequenceClock) Witness(remote uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remote > c.counter {
		c.counter = remote
	}
	return c.counter
}

// Restore восстанавливает состояние после перезапуска из сохраненного
// high-water mark. Счетчик никогда не уменьшается.
func (c *SequenceClock) Restore(highWater uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if highWater > c.counter {
		c.counter = highWater
	}
}

// Current возвращает текущее значение счетчика без изменения.
func (c *SequenceClock) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counter
}

// PeerID возвращает идентификатор узла, которому принадлежат часы.
func (c *SequenceClock) PeerID() string {
	return c.peerID
}
