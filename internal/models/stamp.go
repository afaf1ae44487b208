package models

// Stamp LWW-метка версии документа: (Sequence, Timestamp, Origin).
type Stamp struct {
	Origin    string `json:"origin"`    // Origin узел, создавший версию
	Sequence  uint64 `json:"sequence"`  // Sequence счетчик узла-источника
	Timestamp int64  `json:"timestamp"` // Timestamp wall-clock подсказка
}

// IsZero сообщает, что метка не задана (документ без известного происхождения).
func (s Stamp) IsZero() bool {
	return s.Origin == "" && s.Sequence == 0 && s.Timestamp == 0
}

// IsNewerThan сравнивает две метки согласно LWW (Last-Write-Wins):
// 1. Сначала сравнивается Sequence (больший выигрывает)
// 2. При равных Sequence сравнивается Timestamp
// 3. При равных Timestamp сравнивается Origin (лексикографически)
// Возвращает true, если s строго новее other.
func (s Stamp) IsNewerThan(other Stamp) bool {
	if s.Sequence != other.Sequence {
		return s.Sequence > other.Sequence
	}
	if s.Timestamp != other.Timestamp {
		return s.Timestamp > other.Timestamp
	}
	// Sequence и Timestamp равны - сравниваем Origin для детерминизма
	return s.Origin > other.Origin
}

// Provenance хранимое происхождение документа: метка последней выигравшей
// версии и флаг tombstone.
type Provenance struct {
	Stamp
	Deleted bool `json:"deleted"` // Deleted документ удален этой версией
}
