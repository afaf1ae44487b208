package crdt

import (
	"github.com/iudanet/docsync/internal/models"
)

// Verdict результат сравнения входящей версии с известным происхождением документа.
type Verdict int

const (
	// VerdictApply входящая версия новее - применяем
	VerdictApply Verdict = iota
	// VerdictDuplicate та же самая версия уже применена
	VerdictDuplicate
	// VerdictStale известная версия новее - входящую отбрасываем
	VerdictStale
)

func (v Verdict) String() string {
	switch v {
	case VerdictApply:
		return "apply"
	case VerdictDuplicate:
		return "duplicate"
	case VerdictStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Resolve применяет правило LWW (Last-Write-Wins) к одной версии документа.
// current == nil означает, что происхождение документа неизвестно; такая
// версия считается самой старой, и любая входящая запись выигрывает.
// Решение зависит только от меток, поэтому все узлы, видевшие одинаковый
// набор записей, приходят к одинаковому состоянию в любом порядке доставки.
func Resolve(incoming models.Stamp, current *models.Provenance) Verdict {
	if current == nil || current.IsZero() {
		return VerdictApply
	}
	if incoming == current.Stamp {
		return VerdictDuplicate
	}
	if incoming.IsNewerThan(current.Stamp) {
		return VerdictApply
	}
	return VerdictStale
}
