package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord возвращается, если запись изменения нарушает инварианты модели.
var ErrInvalidRecord = errors.New("invalid change record")

// Kind тип мутации, захваченной на локальном хранилище.
type Kind uint8

// Kind константы. Нулевое значение не является валидным типом.
const (
	KindInsert Kind = iota + 1
	KindUpdate
	KindUpsert
	KindDelete
	KindDeleteMany
)

// String возвращает имя типа мутации для логов.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindUpsert:
		return "upsert"
	case KindDelete:
		return "delete"
	case KindDeleteMany:
		return "delete_many"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid проверяет, что значение входит в перечисление.
func (k Kind) Valid() bool {
	return k >= KindInsert && k <= KindDeleteMany
}

// HasPayload сообщает, переносит ли мутация этого типа тело документа.
func (k Kind) HasPayload() bool {
	return k == KindInsert || k == KindUpdate || k == KindUpsert
}

// EntityID идентификатор затронутого документа: либо одно значение,
// либо упорядоченный список (только для DeleteMany).
type EntityID struct {
	ids  []string
	list bool
}

// ScalarID создает идентификатор одного документа.
func ScalarID(id string) EntityID {
	return EntityID{ids: []string{id}}
}

// ListID создает упорядоченный список идентификаторов.
func ListID(ids ...string) EntityID {
	if len(ids) == 0 {
		return EntityID{list: true}
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return EntityID{ids: cp, list: true}
}

// IsList сообщает, является ли идентификатор списком.
func (e EntityID) IsList() bool {
	return e.list
}

// Scalar возвращает одиночный идентификатор или пустую строку для списка.
func (e EntityID) Scalar() string {
	if e.list || len(e.ids) == 0 {
		return ""
	}
	return e.ids[0]
}

// IDs возвращает копию всех идентификаторов (для скаляра - срез из одного элемента).
func (e EntityID) IDs() []string {
	if len(e.ids) == 0 {
		return nil
	}
	cp := make([]string, len(e.ids))
	copy(cp, e.ids)
	return cp
}

// Len возвращает количество идентификаторов.
func (e EntityID) Len() int {
	return len(e.ids)
}

func (e EntityID) String() string {
	if e.list {
		return "[" + strings.Join(e.ids, ",") + "]"
	}
	return e.Scalar()
}

// ChangeRecord описывает одну закоммиченную локальную мутацию.
// После публикации запись не изменяется.
type ChangeRecord struct {
	Collection string   // Collection имя логической коллекции (может быть пустым)
	OriginPeer string   // OriginPeer непрозрачный идентификатор узла-источника
	EntityID   EntityID // EntityID первичный ключ документа или список ключей для DeleteMany
	Payload    []byte   // Payload сериализованный документ; nil для Delete/DeleteMany
	Sequence   uint64   // Sequence строго возрастающий счетчик в рамках OriginPeer
	Previous   uint64   // Previous Sequence предыдущей записи того же OriginPeer; 0 для первой
	Timestamp  int64    // Timestamp wall-clock подсказка (unix nano), только для tie-break
	Kind       Kind     // Kind тип мутации
}

// Stamp возвращает LWW-метку записи.
func (r *ChangeRecord) Stamp() Stamp {
	return Stamp{
		Origin:    r.OriginPeer,
		Sequence:  r.Sequence,
		Timestamp: r.Timestamp,
	}
}

// Validate проверяет инварианты записи перед публикацией и после декодирования.
func (r *ChangeRecord) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidRecord, r.Kind)
	}
	if r.OriginPeer == "" {
		return fmt.Errorf("%w: empty origin peer", ErrInvalidRecord)
	}
	if r.Sequence == 0 {
		return fmt.Errorf("%w: zero sequence", ErrInvalidRecord)
	}
	if r.Previous >= r.Sequence {
		return fmt.Errorf("%w: previous sequence %d not below %d", ErrInvalidRecord, r.Previous, r.Sequence)
	}

	if r.Kind == KindDeleteMany {
		if !r.EntityID.IsList() {
			return fmt.Errorf("%w: delete_many requires an id list", ErrInvalidRecord)
		}
	} else {
		if r.EntityID.IsList() || r.EntityID.Scalar() == "" {
			return fmt.Errorf("%w: %s requires a scalar id", ErrInvalidRecord, r.Kind)
		}
	}

	if r.Kind.HasPayload() && r.Payload == nil {
		return fmt.Errorf("%w: %s requires a payload", ErrInvalidRecord, r.Kind)
	}
	if !r.Kind.HasPayload() && r.Payload != nil {
		return fmt.Errorf("%w: %s must not carry a payload", ErrInvalidRecord, r.Kind)
	}

	return nil
}

// Clone создает глубокую копию записи.
func (r *ChangeRecord) Clone() ChangeRecord {
	var payload []byte
	if r.Payload != nil {
		payload = make([]byte, len(r.Payload))
		copy(payload, r.Payload)
	}

	var id EntityID
	if r.EntityID.list {
		id = ListID(r.EntityID.ids...)
	} else if len(r.EntityID.ids) > 0 {
		id = ScalarID(r.EntityID.ids[0])
	}

	return ChangeRecord{
		Kind:       r.Kind,
		Collection: r.Collection,
		EntityID:   id,
		Payload:    payload,
		OriginPeer: r.OriginPeer,
		Sequence:   r.Sequence,
		Previous:   r.Previous,
		Timestamp:  r.Timestamp,
	}
}
