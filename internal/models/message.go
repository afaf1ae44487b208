package models

// MessageType тип сетевого сообщения комнаты.
type MessageType uint8

const (
	// MessageRecords пачка записей (одна транзакция или объединенная отправка)
	MessageRecords MessageType = iota + 1
	// MessageCatchUpRequest запрос догоняющей синхронизации с курсорами запрашивающего
	MessageCatchUpRequest
	// MessageCatchUpReply ответ на запрос: записи из outbox отвечающего узла
	MessageCatchUpReply
)

func (t MessageType) String() string {
	switch t {
	case MessageRecords:
		return "records"
	case MessageCatchUpRequest:
		return "catchup_request"
	case MessageCatchUpReply:
		return "catchup_reply"
	default:
		return "unknown"
	}
}

// Message единица передачи по комнате.
type Message struct {
	Cursors map[string]uint64 // Cursors курсоры запрашивающего (только для MessageCatchUpRequest)
	Records []ChangeRecord    // Records записи (MessageRecords и MessageCatchUpReply)
	Head    uint64            // Head последняя собственная запись запрашивающего (только для MessageCatchUpRequest)
	Type    MessageType
}
