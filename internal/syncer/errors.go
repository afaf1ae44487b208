package syncer

import "errors"

// Sync engine errors
var (
	// ErrEmptyPeerID возвращается, если транспорт не выдал идентификатор узла
	ErrEmptyPeerID = errors.New("peer id is empty")

	// ErrAlreadyStarted возвращается при повторном подключении к комнате
	ErrAlreadyStarted = errors.New("sync channel already started")

	// ErrInvalidRoom возвращается для нулевого идентификатора комнаты
	ErrInvalidRoom = errors.New("invalid room id")

	// ErrChannelClosed возвращается при использовании закрытого канала
	ErrChannelClosed = errors.New("sync channel closed")
)
