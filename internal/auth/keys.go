// Package auth derives per-room signing keys and issues room access tokens.
package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного ключа в байтах
	Argon2KeyLen = 32
)

// ErrEmptySecret is returned when the shared secret is empty
var ErrEmptySecret = errors.New("shared secret cannot be empty")

// Контексты деривации: один секрет не дает одинаковых ключей для разных целей
const (
	contextRoomToken = "docsync-room"
	contextSeal      = "docsync-seal"
)

// DeriveRoomKey генерирует ключ подписи токенов комнаты из общего секрета.
// Солью служат 16 байт roomID: у каждой комнаты свой ключ.
func DeriveRoomKey(secret string, roomID uuid.UUID) ([]byte, error) {
	return deriveKey(secret, roomID, contextRoomToken)
}

// DeriveSealKey генерирует ключ шифрования сообщений комнаты из парольной фразы узлов.
func DeriveSealKey(passphrase string, roomID uuid.UUID) ([]byte, error) {
	return deriveKey(passphrase, roomID, contextSeal)
}

func deriveKey(secret string, roomID uuid.UUID, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("room id cannot be nil")
	}

	salt := roomID[:]
	input := append([]byte(secret), []byte(purpose)...)

	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen), nil
}
