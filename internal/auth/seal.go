package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NonceSize - размер nonce для AES-GCM (12 bytes стандартный размер)
const NonceSize = 12

// ErrUnseal возвращается, если сообщение повреждено или зашифровано другим ключом
var ErrUnseal = errors.New("failed to open sealed message")

// Sealer шифрует сообщения комнаты с использованием AES-256-GCM.
// Формат: nonce (12 bytes) + ciphertext + auth_tag (16 bytes).
// Идентификатор комнаты входит в additional data: сообщение одной комнаты
// не открывается в другой.
type Sealer struct {
	aead cipher.AEAD
	room []byte
}

// NewSealer derives the room message key from passphrase
func NewSealer(passphrase string, roomID uuid.UUID) (*Sealer, error) {
	key, err := DeriveSealKey(passphrase, roomID)
	if err != nil {
		return nil, err
	}
	return newSealer(key, roomID)
}

func newSealer(key []byte, roomID uuid.UUID) (*Sealer, error) {
	if len(key) != Argon2KeyLen {
		return nil, fmt.Errorf("seal key must be %d bytes, got %d", Argon2KeyLen, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	room := roomID
	return &Sealer{aead: aead, room: room[:]}, nil
}

// Seal encrypts plaintext with a fresh random nonce
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	// GCM добавляет authentication tag в конец
	return s.aead.Seal(nonce, nonce, plaintext, s.room), nil
}

// Open decrypts and authenticates a sealed message
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: message too short", ErrUnseal)
	}

	plaintext, err := s.aead.Open(nil, sealed[:NonceSize], sealed[NonceSize:], s.room)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnseal, err)
	}
	return plaintext, nil
}
