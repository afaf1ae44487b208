// Package validation checks names and secrets supplied by applications and operators.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// CollectionPattern определяет допустимый формат имени коллекции
// Латинские буквы, цифры, '_', '-' и '.'; длина 1-64 символа
var CollectionPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

// PeerIDPattern определяет допустимый формат идентификатора узла (UUID подходит)
var PeerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,128}$`)

const (
	// MaxCollectionLen максимальная длина имени коллекции
	MaxCollectionLen = 64
	// MaxPeerIDLen максимальная длина идентификатора узла
	MaxPeerIDLen = 128
	// MinPassphraseLen минимальная длина парольной фразы шифрования
	MinPassphraseLen = 12
)

// ErrInvalidName is wrapped by every name validation error
var ErrInvalidName = errors.New("invalid name")

// ValidateCollection проверяет имя коллекции
func ValidateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxCollectionLen {
		return fmt.Errorf("%w: collection name must not exceed %d characters", ErrInvalidName, MaxCollectionLen)
	}

	if !CollectionPattern.MatchString(name) {
		return fmt.Errorf("%w: collection name can only contain letters, numbers, '_', '-' and '.'", ErrInvalidName)
	}

	return nil
}

// ValidatePeerID проверяет идентификатор узла
func ValidatePeerID(peerID string) error {
	if peerID == "" {
		return fmt.Errorf("%w: peer id cannot be empty", ErrInvalidName)
	}

	if len(peerID) > MaxPeerIDLen {
		return fmt.Errorf("%w: peer id must not exceed %d characters", ErrInvalidName, MaxPeerIDLen)
	}

	if !PeerIDPattern.MatchString(peerID) {
		return fmt.Errorf("%w: peer id can only contain letters, numbers, '_', '-', '.' and ':'", ErrInvalidName)
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к парольной фразе шифрования
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}
