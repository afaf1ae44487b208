package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/docsync/internal/validation"
)

// Issuer записывается в claim iss всех токенов комнат
const Issuer = "docsync"

// ErrInvalidToken is returned for tokens that fail validation
var ErrInvalidToken = errors.New("invalid room token")

// RoomClaims представляет JWT claims токена доступа к комнате
type RoomClaims struct {
	Room string `json:"room"`
	Peer string `json:"peer"`
	jwt.RegisteredClaims
}

// IssueRoomToken создает JWT, дающий peerID доступ к комнате roomID
func IssueRoomToken(key []byte, roomID uuid.UUID, peerID string, ttl time.Duration) (string, error) {
	if err := validation.ValidatePeerID(peerID); err != nil {
		return "", err
	}

	now := time.Now()
	claims := RoomClaims{
		Room: roomID.String(),
		Peer: peerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateRoomToken валидирует токен и проверяет, что он выдан для roomID
func ValidateRoomToken(key []byte, roomID uuid.UUID, tokenString string) (*RoomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RoomClaims{}, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*RoomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Room != roomID.String() {
		return nil, fmt.Errorf("%w: issued for room %s", ErrInvalidToken, claims.Room)
	}
	if claims.Peer == "" {
		return nil, fmt.Errorf("%w: missing peer", ErrInvalidToken)
	}

	return claims, nil
}
