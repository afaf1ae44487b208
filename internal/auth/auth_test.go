package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRoomKey(t *testing.T) {
	room := uuid.New()

	k1, err := DeriveRoomKey("secret", room)
	require.NoError(t, err)
	assert.Len(t, k1, Argon2KeyLen)

	k2, err := DeriveRoomKey("secret", room)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "derivation must be deterministic")

	k3, err := DeriveRoomKey("secret", uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3, "rooms must get different keys")

	k4, err := DeriveRoomKey("other", room)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestDeriveRoomKey_Errors(t *testing.T) {
	_, err := DeriveRoomKey("", uuid.New())
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = DeriveRoomKey("secret", uuid.Nil)
	assert.Error(t, err)
}

func TestRoomToken(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	room := uuid.New()

	token, err := IssueRoomToken(key, room, "peer-1", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateRoomToken(key, room, token)
	require.NoError(t, err)
	assert.Equal(t, "peer-1", claims.Peer)
	assert.Equal(t, room.String(), claims.Room)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestValidateRoomToken_Rejects(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	room := uuid.New()

	valid, err := IssueRoomToken(key, room, "peer-1", time.Minute)
	require.NoError(t, err)
	expired, err := IssueRoomToken(key, room, "peer-1", -time.Minute)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, RoomClaims{Room: room.String(), Peer: "p"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   []byte
		room  uuid.UUID
		token string
	}{
		{name: "wrong key", key: []byte("another-key"), room: room, token: valid},
		{name: "wrong room", key: key, room: uuid.New(), token: valid},
		{name: "expired", key: key, room: room, token: expired},
		{name: "unsigned", key: key, room: room, token: none},
		{name: "garbage", key: key, room: room, token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRoomToken(tt.key, tt.room, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssueRoomToken_EmptyPeer(t *testing.T) {
	_, err := IssueRoomToken([]byte("k"), uuid.New(), "", time.Minute)
	assert.Error(t, err)
}
