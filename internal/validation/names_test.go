package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCollection(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "valid - lowercase",
			collection: "notes",
			wantErr:    false,
		},
		{
			name:       "valid - dotted namespace",
			collection: "app.notes",
			wantErr:    false,
		},
		{
			name:       "valid - dash and underscore",
			collection: "todo-items_v2",
			wantErr:    false,
		},
		{
			name:       "valid - max length",
			collection: strings.Repeat("a", 64),
			wantErr:    false,
		},
		{
			name:       "invalid - empty",
			collection: "",
			wantErr:    true,
			errMsg:     "collection name cannot be empty",
		},
		{
			name:       "invalid - too long (65 chars)",
			collection: strings.Repeat("a", 65),
			wantErr:    true,
			errMsg:     "must not exceed 64 characters",
		},
		{
			name:       "invalid - with space",
			collection: "my notes",
			wantErr:    true,
			errMsg:     "can only contain letters",
		},
		{
			name:       "invalid - with slash",
			collection: "notes/archive",
			wantErr:    true,
			errMsg:     "can only contain letters",
		},
		{
			name:       "invalid - cyrillic characters",
			collection: "заметки",
			wantErr:    true,
			errMsg:     "can only contain letters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCollection(tt.collection)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidName)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePeerID(t *testing.T) {
	tests := []struct {
		name    string
		peerID  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid - uuid",
			peerID:  "7f1c2a8e-3c4b-4f51-9a0e-2b6d8c1e5f70",
			wantErr: false,
		},
		{
			name:    "valid - short name",
			peerID:  "a",
			wantErr: false,
		},
		{
			name:    "valid - host and port",
			peerID:  "laptop.local:4001",
			wantErr: false,
		},
		{
			name:    "invalid - empty",
			peerID:  "",
			wantErr: true,
			errMsg:  "peer id cannot be empty",
		},
		{
			name:    "invalid - too long",
			peerID:  strings.Repeat("p", 129),
			wantErr: true,
			errMsg:  "must not exceed 128 characters",
		},
		{
			name:    "invalid - with @ symbol",
			peerID:  "alice@host",
			wantErr: true,
			errMsg:  "can only contain letters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeerID(tt.peerID)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidName)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePassphrase(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "valid - exactly 12 chars",
			passphrase: "password1234",
			wantErr:    false,
		},
		{
			name:       "valid - words",
			passphrase: "correct horse battery staple",
			wantErr:    false,
		},
		{
			name:       "valid - unicode",
			passphrase: "пароль12345678",
			wantErr:    false,
		},
		{
			name:       "invalid - empty",
			passphrase: "",
			wantErr:    true,
			errMsg:     "passphrase cannot be empty",
		},
		{
			name:       "invalid - too short (11 chars)",
			passphrase: "password123", // 11 символов
			wantErr:    true,
			errMsg:     "must be at least 12 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassphrase(tt.passphrase)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
