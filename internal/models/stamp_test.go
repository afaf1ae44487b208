package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStamp_IsNewerThan(t *testing.T) {
	tests := []struct {
		self     Stamp
		other    Stamp
		name     string
		expected bool
	}{
		{
			name:     "self sequence greater",
			self:     Stamp{Sequence: 11, Timestamp: 1, Origin: "peerA"},
			other:    Stamp{Sequence: 10, Timestamp: 100, Origin: "peerZ"},
			expected: true,
		},
		{
			name:     "self sequence smaller",
			self:     Stamp{Sequence: 9, Timestamp: 500, Origin: "peerZ"},
			other:    Stamp{Sequence: 10, Timestamp: 100, Origin: "peerA"},
			expected: false,
		},
		{
			name:     "sequence equal, self timestamp greater",
			self:     Stamp{Sequence: 10, Timestamp: 101, Origin: "peerA"},
			other:    Stamp{Sequence: 10, Timestamp: 100, Origin: "peerB"},
			expected: true,
		},
		{
			name:     "sequence and timestamp equal, self origin greater lex",
			self:     Stamp{Sequence: 10, Timestamp: 100, Origin: "peerB"},
			other:    Stamp{Sequence: 10, Timestamp: 100, Origin: "peerA"},
			expected: true,
		},
		{
			name:     "sequence and timestamp equal, self origin lower lex",
			self:     Stamp{Sequence: 10, Timestamp: 100, Origin: "peerA"},
			other:    Stamp{Sequence: 10, Timestamp: 100, Origin: "peerB"},
			expected: false,
		},
		{
			name:     "identical stamps are not newer",
			self:     Stamp{Sequence: 10, Timestamp: 100, Origin: "peerA"},
			other:    Stamp{Sequence: 10, Timestamp: 100, Origin: "peerA"},
			expected: false,
		},
		{
			name:     "any stamp is newer than zero",
			self:     Stamp{Sequence: 1, Origin: "peerA"},
			other:    Stamp{},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.self.IsNewerThan(tt.other))
		})
	}
}

func TestStamp_IsNewerThan_Antisymmetric(t *testing.T) {
	a := Stamp{Sequence: 7, Timestamp: 42, Origin: "a"}
	b := Stamp{Sequence: 7, Timestamp: 42, Origin: "b"}

	// Ровно одна из меток должна выигрывать независимо от порядка сравнения
	assert.NotEqual(t, a.IsNewerThan(b), b.IsNewerThan(a))
}

func TestStamp_IsZero(t *testing.T) {
	assert.True(t, Stamp{}.IsZero())
	assert.False(t, Stamp{Sequence: 1}.IsZero())
	assert.False(t, Stamp{Origin: "x"}.IsZero())
}
