package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "insert", KindInsert.String())
	assert.Equal(t, "delete_many", KindDeleteMany.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.False(t, Kind(0).Valid())
	assert.True(t, KindUpsert.HasPayload())
	assert.False(t, KindDelete.HasPayload())
}

func TestEntityID(t *testing.T) {
	scalar := ScalarID("x")
	assert.False(t, scalar.IsList())
	assert.Equal(t, "x", scalar.Scalar())
	assert.Equal(t, []string{"x"}, scalar.IDs())
	assert.Equal(t, 1, scalar.Len())

	ids := []string{"a", "b"}
	list := ListID(ids...)
	ids[0] = "changed"
	assert.True(t, list.IsList())
	assert.Equal(t, "", list.Scalar())
	assert.Equal(t, []string{"a", "b"}, list.IDs())
	assert.Equal(t, "[a,b]", list.String())

	empty := ListID()
	assert.True(t, empty.IsList())
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.IDs())
}

func TestChangeRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  ChangeRecord
		wantErr bool
	}{
		{
			name: "valid insert",
			record: ChangeRecord{
				Kind: KindInsert, EntityID: ScalarID("id-1"), Payload: []byte(`{}`),
				OriginPeer: "peer", Sequence: 1,
			},
		},
		{
			name: "valid insert with empty payload",
			record: ChangeRecord{
				Kind: KindInsert, EntityID: ScalarID("id-1"), Payload: []byte{},
				OriginPeer: "peer", Sequence: 1,
			},
		},
		{
			name: "valid delete many",
			record: ChangeRecord{
				Kind: KindDeleteMany, EntityID: ListID("a", "b"),
				OriginPeer: "peer", Sequence: 2, Previous: 1,
			},
		},
		{
			name: "previous not below sequence",
			record: ChangeRecord{
				Kind: KindDelete, EntityID: ScalarID("id-1"), OriginPeer: "peer", Sequence: 3, Previous: 3,
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			record: ChangeRecord{
				Kind: Kind(9), EntityID: ScalarID("id-1"), OriginPeer: "peer", Sequence: 1,
			},
			wantErr: true,
		},
		{
			name: "missing origin",
			record: ChangeRecord{
				Kind: KindDelete, EntityID: ScalarID("id-1"), Sequence: 1,
			},
			wantErr: true,
		},
		{
			name: "zero sequence",
			record: ChangeRecord{
				Kind: KindDelete, EntityID: ScalarID("id-1"), OriginPeer: "peer",
			},
			wantErr: true,
		},
		{
			name: "update without payload",
			record: ChangeRecord{
				Kind: KindUpdate, EntityID: ScalarID("id-1"), OriginPeer: "peer", Sequence: 1,
			},
			wantErr: true,
		},
		{
			name: "delete with payload",
			record: ChangeRecord{
				Kind: KindDelete, EntityID: ScalarID("id-1"), Payload: []byte("x"),
				OriginPeer: "peer", Sequence: 1,
			},
			wantErr: true,
		},
		{
			name: "delete many with scalar id",
			record: ChangeRecord{
				Kind: KindDeleteMany, EntityID: ScalarID("id-1"), OriginPeer: "peer", Sequence: 1,
			},
			wantErr: true,
		},
		{
			name: "delete with empty id",
			record: ChangeRecord{
				Kind: KindDelete, EntityID: ScalarID(""), OriginPeer: "peer", Sequence: 1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRecord)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestChangeRecord_Clone(t *testing.T) {
	original := ChangeRecord{
		Kind:       KindUpsert,
		Collection: "users",
		EntityID:   ScalarID("id-1"),
		Payload:    []byte{1, 2, 3},
		OriginPeer: "peer",
		Sequence:   5,
		Previous:   4,
		Timestamp:  99,
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	// Модификация оригинала не должна влиять на клон
	original.Payload[0] = 9
	assert.NotEqual(t, original.Payload[0], clone.Payload[0])

	del := ChangeRecord{Kind: KindDelete, EntityID: ScalarID("x"), OriginPeer: "p", Sequence: 1}
	assert.Nil(t, del.Clone().Payload)
	assert.Equal(t, Stamp{Origin: "p", Sequence: 1}, del.Stamp())
}
