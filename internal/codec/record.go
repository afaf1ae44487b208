// Package codec implements the binary wire format of change records and
// room messages.
//
// Records use the protobuf wire encoding (without generated code) so the
// format stays compact and forward compatible: unknown fields are skipped.
//
//	1 kind        varint
//	2 collection  bytes   (omitted when empty)
//	3 id          bytes   (repeated, in order)
//	4 list        varint  (1 when the id is a list)
//	5 payload     bytes   (omitted when absent, empty payload is kept)
//	6 origin      bytes
//	7 sequence    varint
//	8 timestamp   zigzag varint
//	9 previous    varint  (omitted when zero)
package codec

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/iudanet/docsync/internal/models"
)

const (
	fieldKind       protowire.Number = 1
	fieldCollection protowire.Number = 2
	fieldID         protowire.Number = 3
	fieldList       protowire.Number = 4
	fieldPayload    protowire.Number = 5
	fieldOrigin     protowire.Number = 6
	fieldSequence   protowire.Number = 7
	fieldTimestamp  protowire.Number = 8
	fieldPrevious   protowire.Number = 9
)

// EncodeRecord serializes a change record.
func EncodeRecord(r models.ChangeRecord) []byte {
	return AppendRecord(nil, r)
}

// AppendRecord appends the encoded record to buf.
func AppendRecord(buf []byte, r models.ChangeRecord) []byte {
	buf = protowire.AppendTag(buf, fieldKind, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(r.Kind))

	if r.Collection != "" {
		buf = protowire.AppendTag(buf, fieldCollection, protowire.BytesType)
		buf = protowire.AppendString(buf, r.Collection)
	}

	for _, id := range r.EntityID.IDs() {
		buf = protowire.AppendTag(buf, fieldID, protowire.BytesType)
		buf = protowire.AppendString(buf, id)
	}
	if r.EntityID.IsList() {
		buf = protowire.AppendTag(buf, fieldList, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
	}

	if r.Payload != nil {
		buf = protowire.AppendTag(buf, fieldPayload, protowire.BytesType)
		buf = protowire.AppendBytes(buf, r.Payload)
	}

	buf = protowire.AppendTag(buf, fieldOrigin, protowire.BytesType)
	buf = protowire.AppendString(buf, r.OriginPeer)

	buf = protowire.AppendTag(buf, fieldSequence, protowire.VarintType)
	buf = protowire.AppendVarint(buf, r.Sequence)

	buf = protowire.AppendTag(buf, fieldTimestamp, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(r.Timestamp))

	if r.Previous != 0 {
		buf = protowire.AppendTag(buf, fieldPrevious, protowire.VarintType)
		buf = protowire.AppendVarint(buf, r.Previous)
	}

	return buf
}

// DecodeRecord parses a record produced by EncodeRecord. Truncated,
// malformed or semantically invalid input yields an error matching ErrCodec.
func DecodeRecord(data []byte) (models.ChangeRecord, error) {
	var (
		r    models.ChangeRecord
		ids  []string
		list bool
	)

	if len(data) == 0 {
		return r, newError("decode record", "empty input", nil)
	}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return r, newError("decode record", "bad tag", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldKind && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return r, newError("decode record", "bad kind", protowire.ParseError(m))
			}
			if v > 0xff {
				return r, newError("decode record", "kind out of range", nil)
			}
			r.Kind = models.Kind(v)
			n = m
		case num == fieldCollection && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return r, newError("decode record", "bad collection", protowire.ParseError(m))
			}
			r.Collection = v
			n = m
		case num == fieldID && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return r, newError("decode record", "bad entity id", protowire.ParseError(m))
			}
			ids = append(ids, v)
			n = m
		case num == fieldList && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return r, newError("decode record", "bad list flag", protowire.ParseError(m))
			}
			list = v != 0
			n = m
		case num == fieldPayload && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return r, newError("decode record", "bad payload", protowire.ParseError(m))
			}
			// копируем, чтобы запись не ссылалась на сетевой буфер
			r.Payload = append(make([]byte, 0, len(v)), v...)
			n = m
		case num == fieldOrigin && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return r, newError("decode record", "bad origin", protowire.ParseError(m))
			}
			r.OriginPeer = v
			n = m
		case num == fieldSequence && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return r, newError("decode record", "bad sequence", protowire.ParseError(m))
			}
			r.Sequence = v
			n = m
		case num == fieldTimestamp && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return r, newError("decode record", "bad timestamp", protowire.ParseError(m))
			}
			r.Timestamp = protowire.DecodeZigZag(v)
			n = m
		case num == fieldPrevious && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return r, newError("decode record", "bad previous sequence", protowire.ParseError(m))
			}
			r.Previous = v
			n = m
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return r, newError("decode record", "bad unknown field", protowire.ParseError(m))
			}
			n = m
		}
		data = data[n:]
	}

	switch {
	case list:
		r.EntityID = models.ListID(ids...)
	case len(ids) == 1:
		r.EntityID = models.ScalarID(ids[0])
	case len(ids) > 1:
		return r, newError("decode record", "several ids without list flag", nil)
	}

	if err := r.Validate(); err != nil {
		return r, newError("decode record", "invalid record", err)
	}

	return r, nil
}
