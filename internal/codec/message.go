package codec

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/iudanet/docsync/internal/models"
)

// FrameVersion текущая версия формата кадра.
const FrameVersion byte = 1

const (
	frameHeaderLen   = 2 // version + message type
	frameChecksumLen = 8

	fieldMsgRecord protowire.Number = 1
	fieldMsgCursor protowire.Number = 2
	fieldMsgHead   protowire.Number = 3

	fieldCursorOrigin   protowire.Number = 1
	fieldCursorSequence protowire.Number = 2
)

// EncodeMessage serializes a room message into a checksummed frame:
//
//	[version][type][protowire body][xxhash64 of the preceding bytes, big endian]
func EncodeMessage(msg models.Message) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, FrameVersion, byte(msg.Type))

	for _, r := range msg.Records {
		buf = protowire.AppendTag(buf, fieldMsgRecord, protowire.BytesType)
		buf = protowire.AppendBytes(buf, EncodeRecord(r))
	}

	// порядок ключей фиксирован, чтобы кадр был детерминированным
	origins := make([]string, 0, len(msg.Cursors))
	for origin := range msg.Cursors {
		origins = append(origins, origin)
	}
	sort.Strings(origins)
	for _, origin := range origins {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldCursorOrigin, protowire.BytesType)
		entry = protowire.AppendString(entry, origin)
		entry = protowire.AppendTag(entry, fieldCursorSequence, protowire.VarintType)
		entry = protowire.AppendVarint(entry, msg.Cursors[origin])

		buf = protowire.AppendTag(buf, fieldMsgCursor, protowire.BytesType)
		buf = protowire.AppendBytes(buf, entry)
	}

	if msg.Head != 0 {
		buf = protowire.AppendTag(buf, fieldMsgHead, protowire.VarintType)
		buf = protowire.AppendVarint(buf, msg.Head)
	}

	return binary.BigEndian.AppendUint64(buf, xxhash.Sum64(buf))
}

// DecodeMessage parses and verifies a frame produced by EncodeMessage.
func DecodeMessage(frame []byte) (models.Message, error) {
	var msg models.Message

	if len(frame) < frameHeaderLen+frameChecksumLen {
		return msg, newError("decode message", "frame too short", nil)
	}

	content := frame[:len(frame)-frameChecksumLen]
	sum := binary.BigEndian.Uint64(frame[len(frame)-frameChecksumLen:])
	if xxhash.Sum64(content) != sum {
		return msg, newError("decode message", "checksum mismatch", nil)
	}

	if content[0] != FrameVersion {
		return msg, newError("decode message", "unsupported frame version", nil)
	}

	msg.Type = models.MessageType(content[1])
	switch msg.Type {
	case models.MessageRecords, models.MessageCatchUpRequest, models.MessageCatchUpReply:
	default:
		return msg, newError("decode message", "unknown message type", nil)
	}

	body := content[frameHeaderLen:]
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return msg, newError("decode message", "bad tag", protowire.ParseError(n))
		}
		body = body[n:]

		switch {
		case num == fieldMsgRecord && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(body)
			if m < 0 {
				return msg, newError("decode message", "bad record field", protowire.ParseError(m))
			}
			r, err := DecodeRecord(v)
			if err != nil {
				return msg, err
			}
			msg.Records = append(msg.Records, r)
			n = m
		case num == fieldMsgCursor && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(body)
			if m < 0 {
				return msg, newError("decode message", "bad cursor field", protowire.ParseError(m))
			}
			origin, seq, err := decodeCursor(v)
			if err != nil {
				return msg, err
			}
			if msg.Cursors == nil {
				msg.Cursors = make(map[string]uint64)
			}
			msg.Cursors[origin] = seq
			n = m
		case num == fieldMsgHead && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(body)
			if m < 0 {
				return msg, newError("decode message", "bad head", protowire.ParseError(m))
			}
			msg.Head = v
			n = m
		default:
			m := protowire.ConsumeFieldValue(num, typ, body)
			if m < 0 {
				return msg, newError("decode message", "bad unknown field", protowire.ParseError(m))
			}
			n = m
		}
		body = body[n:]
	}

	return msg, nil
}

func decodeCursor(data []byte) (string, uint64, error) {
	var (
		origin string
		seq    uint64
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", 0, newError("decode cursor", "bad tag", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldCursorOrigin && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return "", 0, newError("decode cursor", "bad origin", protowire.ParseError(m))
			}
			origin = v
			n = m
		case num == fieldCursorSequence && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return "", 0, newError("decode cursor", "bad sequence", protowire.ParseError(m))
			}
			seq = v
			n = m
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return "", 0, newError("decode cursor", "bad unknown field", protowire.ParseError(m))
			}
			n = m
		}
		data = data[n:]
	}
	if origin == "" {
		return "", 0, newError("decode cursor", "empty origin", nil)
	}
	return origin, seq, nil
}
