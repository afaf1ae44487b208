package api

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformedFrame is returned for relay frames that cannot be decoded
var ErrMalformedFrame = errors.New("malformed relay frame")

// RelayFrame is what the relay sends to room members: the authenticated
// sender and the opaque payload it published.
//
// Wire format (protobuf encoding): 1 peer_id bytes, 2 data bytes.
type RelayFrame struct {
	PeerID string
	Data   []byte
}

// Marshal encodes the frame
func (f RelayFrame) Marshal() []byte {
	b := make([]byte, 0, len(f.PeerID)+len(f.Data)+8)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, f.PeerID)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, f.Data)
	return b
}

// UnmarshalRelayFrame decodes a frame, skipping unknown fields
func UnmarshalRelayFrame(b []byte) (RelayFrame, error) {
	var f RelayFrame
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return RelayFrame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return RelayFrame{}, fmt.Errorf("%w: peer id: %v", ErrMalformedFrame, protowire.ParseError(n))
			}
			f.PeerID, b = v, b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return RelayFrame{}, fmt.Errorf("%w: data: %v", ErrMalformedFrame, protowire.ParseError(n))
			}
			f.Data, b = append([]byte{}, v...), b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return RelayFrame{}, fmt.Errorf("%w: field %d: %v", ErrMalformedFrame, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	if f.PeerID == "" {
		return RelayFrame{}, fmt.Errorf("%w: missing peer id", ErrMalformedFrame)
	}
	return f, nil
}
