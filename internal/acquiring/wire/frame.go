// Package wire builds and parses the TTK envelope: a 4-byte big-endian
// length+type header wrapping a TLV body. The header shape mirrors the
// teacher's MBAP framing (length field covering everything after itself,
// type field immediately following), generalized from a fixed-field
// modbus PDU to an open-ended TLV body.
package wire

import (
	"errors"
	"fmt"

	"github.com/corex-studio/corex-payment/internal/acquiring/tagdict"
	"github.com/corex-studio/corex-payment/internal/acquiring/tlv"
)

// ErrInvalidFrame is returned when the envelope's declared length or
// message type does not match what was actually received.
var ErrInvalidFrame = errors.New("wire: invalid frame")

// MessageType is one of the two recognized 16-bit wire codes.
type MessageType uint16

const (
	ClientRequest MessageType = 0x96F2
	ServerResponse MessageType = 0x97F2
)

const headerLength = 4

// CreateMessage concatenates the TLV encoding of items and prefixes the
// 4-byte header: message_length (body length + 2) then message_type.
func CreateMessage(msgType MessageType, items []tlv.Item) []byte {
	var body []byte
	for _, item := range items {
		body = append(body, tlv.Encode(item.Tag, item.Value)...)
	}

	messageLength := len(body) + 2
	header := []byte{
		byte(messageLength >> 8), byte(messageLength),
		byte(uint16(msgType) >> 8), byte(uint16(msgType)),
	}
	return append(header, body...)
}

// ParseMessage validates the envelope and decodes the TLV body. It fails
// with ErrInvalidFrame if the buffer is too short, the declared length
// does not match the buffer size, or the message type is unrecognized.
func ParseMessage(data []byte) (MessageType, []tlv.Item, error) {
	if len(data) < headerLength {
		return 0, nil, fmt.Errorf("%w: message shorter than header", ErrInvalidFrame)
	}

	length := int(data[0])<<8 | int(data[1])
	msgType := uint16(data[2])<<8 | uint16(data[3])

	if len(data) != length+2 {
		return 0, nil, fmt.Errorf("%w: declared length %d does not match %d received bytes", ErrInvalidFrame, length, len(data))
	}

	var recognized MessageType
	switch MessageType(msgType) {
	case ClientRequest, ServerResponse:
		recognized = MessageType(msgType)
	default:
		return 0, nil, fmt.Errorf("%w: unknown message type 0x%04X", ErrInvalidFrame, msgType)
	}

	items, err := tlv.Decode(data[headerLength:])
	if err != nil {
		return 0, nil, err
	}

	return recognized, items, nil
}

// ItemsToRawMap converts a decoded TLV body into the raw string-to-string
// map the dispatcher hands to the response normalizer. Keys collide
// deliberately when two tags share a display name (client/server
// variants of the same field): the later occurrence wins.
func ItemsToRawMap(items []tlv.Item) map[string]string {
	out := make(map[string]string, len(items))
	for _, item := range items {
		key := fmt.Sprintf("TAG_%X", item.Tag)
		if item.Definition != nil {
			key = item.Definition.Name
		}
		out[key] = tlv.ValueToString(item)
	}
	return out
}

// HasResponseCode reports whether items contains a tag whose dictionary
// name is "Response Code" — the signal the dispatcher waits for to
// terminate the TTK read loop.
func HasResponseCode(items []tlv.Item) bool {
	for _, item := range items {
		if item.Definition != nil && item.Definition.Name == tagdict.ResponseCodeName {
			return true
		}
	}
	return false
}
