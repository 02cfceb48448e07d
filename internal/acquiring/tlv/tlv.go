// Package tlv implements the TTK Tag-Length-Value codec: BER-style
// variable-width tag and length encoding, and per-data-type rendering of
// a decoded value to a display string.
package tlv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corex-studio/corex-payment/internal/acquiring/tagdict"
	"golang.org/x/text/encoding/charmap"
)

// ErrInvalidTlv is returned when a tag or length continuation runs past
// the end of the buffer, or a declared value length exceeds what remains.
var ErrInvalidTlv = errors.New("tlv: invalid data")

// Item is one decoded (or to-be-encoded) TLV element. Definition is nil
// when the tag is not present in the tag dictionary.
type Item struct {
	Tag        uint32
	Length     int
	Value      []byte
	Definition *tagdict.Definition
}

// NewItem builds an Item for encoding, attaching the dictionary
// definition for tag if one exists.
func NewItem(tag uint32, value []byte) Item {
	item := Item{Tag: tag, Length: len(value), Value: value}
	if def, ok := tagdict.Lookup(tag); ok {
		d := def
		item.Definition = &d
	}
	return item
}

// Encode writes the minimal-width tag, the length (short or long form)
// and the value, in that order.
func Encode(tag uint32, value []byte) []byte {
	out := make([]byte, 0, len(value)+6)
	out = append(out, encodeTag(tag)...)
	out = append(out, encodeLength(len(value))...)
	out = append(out, value...)
	return out
}

func encodeTag(tag uint32) []byte {
	switch {
	case tag <= 0xFF:
		return []byte{byte(tag)}
	case tag <= 0xFFFF:
		return []byte{byte(tag >> 8), byte(tag)}
	default:
		return []byte{byte(tag >> 24), byte(tag >> 16), byte(tag >> 8), byte(tag)}
	}
}

func encodeLength(length int) []byte {
	switch {
	case length <= 0x7F:
		return []byte{byte(length)}
	case length <= 0xFF:
		return []byte{0x81, byte(length)}
	case length <= 0xFFFF:
		return []byte{0x82, byte(length >> 8), byte(length)}
	default:
		return []byte{0x83, byte(length >> 16), byte(length >> 8), byte(length)}
	}
}

// Decode reads a sequence of TLV items out of data, returning an error if
// any tag, length or value continuation runs past the end of the buffer.
func Decode(data []byte) ([]Item, error) {
	var items []Item
	offset := 0

	for offset < len(data) {
		tag, tagWidth, err := decodeTag(data, offset)
		if err != nil {
			return nil, err
		}
		offset += tagWidth

		length, lengthWidth, err := decodeLength(data, offset)
		if err != nil {
			return nil, err
		}
		offset += lengthWidth

		if offset+length > len(data) {
			return nil, fmt.Errorf("%w: length %d exceeds buffer", ErrInvalidTlv, length)
		}

		value := make([]byte, length)
		copy(value, data[offset:offset+length])
		offset += length

		items = append(items, NewItem(tag, value))
	}

	return items, nil
}

func decodeTag(data []byte, offset int) (uint32, int, error) {
	if offset >= len(data) {
		return 0, 0, fmt.Errorf("%w: tag offset out of bounds", ErrInvalidTlv)
	}

	tag := uint32(data[offset])
	width := 1

	if tag&0x1F == 0x1F {
		if offset+1 >= len(data) {
			return 0, 0, fmt.Errorf("%w: truncated tag", ErrInvalidTlv)
		}
		width = 2
		tag = (tag << 8) | uint32(data[offset+1])

		if data[offset+1]&0x80 == 0x80 {
			if offset+2 >= len(data) {
				return 0, 0, fmt.Errorf("%w: truncated tag", ErrInvalidTlv)
			}
			width = 3
			tag = (tag << 8) | uint32(data[offset+2])
		}
	}

	return tag, width, nil
}

func decodeLength(data []byte, offset int) (int, int, error) {
	if offset >= len(data) {
		return 0, 0, fmt.Errorf("%w: length offset out of bounds", ErrInvalidTlv)
	}

	first := data[offset]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}

	n := int(first & 0x7F)
	if offset+n >= len(data) {
		return 0, 0, fmt.Errorf("%w: truncated length", ErrInvalidTlv)
	}

	length := 0
	for i := 0; i < n; i++ {
		length = (length << 8) | int(data[offset+1+i])
	}
	return length, 1 + n, nil
}

// ValueToString renders item.Value according to its dictionary data
// type. Unknown tags render as raw uppercase hex.
func ValueToString(item Item) string {
	if item.Definition == nil {
		return bytesToHex(item.Value)
	}

	switch item.Definition.Type {
	case tagdict.String:
		return decodeString(item.Value, item.Definition.Encoding)
	case tagdict.Bcd:
		// Non-canonical BCD: one decimal value (0-99) per byte, not two
		// packed nibbles. Matches the wire convention this protocol uses.
		var b strings.Builder
		for _, v := range item.Value {
			fmt.Fprintf(&b, "%02d", v)
		}
		return b.String()
	case tagdict.Hex:
		return bytesToHex(item.Value)
	case tagdict.DwordLe:
		le := take(item.Value, 4)
		reverse(le)
		return "0x" + bytesToHex(le)
	case tagdict.DwordBe:
		return "0x" + bytesToHex(take(item.Value, 4))
	case tagdict.Binary:
		return bytesToHex(item.Value)
	default:
		return bytesToHex(item.Value)
	}
}

func decodeString(value []byte, enc tagdict.StringEncoding) string {
	switch enc {
	case tagdict.CP1251:
		out, _ := charmap.Windows1251.NewDecoder().Bytes(value)
		return string(out)
	case tagdict.CP866:
		out, _ := charmap.CodePage866.NewDecoder().Bytes(value)
		return string(out)
	default:
		return string(value)
	}
}

func take(value []byte, n int) []byte {
	if len(value) < n {
		n = len(value)
	}
	out := make([]byte, n)
	copy(out, value[:n])
	return out
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func bytesToHex(b []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0x0F]
	}
	return string(out)
}
