package tlv

import (
	"testing"

	"github.com/corex-studio/corex-payment/internal/acquiring/tagdict"
)

func TestEncodeDecodeTagWidths(t *testing.T) {
	for _, tag := range []uint32{0x01, 0xFF, 0x100, 0xFFFF, 0x10000} {
		value := []byte{0xAA, 0xBB}
		encoded := Encode(tag, value)
		items, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode(0x%x): %v", tag, err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Tag != tag {
			t.Errorf("expected tag 0x%x, got 0x%x", tag, items[0].Tag)
		}
	}
}

func TestEncodeDecodeLengthWidths(t *testing.T) {
	for _, length := range []int{0, 0x7F, 0x80, 0xFF, 0x100, 0xFFFF} {
		value := make([]byte, length)
		encoded := Encode(0x9E, value)
		items, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode(len=%d): %v", length, err)
		}
		if items[0].Length != length {
			t.Errorf("expected length %d, got %d", length, items[0].Length)
		}
	}
}

func TestDecodeTagContinuation(t *testing.T) {
	// 1F 81 06 01 41 -> tag 0x1F8106, length 1, value [0x41]
	items, err := Decode([]byte{0x1F, 0x81, 0x06, 0x01, 0x41})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Tag != 0x1F8106 {
		t.Errorf("expected tag 0x1F8106, got 0x%x", items[0].Tag)
	}
	if items[0].Length != 1 || items[0].Value[0] != 0x41 {
		t.Errorf("unexpected value: %v", items[0].Value)
	}
}

func TestLengthLongForm(t *testing.T) {
	cases := []struct {
		length int
		prefix []byte
	}{
		{200, []byte{0x81, 0xC8}},
		{300, []byte{0x82, 0x01, 0x2C}},
	}
	for _, c := range cases {
		got := encodeLength(c.length)
		if string(got) != string(c.prefix) {
			t.Errorf("length %d: expected % X, got % X", c.length, c.prefix, got)
		}
		decoded, _, err := decodeLength(got, 0)
		if err != nil {
			t.Fatalf("decodeLength: %v", err)
		}
		if decoded != c.length {
			t.Errorf("expected %d, got %d", c.length, decoded)
		}
	}
}

func TestDecodeInvalidTlv(t *testing.T) {
	// declared length of 5 but only 1 byte of value present
	_, err := Decode([]byte{0x01, 0x05, 0xAA})
	if err == nil {
		t.Fatal("expected error for truncated value")
	}
}

func TestValueToStringBcd(t *testing.T) {
	item := NewItem(0x03, []byte{0, 0, 1, 2, 3})
	if got := ValueToString(item); got != "0000010203" {
		t.Errorf("expected 0000010203, got %q", got)
	}
}

func TestValueToStringHexAndDword(t *testing.T) {
	item := NewItem(0x1A, []byte{0x0A})
	if got := ValueToString(item); got != "0A" {
		t.Errorf("expected 0A, got %q", got)
	}

	leItem := Item{Value: []byte{0x01, 0x02, 0x03, 0x04}, Definition: &tagdict.Definition{Type: tagdict.DwordLe}}
	if got := ValueToString(leItem); got != "0x04030201" {
		t.Errorf("expected 0x04030201, got %q", got)
	}

	beItem := Item{Value: []byte{0x01, 0x02, 0x03, 0x04}, Definition: &tagdict.Definition{Type: tagdict.DwordBe}}
	if got := ValueToString(beItem); got != "0x01020304" {
		t.Errorf("expected 0x01020304, got %q", got)
	}
}

func TestValueToStringUnknownTag(t *testing.T) {
	item := Item{Tag: 0xDEAD, Value: []byte{0xBE, 0xEF}}
	if got := ValueToString(item); got != "BEEF" {
		t.Errorf("expected BEEF, got %q", got)
	}
}
