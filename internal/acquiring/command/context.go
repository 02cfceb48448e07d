// Package command implements the Command Context and the three TTK/INPAS
// commands (Purchase, Refund, Totals/Service) described in spec §4.5 and
// §4.7.
package command

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/corex-studio/corex-payment/internal/acquiring/types"
)

// maxERN is the inclusive upper bound for the uniformly-random ERN: spec
// §3 specifies [0, 9_999_999_999].
const maxERN = 9_999_999_999

// Context carries one command's request-id/ERN pair and a read-only view
// of the connection config. It is built fresh per command and discarded
// once the response is produced — it does not own the transport.
type Context struct {
	Config    types.ConnectionConfig
	RequestID uint32
	ERN       uint64
}

// rngSource is a package-level, non-cryptographic PRNG: request_id and
// ERN are per-command correlation values, not secrets, so a secure RNG
// would be wasted entropy here.
var rngSource = rand.New(rand.NewSource(time.Now().UnixNano()))

// NewContext draws a fresh request_id (masked to 31 bits, so always
// positive and nonzero-biased) and a uniform ERN in [0, 9999999999].
func NewContext(cfg types.ConnectionConfig) *Context {
	return &Context{
		Config:    cfg,
		RequestID: rngSource.Uint32() & 0x7FFFFFFF,
		ERN:       uint64(rngSource.Int63n(maxERN + 1)),
	}
}

// ShouldUseInpas reports whether this command should take the INPAS
// branch.
func (c *Context) ShouldUseInpas() bool {
	return c.Config.Protocol == types.INPAS
}

// IntToBCD renders value as length decimal digit-bytes (0-9 per byte),
// zero-padded on the left — the non-canonical BCD convention this
// protocol uses (one decimal value per byte, not packed nibbles).
func (c *Context) IntToBCD(value uint64, length int) []byte {
	digits := c.IntToString(value, length)
	out := make([]byte, len(digits))
	for i, ch := range digits {
		out[i] = byte(ch - '0')
	}
	return out
}

// IntToString zero-left-pads value's decimal representation to length
// characters.
func (c *Context) IntToString(value uint64, length int) string {
	return fmt.Sprintf("%0*d", length, value)
}

// StringToBytes returns the raw UTF-8 byte view of s.
func (c *Context) StringToBytes(s string) []byte {
	return []byte(s)
}

// CurrentTimestamp formats local time as YYYYMMDDHHMMSS.
func (c *Context) CurrentTimestamp() string {
	return time.Now().Format("20060102150405")
}

// BuildInpasFields appends a timestamp field (id 21) and a serial-number
// field (id 27) if fields does not already carry them.
func (c *Context) BuildInpasFields(fields []types.InpasField) []types.InpasField {
	hasTimestamp, hasSerial := false, false
	for _, f := range fields {
		switch f.ID {
		case "21":
			hasTimestamp = true
		case "27":
			hasSerial = true
		}
	}

	if !hasTimestamp {
		fields = append(fields, types.InpasField{ID: "21", Value: c.CurrentTimestamp()})
	}
	if !hasSerial {
		fields = append(fields, types.InpasField{ID: "27", Value: c.Config.SerialNumber})
	}
	return fields
}
