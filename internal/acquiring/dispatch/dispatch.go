// Package dispatch implements the Command Dispatcher: the protocol
// branch that either talks TTK over a Transport (frame, send, read loop
// until a terminated server response) or hands a field list to the
// INPAS Envelope for a single HTTP round-trip, per spec §4.6.
package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/corex-studio/corex-payment/internal/acquiring/command"
	"github.com/corex-studio/corex-payment/internal/acquiring/inpas"
	"github.com/corex-studio/corex-payment/internal/acquiring/response"
	"github.com/corex-studio/corex-payment/internal/acquiring/tlv"
	"github.com/corex-studio/corex-payment/internal/acquiring/transport"
	"github.com/corex-studio/corex-payment/internal/acquiring/types"
	"github.com/corex-studio/corex-payment/internal/acquiring/wire"
)

// ErrConfigMissing mirrors transport.ErrConfigMissing for dispatcher-level
// configuration failures (e.g. a missing dc_host for the INPAS branch).
var ErrConfigMissing = errors.New("dispatch: required configuration missing")

const ecrNumberTag = 0x02

// Execute runs cmd against ctx, branching on ctx.Config.Protocol. tport is
// only consulted for the TTK branch; it may be nil for INPAS-only
// configurations.
func Execute(ctx *command.Context, cmd command.Command, tport transport.Transport) (types.TerminalResponse, error) {
	if ctx.ShouldUseInpas() {
		return executeInpas(ctx, cmd)
	}
	return executeTTK(ctx, cmd, tport)
}

func executeInpas(ctx *command.Context, cmd command.Command) (types.TerminalResponse, error) {
	if ctx.Config.DCHost == "" {
		return types.TerminalResponse{}, fmt.Errorf("%w: dc_host is required for inpas protocol", ErrConfigMissing)
	}

	fields := ctx.BuildInpasFields(cmd.InpasFields(ctx))
	return inpas.Send(ctx.Config, fields)
}

func executeTTK(ctx *command.Context, cmd command.Command, tport transport.Transport) (types.TerminalResponse, error) {
	items := cmd.TTKItems(ctx)
	ecrItem := tlv.NewItem(ecrNumberTag, []byte(ctx.Config.SerialNumber))
	items = append([]tlv.Item{ecrItem}, items...)

	frame := wire.CreateMessage(wire.ClientRequest, items)
	if err := tport.Write(frame); err != nil {
		return types.TerminalResponse{}, err
	}

	timeoutMs := ctx.Config.TimeoutOrDefault()
	timeout := time.Duration(timeoutMs) * time.Millisecond

	for {
		chunk, err := tport.Read(timeout)
		if err != nil {
			return types.TerminalResponse{}, err
		}

		msgType, respItems, err := wire.ParseMessage(chunk)
		if err != nil {
			// Malformed or partial frames are discarded; the loop keeps
			// reading until a well-formed terminal response arrives or
			// the read itself times out.
			continue
		}

		if msgType != wire.ServerResponse || !wire.HasResponseCode(respItems) {
			continue
		}

		raw := wire.ItemsToRawMap(respItems)
		return response.BuildFromRaw(types.TTK, raw), nil
	}
}
