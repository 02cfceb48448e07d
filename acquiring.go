// Package acquiring is the public entry point: Terminal owns one
// connection (TTK over TCP/Serial, or INPAS over the DualConnector
// relay) and exposes Payment, Refund and Totals against it.
package acquiring

import (
	"errors"
	"fmt"
	"sync"

	"github.com/corex-studio/corex-payment/internal/acquiring/command"
	"github.com/corex-studio/corex-payment/internal/acquiring/dispatch"
	"github.com/corex-studio/corex-payment/internal/acquiring/transport"
	"github.com/corex-studio/corex-payment/internal/acquiring/types"
)

// Re-exported so callers configuring a Terminal never need to import the
// internal packages directly.
type (
	ConnectionConfig        = types.ConnectionConfig
	Protocol                = types.Protocol
	ConnectionType          = types.ConnectionType
	TerminalResponse        = types.TerminalResponse
	NormalizedTransactionData = types.NormalizedTransactionData
)

const (
	TTK   = types.TTK
	INPAS = types.INPAS
)

const (
	TCP       = types.TCP
	Serial    = types.Serial
	Bluetooth = types.Bluetooth
)

// ErrNotConnected is returned by Payment/Refund/Totals when called before
// a successful Connect.
var ErrNotConnected = errors.New("acquiring: not connected to terminal")

// Terminal serializes every write and read against one transport behind
// a mutex: only one command executes against a given terminal at a time,
// matching the protocol's own single-outstanding-request contract.
type Terminal struct {
	config types.ConnectionConfig

	mu        sync.Mutex
	transport transport.Transport
}

// New builds a Terminal for config. It does not connect.
func New(config types.ConnectionConfig) *Terminal {
	return &Terminal{config: config}
}

// Connect opens the underlying transport. For INPAS it is a no-op
// pseudo-transport: the protocol owns its HTTP round-trip per request
// and never holds a persistent connection.
func (t *Terminal) Connect() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, err := t.buildTransport()
	if err != nil {
		return false, err
	}

	ok, err := tr.Connect()
	if err != nil {
		return false, err
	}
	t.transport = tr
	return ok, nil
}

func (t *Terminal) buildTransport() (transport.Transport, error) {
	if t.config.Protocol == types.INPAS {
		return transport.NewInpasPseudoTransport(), nil
	}

	switch t.config.ConnectionType {
	case types.TCP:
		return transport.NewTCPTransport(t.config.Address, t.config.Port, nil), nil
	case types.Serial:
		path := t.config.SerialPath
		if path == "" {
			path = t.config.Address
		}
		return transport.NewSerialTransport(path, t.config.BaudRateOrDefault(), nil), nil
	case types.Bluetooth:
		return nil, transport.ErrUnimplementedTransport
	default:
		return nil, fmt.Errorf("acquiring: unknown connection type %v", t.config.ConnectionType)
	}
}

// Disconnect closes the underlying transport, if any, and clears it.
func (t *Terminal) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.transport == nil {
		return nil
	}
	err := t.transport.Disconnect()
	t.transport = nil
	return err
}

// Connected reports whether Connect has succeeded and Disconnect has not
// since been called. It does not probe the underlying socket.
func (t *Terminal) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transport != nil
}

// Payment runs a Purchase. currency defaults to command.DefaultCurrency
// when empty.
func (t *Terminal) Payment(amount uint64, currency string) (types.TerminalResponse, error) {
	return t.execute(command.NewPurchase(amount, currency))
}

// Refund runs a Refund. currency defaults to command.DefaultCurrency when
// empty.
func (t *Terminal) Refund(amount uint64, currency string) (types.TerminalResponse, error) {
	return t.execute(command.NewRefund(amount, currency))
}

// Totals runs the service/totals command (TTK "SRV" subfunction 2,
// INPAS operation code 59).
func (t *Terminal) Totals() (types.TerminalResponse, error) {
	return t.execute(command.NewTotals())
}

func (t *Terminal) execute(cmd command.Command) (types.TerminalResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.transport == nil {
		return types.TerminalResponse{}, ErrNotConnected
	}

	ctx := command.NewContext(t.config)
	return dispatch.Execute(ctx, cmd, t.transport)
}
