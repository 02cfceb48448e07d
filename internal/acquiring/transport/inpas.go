package transport

import "time"

// InpasPseudoTransport always reports Connected on Connect and rejects
// Read/Write: the INPAS Envelope owns its own HTTP I/O directly, so this
// type exists only to satisfy callers that expect a Transport for every
// protocol (see spec §4.3/§9 — the dispatcher doesn't strictly need to
// present INPAS as a transport, but the facade's connection lifecycle
// treats connect/disconnect uniformly across both protocols).
type InpasPseudoTransport struct {
	state State
}

func NewInpasPseudoTransport() *InpasPseudoTransport {
	return &InpasPseudoTransport{}
}

func (it *InpasPseudoTransport) Connect() (bool, error) {
	it.state = Connected
	return true, nil
}

func (it *InpasPseudoTransport) Disconnect() error {
	it.state = Disconnected
	return nil
}

func (it *InpasPseudoTransport) Write([]byte) error {
	return errInpasNoIO
}

func (it *InpasPseudoTransport) Read(time.Duration) ([]byte, error) {
	return nil, errInpasNoIO
}

var errInpasNoIO = &inpasIOError{}

type inpasIOError struct{}

func (*inpasIOError) Error() string {
	return "transport: inpas pseudo-transport does not support read/write; use the INPAS envelope directly"
}
