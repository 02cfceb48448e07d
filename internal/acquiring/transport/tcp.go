package transport

import (
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/corex-studio/corex-payment/internal/acquiring/logging"
)

// TCPTransport connects to {address}:{port} and exchanges raw bytes,
// deadline-based the way the teacher's tcp_transport.go drives its
// MBAP-framed socket: one SetDeadline before each write, reads sized to
// maxReadChunk.
type TCPTransport struct {
	logger  *logging.Logger
	address string
	port    uint16
	socket  net.Conn
	state   State
}

// NewTCPTransport builds a TCP transport for address:port. Both fields
// are required; a missing one is reported at Connect time with
// ErrConfigMissing, matching the connection_type-specific validation in
// the data model.
func NewTCPTransport(address string, port uint16, customLogger *log.Logger) *TCPTransport {
	return &TCPTransport{
		address: address,
		port:    port,
		logger:  logging.New(fmt.Sprintf("tcp-transport(%s:%d)", address, port), customLogger),
	}
}

func (tt *TCPTransport) Connect() (bool, error) {
	if tt.address == "" || tt.port == 0 {
		return false, fmt.Errorf("%w: address and port are required for tcp connection", ErrConfigMissing)
	}

	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", tt.address, tt.port))
	if err != nil {
		return false, fmt.Errorf("transport: tcp dial: %w", err)
	}

	tt.socket = conn
	tt.state = Connected
	return true, nil
}

func (tt *TCPTransport) Disconnect() error {
	if tt.state != Connected {
		return nil
	}

	tt.state = Disconnected
	if tc, ok := tt.socket.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			tt.logger.Warningf("orderly shutdown failed: %v", err)
		}
	}
	err := tt.socket.Close()
	tt.socket = nil
	return err
}

func (tt *TCPTransport) Write(data []byte) error {
	if tt.state != Connected {
		return ErrNotConnected
	}

	if err := tt.socket.SetWriteDeadline(time.Time{}); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if _, err := tt.socket.Write(data); err != nil {
		return fmt.Errorf("transport: tcp write: %w", err)
	}
	return nil
}

func (tt *TCPTransport) Read(timeout time.Duration) ([]byte, error) {
	if tt.state != Connected {
		return nil, ErrNotConnected
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := tt.socket.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("transport: set read deadline: %w", err)
	}

	buf := make([]byte, maxReadChunk)
	n, err := tt.socket.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("transport: tcp read: %w", err)
	}
	return buf[:n], nil
}
