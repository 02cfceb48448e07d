package transport

import (
	"fmt"
	"log"
	"time"

	"github.com/corex-studio/corex-payment/internal/acquiring/logging"
	"github.com/goburrow/serial"
)

const defaultBaudRate = 9600

// SerialTransport opens the port named by ncom (falling back to address
// when ncom is empty) at baudRate, using goburrow/serial as the backend
// — the teacher's own go.mod dependency, previously unused by the two
// retrieved files, now wired to the USB/serial leg of the TTK transport.
type SerialTransport struct {
	logger   *logging.Logger
	path     string
	baudRate int
	reader   *chunkReader
	state    State
}

// NewSerialTransport builds a serial transport for the given port path.
// baudRate of 0 is replaced with defaultBaudRate (9600).
func NewSerialTransport(path string, baudRate int, customLogger *log.Logger) *SerialTransport {
	if baudRate == 0 {
		baudRate = defaultBaudRate
	}
	return &SerialTransport{
		path:     path,
		baudRate: baudRate,
		logger:   logging.New(fmt.Sprintf("serial-transport(%s)", path), customLogger),
	}
}

func (st *SerialTransport) Connect() (bool, error) {
	if st.path == "" {
		return false, fmt.Errorf("%w: ncom (or address) is required for serial connection", ErrConfigMissing)
	}

	port, err := serial.Open(&serial.Config{
		Address:  st.path,
		BaudRate: st.baudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
	})
	if err != nil {
		return false, fmt.Errorf("transport: serial open: %w", err)
	}

	st.reader = newChunkReader(port)
	st.state = Connected
	return true, nil
}

func (st *SerialTransport) Disconnect() error {
	if st.state != Connected {
		return nil
	}
	st.state = Disconnected
	err := st.reader.Close()
	st.reader = nil
	return err
}

func (st *SerialTransport) Write(data []byte) error {
	if st.state != Connected {
		return ErrNotConnected
	}
	if _, err := st.reader.Write(data); err != nil {
		return fmt.Errorf("transport: serial write: %w", err)
	}
	return nil
}

// Read blocks for up to timeout waiting for the port to produce data,
// then returns exactly one underlying read's bytes (at most
// maxReadChunk). goburrow/serial ports have no read-deadline API, so the
// deadline is enforced by chunkReader instead.
func (st *SerialTransport) Read(timeout time.Duration) ([]byte, error) {
	if st.state != Connected {
		return nil, ErrNotConnected
	}

	buf, err := st.reader.ReadChunk(timeout)
	if err != nil {
		if err == ErrTimeout {
			return nil, err
		}
		return nil, fmt.Errorf("transport: serial read: %w", err)
	}
	return buf, nil
}
