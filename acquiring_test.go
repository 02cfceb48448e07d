package acquiring

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTerminalTCPPurchaseApproved(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 256)
		if _, err := conn.Read(buf); err != nil {
			return
		}

		// "PUR" message id + "00" response code, server response frame.
		body := []byte{0x01, 0x03, 'P', 'U', 'R', 0x9B, 0x02, '0', '0'}
		length := len(body) + 2
		frame := []byte{byte(length >> 8), byte(length), 0x97, 0xF2}
		frame = append(frame, body...)
		conn.Write(frame)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	term := New(ConnectionConfig{
		Protocol:       TTK,
		ConnectionType: TCP,
		SerialNumber:   "10285694",
		Address:        "127.0.0.1",
		Port:           uint16(addr.Port),
		Timeout:        2000,
	})

	if ok, err := term.Connect(); err != nil || !ok {
		t.Fatalf("connect: ok=%v err=%v", ok, err)
	}
	defer term.Disconnect()

	resp, err := term.Payment(1000, "")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success, got %+v", resp)
	}
}

func TestTerminalPaymentBeforeConnectFails(t *testing.T) {
	term := New(ConnectionConfig{Protocol: TTK, ConnectionType: TCP})
	if _, err := term.Payment(100, ""); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestTerminalInpasRefundApproved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=windows-1251")
		w.Write([]byte(`<?xml version="1.0" encoding="windows-1251"?><response><field id="25">29</field><field id="00">500</field></response>`))
	}))
	defer srv.Close()

	term := New(ConnectionConfig{
		Protocol:       INPAS,
		ConnectionType: TCP,
		Address:        "127.0.0.1",
		Port:           9015,
		DCHost:         srv.URL,
		Timeout:        2000,
	})

	if ok, err := term.Connect(); err != nil || !ok {
		t.Fatalf("connect: ok=%v err=%v", ok, err)
	}
	defer term.Disconnect()

	resp, err := term.Refund(500, "")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if resp.Data == nil || resp.Data.Amount != "500" {
		t.Errorf("expected normalized amount 500, got %+v", resp.Data)
	}
}

func TestTerminalBluetoothUnimplemented(t *testing.T) {
	term := New(ConnectionConfig{Protocol: TTK, ConnectionType: Bluetooth})
	if _, err := term.Connect(); err == nil {
		t.Fatal("expected ErrUnimplementedTransport")
	}
}
