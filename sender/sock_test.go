package sender

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/CyCoreSystems/udp-throughput/datagram"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()

	conn, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6loopback})
	if err != nil {
		t.Skipf("IPv6 loopback unavailable: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func openSock(t *testing.T, cfg Config) *UDPSock {
	t.Helper()

	sock, err := Open(cfg)
	if err != nil {
		t.Skipf("Open: %v", err)
	}
	t.Cleanup(func() { sock.Close() })

	return sock
}

func TestUDPSockSendTo(t *testing.T) {
	conn := listenLoopback(t)
	sock := openSock(t, Config{HopLimit: 4})

	port := conn.LocalAddr().(*net.UDPAddr).Port
	msg := datagram.New(datagram.Stop, 1024)

	n, err := sock.SendTo(msg, "::1", port)
	if err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if n != len(msg) {
		t.Fatalf("SendTo: wrote %d bytes", n)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}

	buf := make([]byte, 2048)
	n, _, err = conn.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("ReadFromUDP: %v", err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Errorf("received %d bytes of kind %v", n, datagram.Classify(buf[:n]))
	}
}

func TestUDPSockResolveError(t *testing.T) {
	sock := openSock(t, DefaultConfig())

	var tests = []struct {
		host string
		port int
	}{
		{"127.0.0.1", 9999}, // no IPv6 address
		{"::1", 70000},
		{"::1", -1},
	}

	for _, test := range tests {
		if _, err := sock.SendTo([]byte{0}, test.host, test.port); err == nil {
			t.Errorf("SendTo %s:%d: expected error", test.host, test.port)
		}
	}
}
