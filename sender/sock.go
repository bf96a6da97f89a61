package sender

import (
	"fmt"
	"net"
	"strconv"

	"golang.org/x/net/ipv6"
)

// Sock is the single socket a Sender transmits on.
type Sock interface {
	// SendTo transmits b as one datagram to host:port and returns the number of bytes written.
	SendTo(b []byte, host string, port int) (int, error)

	Close() error
}

// UDPSock is an unconnected IPv6 UDP socket bound to an ephemeral port.
type UDPSock struct {
	conn *net.UDPConn

	// destination of the previous send, resolved on first use
	host string
	port int
	addr *net.UDPAddr
}

// Open creates the IPv6 UDP socket described by cfg.
func Open(cfg Config) (*UDPSock, error) {
	conn, err := net.ListenUDP("udp6", nil)
	if err != nil {
		return nil, &SocketError{Err: err}
	}

	if cfg.HopLimit > 0 {
		if err := ipv6.NewPacketConn(conn).SetHopLimit(cfg.HopLimit); err != nil {
			conn.Close() // nolint: errcheck
			return nil, &SocketError{Err: fmt.Errorf("failed to set hop limit %d: %w", cfg.HopLimit, err)}
		}
	}

	return &UDPSock{conn: conn}, nil
}

func (s *UDPSock) String() string {
	return s.conn.LocalAddr().String()
}

// LocalAddr returns the address the socket was bound to.
func (s *UDPSock) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *UDPSock) resolve(host string, port int) (*net.UDPAddr, error) {
	if s.addr != nil && s.host == host && s.port == port {
		return s.addr, nil
	}

	addr, err := net.ResolveUDPAddr("udp6", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, err)
	}

	s.host, s.port, s.addr = host, port, addr

	return addr, nil
}

// SendTo implements Sock.
func (s *UDPSock) SendTo(b []byte, host string, port int) (int, error) {
	addr, err := s.resolve(host, port)
	if err != nil {
		return 0, err
	}

	return s.conn.WriteToUDP(b, addr)
}

// Close releases the socket.
func (s *UDPSock) Close() error {
	return s.conn.Close()
}
