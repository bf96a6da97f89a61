package sender

import (
	"fmt"

	"github.com/CyCoreSystems/udp-throughput/datagram"
)

// SocketError is returned when the UDP socket cannot be created.
type SocketError struct {
	Err error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("unable to create socket: %s", e.Err)
}

func (e *SocketError) Unwrap() error {
	return e.Err
}

// SendError is returned when a datagram could not be handed to the network.
// Seq counts sends from 1 across the whole run.
type SendError struct {
	Kind datagram.Kind
	Seq  int
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("unable to communicate on socket: %s datagram %d: %s", e.Kind, e.Seq, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// ShortWriteError is the cause of a SendError when the socket accepted fewer bytes than the datagram holds.
type ShortWriteError struct {
	Expected int
	Sent     int
}

func (e *ShortWriteError) Error() string {
	return fmt.Sprintf("unexpected write length: sent %d of %d bytes", e.Sent, e.Expected)
}
