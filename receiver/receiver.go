// Package receiver listens for the datagram sequence of a throughput client
// and counts what arrives until the stop marker.
package receiver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/CyCoreSystems/udp-throughput/datagram"
	humanize "github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// DefaultDrainTimeout is how long repeated stop datagrams are drained after the first one.
const DefaultDrainTimeout = 100 * time.Millisecond

// large enough for any UDP payload
const maxDatagram = 65535

// Stats describes one received run.
type Stats struct {
	Source *net.UDPAddr

	Data    int
	Stop    int
	Unknown int
	Ignored int // datagrams from other sources
	Bytes   int

	First time.Time
	Last  time.Time
}

func (s *Stats) add(kind datagram.Kind, n int, now time.Time) {
	switch kind {
	case datagram.Data:
		s.Data++
	case datagram.Stop:
		s.Stop++
	default:
		s.Unknown++
	}

	if s.First.IsZero() {
		s.First = now
	}
	s.Last = now
	s.Bytes += n
}

// Duration is the time between the first and the last datagram.
func (s Stats) Duration() time.Duration {
	return s.Last.Sub(s.First)
}

// Throughput returns bytes per second between the first and the last datagram, or zero for an instantaneous run.
func (s Stats) Throughput() float64 {
	d := s.Duration()
	if d <= 0 {
		return 0
	}

	return float64(s.Bytes) / d.Seconds()
}

func (s Stats) String() string {
	return fmt.Sprintf("%v: %d data + %d stop + %d unknown datagrams, %s in %v = %s/s",
		s.Source,
		s.Data, s.Stop, s.Unknown,
		humanize.Bytes(uint64(s.Bytes)),
		s.Duration(),
		humanize.Bytes(uint64(s.Throughput())),
	)
}

// Receiver reads datagram runs from a single IPv6 UDP socket.
type Receiver struct {
	conn   *net.UDPConn
	logger *zap.Logger

	// DrainTimeout bounds how long further datagrams are read after the first stop datagram.
	DrainTimeout time.Duration
}

// Listen creates a Receiver bound to addr.
func Listen(addr string, logger *zap.Logger) (*Receiver, error) {
	uaddr, err := net.ResolveUDPAddr("udp6", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listen address %q: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp6", uaddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %s: %w", addr, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Receiver{
		conn:         conn,
		logger:       logger,
		DrainTimeout: DefaultDrainTimeout,
	}, nil
}

// Addr returns the bound address.
func (r *Receiver) Addr() *net.UDPAddr {
	return r.conn.LocalAddr().(*net.UDPAddr)
}

// Close releases the socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}

// Run receives one run: it returns once a stop datagram has arrived and the
// repeats have been drained.  Only datagrams from the source of the first
// datagram are counted.
func (r *Receiver) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := r.conn.SetReadDeadline(time.Time{}); err != nil {
		return stats, err
	}

	done := make(chan struct{})
	wg := new(sync.WaitGroup)
	wg.Add(1)

	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
			// unblock the pending read
			r.conn.SetReadDeadline(time.Unix(1, 0)) // nolint: errcheck
		case <-done:
		}
	}()

	defer func() {
		close(done)
		wg.Wait()
	}()

	buf := make([]byte, maxDatagram)

	for {
		n, from, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			return stats, fmt.Errorf("failed to read from socket: %w", err)
		}

		kind, ok := r.count(&stats, buf[:n], from)
		if !ok || kind != datagram.Stop {
			continue
		}

		r.logger.Debug("received stop datagram", zap.Stringer("source", from))

		if err := r.drain(ctx, &stats, buf); err != nil {
			return stats, err
		}

		return stats, nil
	}
}

func (r *Receiver) count(stats *Stats, b []byte, from *net.UDPAddr) (datagram.Kind, bool) {
	if stats.Source == nil {
		r.logger.Debug("incoming run", zap.Stringer("source", from))
		stats.Source = from
	} else if from.String() != stats.Source.String() {
		r.logger.Debug("ignored datagram", zap.Stringer("source", from))
		stats.Ignored++
		return datagram.Unknown, false
	}

	kind := datagram.Classify(b)

	stats.add(kind, len(b), time.Now())

	return kind, true
}

func (r *Receiver) drain(ctx context.Context, stats *Stats, buf []byte) error {
	if err := r.conn.SetReadDeadline(time.Now().Add(r.DrainTimeout)); err != nil {
		return err
	}

	for {
		n, from, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				break
			}
			return fmt.Errorf("failed to read from socket: %w", err)
		}

		r.count(stats, buf[:n], from)
	}

	return r.conn.SetReadDeadline(time.Time{})
}
