// Package sender emits a fixed run of data datagrams followed by repeated stop
// datagrams to a single UDP destination.
package sender

import (
	"context"

	"github.com/CyCoreSystems/udp-throughput/datagram"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Stats counts what a Sender has handed to its socket.
type Stats struct {
	Data  int
	Stop  int
	Bytes int
}

// Sends is the total number of datagrams sent.
func (s Stats) Sends() int {
	return s.Data + s.Stop
}

// Sender transmits the datagram sequence of one run.  It owns its socket and is not safe for concurrent use.
type Sender struct {
	cfg    Config
	sock   Sock
	host   string
	port   int
	logger *zap.Logger

	msg     []byte
	stopMsg []byte

	stats Stats
}

// Option configures a Sender.
type Option func(*Sender)

// WithLogger sets the logger a Sender traces its sends to.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sender) {
		s.logger = logger
	}
}

// New creates a Sender which transmits on sock to host:port.
func New(cfg Config, sock Sock, host string, port int, opts ...Option) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sender{
		cfg:     cfg,
		sock:    sock,
		host:    host,
		port:    port,
		logger:  zap.NewNop(),
		msg:     datagram.New(datagram.Data, cfg.MessageLen),
		stopMsg: datagram.New(datagram.Stop, cfg.MessageLen),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Stats returns what has been sent so far.
func (s *Sender) Stats() Stats {
	return s.stats
}

// Run sends MessageCount-1 data datagrams and then StopRepeat stop datagrams.
// The first failure aborts the run and is returned as a *SendError.
func (s *Sender) Run(ctx context.Context) error {
	logger := s.logger.With(
		zap.String("host", s.host),
		zap.Int("port", s.port),
	)

	logger.Debug("sending data datagrams", zap.Int("count", s.cfg.DataCount()), zap.Int("size", s.cfg.MessageLen))

	for i := 0; i < s.cfg.DataCount(); i++ {
		if err := s.send(ctx, datagram.Data, s.msg); err != nil {
			return err
		}
	}

	// the stop marker is repeated since any single datagram may be lost
	logger.Debug("sending stop datagrams", zap.Int("count", s.cfg.StopRepeat))

	for i := 0; i < s.cfg.StopRepeat; i++ {
		if err := s.send(ctx, datagram.Stop, s.stopMsg); err != nil {
			return err
		}
	}

	logger.Debug("run complete",
		zap.Int("data", s.stats.Data),
		zap.Int("stop", s.stats.Stop),
		zap.Int("bytes", s.stats.Bytes),
	)

	return nil
}

func (s *Sender) send(ctx context.Context, kind datagram.Kind, m []byte) error {
	seq := s.stats.Sends() + 1

	if err := ctx.Err(); err != nil {
		return &SendError{Kind: kind, Seq: seq, Err: err}
	}

	n, err := s.sock.SendTo(m, s.host, s.port)
	if err != nil {
		return &SendError{Kind: kind, Seq: seq, Err: err}
	}

	if n != len(m) {
		return &SendError{Kind: kind, Seq: seq, Err: &ShortWriteError{Expected: len(m), Sent: n}}
	}

	switch kind {
	case datagram.Data:
		s.stats.Data++
	case datagram.Stop:
		s.stats.Stop++
	}
	s.stats.Bytes += n

	return nil
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.sock.Close()
}

// RunAndClose runs the Sender and closes its socket, returning any error from either.
func (s *Sender) RunAndClose(ctx context.Context) (err error) {
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	return s.Run(ctx)
}
