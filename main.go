package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/CyCoreSystems/udp-throughput/sender"
	flags "github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// exitFailure is what a -1 exit status becomes.
const exitFailure = 255

var logger *zap.Logger

var errUsage = errors.New("expected 2 arguments: need ip addr and port")

// Options are the command line options.
type Options struct {
	Debug  bool   `short:"d" long:"debug" description:"debug logging"`
	Config string `short:"c" long:"config" description:"YAML configuration file overriding messageCount, messageLen, stopRepeat and hopLimit"`

	Args struct {
		Address string `positional-arg-name:"address" description:"IPv6 host name or literal"`
		Port    string `positional-arg-name:"port" description:"destination UDP port"`
	} `positional-args:"yes" required:"yes"`
}

// PortError is returned when the port argument is not an integer.
type PortError struct {
	Port string
	Err  error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("port must be an integer: %q", e.Port)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

type openFunc func(cfg sender.Config) (sender.Sock, error)

func openUDP(cfg sender.Config) (sender.Sock, error) {
	sock, err := sender.Open(cfg)
	if err != nil {
		return nil, err
	}

	return sock, nil
}

func newLogger(debug bool, w io.Writer) *zap.Logger {
	level := zap.WarnLevel
	encoderConfig := zap.NewProductionEncoderConfig()

	if debug {
		level = zap.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level))
}

func parseArgs(args []string, stderr io.Writer) (*Options, error) {
	opts := new(Options)

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, err
		}

		parser.WriteHelp(stderr)
		return nil, fmt.Errorf("%w: %s", errUsage, err)
	}

	if len(rest) > 0 {
		parser.WriteHelp(stderr)
		return nil, fmt.Errorf("%w: unexpected arguments %q", errUsage, rest)
	}

	return opts, nil
}

func runSender(ctx context.Context, opts *Options, open openFunc) error {
	port, err := strconv.Atoi(opts.Args.Port)
	if err != nil {
		return &PortError{Port: opts.Args.Port, Err: err}
	}

	cfg := sender.DefaultConfig()
	if opts.Config != "" {
		if cfg, err = sender.LoadConfig(opts.Config); err != nil {
			return err
		}
	}

	logger.Debug("configuration", zap.Any("config", cfg))

	sock, err := open(cfg)
	if err != nil {
		return err
	}

	s, err := sender.New(cfg, sock, opts.Args.Address, port, sender.WithLogger(logger))
	if err != nil {
		sock.Close() // nolint: errcheck
		return err
	}

	return s.RunAndClose(ctx)
}

func run(ctx context.Context, args []string, stderr io.Writer, open openFunc) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stderr, err)
			return 0
		}

		logger = newLogger(false, stderr)
		logger.Error("invalid arguments", zap.Error(err))

		return exitFailure
	}

	logger = newLogger(opts.Debug, stderr)
	defer logger.Sync() // nolint: errcheck

	logger.Debug("Debug mode enabled")

	if err := runSender(ctx, opts, open); err != nil {
		logger.Error("failed to send",
			zap.String("address", opts.Args.Address),
			zap.String("port", opts.Args.Port),
			zap.Error(err),
		)

		return exitFailure
	}

	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := run(ctx, os.Args[1:], os.Stderr, openUDP)

	stop()
	os.Exit(code)
}
