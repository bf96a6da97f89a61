package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/CyCoreSystems/udp-throughput/receiver"
	flags "github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

// Options are the command line options.
type Options struct {
	Debug bool   `short:"d" long:"debug" description:"debug logging"`
	Port  uint16 `short:"p" long:"port" default:"9999" description:"port to listen on"`
}

func main() {
	var opts Options

	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	var logger *zap.Logger
	var err error

	if opts.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalln("failed to create logger:", err)
	}
	defer logger.Sync() // nolint: errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := fmt.Sprintf("[::]:%d", opts.Port)

	r, err := receiver.Listen(addr, logger)
	if err != nil {
		logger.Sugar().Fatal("failed to start receiver: ", err)
	}

	defer func() {
		if err := r.Close(); err != nil {
			logger.Error("failed to close listener", zap.Error(err))
		}
	}()

	logger.Info("starting receiver", zap.String("socket", addr))

	for {
		stats, err := r.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return
		} else if err != nil {
			logger.Error("failed to receive run", zap.Error(err))
			return
		}

		logger.Info("run complete",
			zap.Stringer("stats", stats),
			zap.Int("ignored", stats.Ignored),
		)
	}
}
