// Satnetd is the stand-in simulation engine daemon for satellite network
// access analysis.
//
// It serves the scenario and access computation API over HTTP, streams
// telemetry events over WebSocket, and shuts down gracefully on SIGINT or
// SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/satnetlab/satnet/internal/simeng"
)

func main() {
	var (
		bind = pflag.String("bind", "0.0.0.0:7440", "HTTP bind address")
		step = pflag.Int("step", 10, "Propagation sampling step in seconds")
	)
	pflag.Parse()

	logger := log.New(os.Stdout, "satnetd ", log.LstdFlags|log.Lmicroseconds)

	a := simeng.New(simeng.Options{
		Logger: logger,
		Bind:   *bind,
		Step:   time.Duration(*step) * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("satnetd failed: %v", err)
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
