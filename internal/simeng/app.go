// Package simeng is the stand-in simulation engine daemon. It exposes
// the engine capability surface (scenario creation, entity registration,
// constraint setting, access computation, teardown) over an HTTP JSON
// API and streams telemetry events over WebSocket. It exists so
// the orchestration pipeline can run end to end without the commercial
// engine; swapping in the real tool replaces only the transport behind
// the same API.
package simeng

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/satnetlab/satnet/internal/telemetry"
	"github.com/satnetlab/satnet/internal/ws"
)

// Operating states reported over /api/status and the event stream.
const (
	StateBooting   = "BOOTING"
	StateIdle      = "IDLE"
	StateComputing = "COMPUTING"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Bind   string
	Step   time.Duration // propagation/sampling step, default 10s
}

// App is the engine daemon process: HTTP server, WebSocket hub, and the
// scenario store.
type App struct {
	log    *log.Logger
	bind   string
	step   time.Duration
	server *http.Server

	startedAt time.Time
	state     atomic.Value // current state string

	store *Store
	wsHub *ws.Hub
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	step := opts.Step
	if step <= 0 {
		step = 10 * time.Second
	}
	a := &App{
		log:       opts.Logger,
		bind:      opts.Bind,
		step:      step,
		startedAt: time.Now(),
		store:     NewStore(),
		wsHub:     ws.NewHub(),
	}
	a.state.Store(StateBooting)
	return a
}

// Handler returns the daemon's full route table. Split out from Run so
// tests can drive the API through httptest.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /api/status", a.handleStatus)
	mux.HandleFunc("GET /api/version", a.handleVersion)
	mux.HandleFunc("GET /api/scenarios", a.handleListScenarios)
	mux.HandleFunc("POST /api/scenarios", a.handleCreateScenario)
	mux.HandleFunc("DELETE /api/scenarios/{id}", a.handleDeleteScenario)
	mux.HandleFunc("POST /api/scenarios/{id}/satellites", a.handleAddSatellite)
	mux.HandleFunc("POST /api/scenarios/{id}/ground-stations", a.handleAddGroundStation)
	mux.HandleFunc("POST /api/scenarios/{id}/aircraft", a.handleAddAircraft)
	mux.HandleFunc("POST /api/scenarios/{id}/constraints", a.handleSetConstraint)
	mux.HandleFunc("POST /api/scenarios/{id}/access", a.handleComputeAccess)
	mux.Handle("/ws", a.wsHub.Handler())
	return mux
}

// Run starts the HTTP server, WebSocket hub, and heartbeat ticker. It
// blocks until the context is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:              a.bind,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", a.bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", a.bind)

	go a.wsHub.Run(ctx)
	a.transition(StateIdle)
	go a.heartbeatLoop(ctx)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// transition atomically updates the daemon state and broadcasts the
// change to all connected watchers.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)
	a.wsHub.BroadcastJSON(telemetry.StateTransition{
		Event: telemetry.NewEvent(telemetry.EventState, "satnetd"),
		From:  old,
		To:    newState,
	})
}

// heartbeatLoop sends a periodic heartbeat event so watchers can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(telemetry.Heartbeat{
				Event:         telemetry.NewEvent(telemetry.EventHeartbeat, "satnetd"),
				State:         a.state.Load().(string),
				UptimeSeconds: int64(time.Since(a.startedAt).Seconds()),
				Scenarios:     a.store.Count(),
			})
		}
	}
}

// logEvent writes to the daemon log and mirrors the line to watchers.
func (a *App) logEvent(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.log.Printf("%s", msg)
	a.wsHub.BroadcastJSON(telemetry.LogLine{
		Event:   telemetry.NewEvent(telemetry.EventLog, "satnetd"),
		Level:   level,
		Message: msg,
	})
}
