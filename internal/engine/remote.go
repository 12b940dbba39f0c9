package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/scenario"
)

// Session is a handle on one engine-side scenario. Open acquires it,
// Close releases it; the session must be released on every exit path,
// typically with a defer immediately after Open. Session methods are not
// safe for concurrent use, matching the single-threaded pipeline.
type Session struct {
	baseURL    string
	scenarioID string
	log        *log.Logger

	// Registration and teardown are cheap; access computation runs full
	// propagation engine-side, so it gets its own long-timeout client.
	client        *http.Client
	computeClient *http.Client
}

// Options tune the remote session. The zero value is usable.
type Options struct {
	Logger         *log.Logger
	ComputeTimeout time.Duration // default 60s
}

// Open creates an engine-side scenario for the analysis window and
// returns the session handle addressing it.
func Open(ctx context.Context, baseURL, name string, win access.Window, opts Options) (*Session, error) {
	if err := win.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	computeTimeout := opts.ComputeTimeout
	if computeTimeout <= 0 {
		computeTimeout = 60 * time.Second
	}

	s := &Session{
		baseURL:       strings.TrimRight(baseURL, "/"),
		log:           logger,
		client:        &http.Client{Timeout: 10 * time.Second},
		computeClient: &http.Client{Timeout: computeTimeout},
	}

	var resp ScenarioResponse
	err := s.post(ctx, s.client, "/api/scenarios", ScenarioRequest{Name: name, Start: win.Start, Stop: win.Stop}, &resp, callContext{})
	if err != nil {
		return nil, fmt.Errorf("open engine scenario: %w", err)
	}
	s.scenarioID = resp.ID
	s.log.Printf("engine: scenario %s opened (%s)", resp.ID, name)
	return s, nil
}

// ScenarioID returns the engine-side id of the open scenario.
func (s *Session) ScenarioID() string { return s.scenarioID }

// RegisterSatellite hands a satellite's orbital elements to the engine.
func (s *Session) RegisterSatellite(ctx context.Context, name string, el scenario.OrbitalElements) error {
	req := SatelliteRequest{
		Name:            name,
		SemiMajorAxisKm: el.SemiMajorAxisKm,
		Eccentricity:    el.Eccentricity,
		InclinationDeg:  el.InclinationDeg,
		RAANDeg:         el.RAANDeg,
		ArgOfPerigeeDeg: el.ArgOfPerigeeDeg,
		TrueAnomalyDeg:  el.TrueAnomalyDeg,
	}
	return s.post(ctx, s.client, s.scenarioPath("/satellites"), req, nil, callContext{entity: name})
}

// RegisterGroundStation hands a station's geodetic position to the engine.
func (s *Session) RegisterGroundStation(ctx context.Context, name string, pos scenario.Geodetic) error {
	req := GroundStationRequest{Name: name, LatDeg: pos.LatDeg, LonDeg: pos.LonDeg, AltitudeM: pos.AltitudeM}
	return s.post(ctx, s.client, s.scenarioPath("/ground-stations"), req, nil, callContext{entity: name})
}

// RegisterAircraft hands an aircraft's waypoint route to the engine.
func (s *Session) RegisterAircraft(ctx context.Context, name string, route []scenario.Waypoint) error {
	req := AircraftRequest{Name: name, Route: make([]WaypointWire, len(route))}
	for i, w := range route {
		req.Route[i] = WaypointWire{LatDeg: w.LatDeg, LonDeg: w.LonDeg, AltitudeM: w.AltitudeM, SpeedMPS: w.SpeedMPS}
	}
	return s.post(ctx, s.client, s.scenarioPath("/aircraft"), req, nil, callContext{entity: name})
}

// SetConstraint sets one threshold on a registered entity. Setting the
// same kind and bound again overwrites the previous value.
func (s *Session) SetConstraint(ctx context.Context, entity string, spec scenario.ConstraintSpec) error {
	req := ConstraintRequest{Entity: entity, Kind: string(spec.Kind), Bound: string(spec.Bound), Value: spec.Value}
	return s.post(ctx, s.client, s.scenarioPath("/constraints"), req, nil, callContext{
		entity: entity,
		kind:   spec.Kind,
		bound:  spec.Bound,
	})
}

// ComputeAccess asks the engine for the access intervals between a and b
// over win. The call blocks until the engine finishes propagation.
func (s *Session) ComputeAccess(ctx context.Context, a, b *scenario.Entity, win access.Window) ([]access.Interval, error) {
	req := AccessRequest{From: a.Name, To: b.Name, Start: win.Start, Stop: win.Stop}
	var resp AccessResponse
	cctx := callContext{entity: a.Name, link: access.LinkID(a, b)}
	if err := s.post(ctx, s.computeClient, s.scenarioPath("/access"), req, &resp, cctx); err != nil {
		return nil, err
	}
	out := make([]access.Interval, len(resp.Intervals))
	for i, w := range resp.Intervals {
		out[i] = w.Interval()
	}
	return out, nil
}

// Close releases the engine-side scenario. It is safe to call on a
// session whose scenario was already torn down.
func (s *Session) Close(ctx context.Context) error {
	if s.scenarioID == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+s.scenarioPath(""), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("release engine scenario: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("release engine scenario: %w", s.decodeError(resp, callContext{}))
	}
	s.log.Printf("engine: scenario %s released", s.scenarioID)
	s.scenarioID = ""
	return nil
}

func (s *Session) scenarioPath(suffix string) string {
	return "/api/scenarios/" + s.scenarioID + suffix
}

// callContext carries the names a typed error needs when a call fails.
type callContext struct {
	entity string
	link   string
	kind   scenario.ConstraintKind
	bound  scenario.Bound
}

// post sends a JSON request and decodes the response into dst when dst is
// non-nil. Non-2xx responses are decoded through the error envelope.
func (s *Session) post(ctx context.Context, client *http.Client, path string, body, dst any, cctx callContext) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.decodeError(resp, cctx)
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// decodeError turns a non-2xx response into a typed error. Bodies that
// are not the JSON envelope (proxies, panics) fall back to the raw text.
func (s *Session) decodeError(resp *http.Response, cctx callContext) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var env ErrorResponse
	if err := json.Unmarshal(raw, &env); err == nil && env.Code != "" {
		return errorFromEnvelope(env, cctx.entity, cctx.link, cctx.kind, cctx.bound)
	}

	msg := strings.TrimSpace(string(raw))
	if msg != "" {
		return &RemoteError{Message: fmt.Sprintf("HTTP %s: %s", resp.Status, msg)}
	}
	return &RemoteError{Message: "HTTP " + resp.Status}
}
