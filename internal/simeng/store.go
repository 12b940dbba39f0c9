package simeng

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/akhenakh/sgp4"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/engine"
	"github.com/satnetlab/satnet/internal/scenario"
)

// apiError pairs an HTTP status with the wire error envelope.
type apiError struct {
	status int
	code   string
	msg    string
}

func (e *apiError) Error() string { return e.code + ": " + e.msg }

func errDuplicate(name string) *apiError {
	return &apiError{http.StatusConflict, engine.CodeDuplicateEntity, fmt.Sprintf("entity %q already exists", name)}
}

func errUnknownEntity(name string) *apiError {
	return &apiError{http.StatusNotFound, engine.CodeUnknownEntity, fmt.Sprintf("entity %q not found", name)}
}

func errUnknownScenario(id string) *apiError {
	return &apiError{http.StatusNotFound, engine.CodeUnknownScenario, fmt.Sprintf("scenario %q not found", id)}
}

func errInvalid(msg string) *apiError {
	return &apiError{http.StatusBadRequest, engine.CodeInvalidConfiguration, msg}
}

func errUnsupportedConstraint(req engine.ConstraintRequest, kind scenario.Kind) *apiError {
	return &apiError{
		http.StatusUnprocessableEntity,
		engine.CodeUnsupportedConstraint,
		fmt.Sprintf("constraint %s %s not supported on %s entity %q", req.Bound, req.Kind, kind, req.Entity),
	}
}

// object is one entity registered in an engine-side scenario.
type object struct {
	name     string
	kind     scenario.Kind
	elements *elementsLike
	position *scenario.Geodetic
	route    []scenario.Waypoint

	noradID int
	tle     string // synthesized at registration for satellites

	constraints map[constraintKey]float64
}

type constraintKey struct {
	kind  string
	bound string
}

// constraint returns the threshold for kind/bound and whether it is set.
func (o *object) constraint(kind, bound string) (float64, bool) {
	v, ok := o.constraints[constraintKey{kind, bound}]
	return v, ok
}

// scene is one engine-side scenario with its entity table.
type scene struct {
	id     string
	name   string
	window access.Window

	objects map[string]*object
	order   []string
}

func (s *scene) add(o *object) *apiError {
	if _, ok := s.objects[o.name]; ok {
		return errDuplicate(o.name)
	}
	o.constraints = make(map[constraintKey]float64)
	s.objects[o.name] = o
	s.order = append(s.order, o.name)
	return nil
}

// ScenarioSummary is the list-endpoint view of one open scenario.
type ScenarioSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	Stop     time.Time `json:"stop"`
	Entities int       `json:"entities"`
}

// Store holds every open scenario. Each operation runs whole under one
// mutex; the engine contract is synchronous and the expected client
// count is one, so the coarse lock is deliberate.
type Store struct {
	mu        sync.Mutex
	scenarios map[string]*scene
	seq       int
}

func NewStore() *Store {
	return &Store{scenarios: make(map[string]*scene)}
}

// Create opens a new scenario and returns its id.
func (st *Store) Create(name string, win access.Window) (string, *apiError) {
	if err := win.Validate(); err != nil {
		return "", errInvalid(err.Error())
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq++
	s := &scene{
		id:      fmt.Sprintf("scn-%04d", st.seq),
		name:    name,
		window:  win,
		objects: make(map[string]*object),
	}
	st.scenarios[s.id] = s
	return s.id, nil
}

// Delete releases a scenario.
func (st *Store) Delete(id string) *apiError {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.scenarios[id]; !ok {
		return errUnknownScenario(id)
	}
	delete(st.scenarios, id)
	return nil
}

// Count reports the number of open scenarios.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.scenarios)
}

// List summarizes every open scenario, newest last.
func (st *Store) List() []ScenarioSummary {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]ScenarioSummary, 0, len(st.scenarios))
	for _, s := range st.scenarios {
		out = append(out, ScenarioSummary{
			ID:       s.id,
			Name:     s.name,
			Start:    s.window.Start,
			Stop:     s.window.Stop,
			Entities: len(s.order),
		})
	}
	return out
}

// AddSatellite registers a satellite: the elements are validated, then a
// TLE is synthesized at the scenario epoch and parsed once so a bad
// conversion fails at registration rather than at first query.
func (st *Store) AddSatellite(id string, req engine.SatelliteRequest) *apiError {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return errUnknownScenario(id)
	}
	if req.Name == "" {
		return errInvalid("satellite name must not be empty")
	}
	if err := req.Elements().Validate(); err != nil {
		return errInvalid(err.Error())
	}

	el := elementsLike{
		SemiMajorAxisKm: req.SemiMajorAxisKm,
		Eccentricity:    req.Eccentricity,
		InclinationDeg:  req.InclinationDeg,
		RAANDeg:         req.RAANDeg,
		ArgOfPerigeeDeg: req.ArgOfPerigeeDeg,
		TrueAnomalyDeg:  req.TrueAnomalyDeg,
	}
	noradID := 90000 + len(s.order)
	tle := synthesizeTLE(req.Name, noradID, el, s.window.Start)
	if _, err := sgp4.ParseTLE(tle); err != nil {
		return errInvalid(fmt.Sprintf("element set for %q not propagatable: %v", req.Name, err))
	}

	return s.add(&object{
		name:     req.Name,
		kind:     scenario.KindSatellite,
		elements: &el,
		noradID:  noradID,
		tle:      tle,
	})
}

// AddGroundStation registers a station at a geodetic position.
func (st *Store) AddGroundStation(id string, req engine.GroundStationRequest) *apiError {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return errUnknownScenario(id)
	}
	if req.Name == "" {
		return errInvalid("ground station name must not be empty")
	}
	pos := scenario.Geodetic{LatDeg: req.LatDeg, LonDeg: req.LonDeg, AltitudeM: req.AltitudeM}
	if err := pos.Validate(); err != nil {
		return errInvalid(err.Error())
	}
	return s.add(&object{name: req.Name, kind: scenario.KindGround, position: &pos})
}

// AddAircraft registers an aircraft with its waypoint route.
func (st *Store) AddAircraft(id string, req engine.AircraftRequest) *apiError {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return errUnknownScenario(id)
	}
	if req.Name == "" {
		return errInvalid("aircraft name must not be empty")
	}
	route := make([]scenario.Waypoint, len(req.Route))
	for i, w := range req.Route {
		route[i] = scenario.Waypoint{LatDeg: w.LatDeg, LonDeg: w.LonDeg, AltitudeM: w.AltitudeM, SpeedMPS: w.SpeedMPS}
	}
	if err := scenario.ValidateRoute(route); err != nil {
		return errInvalid(err.Error())
	}
	return s.add(&object{name: req.Name, kind: scenario.KindAir, route: route})
}

// SetConstraint sets one threshold. The support matrix is narrow:
// minimum elevation on ground stations is the only constraint this
// engine honors; everything else is reported as unsupported rather than
// silently ignored.
func (st *Store) SetConstraint(id string, req engine.ConstraintRequest) *apiError {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return errUnknownScenario(id)
	}
	o, ok := s.objects[req.Entity]
	if !ok {
		return errUnknownEntity(req.Entity)
	}
	if o.kind != scenario.KindGround || req.Kind != string(scenario.ConstraintElevation) || req.Bound != string(scenario.BoundMin) {
		return errUnsupportedConstraint(req, o.kind)
	}
	if req.Value < -90 || req.Value > 90 {
		return errInvalid(fmt.Sprintf("elevation %g out of range", req.Value))
	}
	o.constraints[constraintKey{req.Kind, req.Bound}] = req.Value
	return nil
}

// ComputeAccess runs the access computation for one pair. It holds the
// store lock for the duration; see the Store doc for why that is fine.
func (st *Store) ComputeAccess(id string, req engine.AccessRequest, step time.Duration) ([]engine.IntervalWire, *apiError) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.scenarios[id]
	if !ok {
		return nil, errUnknownScenario(id)
	}
	from, ok := s.objects[req.From]
	if !ok {
		return nil, errUnknownEntity(req.From)
	}
	to, ok := s.objects[req.To]
	if !ok {
		return nil, errUnknownEntity(req.To)
	}

	win := access.Window{Start: req.Start, Stop: req.Stop}
	if err := win.Validate(); err != nil {
		return nil, errInvalid(err.Error())
	}
	if req.Start.Before(s.window.Start) || req.Stop.After(s.window.Stop) {
		return nil, errInvalid("requested window exceeds the scenario period")
	}

	return computePair(s, from, to, win, step)
}
