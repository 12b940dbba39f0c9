package simeng

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/engine"
	"github.com/satnetlab/satnet/internal/telemetry"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, e *apiError) {
	writeJSON(w, e.status, engine.ErrorResponse{Code: e.code, Error: e.msg})
}

// decodeBody reads a JSON request body into dst, returning an apiError
// suitable for the envelope on malformed input.
func decodeBody(r *http.Request, dst any) *apiError {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errInvalid("malformed request body: " + err.Error())
	}
	return nil
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"scenarios":      a.store.Count(),
		"watchers":       a.wsHub.Count(),
		"step_seconds":   int(a.step.Seconds()),
	})
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleListScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.List())
}

func (a *App) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req engine.ScenarioRequest
	if e := decodeBody(r, &req); e != nil {
		writeError(w, e)
		return
	}
	if req.Name == "" {
		writeError(w, errInvalid("scenario name is required"))
		return
	}
	id, e := a.store.Create(req.Name, access.Window{Start: req.Start, Stop: req.Stop})
	if e != nil {
		writeError(w, e)
		return
	}
	a.logEvent("info", "scenario %s created: %q %s to %s", id, req.Name,
		req.Start.Format(time.RFC3339), req.Stop.Format(time.RFC3339))
	writeJSON(w, http.StatusCreated, engine.ScenarioResponse{ID: id})
}

func (a *App) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if e := a.store.Delete(id); e != nil {
		writeError(w, e)
		return
	}
	a.logEvent("info", "scenario %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleAddSatellite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req engine.SatelliteRequest
	if e := decodeBody(r, &req); e != nil {
		writeError(w, e)
		return
	}
	if e := a.store.AddSatellite(id, req); e != nil {
		writeError(w, e)
		return
	}
	a.announceEntity(id, req.Name, "satellite")
	w.WriteHeader(http.StatusCreated)
}

func (a *App) handleAddGroundStation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req engine.GroundStationRequest
	if e := decodeBody(r, &req); e != nil {
		writeError(w, e)
		return
	}
	if e := a.store.AddGroundStation(id, req); e != nil {
		writeError(w, e)
		return
	}
	a.announceEntity(id, req.Name, "ground")
	w.WriteHeader(http.StatusCreated)
}

func (a *App) handleAddAircraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req engine.AircraftRequest
	if e := decodeBody(r, &req); e != nil {
		writeError(w, e)
		return
	}
	if e := a.store.AddAircraft(id, req); e != nil {
		writeError(w, e)
		return
	}
	a.announceEntity(id, req.Name, "air")
	w.WriteHeader(http.StatusCreated)
}

func (a *App) handleSetConstraint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req engine.ConstraintRequest
	if e := decodeBody(r, &req); e != nil {
		writeError(w, e)
		return
	}
	if e := a.store.SetConstraint(id, req); e != nil {
		writeError(w, e)
		return
	}
	a.logEvent("info", "scenario %s: %s %s = %g on %q", id, req.Bound, req.Kind, req.Value, req.Entity)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleComputeAccess(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req engine.AccessRequest
	if e := decodeBody(r, &req); e != nil {
		writeError(w, e)
		return
	}

	a.transition(StateComputing)
	defer a.transition(StateIdle)

	began := time.Now()
	intervals, e := a.store.ComputeAccess(id, req, a.step)
	if e != nil {
		writeError(w, e)
		return
	}

	var total float64
	for _, iv := range intervals {
		total += iv.Stop.Sub(iv.Start).Seconds()
	}
	link := req.From + " / " + req.To
	a.logEvent("info", "scenario %s: access %s: %d intervals, %.1fs total, computed in %s",
		id, link, len(intervals), total, time.Since(began).Round(time.Millisecond))
	a.wsHub.BroadcastJSON(telemetry.AccessComputed{
		Event:         telemetry.NewEvent(telemetry.EventAccess, "satnetd"),
		Scenario:      id,
		Link:          link,
		Intervals:     len(intervals),
		TotalSeconds:  total,
		ElapsedMillis: time.Since(began).Milliseconds(),
	})
	writeJSON(w, http.StatusOK, engine.AccessResponse{Intervals: intervals})
}

func (a *App) announceEntity(scenarioID, name, kind string) {
	a.logEvent("info", "scenario %s: registered %s %q", scenarioID, kind, name)
	a.wsHub.BroadcastJSON(telemetry.EntityRegistered{
		Event:    telemetry.NewEvent(telemetry.EventEntity, "satnetd"),
		Scenario: scenarioID,
		Entity:   name,
		Kind:     kind,
	})
}
