// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/app"
	"trip_planner/internal/auth"
	"trip_planner/internal/domain"
)

type Handlers struct {
	Auth  *auth.Service
	Trips *app.TripService
	WS    *app.Workspace
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/auth/register", h.register)
	s.mux.Post("/v1/auth/login", h.login)

	s.mux.Group(func(r chi.Router) {
		r.Use(RequireSession(h.Auth))
		r.Post("/v1/auth/logout", h.logout)
		r.Get("/v1/trips", h.listTrips)
		r.Get("/v1/itineraries/{id}", h.getItinerary)
		r.Put("/v1/itineraries/{id}", h.saveItinerary)
		r.Post("/v1/itineraries/{id}/pois/{poiID}/move", h.movePoi)
		r.Delete("/v1/itineraries/{id}/pois/{poiID}", h.deletePoi)
		r.Put("/v1/itineraries/{id}/selected-day", h.selectDay)
		r.Get("/v1/itineraries/{id}/summaries", h.summaries)
		r.Get("/v1/itineraries/{id}/map", h.mapActivities)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- auth ----

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON credentials")
		return
	}
	err := h.Auth.Register(r.Context(), c.Email, c.Password, c.Name)
	switch {
	case errors.Is(err, domain.ErrUserExists):
		writeProblem(w, http.StatusConflict, "Conflict", "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeProblem(w, http.StatusBadRequest, "Invalid credentials", "email and password are required")
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Internal", "registration failed")
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON credentials")
		return
	}
	sess, err := h.Auth.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal", "login failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no session")
		return
	}
	h.Auth.Logout(sess.Token)
	h.WS.Drop(sess.Token)
	w.WriteHeader(http.StatusNoContent)
}

// ---- dashboard ----

func (h *Handlers) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Trips.ListTrips(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "trip list unavailable")
		return
	}
	writeWithETag(w, r, trips)
}

// ---- itinerary editing ----

// snapshotView is the editor snapshot plus the resolved details for the
// stops it references, so the client can render names without a second
// round trip.
type snapshotView struct {
	app.Snapshot
	Details map[string]domain.POIDetail `json:"details"`
}

func (h *Handlers) view(ed *app.Editor, snap app.Snapshot) snapshotView {
	v := snapshotView{Snapshot: snap, Details: map[string]domain.POIDetail{}}
	for _, id := range snap.Itinerary.PoiIDs() {
		if d, ok := ed.Detail(id); ok {
			v.Details[id] = d
		}
	}
	return v
}

// editor loads the session's editor positioned on the requested
// itinerary, reporting the load failure if any.
func (h *Handlers) editor(w http.ResponseWriter, r *http.Request) (*app.Editor, app.Snapshot, bool) {
	sess, ok := sessionFrom(r)
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no session")
		return nil, app.Snapshot{}, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return nil, app.Snapshot{}, false
	}
	ed := h.WS.Editor(sess.Token)
	snap, err := ed.Load(r.Context(), id)
	if err != nil {
		var le *app.LoadError
		switch {
		case errors.As(err, &le):
			writeProblem(w, http.StatusBadGateway, "Bad Gateway", le.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "itinerary not found")
		default:
			log.Error().Err(err).Msg("itinerary load failed")
			writeProblem(w, http.StatusInternalServerError, "Internal", "itinerary load failed")
		}
		return nil, app.Snapshot{}, false
	}
	return ed, snap, true
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	ed, snap, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeWithETag(w, r, h.view(ed, snap))
}

type moveRequest struct {
	Day       int    `json:"day"`
	Direction string `json:"direction"`
}

func (h *Handlers) movePoi(w http.ResponseWriter, r *http.Request) {
	ed, _, ok := h.editor(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON move request")
		return
	}
	dir := domain.Direction(req.Direction)
	if dir != domain.Up && dir != domain.Down {
		writeProblem(w, http.StatusBadRequest, "Invalid direction", `direction must be "up" or "down"`)
		return
	}
	snap := ed.MovePoi(chi.URLParam(r, "poiID"), req.Day, dir)
	observability.ObserveMutation("move")
	writeJSON(w, http.StatusOK, h.view(ed, snap))
}

func (h *Handlers) deletePoi(w http.ResponseWriter, r *http.Request) {
	ed, _, ok := h.editor(w, r)
	if !ok {
		return
	}
	snap := ed.DeletePoi(chi.URLParam(r, "poiID"))
	observability.ObserveMutation("delete")
	writeJSON(w, http.StatusOK, h.view(ed, snap))
}

type selectRequest struct {
	Day *int `json:"day"`
}

func (h *Handlers) selectDay(w http.ResponseWriter, r *http.Request) {
	ed, _, ok := h.editor(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON day selection")
		return
	}
	day := 0
	if req.Day != nil {
		day = *req.Day
	}
	snap := ed.SelectDay(day)
	observability.ObserveMutation("select")
	writeJSON(w, http.StatusOK, h.view(ed, snap))
}

func (h *Handlers) summaries(w http.ResponseWriter, r *http.Request) {
	ed, _, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeWithETag(w, r, ed.Summaries())
}

func (h *Handlers) mapActivities(w http.ResponseWriter, r *http.Request) {
	ed, _, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeWithETag(w, r, ed.MapActivities())
}

func (h *Handlers) saveItinerary(w http.ResponseWriter, r *http.Request) {
	ed, _, ok := h.editor(w, r)
	if !ok {
		return
	}
	snap, err := ed.Save(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("itinerary save failed")
		writeProblem(w, http.StatusInternalServerError, "Internal", "save failed")
		return
	}
	observability.ObserveMutation("save")
	writeJSON(w, http.StatusOK, h.view(ed, snap))
}
