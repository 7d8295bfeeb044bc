// ABOUTME: JSON handlers for optimizing, scoring, exporting and key lookups
// ABOUTME: Maps contract violations in request bodies to 400 responses

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"harmonic-sorter/formats"
	"harmonic-sorter/optimizer"
	"harmonic-sorter/playlist"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 8 << 20

// Handlers contains the HTTP handlers for the API
type Handlers struct {
	optimizer *optimizer.Optimizer
	results   *resultStore
	debugf    func(format string, args ...interface{})
}

// NewHandlers creates a new Handlers instance
func NewHandlers(o *optimizer.Optimizer, results *resultStore, debugf func(format string, args ...interface{})) *Handlers {
	return &Handlers{
		optimizer: o,
		results:   results,
		debugf:    debugf,
	}
}

// trackRequest is a track as sent by clients. A null or missing bpm means unknown.
type trackRequest struct {
	Artist string   `json:"artist"`
	Title  string   `json:"title"`
	Album  string   `json:"album,omitempty"`
	Key    string   `json:"key"`
	BPM    *float64 `json:"bpm"`
	Path   string   `json:"path,omitempty"`
}

// playlistRequest is the body of optimize, score and export requests
type playlistRequest struct {
	Tracks     []trackRequest       `json:"tracks"`
	EnergyMode optimizer.EnergyMode `json:"energy_mode"` // defaults to ramp_up
}

// tracks converts the request into playlist tracks in request order
func (p playlistRequest) tracks() []playlist.Track {
	tracks := make([]playlist.Track, len(p.Tracks))
	for i, t := range p.Tracks {
		tracks[i] = playlist.Track{
			Path:   t.Path,
			Key:    t.Key,
			Artist: t.Artist,
			Album:  t.Album,
			Title:  t.Title,
			Index:  i,
		}

		if t.BPM != nil {
			tracks[i].BPM = *t.BPM
		}
	}

	return tracks
}

type optimizeResponse struct {
	ID uuid.UUID `json:"id"`
	*optimizer.Result
}

// Health reports liveness (GET /healthz)
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Optimize reorders a playlist (POST /api/optimize)
func (h *Handlers) Optimize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlaylist(w, r)
	if !ok {
		return
	}

	result, err := h.optimizer.Optimize(req.tracks(), req.EnergyMode)
	if err != nil {
		writeOptimizerError(w, err)
		return
	}

	id := h.results.Put(result)
	h.debugf("[API] %s optimized %d tracks (%s) as %s, score %d -> %d",
		middleware.GetReqID(r.Context()), len(req.Tracks), req.EnergyMode, id,
		result.OriginalScore.Overall, result.OptimizedScore.Overall)

	writeJSON(w, http.StatusOK, optimizeResponse{ID: id, Result: result})
}

// Result returns a recent optimization by id (GET /api/results/{id})
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid result id: %w", err))
		return
	}

	result, ok := h.results.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("result not found"))
		return
	}

	writeJSON(w, http.StatusOK, optimizeResponse{ID: id, Result: result})
}

// Score rates a playlist in its given order (POST /api/score)
func (h *Handlers) Score(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlaylist(w, r)
	if !ok {
		return
	}

	score, err := optimizer.Score(req.tracks(), req.EnergyMode)
	if err != nil {
		writeOptimizerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// Export optimizes a playlist and returns it as a file
// (POST /api/export?format=csv|rekordbox&name=...)
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	format, err := formats.ParseFormat(r.URL.Query().Get("format"))
	if err != nil || (format != formats.CSV && format != formats.Rekordbox) {
		writeError(w, http.StatusBadRequest, errors.New("format must be csv or rekordbox"))
		return
	}

	req, ok := decodePlaylist(w, r)
	if !ok {
		return
	}

	result, err := h.optimizer.Optimize(req.tracks(), req.EnergyMode)
	if err != nil {
		writeOptimizerError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := formats.Write(&buf, result.OptimizedTracks, format, r.URL.Query().Get("name")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == formats.Rekordbox {
		contentType = "application/xml; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="playlist%s"`, format.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type distanceResponse struct {
	From     string               `json:"from"`
	To       string               `json:"to"`
	FromKey  *playlist.CamelotKey `json:"from_key"`
	ToKey    *playlist.CamelotKey `json:"to_key"`
	Distance int                  `json:"distance"`
	Quality  optimizer.Quality    `json:"quality"`
}

// Distance compares two raw keys (GET /api/distance?from=Am&to=8B)
func (h *Handlers) Distance(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	fromKey := playlist.NormalizeKey(from)
	toKey := playlist.NormalizeKey(to)
	distance := playlist.Distance(fromKey, toKey)

	writeJSON(w, http.StatusOK, distanceResponse{
		From:     from,
		To:       to,
		FromKey:  fromKey,
		ToKey:    toKey,
		Distance: distance,
		Quality:  optimizer.QualityForDistance(distance),
	})
}

type compatibleKey struct {
	Key      playlist.CamelotKey `json:"key"`
	Name     string              `json:"name"`
	Distance int                 `json:"distance"`
}

type keyResponse struct {
	Input      string              `json:"input"`
	Key        playlist.CamelotKey `json:"key"`
	Name       string              `json:"name"`
	Compatible []compatibleKey     `json:"compatible"`
}

// Key normalizes a key and lists its neighbours (GET /api/keys/{key})
func (h *Handlers) Key(w http.ResponseWriter, r *http.Request) {
	input := chi.URLParam(r, "key")

	k := playlist.NormalizeKey(input)
	if k == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("unrecognized key %q", input))
		return
	}

	resp := keyResponse{Input: input, Key: *k, Name: playlist.MusicalKeyName(*k)}
	for _, c := range playlist.CompatibleKeys(*k) {
		resp.Compatible = append(resp.Compatible, compatibleKey{
			Key:      c,
			Name:     playlist.MusicalKeyName(c),
			Distance: playlist.Distance(k, &c),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// decodePlaylist reads a playlistRequest body, writing a 400 on failure
func decodePlaylist(w http.ResponseWriter, r *http.Request) (playlistRequest, bool) {
	var req playlistRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return req, false
	}

	return req, true
}

// writeOptimizerError maps validation failures to 400 and anything else to 500
func writeOptimizerError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, optimizer.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}

	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
