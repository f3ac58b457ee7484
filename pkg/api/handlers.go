package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sambabib/dockerfile-gen/pkg/store"
)

// listResponse wraps a set of records with its count.
type listResponse struct {
	Count       int            `json:"count"`
	Dockerfiles []store.Record `json:"dockerfiles"`
}

type createRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type handler struct {
	store store.Store
}

// NewMux builds the HTTP routing for a store.
func NewMux(st store.Store) http.Handler {
	h := &handler{store: st}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /stats", h.stats)
	mux.HandleFunc("GET /dockerfiles", h.list)
	mux.HandleFunc("POST /dockerfiles", h.create)
	mux.HandleFunc("GET /dockerfiles/dates", h.dates)
	mux.HandleFunc("GET /dockerfiles/by-date/{date}", h.byDate)
	mux.HandleFunc("GET /dockerfiles/by-date/{date}/names", h.namesByDate)
	mux.HandleFunc("GET /dockerfiles/by-date/{date}/{name}", h.byDateAndName)
	mux.HandleFunc("GET /dockerfiles/by-date/{date}/{name}/content", h.content)
	mux.HandleFunc("DELETE /dockerfiles/{id}", h.delete)
	return CORS(mux)
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Dockerfile Database API",
		"details": map[string]any{
			"endpoints": map[string]string{
				"health":      "/health",
				"stats":       "/stats",
				"dockerfiles": "/dockerfiles",
			},
		},
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database health check failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"database":      "connected",
		"total_entries": stats.TotalDockerfiles,
	})
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve statistics: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve Dockerfiles: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(records), Dockerfiles: records})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	rec, err := h.store.Add(r.Context(), req.Name, req.Content)
	switch {
	case errors.Is(err, store.ErrEmptyName):
		writeError(w, http.StatusUnprocessableEntity, "a Dockerfile with no name is not allowed")
		return
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "Dockerfile '"+req.Name+"' already exists at this timestamp")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to create Dockerfile: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.store.Dates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve dates: "+err.Error())
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, dates)
}

func (h *handler) byDate(w http.ResponseWriter, r *http.Request) {
	date, ok := validDate(w, r)
	if !ok {
		return
	}
	records, err := h.store.ByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve Dockerfiles: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(records), Dockerfiles: records})
}

func (h *handler) namesByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := validDate(w, r)
	if !ok {
		return
	}
	names, err := h.store.NamesByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve Dockerfile names: "+err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *handler) byDateAndName(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) content(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rec.Content))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid Dockerfile ID")
		return
	}
	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete Dockerfile: "+err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Dockerfile with ID "+r.PathValue("id")+" not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Dockerfile with ID " + r.PathValue("id") + " deleted successfully",
	})
}

// lookup fetches the record addressed by the {date}/{name} path segments.
func (h *handler) lookup(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	date, ok := validDate(w, r)
	if !ok {
		return store.Record{}, false
	}
	name := r.PathValue("name")
	rec, err := h.store.ByDateAndName(r.Context(), date, name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Dockerfile '"+name+"' not found for date "+date)
		return store.Record{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve Dockerfile: "+err.Error())
		return store.Record{}, false
	}
	return rec, true
}

func validDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
