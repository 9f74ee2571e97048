package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/auxshare/auxd/internal/converter"
	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/platforms"
	"github.com/auxshare/auxd/internal/sessions"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/charmbracelet/log"
)

// API exposes the conversion engine over HTTP.
type API struct {
	registry *platforms.Registry
	pipeline *converter.Pipeline
	store    *sessions.Store
	logger   *log.Logger

	// shareBaseURL is the frontend join-URL prefix, e.g.
	// "http://localhost:5173/join".
	shareBaseURL string
	sessionTTL   time.Duration
}

// NewAPI creates the HTTP API over the given engine components.
func NewAPI(registry *platforms.Registry, pipeline *converter.Pipeline, store *sessions.Store, logger *log.Logger, shareBaseURL string, sessionTTL time.Duration) *API {
	if sessionTTL <= 0 {
		sessionTTL = sessions.DefaultTTL
	}

	return &API{
		registry:     registry,
		pipeline:     pipeline,
		store:        store,
		logger:       shared.WithLogger(logger, "component", "server"),
		shareBaseURL: shareBaseURL,
		sessionTTL:   sessionTTL,
	}
}

// Register mounts all API routes on the router.
func (a *API) Register(r Router) {
	r.Handle(http.MethodPost, "/api/convert", http.HandlerFunc(a.Convert))
	r.Handle(http.MethodGet, "/api/platforms", http.HandlerFunc(a.Platforms))
	r.Handle(http.MethodGet, "/api/platforms/sources", http.HandlerFunc(a.Sources))
	r.Handle(http.MethodGet, "/api/platforms/targets", http.HandlerFunc(a.Targets))
	r.Handle(http.MethodGet, "/api/session/{code}", http.HandlerFunc(a.GetSession))
	r.Handle(http.MethodGet, "/api/session/{code}/ttl", http.HandlerFunc(a.SessionTTL))
	r.Handle(http.MethodDelete, "/api/session/{code}", http.HandlerFunc(a.DeleteSession))
	r.Handle(http.MethodGet, "/api/health", http.HandlerFunc(a.Health))
}

// ConvertRequest is the POST /api/convert body.
type ConvertRequest struct {
	URL            string `json:"url"`
	TargetPlatform string `json:"target_platform"`
}

// ConvertResponse is the POST /api/convert reply.
type ConvertResponse struct {
	Code           string       `json:"code"`
	ShareURL       string       `json:"share_url"`
	SourcePlatform string       `json:"source_platform"`
	TargetPlatform string       `json:"target_platform"`
	Stats          models.Stats `json:"stats"`
}

// SessionResponse is the GET /api/session/{code} reply. Stats are always
// recomputed from the stored tracks.
type SessionResponse struct {
	Tracks         []models.ConvertedTrack `json:"tracks"`
	SourcePlatform string                  `json:"source_platform"`
	TargetPlatform string                  `json:"target_platform"`
	Stats          models.Stats            `json:"stats"`
}

// TTLResponse is the GET /api/session/{code}/ttl reply.
type TTLResponse struct {
	Code       string  `json:"code"`
	TTLSeconds int64   `json:"ttl_seconds"`
	TTLHours   float64 `json:"ttl_hours"`
	ExpiresIn  string  `json:"expires_in"`
}

// Convert runs a conversion and stores the result as a shareable session.
func (a *API) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		a.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.TargetPlatform == "" {
		req.TargetPlatform = "youtube_music"
	}

	result, err := a.pipeline.Convert(r.Context(), req.URL, req.TargetPlatform)
	if err != nil {
		var validationErr *shared.ValidationError
		if errors.As(err, &validationErr) {
			a.writeError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		a.logger.Error("conversion failed", "url", req.URL, "error", err)
		a.writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to convert playlist: %v", err))
		return
	}

	code, err := a.store.Save(r.Context(), models.SessionPayload{
		Tracks:         result.Tracks,
		SourcePlatform: result.SourcePlatform,
		TargetPlatform: result.TargetPlatform,
	}, a.sessionTTL)
	if err != nil {
		a.logger.Error("session save failed", "error", err)
		a.writeError(w, http.StatusInternalServerError, "conversion succeeded but could not be saved")
		return
	}

	a.writeJSON(w, http.StatusOK, ConvertResponse{
		Code:           code,
		ShareURL:       fmt.Sprintf("%s/%s", a.shareBaseURL, code),
		SourcePlatform: result.SourcePlatform,
		TargetPlatform: result.TargetPlatform,
		Stats:          result.Stats,
	})
}

// Platforms lists every registered platform.
func (a *API) Platforms(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.registry.All())
}

// Sources lists platforms usable as a conversion source.
func (a *API) Sources(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.registry.Sources())
}

// Targets lists platforms usable as a conversion target.
func (a *API) Targets(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.registry.Targets())
}

// GetSession serves a stored session with freshly recomputed stats.
func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	payload, err := a.store.Get(r.Context(), code)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			a.writeError(w, http.StatusNotFound, "session not found or expired (sessions last 24 hours)")
			return
		}
		a.logger.Error("session read failed", "code", code, "error", err)
		a.writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}

	a.writeJSON(w, http.StatusOK, SessionResponse{
		Tracks:         payload.Tracks,
		SourcePlatform: payload.SourcePlatform,
		TargetPlatform: payload.TargetPlatform,
		Stats:          converter.Aggregate(payload.Tracks),
	})
}

// SessionTTL reports the remaining lifetime of a session.
func (a *API) SessionTTL(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	ttl := a.store.TTL(r.Context(), code)
	if ttl < 0 {
		a.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	a.writeJSON(w, http.StatusOK, TTLResponse{
		Code:       code,
		TTLSeconds: ttl,
		TTLHours:   float64(ttl) / 3600,
		ExpiresIn:  fmt.Sprintf("%dh %dm", ttl/3600, (ttl%3600)/60),
	})
}

// DeleteSession removes a session before its TTL elapses.
func (a *API) DeleteSession(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	if !a.store.Delete(r.Context(), code) {
		a.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "code": code})
}

// Health reports service and session store liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK

	storeErr := a.store.Ping(r.Context())
	if storeErr != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	a.writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"store":     storeErr == nil,
		"platforms": len(a.registry.All()),
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, detail string) {
	a.writeJSON(w, status, map[string]string{"detail": detail})
}
