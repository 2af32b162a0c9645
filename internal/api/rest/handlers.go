package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fortuna/courtside/internal/boxscore"
	"github.com/fortuna/courtside/internal/service"
	"github.com/gorilla/mux"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

// BoxScoreProvider loads games and their reconstructed box scores.
type BoxScoreProvider interface {
	GetGame(ctx context.Context, gameID string) (*boxscore.Game, error)
	GetGameDetail(ctx context.Context, gameID string, opts service.DetailOptions) (*service.GameDetail, error)
	GetPlayByPlay(ctx context.Context, gameID string) ([]boxscore.PlayEvent, error)
}

// HealthChecker reports on a backing dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	boxScores BoxScoreProvider
	health    HealthChecker
}

// NewHandler creates a new handler
func NewHandler(boxScores BoxScoreProvider, health HealthChecker) *Handler {
	return &Handler{
		boxScores: boxScores,
		health:    health,
	}
}

// HealthCheck handles health check requests. The service stays healthy
// without its cache; a failing cache is reported as degraded.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
		"cache":   "disabled",
	}

	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.health.HealthCheck(ctx); err != nil {
			response["status"] = "degraded"
			response["cache"] = err.Error()
		} else {
			response["cache"] = "ok"
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GetGameBoxScore returns the game with its reconstructed box score.
// ?plays=true includes the normalized play-by-play.
func (h *Handler) GetGameBoxScore(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	opts := service.DetailOptions{}
	if raw := r.URL.Query().Get("plays"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid plays parameter (use true/false)", err)
			return
		}
		opts.IncludePlays = include
	}

	detail, err := h.boxScores.GetGameDetail(r.Context(), gameID, opts)
	if errors.Is(err, service.ErrGameNotFound) {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load game", err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// GetPlayByPlay returns the normalized plays for a game. An unknown game is
// a 404; a known game without play-by-play has an empty list.
func (h *Handler) GetPlayByPlay(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	_, err := h.boxScores.GetGame(r.Context(), gameID)
	if errors.Is(err, service.ErrGameNotFound) {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load game", err)
		return
	}

	plays, err := h.boxScores.GetPlayByPlay(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load play-by-play", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"plays":   plays,
		"count":   len(plays),
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
