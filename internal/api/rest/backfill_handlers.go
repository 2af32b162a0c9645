package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/gorilla/mux"
)

// WarmQueue accepts and reports on box score warm jobs.
type WarmQueue interface {
	Enqueue(req backfill.Request) (*backfill.Job, error)
	GetStatus() *backfill.StatusSummary
	GetJob(jobID string) (*backfill.Job, bool)
	GetEvents(jobID string) []backfill.Event
}

// WarmHandler proxies API calls to the warm job service.
type WarmHandler struct {
	service WarmQueue
}

// NewWarmHandler wires the REST layer to the warm job service.
func NewWarmHandler(service WarmQueue) *WarmHandler {
	return &WarmHandler{service: service}
}

type apiWarmRequest struct {
	GameID  string   `json:"game_id"`
	GameIDs []string `json:"game_ids"`
	DryRun  bool     `json:"dry_run"`
}

// HandleWarmRequest handles POST /api/v1/warm
func (h *WarmHandler) HandleWarmRequest(w http.ResponseWriter, r *http.Request) {
	var req apiWarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	warmReq := backfill.Request{DryRun: req.DryRun}
	warmReq.GameIDs = append(warmReq.GameIDs, req.GameIDs...)
	if req.GameID != "" {
		warmReq.GameIDs = append(warmReq.GameIDs, req.GameID)
	}

	job, err := h.service.Enqueue(warmReq)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to enqueue warm job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": job,
	})
}

// HandleWarmStatus handles GET /api/v1/warm/status
func (h *WarmHandler) HandleWarmStatus(w http.ResponseWriter, r *http.Request) {
	summary := h.service.GetStatus()

	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"queued":  summary.Queued,
		"history": summary.History,
	}
	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		response["message"] = summary.ActiveJob.StatusMessage
		response["active_job"] = summary.ActiveJob
	}

	respondJSON(w, http.StatusOK, response)
}

// HandleWarmJob handles GET /api/v1/warm/{jobID}
func (h *WarmHandler) HandleWarmJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]

	job, ok := h.service.GetJob(jobID)
	if !ok {
		respondError(w, http.StatusNotFound, "Job not found", fmt.Errorf("unknown job %s", jobID))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job":    job,
		"events": h.service.GetEvents(jobID),
	})
}
