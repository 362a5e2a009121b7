package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/models"
)

// CreateVision handles POST /v1/visions. The response body is exactly the
// two-field oracle contract.
func (h *Handler) CreateVision(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, vision, err := h.visionService.CreateVision(r.Context(), &req, nil)
	if err != nil {
		if strings.Contains(err.Error(), "validation error") {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to create vision")
		writeJSONError(w, http.StatusBadGateway, "the oracle is silent")
		return
	}

	log.Info().
		Str("vision_id", vision.ID.String()).
		Bool("has_image", resp.ImageURL != "").
		Msg("Vision delivered")

	writeJSON(w, http.StatusOK, resp)
}

// GetVision handles GET /v1/visions/{id}
func (h *Handler) GetVision(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	visionID, err := uuid.Parse(vars["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid vision id")
		return
	}

	vision, err := h.visionService.GetVision(r.Context(), visionID)
	if err != nil {
		log.Error().Err(err).Str("vision_id", visionID.String()).Msg("Failed to get vision")
		writeJSONError(w, http.StatusNotFound, "vision not found")
		return
	}

	writeJSON(w, http.StatusOK, vision)
}

// ListVisions handles GET /v1/visions
func (h *Handler) ListVisions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}

	var cursor *time.Time
	if cursorStr := r.URL.Query().Get("cursor"); cursorStr != "" {
		if parsedCursor, err := time.Parse(time.RFC3339, cursorStr); err == nil {
			cursor = &parsedCursor
		}
	}

	visions, err := h.visionService.ListVisions(r.Context(), limit, cursor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list visions")
		writeJSONError(w, http.StatusInternalServerError, "failed to list visions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"visions": visions,
	})
}
