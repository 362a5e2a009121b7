package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/models"
	"github.com/delphi-works/oracle/internal/oracle"
)

// VisionService is what the handlers need from the service layer.
type VisionService interface {
	CreateVision(ctx context.Context, req *models.CreateVisionRequest, progress oracle.Progress) (*models.OracleResponse, *models.Vision, error)
	GetVision(ctx context.Context, visionID uuid.UUID) (*models.Vision, error)
	ListVisions(ctx context.Context, limit int, cursor *time.Time) ([]*models.Vision, error)
}

// Handler contains all HTTP handlers
type Handler struct {
	visionService VisionService
}

// NewHandler creates a new handler
func NewHandler(visionService VisionService) *Handler {
	return &Handler{
		visionService: visionService,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
