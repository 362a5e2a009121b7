package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/database"
	"github.com/delphi-works/oracle/internal/models"
	"github.com/delphi-works/oracle/internal/oracle"
)

// maxQueryLength bounds a pilgrim's question.
const maxQueryLength = 2000

// VisionService runs the oracle pipeline and keeps the invocation log.
type VisionService struct {
	pipeline *oracle.Pipeline
	visions  *database.VisionRepository
	timeout  time.Duration
}

// NewVisionService creates a new VisionService. The repository may be nil,
// in which case visions are served but not recorded.
func NewVisionService(pipeline *oracle.Pipeline, visions *database.VisionRepository, timeout time.Duration) *VisionService {
	return &VisionService{
		pipeline: pipeline,
		visions:  visions,
		timeout:  timeout,
	}
}

// CreateVision validates the request, runs the two-stage pipeline and records
// the outcome. A failed recording does not withhold the prophecy; it is
// logged and the response returned anyway.
func (s *VisionService) CreateVision(ctx context.Context, req *models.CreateVisionRequest, progress oracle.Progress) (*models.OracleResponse, *models.Vision, error) {
	if req == nil || req.Query == "" {
		return nil, nil, fmt.Errorf("validation error: query is required")
	}
	if len(req.Query) > maxQueryLength {
		return nil, nil, fmt.Errorf("validation error: query must be at most %d characters", maxQueryLength)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.pipeline.Run(ctx, req.Query, progress)
	if err != nil {
		return nil, nil, err
	}

	vision := &models.Vision{
		ID:         uuid.New(),
		Query:      req.Query,
		Themes:     result.Themes,
		VisionText: result.Response.VisionText,
		ImageURL:   result.Response.ImageURL,
		CreatedAt:  time.Now(),
	}
	if result.Tool.Record != nil {
		vision.ImageBucket = result.Tool.Record.Bucket
		vision.ImageKey = result.Tool.Record.Key
	}

	if s.visions != nil {
		if err := s.visions.Create(ctx, vision); err != nil {
			log.Error().Err(err).Str("vision_id", vision.ID.String()).Msg("Failed to record vision")
		}
	}

	return &result.Response, vision, nil
}

// GetVision retrieves a recorded vision by ID.
func (s *VisionService) GetVision(ctx context.Context, visionID uuid.UUID) (*models.Vision, error) {
	if s.visions == nil {
		return nil, fmt.Errorf("vision log not configured")
	}
	return s.visions.GetByID(ctx, visionID)
}

// ListVisions retrieves recorded visions, newest first.
func (s *VisionService) ListVisions(ctx context.Context, limit int, cursor *time.Time) ([]*models.Vision, error) {
	if s.visions == nil {
		return nil, fmt.Errorf("vision log not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.visions.List(ctx, limit, cursor)
}
