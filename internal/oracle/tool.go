package oracle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/agents"
	"github.com/delphi-works/oracle/internal/models"
)

// Tool result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Publisher publishes image bytes and returns the public record.
type Publisher interface {
	Publish(ctx context.Context, data []byte, contentType string) (*models.PublicationRecord, error)
}

// ToolResult is the structured outcome of one tool invocation. Failures in
// generation or upload are converted into an error-status result at this
// boundary; they never propagate as errors.
type ToolResult struct {
	Status  string `json:"status"` // success, error
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`

	// Record is the publication behind URL, kept out of the wire shape.
	Record *models.PublicationRecord `json:"-"`
}

// VisionImageTool generates a vision image and publishes it to the visions
// bucket. Invoked at most once per pipeline run. Not idempotent: every call
// mints a new object, so it is never retried automatically.
type VisionImageTool struct {
	images    agents.ImageAgent
	publisher Publisher
}

// NewVisionImageTool creates the tool.
func NewVisionImageTool(images agents.ImageAgent, publisher Publisher) *VisionImageTool {
	return &VisionImageTool{images: images, publisher: publisher}
}

// GenerateAndPublish generates an image for the description, publishes it and
// records the public URL in the invocation state. The state is written iff
// the result status is success; the formatting stage depends on that.
func (t *VisionImageTool) GenerateAndPublish(ctx context.Context, description string, state *State) ToolResult {
	if description == "" {
		return ToolResult{Status: StatusError, Message: "empty vision description"}
	}

	img, err := t.images.GenerateImage(ctx, description)
	if err != nil {
		log.Error().Err(err).Msg("Vision image generation failed")
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("image generation failed: %v", err)}
	}
	if img == nil || len(img.Data) == 0 {
		return ToolResult{Status: StatusError, Message: "no image generated"}
	}

	record, err := t.publisher.Publish(ctx, img.Data, img.MimeType)
	if err != nil {
		log.Error().Err(err).Msg("Vision image upload failed")
		return ToolResult{Status: StatusError, Message: fmt.Sprintf("image upload failed: %v", err)}
	}

	state.Set(StateKeyImageURL, record.URL)
	return ToolResult{Status: StatusSuccess, URL: record.URL, Record: record}
}
