package agents

import (
	"context"

	"github.com/delphi-works/oracle/internal/llm"
)

// ImageAgentImpl wraps llm.Client for image generation.
type ImageAgentImpl struct {
	Client *llm.Client
}

// NewImageAgent returns an ImageAgent that delegates to the LLM client.
func NewImageAgent(client *llm.Client) ImageAgent {
	return &ImageAgentImpl{Client: client}
}

// GenerateImage delegates to llm.Client.GenerateImage.
func (a *ImageAgentImpl) GenerateImage(ctx context.Context, description string) (*llm.Image, error) {
	return a.Client.GenerateImage(ctx, description)
}
