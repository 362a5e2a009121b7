package agents

import (
	"context"

	"github.com/delphi-works/oracle/internal/llm"
)

// VisionAgentImpl wraps llm.Client for vision text and image descriptions.
type VisionAgentImpl struct {
	Client *llm.Client
}

// NewVisionAgent returns a VisionAgent that delegates to the LLM client.
func NewVisionAgent(client *llm.Client) VisionAgent {
	return &VisionAgentImpl{Client: client}
}

// GenerateVisionText delegates to llm.Client.GenerateVisionText.
func (a *VisionAgentImpl) GenerateVisionText(ctx context.Context, query, themes string) (string, error) {
	return a.Client.GenerateVisionText(ctx, query, themes)
}

// GenerateImageDescription delegates to llm.Client.GenerateImageDescription.
func (a *VisionAgentImpl) GenerateImageDescription(ctx context.Context, visionText string) string {
	return a.Client.GenerateImageDescription(ctx, visionText)
}
