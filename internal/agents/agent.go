package agents

import (
	"context"

	"github.com/delphi-works/oracle/internal/llm"
)

// VisionAgent produces the oracle's rhyming vision text and derives image
// descriptions from it.
type VisionAgent interface {
	GenerateVisionText(ctx context.Context, query, themes string) (string, error)
	GenerateImageDescription(ctx context.Context, visionText string) string
}

// ImageAgent generates vision images.
type ImageAgent interface {
	GenerateImage(ctx context.Context, description string) (*llm.Image, error)
}
