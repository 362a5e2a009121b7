package oracle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/agents"
	"github.com/delphi-works/oracle/internal/models"
)

// Pipeline stages, in order. Exactly two states, no branching or loop-back:
// generating always transitions to formatting, whether or not the image tool
// succeeded.
const (
	StageGenerating = "generating"
	StageFormatting = "formatting"
)

// Progress is invoked as the pipeline enters each stage. May be nil.
type Progress func(stage string)

// RunResult carries everything one pipeline run produced: the two-field
// response contract plus the metadata worth recording.
type RunResult struct {
	Response models.OracleResponse
	Themes   string
	Tool     ToolResult
}

// Pipeline is the fixed two-stage oracle flow. The image tool is invoked
// directly by the generating stage rather than left to the model's
// discretion, which removes the tool-never-called failure mode.
type Pipeline struct {
	vision agents.VisionAgent
	tool   *VisionImageTool
}

// NewPipeline creates a pipeline.
func NewPipeline(vision agents.VisionAgent, tool *VisionImageTool) *Pipeline {
	return &Pipeline{vision: vision, tool: tool}
}

// Run executes both stages for one query. A tool failure degrades the
// response to an empty image URL; a vision-text failure fails the run, since
// there is nothing to answer with.
func (p *Pipeline) Run(ctx context.Context, query string, progress Progress) (*RunResult, error) {
	state := NewState()

	// Stage: generating
	notify(progress, StageGenerating)
	themes := PickThemes()
	log.Debug().Str("themes", themes).Msg("Pipeline generating stage")

	visionText, err := p.vision.GenerateVisionText(ctx, query, themes)
	if err != nil {
		return nil, fmt.Errorf("vision generation: %w", err)
	}

	description := p.vision.GenerateImageDescription(ctx, visionText)
	toolResult := p.tool.GenerateAndPublish(ctx, description, state)
	if toolResult.Status != StatusSuccess {
		log.Warn().Str("message", toolResult.Message).Msg("Vision image tool failed, continuing without image")
	}

	// Stage: formatting
	notify(progress, StageFormatting)
	response := formatResponse(visionText, state)

	return &RunResult{
		Response: response,
		Themes:   themes,
		Tool:     toolResult,
	}, nil
}

// formatResponse is the formatting stage: pure assembly of the two-field
// output contract. A missing state value degrades to an empty image_url;
// this stage never fails.
func formatResponse(visionText string, state *State) models.OracleResponse {
	url, _ := state.Get(StateKeyImageURL)
	return models.OracleResponse{
		VisionText: visionText,
		ImageURL:   url,
	}
}

func notify(progress Progress, stage string) {
	if progress != nil {
		progress(stage)
	}
}
