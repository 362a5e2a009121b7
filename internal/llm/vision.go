package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
)

// oracleSystemPrompt is the persona for vision text generation. Visions rhyme,
// stay vivid and remain open to the pilgrim's interpretation.
const oracleSystemPrompt = `You are an Oracle. You produce visions for pilgrims.
The visions are vivid and should remain open to the user's interpretation.
You provide visions not advice or interpretation.
The text description of the vision should always rhyme.

Weave the given themes into the vision.
Return ONLY the rhyming vision text, no explanations or formatting.`

// GenerateVisionText generates the rhyming vision for a pilgrim's query.
// Tries the pro model first; if it errors or returns empty, falls back to flash.
func (c *Client) GenerateVisionText(ctx context.Context, query, themes string) (string, error) {
	log.Debug().
		Str("themes", themes).
		Int("query_length", len(query)).
		Msg("Generating vision text")

	userPrompt := fmt.Sprintf("Themes: %s\n\nThe pilgrim asks: %s", themes, query)
	messages := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: oracleSystemPrompt}}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextContent{Text: userPrompt}}},
	}
	opts := []llms.CallOption{
		llms.WithTemperature(1.0),
		llms.WithMaxTokens(1000),
	}

	if c.llmPro != nil {
		resp, err := c.llmPro.GenerateContent(ctx, messages, opts...)
		if err != nil {
			log.Warn().Err(err).Str("model", c.modelPro).Msg("Pro vision generation failed, trying flash")
		} else if len(resp.Choices) > 0 {
			response := resp.Choices[0].Content
			logGeminiResponse("GenerateVisionText", response)
			vision := strings.TrimSpace(response)
			if vision != "" {
				log.Info().Str("model", c.modelPro).Msg("Vision text generated")
				return vision, nil
			}
			log.Warn().Str("model", c.modelPro).Msg("Pro returned empty vision, trying flash")
		}
	}

	if c.llmFlash != nil {
		resp, err := c.llmFlash.GenerateContent(ctx, messages, opts...)
		if err != nil {
			log.Warn().Err(err).Str("model", c.modelFlash).Msg("Flash vision generation failed")
		} else if len(resp.Choices) > 0 {
			response := resp.Choices[0].Content
			logGeminiResponse("GenerateVisionText", response)
			vision := strings.TrimSpace(response)
			if vision != "" {
				log.Info().Str("model", c.modelFlash).Msg("Vision text generated (flash)")
				return vision, nil
			}
		}
	}

	return "", fmt.Errorf("vision text generation failed on all models")
}

// GenerateImageDescription turns a vision text into an image generation prompt.
// Never errors: a static fallback prompt is used when the model is unavailable
// or returns nothing, so the pipeline can always attempt an image.
func (c *Client) GenerateImageDescription(ctx context.Context, visionText string) string {
	if c.llmFlash == nil {
		return fallbackImageDescription(visionText)
	}

	prompt := fmt.Sprintf(`You are an expert at creating image generation prompts for AI models.

The following rhyming prophecy was given to a pilgrim. Create a detailed,
effective image generation prompt that visualizes it as a single dreamlike,
symbolic scene. Mystical and painterly, not literal.

Prophecy:
%s

Generate a concise but detailed image generation prompt (max 150 words).
Return ONLY the image prompt, no explanations.`, visionText)

	response, err := llms.GenerateFromSinglePrompt(ctx, c.llmFlash, prompt,
		llms.WithTemperature(0.8),
		llms.WithMaxTokens(300),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Image description generation failed, using fallback")
		return fallbackImageDescription(visionText)
	}

	logGeminiResponse("GenerateImageDescription", response)

	description := strings.TrimSpace(response)
	if description == "" {
		log.Warn().Msg("Gemini returned empty image description, using fallback")
		return fallbackImageDescription(visionText)
	}
	return description
}

// fallbackImageDescription builds a usable image prompt straight from the
// vision text when the model cannot.
func fallbackImageDescription(visionText string) string {
	sample := strings.TrimSpace(visionText)
	if sample == "" {
		sample = "a veiled figure before swirling mist"
	} else if len(sample) > 200 {
		sample = sample[:200] + "..."
	}
	return "Dreamlike symbolic painting of a prophetic vision: " + sample
}
