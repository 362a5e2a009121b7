package llm

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	unifiedgenai "google.golang.org/genai"
)

// GenerateImage generates a vision image from a description. Imagen is the
// primary path; the Gemini image modality is the fallback. The call blocks
// for as long as the context allows and is never retried here.
func (c *Client) GenerateImage(ctx context.Context, description string) (*Image, error) {
	log.Debug().
		Str("description", description[:min(80, len(description))]).
		Msg("Generating image")

	if c.unifiedClient != nil {
		img, err := c.generateImageImagen(ctx, description)
		if err == nil {
			return img, nil
		}
		log.Warn().Err(err).
			Str("model", c.imagenModel).
			Msg("Imagen generation failed, trying Gemini image modality")
	}

	if c.genaiClient != nil {
		img, err := c.generateImageGemini(ctx, description)
		if err != nil {
			log.Error().Err(err).
				Str("model", c.modelImage).
				Str("description_preview", description[:min(80, len(description))]).
				Msg("Gemini image generation failed")
			return nil, err
		}
		return img, nil
	}

	return nil, fmt.Errorf("no image generation backend available")
}

// generateImageImagen calls Imagen through the unified genai SDK. One square
// image per call, matching the publication contract.
func (c *Client) generateImageImagen(ctx context.Context, description string) (*Image, error) {
	config := &unifiedgenai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
	}

	resp, err := c.unifiedClient.Models.GenerateImages(ctx, c.imagenModel, description, config)
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("imagen returned no image")
	}

	generated := resp.GeneratedImages[0].Image
	if len(generated.ImageBytes) == 0 {
		return nil, fmt.Errorf("imagen returned empty image bytes")
	}
	mimeType := generated.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	log.Info().
		Str("caller", "GenerateImage").
		Str("model", c.imagenModel).
		Int("image_size_bytes", len(generated.ImageBytes)).
		Str("mime_type", mimeType).
		Msg("Imagen image generated")

	return &Image{
		Data:     generated.ImageBytes,
		Model:    c.imagenModel,
		MimeType: mimeType,
	}, nil
}

// generateImageGemini calls Gemini with an image prompt and expects an image
// Blob in the response (strict IMAGE modality).
func (c *Client) generateImageGemini(ctx context.Context, description string) (*Image, error) {
	model := c.genaiClient.GenerativeModel(c.modelImage)
	setResponseModality(model, []string{"IMAGE"})

	resp, err := model.GenerateContent(ctx, genai.Text(description))
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			blob, ok := part.(genai.Blob)
			if !ok || len(blob.Data) == 0 {
				continue
			}
			mimeType := blob.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			log.Info().
				Str("caller", "GenerateImage").
				Str("model", c.modelImage).
				Int("image_size_bytes", len(blob.Data)).
				Str("mime_type", mimeType).
				Msg("Gemini image generated")
			return &Image{
				Data:     blob.Data,
				Model:    c.modelImage,
				MimeType: mimeType,
			}, nil
		}
	}

	return nil, fmt.Errorf("no image blob in response (expected IMAGE modality)")
}

// setResponseModality sets model.ResponseModality when the genai SDK exposes it.
// Uses reflection so it no-ops on older SDKs that don't have the field.
func setResponseModality(model *genai.GenerativeModel, modalities []string) {
	v := reflect.ValueOf(model).Elem()
	f := v.FieldByName("ResponseModality")
	if !f.IsValid() || !f.CanSet() {
		log.Debug().Msg("ResponseModality not available on GenerativeModel")
		return
	}
	if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
		f.Set(reflect.ValueOf(modalities))
	}
}
