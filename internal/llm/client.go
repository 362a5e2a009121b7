package llm

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/option"
	unifiedgenai "google.golang.org/genai"
)

// maxGeminiResponseLogBytes is the max length of a Gemini response body to log in full (to avoid huge logs).
const maxGeminiResponseLogBytes = 8192

// httpClientForEndpoint returns an http.Client that rewrites request URLs to the given base endpoint.
func httpClientForEndpoint(baseEndpoint string) *http.Client {
	base, err := url.Parse(baseEndpoint)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", baseEndpoint).Msg("Invalid GEMINI_API_ENDPOINT, using default")
		return nil
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	return &http.Client{
		Transport: &endpointRoundTripper{base: base, next: http.DefaultTransport},
	}
}

// endpointRoundTripper rewrites request URLs to a custom base (scheme, host, path prefix).
type endpointRoundTripper struct {
	base *url.URL
	next http.RoundTripper
}

func (e *endpointRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.URL.Scheme = e.base.Scheme
	req2.URL.Host = e.base.Host
	req2.URL.Path = path.Join(e.base.Path, strings.TrimPrefix(req.URL.Path, "/"))
	if req.URL.RawQuery != "" {
		req2.URL.RawQuery = req.URL.RawQuery
	}
	return e.next.RoundTrip(req2)
}

// logGeminiResponse logs Gemini response text, truncating if over maxGeminiResponseLogBytes.
func logGeminiResponse(caller, raw string) {
	if len(raw) <= maxGeminiResponseLogBytes {
		log.Info().Str("caller", caller).Str("gemini_response", raw).Msg("Gemini response")
		return
	}
	log.Info().
		Str("caller", caller).
		Str("gemini_response", raw[:maxGeminiResponseLogBytes]+"... [truncated]").
		Int("gemini_response_len", len(raw)).
		Msg("Gemini response")
}

// Client wraps the Gemini and Imagen APIs
type Client struct {
	apiKey      string
	modelFlash  string
	modelPro    string
	modelImage  string // Gemini image-modality fallback, e.g. gemini-3-pro-image-preview
	imagenModel string // primary image model, e.g. imagen-3.0-generate-001

	llmFlash      llms.Model
	llmPro        llms.Model
	genaiClient   *genai.Client        // Gemini image modality (fallback path)
	unifiedClient *unifiedgenai.Client // Imagen via the unified SDK (primary path)
}

// Image is a generated image, held fully in memory until publication.
type Image struct {
	Data     []byte
	Model    string
	MimeType string // e.g. "image/png", "image/jpeg"
}

// NewClient creates a new LLM client.
// apiEndpoint: optional Gemini API base URL; when set, all Gemini calls use this endpoint.
func NewClient(apiKey, modelFlash, modelPro, modelImage, imagenModel, apiEndpoint string) *Client {
	if modelPro == "" {
		modelPro = "gemini-2.5-pro"
	}
	if modelFlash == "" {
		modelFlash = "gemini-2.5-flash-lite"
	}
	if modelImage == "" {
		modelImage = "gemini-3-pro-image-preview"
	}
	if imagenModel == "" {
		imagenModel = "imagen-3.0-generate-001"
	}

	// Optional custom HTTP client for langchaingo when using a custom endpoint
	var langchaingoHTTPClient *http.Client
	if apiEndpoint != "" {
		langchaingoHTTPClient = httpClientForEndpoint(apiEndpoint)
	}

	proOpts := []googleai.Option{googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(modelPro)}
	if langchaingoHTTPClient != nil {
		proOpts = append(proOpts, googleai.WithHTTPClient(langchaingoHTTPClient))
	}
	llmPro, err := googleai.New(context.Background(), proOpts...)
	if err != nil {
		log.Error().Err(err).Str("model", modelPro).Msg("Failed to initialize pro model")
	}

	flashOpts := []googleai.Option{googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(modelFlash)}
	if langchaingoHTTPClient != nil {
		flashOpts = append(flashOpts, googleai.WithHTTPClient(langchaingoHTTPClient))
	}
	llmFlash, err := googleai.New(context.Background(), flashOpts...)
	if err != nil {
		log.Error().Err(err).Str("model", modelFlash).Msg("Failed to initialize flash model")
	}

	// genai client for the Gemini image-modality fallback; requires API key
	var genaiClient *genai.Client
	if apiKey != "" {
		genaiOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
		if apiEndpoint != "" {
			genaiOpts = append(genaiOpts, option.WithEndpoint(apiEndpoint))
		}
		genaiClient, err = genai.NewClient(context.Background(), genaiOpts...)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize genai client for image fallback")
		}
	}

	// Unified genai client for Imagen
	var unifiedClient *unifiedgenai.Client
	if apiKey != "" {
		unifiedCfg := &unifiedgenai.ClientConfig{APIKey: apiKey}
		if apiEndpoint != "" {
			unifiedCfg.HTTPOptions = unifiedgenai.HTTPOptions{BaseURL: apiEndpoint}
		}
		unifiedClient, err = unifiedgenai.NewClient(context.Background(), unifiedCfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize unified genai client for Imagen")
		}
	}

	log.Info().
		Str("model_pro", modelPro).
		Str("model_flash", modelFlash).
		Str("model_image", modelImage).
		Str("imagen_model", imagenModel).
		Str("api_endpoint", apiEndpoint).
		Bool("imagen_client", unifiedClient != nil).
		Bool("gemini_image_fallback", genaiClient != nil).
		Msg("LLM client initialized")

	return &Client{
		apiKey:        apiKey,
		modelFlash:    modelFlash,
		modelPro:      modelPro,
		modelImage:    modelImage,
		imagenModel:   imagenModel,
		llmFlash:      llmFlash,
		llmPro:        llmPro,
		genaiClient:   genaiClient,
		unifiedClient: unifiedClient,
	}
}
