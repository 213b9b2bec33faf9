// Gemini implementation of [BioDrafter]
//
// Request and response types based on https://ai.google.dev/api/generate-content
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/embracefm/embrace/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel = "gemini-pro"

	// One outbound drafting call per second with a small burst. Registration
	// is interactive and rare, the limiter only guards against bulk tooling.
	geminiRateLimit = rate.Limit(1)
	geminiBurst     = 3
)

// GeminiPart is a single content fragment in a request or response.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiContent is a role-tagged group of parts.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiRequest is the generateContent request body.
type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}

// GeminiCandidate is one generated completion.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// GeminiResponse is the generateContent response body.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

// GeminiService implements [BioDrafter] against the Gemini REST API.
// Authenticates with either an API key or an OAuth2 access token.
type GeminiService struct {
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGeminiService creates a Gemini drafter from credentials. Returns
// [shared.ErrMissingCredentials] when neither an API key nor an access token
// is configured; callers should then draft locally via [FallbackBio].
func NewGeminiService(creds shared.GeminiConfig) (*GeminiService, error) {
	if creds.APIKey == "" && creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: gemini api_key or access_token", shared.ErrMissingCredentials)
	}

	model := creds.Model
	if model == "" {
		model = geminiDefaultModel
	}

	client := http.DefaultClient
	if creds.AccessToken != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken})
		client = oauth2.NewClient(context.Background(), source)
	}

	return &GeminiService{
		apiKey:     creds.APIKey,
		model:      model,
		httpClient: client,
		limiter:    rate.NewLimiter(geminiRateLimit, geminiBurst),
	}, nil
}

func (g *GeminiService) Name() string {
	return "Gemini"
}

// Draft asks Gemini for a two-sentence artist biography. Any transport or API
// failure is wrapped in [shared.ErrExternalService] so callers can substitute
// the local fallback without inspecting the cause.
func (g *GeminiService) Draft(ctx context.Context, artistName, genreLabel string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExternalService, err)
	}

	prompt := fmt.Sprintf(
		"Write a short, engaging two-sentence biography for a %s musician named %s. Do not use markdown.",
		genreLabel, artistName,
	)

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: prompt}}},
		},
	}

	var resp GeminiResponse
	if err := g.doRequest(ctx, &reqBody, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", shared.ErrExternalService)
	}

	bio := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if bio == "" {
		return "", fmt.Errorf("%w: gemini returned an empty draft", shared.ErrExternalService)
	}
	return bio, nil
}

func (g *GeminiService) doRequest(ctx context.Context, body *GeminiRequest, result *GeminiResponse) error {
	apiURL := fmt.Sprintf("%s/models/%s:generateContent", geminiBaseURL, g.model)
	if g.apiKey != "" {
		apiURL += "?key=" + g.apiKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: gemini API error: status %d", shared.ErrExternalService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrExternalService, err)
	}
	return nil
}
