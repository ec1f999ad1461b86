package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/archviz/studio/internal/imageops"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-3-pro-image-preview"

	imageSize   = "2K"
	aspectRatio = "16:9"
	inlineMIME  = "image/png"
)

// shared HTTP client for Gemini API calls; the request context bounds each call
var geminiHTTPClient = &http.Client{
	Timeout: 180 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Gemini API calls (5 requests/second with burst capacity of 5)
var geminiRateLimiter = rate.NewLimiter(5, 5)

func NewGeminiImageClient(config GeminiConfig) *GeminiImageClient {
	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}

	if config.BaseURL == "" {
		config.BaseURL = geminiBaseURL
	}

	return &GeminiImageClient{
		config:     config,
		httpClient: geminiHTTPClient,
	}
}

func (c *GeminiImageClient) Model() string {
	return c.config.Model
}

// sends the prompt plus main and reference images; returns the first inline image
func (c *GeminiImageClient) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	parts := []geminiPart{{Text: req.Prompt}}

	for _, img := range []*imageops.Image{req.Main, req.Reference} {
		if img == nil {
			continue
		}

		png, err := imageops.ToPNG(img)
		if err != nil {
			return nil, &GenerationError{Kind: KindGeneral, Message: MessageGeneral, Err: err}
		}

		parts = append(parts, geminiPart{
			InlineData: &inlineData{MimeType: inlineMIME, Data: png.Base64()},
		})
	}

	reqBody := generateRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig:        imageConfig{ImageSize: imageSize, AspectRatio: aspectRatio},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.config.BaseURL, c.config.Model)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.APIKey)

	// rate limiting
	if err := geminiRateLimiter.Wait(ctx); err != nil {
		return nil, classifyTransport(fmt.Errorf("rate limiter error: %w", err))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(fmt.Errorf("failed to send request: %w", err))
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return nil, classifyResponse(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, &GenerationError{
			Kind:    KindGeneral,
			Status:  resp.StatusCode,
			Message: MessageGeneral,
			Err:     fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return extractImage(&genResp)
}

func extractImage(resp *generateResponse) (*ImageResult, error) {
	var text strings.Builder

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				img, err := imageops.DecodeBase64(part.InlineData.Data)
				if err != nil {
					return nil, &GenerationError{Kind: KindNoImage, Message: MessageNoImage, Err: err}
				}

				return &ImageResult{Image: img, Text: strings.TrimSpace(text.String())}, nil
			}

			text.WriteString(part.Text)
		}
	}

	reason := resp.PromptFeedback.BlockReason
	if reason == "" && len(resp.Candidates) > 0 {
		reason = resp.Candidates[0].FinishReason
	}

	return nil, &GenerationError{
		Kind:    KindNoImage,
		Message: MessageNoImage,
		Err:     fmt.Errorf("no inline image in response (reason %q)", reason),
	}
}
