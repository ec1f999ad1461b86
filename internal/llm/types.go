package llm

import (
	"context"
	"net/http"

	"codeberg.org/archviz/studio/internal/imageops"
)

// generates one image from a prompt and optional input images
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

type ImageRequest struct {
	APIKey    string
	Prompt    string
	Main      *imageops.Image
	Reference *imageops.Image
}

type ImageResult struct {
	Image *imageops.Image
	Text  string
}

// failure classes surfaced to the editor
type Kind string

const (
	KindInvalidCredential Kind = "invalid_credential"
	KindRateLimited       Kind = "rate_limited"
	KindNoImage           Kind = "no_image"
	KindGeneral           Kind = "general"
)

// user-facing messages per kind
const (
	MessageInvalidCredential = "API Key invalid or expired. Please check settings."
	MessageRateLimited       = "Quota exceeded (429). Please wait or upgrade."
	MessageNoImage           = "No image generated."
	MessageGeneral           = "Failed to generate image."
)

// a classified generator failure
type GenerationError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

type GeminiConfig struct {
	Model   string // e.g., "gemini-3-pro-image-preview"
	BaseURL string // defaults to the public endpoint
}

type GeminiImageClient struct {
	config     GeminiConfig
	httpClient *http.Client
}

type generateRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string    `json:"responseModalities"`
	ImageConfig        imageConfig `json:"imageConfig"`
}

type imageConfig struct {
	ImageSize   string `json:"imageSize"`
	AspectRatio string `json:"aspectRatio"`
}

type generateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
