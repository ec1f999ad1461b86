package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// returns the failure class of any error from GenerateImage
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}

	return classifyMessage(0, err.Error())
}

// returns the message to show the user for a generator failure
func UserMessage(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) && genErr.Message != "" {
		return genErr.Message
	}

	switch KindOf(err) {
	case KindInvalidCredential:
		return MessageInvalidCredential
	case KindRateLimited:
		return MessageRateLimited
	case KindNoImage:
		return MessageNoImage
	default:
		return MessageGeneral
	}
}

func classifyResponse(status int, body []byte) *GenerationError {
	raw := fmt.Errorf("API request failed with status %d: %s", status, string(body))

	message := ""
	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Error.Message
		if apiErr.Error.Status != "" {
			message = apiErr.Error.Status + ": " + message
		}
	}

	kind := classifyMessage(status, string(body))

	return &GenerationError{
		Kind:    kind,
		Status:  status,
		Message: messageFor(kind, message),
		Err:     raw,
	}
}

func classifyTransport(err error) *GenerationError {
	return &GenerationError{Kind: KindGeneral, Message: MessageGeneral, Err: err}
}

func classifyMessage(status int, text string) Kind {
	switch {
	case status == http.StatusNotFound || strings.Contains(text, "Requested entity was not found"):
		return KindInvalidCredential
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(text, "API key not valid"):
		return KindInvalidCredential
	case status == http.StatusTooManyRequests || strings.Contains(text, "429") ||
		strings.Contains(text, "Quota exceeded") || strings.Contains(text, "RESOURCE_EXHAUSTED"):
		return KindRateLimited
	default:
		return KindGeneral
	}
}

func messageFor(kind Kind, upstream string) string {
	switch kind {
	case KindInvalidCredential:
		return MessageInvalidCredential
	case KindRateLimited:
		return MessageRateLimited
	case KindNoImage:
		return MessageNoImage
	}

	if upstream != "" {
		return upstream
	}

	return MessageGeneral
}
