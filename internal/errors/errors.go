package errors

import (
	"net/http"
	"strings"

	"codeberg.org/archviz/studio/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. These handle both
//     logging (where needed) and the HTTP response.
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error.
//
// For WebSocket handlers:
//   - Use logger.ErrorErr() + client.SendError() + return err.
//
// For domain packages (users, quota, editor, llm):
//   - Return sentinel or wrapped errors with fmt.Errorf("context: %w", err).
//   - Let the handler decide how to log and respond.

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeForbidden,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 400 for binding and validation failures
func ValidationError(c *gin.Context, err error) {
	message := "validation failed"
	details := ""

	if err != nil {
		details = sanitizeError(err)
		if strings.Contains(err.Error(), "binding") || strings.Contains(err.Error(), "validation") {
			message = "request validation failed"
		}
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Details: details,
	})
}

// returns a 400 with a user-facing validation message
func ValidationMessage(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
	})
}

// returns a 500 and logs the underlying error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 409 conflict error
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}

	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   CodeConflict,
		Message: message,
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 400 bad request error for invalid operations
func InvalidOperation(c *gin.Context, message string) {
	if message == "" {
		message = "invalid operation"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeInvalidOperation,
		Message: message,
	})
}

// returns a 428 carrying the prompt the caller must confirm before retrying
func ConfirmationRequired(c *gin.Context, prompt string) {
	c.JSON(http.StatusPreconditionRequired, ErrorResponse{
		Error:   CodeConfirmationRequired,
		Message: prompt,
	})
}

// returns a 400 when no generator key is configured
func CredentialRequired(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeCredentialRequired,
		Message: "API key required. Please connect a Google API key.",
	})
}

// returns a 401 when the generator rejected the configured key
func CredentialInvalid(c *gin.Context, message string) {
	if message == "" {
		message = "API Key invalid or expired. Please check settings."
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeCredentialInvalid,
		Message: message,
	})
}

// returns a 403 when the local daily quota is used up
func QuotaReached(c *gin.Context, message string) {
	if message == "" {
		message = "Daily quota reached. Please try again tomorrow."
	}

	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeQuotaReached,
		Message: message,
	})
}

// returns a 502 when the upstream generator failed
func GenerationFailed(c *gin.Context, message string) {
	if message == "" {
		message = "Failed to generate image."
	}

	c.JSON(http.StatusBadGateway, ErrorResponse{
		Error:   CodeGenerationFailed,
		Message: message,
	})
}
