package errors

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (36 characters)
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// reduces an error to what a client may see (full text outside production)
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	return classifyError(err).sanitized
}

// analyzes an error and returns its category and sanitized message
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ErrorInfo{CategoryDatabase, ternary(isProduction, "database operation failed", err.Error())}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorInfo{CategoryNotFound, ternary(isProduction, "resource not found", err.Error())}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request timed out", err.Error())}
	}

	if errors.Is(err, context.Canceled) {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request canceled", err.Error())}
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request timed out", err.Error())}

	case strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no rows"):
		return ErrorInfo{CategoryNotFound, ternary(isProduction, "resource not found", err.Error())}

	case strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") ||
		strings.Contains(errMsg, "postgres") || strings.Contains(errMsg, "pgx") ||
		strings.Contains(errMsg, "redis"):
		return ErrorInfo{CategoryDatabase, ternary(isProduction, "database operation failed", err.Error())}

	case strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial"):
		return ErrorInfo{CategoryNetwork, ternary(isProduction, "connection error occurred", err.Error())}

	case strings.Contains(errMsg, "validation") || strings.Contains(errMsg, "binding") ||
		strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "required"):
		return ErrorInfo{CategoryValidation, ternary(isProduction, "validation failed", err.Error())}

	case strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "forbidden") ||
		strings.Contains(errMsg, "permission") || strings.Contains(errMsg, "auth"):
		return ErrorInfo{CategoryAuth, ternary(isProduction, "permission denied", err.Error())}
	}

	return ErrorInfo{CategoryUnknown, ternary(isProduction, "an error occurred", err.Error())}
}

// returns the category classifyError assigned
func Category(err error) string {
	return classifyError(err).category
}

func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}

// validates a UUID string format
func IsValidUUID(id string) bool {
	if id == "" {
		return false
	}

	return uuidRegex.MatchString(strings.ToLower(id))
}

// validates a UUID parameter from the request path
func ValidatePathUUID(c *gin.Context, paramName string) (string, bool) {
	id := c.Param(paramName)

	if id == "" {
		BadRequest(c, "missing "+paramName, nil)
		return "", false
	}

	if !IsValidUUID(id) {
		NotFound(c, "resource")
		return "", false
	}

	return id, true
}
