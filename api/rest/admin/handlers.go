package admin

import (
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"codeberg.org/archviz/studio/api/rest/pagination"
	"codeberg.org/archviz/studio/archviz/settings"
	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/errors"
	"codeberg.org/archviz/studio/internal/logger"
	"codeberg.org/archviz/studio/internal/quota"
	"github.com/gin-gonic/gin"
)

// ListUsers godoc
// @Summary List users
// @Description Newest first, filtered by a case-insensitive username match. Usage reads as zero unless it was recorded today.
// @Tags admin
// @Produce json
// @Param q query string false "Username filter"
// @Param limit query int false "Page size (default 200, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListUsersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/users [get]
// @Security BearerAuth
func ListUsers(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.Users.List(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list users", err)
			return
		}

		now := deps.Now()
		filtered := users.Filter(list, c.Query("q"))

		limit, _ := strconv.Atoi(c.Query("limit"))   //nolint:errcheck // zero falls back to default
		offset, _ := strconv.Atoi(c.Query("offset")) //nolint:errcheck // zero falls back to default
		params := pagination.DefaultParams(limit, offset, defaultPageSize, maxPageSize)

		page := pagination.Slice(filtered, params)
		rows := make([]UserRow, 0, len(page))

		for _, u := range page {
			rows = append(rows, newUserRow(u, now))
		}

		c.JSON(http.StatusOK, ListUsersResponse{
			Users:      rows,
			Stats:      users.ComputeStats(list, now),
			Pagination: pagination.NewMeta(params, len(filtered)),
		})
	}
}

// GetStats godoc
// @Summary User statistics
// @Tags admin
// @Produce json
// @Success 200 {object} users.Stats
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/stats [get]
// @Security BearerAuth
func GetStats(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.Users.List(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list users", err)
			return
		}

		c.JSON(http.StatusOK, users.ComputeStats(list, deps.Now()))
	}
}

// CreateUser godoc
// @Summary Create a user
// @Description Days defaults to 30. daily_quota wins over tier; both empty means 10.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body users.CreateRequest true "New user"
// @Success 201 {object} UserRow
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/v1/admin/users [post]
// @Security BearerAuth
func CreateUser(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req users.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		user, err := deps.Users.Create(c.Request.Context(), req)
		if err != nil {
			respondUserError(c, err, "failed to create user")
			return
		}

		logger.Info("user created", "user_id", user.ID, "username", user.Username)

		c.JSON(http.StatusCreated, newUserRow(*user, deps.Now()))
	}
}

// SetActive godoc
// @Summary Ban or activate a user
// @Description Without confirm the server answers 428 with the prompt to show.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body SetActiveRequest true "Target state"
// @Success 200 {object} UserRow
// @Failure 404 {object} errors.ErrorResponse
// @Failure 428 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/{id}/active [put]
// @Security BearerAuth
func SetActive(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req SetActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		target, ok := loadUser(c, deps, id)
		if !ok {
			return
		}

		if !req.Confirm {
			errors.ConfirmationRequired(c, activePrompt(target.Username, *req.Active))
			return
		}

		user, err := deps.Users.SetActive(c.Request.Context(), id, *req.Active)
		if err != nil {
			respondUserError(c, err, "failed to update user")
			return
		}

		logger.Info("user active state changed", "user_id", id, "active", *req.Active)

		c.JSON(http.StatusOK, newUserRow(*user, deps.Now()))
	}
}

// ResetPassword godoc
// @Summary Reset a user's password
// @Description An empty password generates a fresh one, returned once in the response.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} ResetPasswordResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 428 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/{id}/password [put]
// @Security BearerAuth
func ResetPassword(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		target, ok := loadUser(c, deps, id)
		if !ok {
			return
		}

		if !req.Confirm {
			errors.ConfirmationRequired(c, fmt.Sprintf("Are you sure you want to reset the password of user %q?", target.Username))
			return
		}

		password := req.Password
		if password == "" {
			generated, err := generatePassword()
			if err != nil {
				errors.InternalError(c, "failed to generate password", err)
				return
			}

			password = generated
		}

		user, err := deps.Users.ResetPassword(c.Request.Context(), id, password)
		if err != nil {
			respondUserError(c, err, "failed to reset password")
			return
		}

		logger.Info("user password reset", "user_id", id)

		c.JSON(http.StatusOK, ResetPasswordResponse{
			User:     newUserRow(*user, deps.Now()),
			Password: password,
		})
	}
}

// UpdateQuota godoc
// @Summary Change a user's daily quota
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateQuotaRequest true "New quota"
// @Success 200 {object} UserRow
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/{id}/quota [put]
// @Security BearerAuth
func UpdateQuota(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req UpdateQuotaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		user, err := deps.Users.UpdateQuota(c.Request.Context(), id, req.DailyQuota)
		if err != nil {
			respondUserError(c, err, "failed to update quota")
			return
		}

		c.JSON(http.StatusOK, newUserRow(*user, deps.Now()))
	}
}

// DeleteUser godoc
// @Summary Permanently delete a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Param confirm query bool false "Must be true"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 428 {object} errors.ErrorResponse
// @Router /api/v1/admin/users/{id} [delete]
// @Security BearerAuth
func DeleteUser(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		target, ok := loadUser(c, deps, id)
		if !ok {
			return
		}

		if c.Query("confirm") != "true" {
			errors.ConfirmationRequired(c, fmt.Sprintf("DANGER: Are you sure you want to PERMANENTLY DELETE user %q? This action cannot be undone.", target.Username))
			return
		}

		if err := deps.Users.Delete(c.Request.Context(), id); err != nil {
			respondUserError(c, err, "failed to delete user")
			return
		}

		logger.Info("user deleted", "user_id", id, "username", target.Username)

		c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
	}
}

// GetAPIKey godoc
// @Summary Show the operator API key
// @Tags admin
// @Produce json
// @Success 200 {object} APIKeyResponse
// @Router /api/v1/admin/settings/api-key [get]
// @Security BearerAuth
func GetAPIKey(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := deps.Settings.Get(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to load settings", err)
			return
		}

		c.JSON(http.StatusOK, apiKeyResponse(s))
	}
}

// SetAPIKey godoc
// @Summary Replace the operator API key
// @Tags admin
// @Accept json
// @Produce json
// @Param request body APIKeyRequest true "Key"
// @Success 200 {object} APIKeyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/settings/api-key [put]
// @Security BearerAuth
func SetAPIKey(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req APIKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		s, err := deps.Settings.SetAPIKey(c.Request.Context(), req.APIKey)
		if err != nil {
			errors.InternalError(c, "failed to save api key", err)
			return
		}

		if deps.Keys != nil {
			deps.Keys.OperatorKeySaved()
		}

		logger.Info("operator api key replaced")

		c.JSON(http.StatusOK, apiKeyResponse(s))
	}
}

// ClearAPIKey godoc
// @Summary Remove the operator API key
// @Tags admin
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/admin/settings/api-key [delete]
// @Security BearerAuth
func ClearAPIKey(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Settings.ClearAPIKey(c.Request.Context()); err != nil {
			errors.InternalError(c, "failed to clear api key", err)
			return
		}

		logger.Info("operator api key removed")

		c.JSON(http.StatusOK, MessageResponse{Message: "api key removed"})
	}
}

func loadUser(c *gin.Context, deps Deps, id string) (*users.User, bool) {
	user, err := deps.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, err, "failed to load user")
		return nil, false
	}

	return user, true
}

func respondUserError(c *gin.Context, err error, message string) {
	switch {
	case stderrors.Is(err, users.ErrNotFound):
		errors.NotFound(c, "user")
	case stderrors.Is(err, users.ErrUsernameTaken):
		errors.Conflict(c, "username already exists")
	case stderrors.Is(err, users.ErrUsernameRequired),
		stderrors.Is(err, users.ErrPasswordTooShort),
		stderrors.Is(err, users.ErrPasswordUnchanged),
		stderrors.Is(err, users.ErrInvalidDays),
		stderrors.Is(err, users.ErrInvalidQuota),
		stderrors.Is(err, users.ErrUnknownTier):
		errors.ValidationMessage(c, err.Error())
	default:
		errors.InternalError(c, message, err)
	}
}

func activePrompt(username string, active bool) string {
	verb := "BAN"
	if active {
		verb = "ACTIVATE"
	}

	return fmt.Sprintf("Are you sure you want to %s user %q?", verb, username)
}

func newUserRow(u users.User, now time.Time) UserRow {
	view := quota.Reconcile(u, users.Today(now))

	return UserRow{
		User:         u,
		DisplayUsage: view.Usage,
		UsagePercent: view.UsagePercent,
		Status:       users.Status(u, now),
	}
}

func apiKeyResponse(s *settings.Settings) APIKeyResponse {
	if s == nil || s.APIKey == "" {
		return APIKeyResponse{}
	}

	updated := s.UpdatedAt

	return APIKeyResponse{
		Configured: true,
		Masked:     settings.Mask(s.APIKey),
		UpdatedAt:  &updated,
	}
}

func generatePassword() (string, error) {
	buf := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
